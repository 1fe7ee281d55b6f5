package academy

import (
	"apex/apperr"
	"apex/models"
	"apex/models/course"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	numberAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	numberSuffixLen   = 8
	maxNumberAttempts = 5
)

func (s *Service) randomCertificateNumber() (string, error) {
	suffix := make([]byte, numberSuffixLen)
	limit := big.NewInt(int64(len(numberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		suffix[i] = numberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%04d-%s", s.opts.CertificatePrefix, s.now().Year(), suffix), nil
}

// issueOrGet returns the enrollment's certificate, creating it on first call.
// tx must hold the enrollment's row lock.
func (s *Service) issueOrGet(tx *gorm.DB, e *course.Enrollment, finalScore float64) (*course.Certificate, bool, error) {
	var existing course.Certificate
	err := tx.Where("enrollment_id = ?", e.ID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.Internal(err, "find certificate")
	}

	if e.Course == nil {
		crs, err := loadCourse(tx, e.CourseID)
		if err != nil {
			return nil, false, err
		}
		e.Course = crs
	}

	issued := s.now()
	completedAt := issued
	if e.CompletedAt != nil {
		completedAt = *e.CompletedAt
	}
	var examScore *float64
	if e.ExamScore != nil {
		v := *e.ExamScore
		examScore = &v
	}

	cert := course.Certificate{
		UserID:       e.UserID,
		CourseID:     e.CourseID,
		EnrollmentID: e.ID,
		IssueDate:    issued,
		ExpiryDate:   issued.AddDate(s.opts.CertificateValidityYears, 0, 0),
		Grade:        Grade(finalScore),
		Metadata: datatypes.NewJSONType(course.CertificateMetadata{
			CompletionDate: completedAt,
			CourseDuration: e.Course.Duration,
			FinalScore:     examScore,
		}),
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := s.numbers()
		if err != nil {
			return nil, false, apperr.Internal(err, "generate certificate number")
		}

		var taken int64
		if err := tx.Unscoped().Model(&course.Certificate{}).Where("certificate_number = ?", number).Count(&taken).Error; err != nil {
			return nil, false, apperr.Internal(err, "check certificate number")
		}
		if taken > 0 {
			log.Printf("[CERTIFICATE] Number %s already taken, regenerating", number)
			continue
		}

		// the unique index still arbitrates races between concurrent issuers
		cert.CertificateNumber = number
		if err := tx.SavePoint("issue_certificate").Error; err != nil {
			return nil, false, apperr.Internal(err, "savepoint")
		}
		if err := tx.Create(&cert).Error; err != nil {
			if isDuplicateKey(err) {
				log.Printf("[CERTIFICATE] Number %s collided on insert, regenerating", number)
				if err := tx.RollbackTo("issue_certificate").Error; err != nil {
					return nil, false, apperr.Internal(err, "rollback to savepoint")
				}
				cert.ID = 0
				continue
			}
			return nil, false, apperr.Internal(err, "create certificate")
		}
		return &cert, true, nil
	}
	return nil, false, apperr.Internal(errors.New("certificate number space exhausted"), "issue certificate")
}

// gradeBasis is the score a completed enrollment is graded on: the exam
// score when the exam was passed, otherwise the progress percentage.
func (s *Service) gradeBasis(e *course.Enrollment) float64 {
	if e.ExamScore != nil && *e.ExamScore >= s.opts.PassingScore {
		return *e.ExamScore
	}
	return e.ProgressPercentage
}

// IssueOrGet returns the certificate of a completed enrollment owned by the
// caller, issuing it if needed. Calling it again returns the same
// certificate.
func (s *Service) IssueOrGet(ctx context.Context, who models.Identity, enrollmentID uint) (*course.Certificate, error) {
	var (
		e    *course.Enrollment
		done completion
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = lockEnrollment(tx, enrollmentID); err != nil {
			return err
		}
		if e.UserID != who.UserID {
			return apperr.New(apperr.NotFound, "Enrollment not found!")
		}
		if !e.IsCompleted() {
			return apperr.New(apperr.InvalidState, "Course not completed")
		}

		cert, created, err := s.issueOrGet(tx, e, s.gradeBasis(e))
		if err != nil {
			return err
		}
		done = completion{cert: cert, created: created}
		if e.CertificateNumber == nil {
			number := cert.CertificateNumber
			e.CertificateNumber = &number
			return saveEnrollment(tx, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCompletion(ctx, e, done)
	return done.cert, nil
}

// Download returns the certificate document, rendering and storing it the
// first time. Only the certificate's owner may download it.
func (s *Service) Download(ctx context.Context, who models.Identity, number string) (*course.Certificate, []byte, error) {
	db := s.db.WithContext(ctx)

	var cert course.Certificate
	err := db.Preload("Course").
		Where("certificate_number = ? AND user_id = ?", number, who.UserID).
		First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.NotFound, "Certificate not found!")
		}
		return nil, nil, apperr.Internal(err, "load certificate")
	}

	if s.docs.Exists(cert.DocumentPath) {
		data, err := s.docs.Load(cert.DocumentPath)
		if err == nil && len(data) > 0 {
			return &cert, data, nil
		}
		log.Printf("[CERTIFICATE] Stored document for %s unreadable, re-rendering: %v", cert.CertificateNumber, err)
	}

	var user models.User
	if err := db.First(&user, cert.UserID).Error; err != nil {
		return nil, nil, apperr.Internal(err, "load certificate owner")
	}
	if cert.Course == nil {
		crs, err := loadCourse(db, cert.CourseID)
		if err != nil {
			return nil, nil, err
		}
		cert.Course = crs
	}

	data, err := Render(&cert, &user, cert.Course)
	if err != nil {
		return nil, nil, apperr.Internal(err, "render certificate")
	}
	path, err := s.docs.Save(fmt.Sprintf("certificates/%s.pdf", cert.CertificateNumber), data)
	if err != nil {
		return nil, nil, apperr.Internal(err, "store certificate")
	}
	if err := db.Model(&cert).Update("document_path", path).Error; err != nil {
		return nil, nil, apperr.Internal(err, "record certificate path")
	}
	cert.DocumentPath = path
	return &cert, data, nil
}

// DownloadForEnrollment issues the certificate if needed and returns its
// document.
func (s *Service) DownloadForEnrollment(ctx context.Context, who models.Identity, enrollmentID uint) (*course.Certificate, []byte, error) {
	cert, err := s.IssueOrGet(ctx, who, enrollmentID)
	if err != nil {
		return nil, nil, err
	}
	return s.Download(ctx, who, cert.CertificateNumber)
}

// Certificates lists the user's certificates, newest first.
func (s *Service) Certificates(ctx context.Context, userID uint) ([]course.Certificate, error) {
	var certs []course.Certificate
	if err := s.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issue_date desc, id desc").
		Find(&certs).Error; err != nil {
		return nil, apperr.Internal(err, "list certificates")
	}
	return certs, nil
}
