package academy

import (
	"apex/apperr"
	"apex/models"
	"apex/models/course"
	"apex/services/email"
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"
)

type ProgressInput struct {
	Percentage      float64
	Hours           *float64
	LessonCompleted string
	Notes           string
}

type LessonInput struct {
	LessonID        string
	LessonTitle     string
	DurationMinutes float64
}

func (in ProgressInput) validate() error {
	fields := map[string]string{}
	if in.Percentage < 0 || in.Percentage > 100 || math.IsNaN(in.Percentage) {
		fields["progress_percentage"] = "Progress must be between 0 and 100"
	}
	if in.Hours != nil && *in.Hours < 0 {
		fields["progress_hours"] = "Hours cannot be negative"
	}
	if len(in.Notes) > 500 {
		fields["notes"] = "Notes may not exceed 500 characters"
	}
	if len(fields) > 0 {
		return apperr.Invalid("Validation failed!", fields)
	}
	return nil
}

func (in LessonInput) validate() error {
	fields := map[string]string{}
	if in.LessonID == "" {
		fields["lesson_id"] = "Lesson ID is required"
	}
	if in.LessonTitle == "" {
		fields["lesson_title"] = "Lesson title is required"
	}
	if in.DurationMinutes < 0 {
		fields["duration_minutes"] = "Duration cannot be negative"
	}
	if len(fields) > 0 {
		return apperr.Invalid("Validation failed!", fields)
	}
	return nil
}

// completion carries what must happen after the transaction commits.
type completion struct {
	cert    *course.Certificate
	created bool
}

// RecordProgress sets the enrollment's progress. A percentage below the
// stored one is rejected.
func (s *Service) RecordProgress(ctx context.Context, who models.Identity, id uint, in ProgressInput) (*course.Enrollment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	pct := round2(in.Percentage)

	var (
		e    *course.Enrollment
		done completion
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = lockEnrollment(tx, id); err != nil {
			return err
		}
		if e.UserID != who.UserID {
			return apperr.New(apperr.Forbidden, "You can only update your own enrollment!")
		}
		if e.Status == course.EnrollmentCancelled {
			return apperr.New(apperr.InvalidState, "Enrollment has been cancelled")
		}
		if pct < e.ProgressPercentage {
			return apperr.Invalid("Progress cannot decrease", map[string]string{
				"progress_percentage": fmt.Sprintf("Progress is already %.2f%%", e.ProgressPercentage),
			})
		}

		now := s.now()
		increased := pct > e.ProgressPercentage
		e.ProgressPercentage = pct
		if in.Hours != nil {
			e.ProgressHours = round2(*in.Hours)
		}
		if in.LessonCompleted != "" {
			e.LastLessonCompleted = in.LessonCompleted
		}
		e.LastAccessedAt = &now

		if pct >= 100 && !e.IsCompleted() {
			if done, err = s.complete(tx, e, e.ProgressPercentage, now); err != nil {
				return err
			}
		}
		if err := saveEnrollment(tx, e); err != nil {
			return err
		}
		if increased {
			return appendProgress(tx, e, ledgerEntry{LessonTitle: in.LessonCompleted, Notes: in.Notes}, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCompletion(ctx, e, done)
	return e, nil
}

// CompleteLesson adds a lesson to the completed set, accrues its duration
// and recomputes the percentage from the set size.
func (s *Service) CompleteLesson(ctx context.Context, who models.Identity, id uint, in LessonInput) (*course.Enrollment, float64, error) {
	if err := in.validate(); err != nil {
		return nil, 0, err
	}

	var (
		e    *course.Enrollment
		done completion
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = lockEnrollment(tx, id); err != nil {
			return err
		}
		if e.UserID != who.UserID {
			return apperr.New(apperr.Forbidden, "You can only update your own enrollment!")
		}
		if e.Status == course.EnrollmentCancelled {
			return apperr.New(apperr.InvalidState, "Enrollment has been cancelled")
		}

		crs, err := loadCourse(tx, e.CourseID)
		if err != nil {
			return err
		}
		e.Course = crs
		total, err := s.totalLessons(tx, crs)
		if err != nil {
			return err
		}

		now := s.now()
		e.AddLesson(in.LessonID)
		pct := round2(math.Min(100, float64(len(e.CompletedLessonIDs))/float64(total)*100))
		// a lowered lesson count in the catalog must not push progress back
		pct = math.Max(pct, e.ProgressPercentage)
		increased := pct > e.ProgressPercentage

		e.ProgressPercentage = pct
		e.ProgressHours = round2(e.ProgressHours + in.DurationMinutes/60)
		e.LastLessonCompleted = in.LessonTitle
		e.LastAccessedAt = &now

		if pct >= 100 && !e.IsCompleted() {
			if done, err = s.complete(tx, e, pct, now); err != nil {
				return err
			}
		}
		if err := saveEnrollment(tx, e); err != nil {
			return err
		}
		if increased {
			return appendProgress(tx, e, ledgerEntry{
				LessonID:    in.LessonID,
				LessonTitle: in.LessonTitle,
				Notes:       "Lesson completed",
			}, now)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.afterCompletion(ctx, e, done)
	return e, e.ProgressPercentage, nil
}

// complete transitions e to completed and issues its certificate. The
// caller saves e.
func (s *Service) complete(tx *gorm.DB, e *course.Enrollment, finalScore float64, at time.Time) (completion, error) {
	e.Status = course.EnrollmentCompleted
	e.CompletedAt = &at

	cert, created, err := s.issueOrGet(tx, e, finalScore)
	if err != nil {
		return completion{}, err
	}
	if e.CertificateNumber == nil {
		number := cert.CertificateNumber
		e.CertificateNumber = &number
	}
	return completion{cert: cert, created: created}, nil
}

func (s *Service) afterCompletion(ctx context.Context, e *course.Enrollment, done completion) {
	if !done.created {
		return
	}
	log.Printf("[CERTIFICATE] Issued %s for enrollment %d", done.cert.CertificateNumber, e.ID)

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, e.UserID).Error; err != nil {
		log.Printf("[CERTIFICATE] Could not load user %d for notification: %v", e.UserID, err)
		return
	}
	title := ""
	if e.Course != nil {
		title = e.Course.Title
	}
	email.SendAsync(s.mailer, email.CertificateIssued(user.Email, user.Name, title, done.cert.CertificateNumber, done.cert.Grade))
}

// totalLessons prefers the course's declared count, then the catalog's
// lesson rows, then the configured default.
func (s *Service) totalLessons(tx *gorm.DB, crs *course.Course) (int, error) {
	if crs.TotalLessons > 0 {
		return crs.TotalLessons, nil
	}
	var n int64
	if err := tx.Model(&course.Lesson{}).Where("course_id = ?", crs.ID).Count(&n).Error; err != nil {
		return 0, apperr.Internal(err, "count lessons")
	}
	if n > 0 {
		return int(n), nil
	}
	if s.opts.DefaultTotalLessons > 0 {
		return s.opts.DefaultTotalLessons, nil
	}
	return 10, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
