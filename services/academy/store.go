package academy

import (
	"apex/apperr"
	"apex/models"
	"apex/models/course"
	"apex/services/email"
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnrollmentDetail is an enrollment with its certificate once completed.
type EnrollmentDetail struct {
	*course.Enrollment
	Certificate *course.Certificate `json:"certificate,omitempty"`
}

type EnrollmentSummary struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"in_progress"`
	Pending    int64 `json:"pending"`
}

type EnrollmentPage struct {
	Enrollments []course.Enrollment `json:"enrollments"`
	Pagination  Pagination          `json:"pagination"`
	Summary     *EnrollmentSummary  `json:"summary,omitempty"`
}

// Enroll returns the caller's active or completed enrollment in the course,
// creating one when none exists. created reports which case happened.
func (s *Service) Enroll(ctx context.Context, who models.Identity, courseID uint) (*course.Enrollment, bool, error) {
	var (
		enrollment course.Enrollment
		user       models.User
		crs        course.Course
		created    bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the user row serializes concurrent enrollments of the same user
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, who.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.Unauthorized, "User not found!")
			}
			return apperr.Internal(err, "load user")
		}

		if err := tx.Where("id = ? AND is_published = ?", courseID, true).First(&crs).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Course not found or not published!")
			}
			return apperr.Internal(err, "load course")
		}

		err := tx.Where("user_id = ? AND course_id = ? AND status IN ?", who.UserID, courseID,
			[]string{string(course.EnrollmentActive), string(course.EnrollmentCompleted)}).
			Order("id desc").
			First(&enrollment).Error
		if err == nil {
			enrollment.Course = &crs
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal(err, "find enrollment")
		}

		now := s.now()
		enrollment = course.Enrollment{
			UserID:             who.UserID,
			CourseID:           courseID,
			Status:             course.EnrollmentActive,
			EnrolledAt:         now,
			CompletedLessonIDs: datatypes.JSONSlice[string]{},
		}
		if err := tx.Omit(clause.Associations).Create(&enrollment).Error; err != nil {
			return apperr.Internal(err, "create enrollment")
		}
		enrollment.Course = &crs
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		email.SendAsync(s.mailer, email.EnrollmentConfirmation(user.Email, user.Name, crs.Title))
	}
	return &enrollment, created, nil
}

// Get returns an enrollment the caller owns, or any enrollment for admins.
func (s *Service) Get(ctx context.Context, who models.Identity, id uint) (*EnrollmentDetail, error) {
	db := s.db.WithContext(ctx)

	var e course.Enrollment
	err := db.Preload("Course").
		Preload("ProgressUpdates", func(db *gorm.DB) *gorm.DB { return db.Order("id desc") }).
		First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Enrollment not found!")
		}
		return nil, apperr.Internal(err, "load enrollment")
	}
	if !who.CanAccess(e.UserID) {
		return nil, apperr.New(apperr.Forbidden, "You are not allowed to view this enrollment!")
	}

	detail := &EnrollmentDetail{Enrollment: &e}
	if e.IsCompleted() {
		var cert course.Certificate
		err := db.Where("enrollment_id = ?", e.ID).First(&cert).Error
		switch {
		case err == nil:
			detail.Certificate = &cert
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperr.Internal(err, "load certificate")
		}
	}
	return detail, nil
}

// Cancel moves an active enrollment to cancelled.
func (s *Service) Cancel(ctx context.Context, who models.Identity, id uint) (*course.Enrollment, error) {
	var e *course.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = lockEnrollment(tx, id); err != nil {
			return err
		}
		if !who.CanAccess(e.UserID) {
			return apperr.New(apperr.Forbidden, "You are not allowed to cancel this enrollment!")
		}
		if e.Status != course.EnrollmentActive {
			return apperr.New(apperr.InvalidState, "Only active enrollments can be cancelled")
		}

		now := s.now()
		e.Status = course.EnrollmentCancelled
		e.CancelledAt = &now
		return saveEnrollment(tx, e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListForUser pages through the user's enrollments, newest first, with
// status counts computed at read time.
func (s *Service) ListForUser(ctx context.Context, userID uint, page int) (*EnrollmentPage, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&course.Enrollment{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperr.Internal(err, "count enrollments")
	}

	var enrollments []course.Enrollment
	if err := db.Where("user_id = ?", userID).
		Preload("Course").
		Order("created_at desc, id desc").
		Offset(offset(page, userPageSize)).
		Limit(userPageSize).
		Find(&enrollments).Error; err != nil {
		return nil, apperr.Internal(err, "list enrollments")
	}

	summary, err := s.summary(db, userID)
	if err != nil {
		return nil, err
	}

	return &EnrollmentPage{
		Enrollments: enrollments,
		Pagination:  newPagination(max(page, 1), userPageSize, total),
		Summary:     summary,
	}, nil
}

// ListAll returns every enrollment to admins and the caller's own otherwise.
func (s *Service) ListAll(ctx context.Context, who models.Identity, page int) (*EnrollmentPage, error) {
	q := s.db.WithContext(ctx).Model(&course.Enrollment{})
	if !who.IsAdmin {
		q = q.Where("user_id = ?", who.UserID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperr.Internal(err, "count enrollments")
	}

	var enrollments []course.Enrollment
	if err := q.Session(&gorm.Session{}).
		Preload("Course").
		Order("created_at desc, id desc").
		Offset(offset(page, adminPageSize)).
		Limit(adminPageSize).
		Find(&enrollments).Error; err != nil {
		return nil, apperr.Internal(err, "list enrollments")
	}

	return &EnrollmentPage{
		Enrollments: enrollments,
		Pagination:  newPagination(max(page, 1), adminPageSize, total),
	}, nil
}

func (s *Service) summary(db *gorm.DB, userID uint) (*EnrollmentSummary, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&course.Enrollment{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Internal(err, "summarize enrollments")
	}

	sum := &EnrollmentSummary{}
	for _, r := range rows {
		sum.Total += r.Count
		switch course.EnrollmentStatus(r.Status) {
		case course.EnrollmentCompleted:
			sum.Completed = r.Count
		case course.EnrollmentActive:
			sum.InProgress = r.Count
		case "pending":
			sum.Pending = r.Count
		}
	}
	return sum, nil
}
