package academy

import (
	"apex/apperr"
	"apex/models/course"
	"context"
	"errors"

	"gorm.io/gorm"
)

// CourseDetail is a published course with its ordered lessons and, when one
// is active, a summary of its final exam.
type CourseDetail struct {
	*course.Course
	Lessons []course.Lesson `json:"lessons"`
	Exam    *ExamSummary    `json:"exam,omitempty"`
}

type ExamSummary struct {
	Title           string `json:"title"`
	QuestionCount   int    `json:"question_count"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Courses lists published courses, optionally filtered by category.
func (s *Service) Courses(ctx context.Context, category string) ([]course.Course, error) {
	q := s.db.WithContext(ctx).Where("is_published = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var courses []course.Course
	if err := q.Order("id asc").Find(&courses).Error; err != nil {
		return nil, apperr.Internal(err, "list courses")
	}
	return courses, nil
}

func (s *Service) Course(ctx context.Context, id uint) (*CourseDetail, error) {
	db := s.db.WithContext(ctx)

	var crs course.Course
	if err := db.Where("id = ? AND is_published = ?", id, true).First(&crs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Course not found!")
		}
		return nil, apperr.Internal(err, "load course")
	}

	detail := &CourseDetail{Course: &crs}
	if err := db.Where("course_id = ?", id).Order("order_index asc, id asc").Find(&detail.Lessons).Error; err != nil {
		return nil, apperr.Internal(err, "list lessons")
	}

	exam, err := activeExam(db, id)
	if err != nil {
		return nil, err
	}
	if exam != nil {
		detail.Exam = &ExamSummary{Title: exam.Title, QuestionCount: len(exam.Questions), DurationMinutes: exam.DurationMinutes}
	}
	return detail, nil
}
