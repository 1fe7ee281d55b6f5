package course

import (
	"slices"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment tracks a user's enrollment in a course with progress.
// CompletedAt is non-nil exactly when Status is completed.
type Enrollment struct {
	gorm.Model
	UserID              uint                        `json:"user_id" gorm:"index:idx_enrollment_user_course;not null"`
	CourseID            uint                        `json:"course_id" gorm:"index:idx_enrollment_user_course;not null"`
	Status              EnrollmentStatus            `json:"status" gorm:"type:varchar(20);default:'active';index"`
	ProgressPercentage  float64                     `json:"progress_percentage" gorm:"type:decimal(5,2);default:0"`
	ProgressHours       float64                     `json:"progress_hours" gorm:"type:decimal(8,2);default:0"`
	EnrolledAt          time.Time                   `json:"enrolled_at"`
	CompletedAt         *time.Time                  `json:"completed_at"`
	CancelledAt         *time.Time                  `json:"cancelled_at"`
	LastAccessedAt      *time.Time                  `json:"last_accessed_at"`
	LastLessonCompleted string                      `json:"last_lesson_completed"`
	CompletedLessonIDs  datatypes.JSONSlice[string] `json:"completed_lesson_ids" gorm:"column:completed_lesson_ids"`
	ExamAttempts        int                         `json:"exam_attempts" gorm:"default:0"`
	ExamScore           *float64                    `json:"exam_score"`
	CertificateNumber   *string                     `json:"certificate_number" gorm:"type:varchar(40);uniqueIndex"`

	Course          *Course          `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	ProgressUpdates []ProgressUpdate `json:"progress_updates,omitempty" gorm:"foreignKey:EnrollmentID"`
}

// HasLesson reports whether lessonID is already in the completed set.
func (e *Enrollment) HasLesson(lessonID string) bool {
	return slices.Contains(e.CompletedLessonIDs, lessonID)
}

// AddLesson inserts lessonID into the completed set and reports whether the
// set changed.
func (e *Enrollment) AddLesson(lessonID string) bool {
	if e.HasLesson(lessonID) {
		return false
	}
	e.CompletedLessonIDs = append(e.CompletedLessonIDs, lessonID)
	return true
}

func (e *Enrollment) IsCompleted() bool { return e.Status == EnrollmentCompleted }

// ProgressUpdate is an append-only audit entry written when an enrollment's
// progress increases.
type ProgressUpdate struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	EnrollmentID       uint      `json:"enrollment_id" gorm:"index;not null"`
	ProgressPercentage float64   `json:"progress_percentage" gorm:"type:decimal(5,2)"`
	ProgressHours      float64   `json:"progress_hours" gorm:"type:decimal(8,2);default:0"`
	LessonID           string    `json:"lesson_id,omitempty"`
	LessonCompleted    string    `json:"lesson_completed,omitempty"`
	Notes              string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt          time.Time `json:"created_at"`
}
