package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CertificateMetadata is the fixed record stored alongside a certificate
type CertificateMetadata struct {
	CompletionDate time.Time `json:"completion_date"`
	CourseDuration int64     `json:"course_duration"` // hours
	FinalScore     *float64  `json:"final_score"`
}

// Certificate represents an issued certificate for course completion
type Certificate struct {
	gorm.Model
	UserID            uint                                    `json:"user_id" gorm:"index;not null"`
	CourseID          uint                                    `json:"course_id" gorm:"index;not null"`
	EnrollmentID      uint                                    `json:"enrollment_id" gorm:"uniqueIndex;not null"`
	CertificateNumber string                                  `json:"certificate_number" gorm:"type:varchar(40);uniqueIndex;not null"`
	IssueDate         time.Time                               `json:"issue_date"`
	ExpiryDate        time.Time                               `json:"expiry_date"`
	Grade             string                                  `json:"grade" gorm:"type:varchar(4)"`
	Metadata          datatypes.JSONType[CertificateMetadata] `json:"metadata"`
	DocumentPath      string                                  `json:"-"`
	ReminderSent      bool                                    `json:"-" gorm:"default:false"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
