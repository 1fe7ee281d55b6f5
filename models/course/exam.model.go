package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ExamQuestion is one question of a course's final exam
type ExamQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Type          string   `json:"type"` // multiple_choice, short_answer
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Points        int      `json:"points"`
}

// Exam is the final exam of a course. Zero thresholds fall back to the
// configured defaults.
type Exam struct {
	gorm.Model
	CourseID         uint                              `json:"course_id" gorm:"uniqueIndex;not null"`
	Title            string                            `json:"title"`
	Instructions     string                            `json:"instructions" gorm:"type:text"`
	Questions        datatypes.JSONSlice[ExamQuestion] `json:"questions"`
	DurationMinutes  int                               `json:"duration_minutes" gorm:"default:60"`
	PassingScore     float64                           `json:"passing_score" gorm:"default:0"`
	RequiredProgress float64                           `json:"required_progress" gorm:"default:0"`
	MaxAttempts      int                               `json:"max_attempts" gorm:"default:0"`
	IsActive         bool                              `json:"is_active" gorm:"default:false"`
}
