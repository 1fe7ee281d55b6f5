package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Instructor   string  `json:"instructor"`
	Category     string  `json:"category" gorm:"index"`
	Level        string  `json:"level" gorm:"default:'beginner'"`
	Price        float64 `json:"price" gorm:"type:decimal(10,2);default:0"`
	Duration     int64   `json:"duration" gorm:"default:0"` // duration in hours
	TotalLessons int     `json:"total_lessons" gorm:"default:0"`
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
}

// Lesson is a unit of a course, ordered by OrderIndex
type Lesson struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	VideoURL        string `json:"video_url"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"`
	IsPreview       bool   `json:"is_preview" gorm:"default:false"`
}
