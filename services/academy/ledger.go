package academy

import (
	"apex/apperr"
	"apex/models/course"
	"time"

	"gorm.io/gorm"
)

// ledgerEntry is what a progress change records in the audit trail.
type ledgerEntry struct {
	LessonID    string
	LessonTitle string
	Notes       string
}

// appendProgress writes an audit entry snapshotting e. Entries are never
// updated or read back to derive progress.
func appendProgress(tx *gorm.DB, e *course.Enrollment, entry ledgerEntry, at time.Time) error {
	update := course.ProgressUpdate{
		EnrollmentID:       e.ID,
		ProgressPercentage: e.ProgressPercentage,
		ProgressHours:      e.ProgressHours,
		LessonID:           entry.LessonID,
		LessonCompleted:    entry.LessonTitle,
		Notes:              entry.Notes,
		CreatedAt:          at,
	}
	if err := tx.Create(&update).Error; err != nil {
		return apperr.Internal(err, "append progress update")
	}
	return nil
}
