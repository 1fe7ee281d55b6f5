package academy

import (
	"apex/internal/testdb"
	"apex/models"
	"apex/models/course"
	"apex/services/email"
	"apex/services/storage"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.Message
}

func (m *recordingMailer) Send(msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		out = append(out, msg.Subject)
	}
	return out
}

func testOptions() Options {
	return Options{
		CertificatePrefix:        "APEX",
		CertificateValidityYears: 2,
		PassingScore:             70,
		RequiredProgress:         80,
		MaxAttempts:              3,
		DefaultTotalLessons:      10,
	}
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *recordingMailer) {
	t.Helper()
	db := testdb.New(t)
	mailer := &recordingMailer{}
	svc := NewService(db, testOptions(), storage.NewLocal(t.TempDir()), mailer)
	svc.SetClock(func() time.Time { return fixedNow })
	return svc, db, mailer
}

func createUser(t *testing.T, db *gorm.DB, name string) models.Identity {
	t.Helper()
	u := models.User{Name: name, Email: fmt.Sprintf("%s@example.com", name)}
	require.NoError(t, db.Create(&u).Error)
	return models.Identity{UserID: u.ID}
}

func createCourse(t *testing.T, db *gorm.DB, totalLessons int) course.Course {
	t.Helper()
	c := course.Course{Title: "Go for Backend Engineers", Duration: 20, TotalLessons: totalLessons, IsPublished: true}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func createExam(t *testing.T, db *gorm.DB, courseID uint) course.Exam {
	t.Helper()
	exam := course.Exam{
		CourseID:        courseID,
		Title:           "Final",
		DurationMinutes: 60,
		IsActive:        true,
		Questions: []course.ExamQuestion{
			{ID: 1, Question: "2+2?", Type: "multiple_choice", Options: []string{"3", "4"}, CorrectAnswer: "4", Points: 1},
			{ID: 2, Question: "Capital of Kenya?", Type: "multiple_choice", Options: []string{"Nairobi", "Mombasa"}, CorrectAnswer: "Nairobi", Points: 1},
			{ID: 3, Question: "Explain goroutines.", Type: "short_answer", Points: 5},
		},
	}
	require.NoError(t, db.Create(&exam).Error)
	return exam
}

func ptr[T any](v T) *T { return &v }
