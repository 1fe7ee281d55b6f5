package academy

import (
	"apex/apperr"
	"apex/models/course"
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var certificateNumberPattern = regexp.MustCompile(`^APEX-2026-[A-Z0-9]{8}$`)

func TestRecordProgressValidatesInput(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "mary")
	crs := createCourse(t, db, 10)
	e, _, err := svc.Enroll(ctx, user, crs.ID)
	require.NoError(t, err)

	_, err = svc.RecordProgress(ctx, user, e.ID, ProgressInput{Percentage: 101})
	assert.True(t, apperr.Is(err, apperr.ValidationFailed))

	_, err = svc.RecordProgress(ctx, user, e.ID, ProgressInput{Percentage: 10, Hours: ptr(-1.0)})
	assert.True(t, apperr.Is(err, apperr.ValidationFailed))
}

func TestRecordProgressOwnerOnly(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	owner := createUser(t, db, "nia")
	other := createUser(t, db, "omar")
	crs := createCourse(t, db, 10)
	e, _, err := svc.Enroll(ctx, owner, crs.ID)
	require.NoError(t, err)

	_, err = svc.RecordProgress(ctx, other, e.ID, ProgressInput{Percentage: 20})
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestRecordProgressIsMonotonic(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "peter")
	crs := createCourse(t, db, 10)
	e, _, err := svc.Enroll(ctx, user, crs.ID)
	require.NoError(t, err)

	updated, err := svc.RecordProgress(ctx, user, e.ID, ProgressInput{Percentage: 40, Hours: ptr(3.5), LessonCompleted: "Intro", Notes: "good start"})
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.ProgressPercentage)
	assert.Equal(t, 3.5, updated.ProgressHours)
	assert.Equal(t, "Intro", updated.LastLessonCompleted)
	require.NotNil(t, updated.LastAccessedAt)

	_, err = svc.RecordProgress(ctx, user, e.ID, ProgressInput{Percentage: 30})
	assert.True(t, apperr.Is(err, apperr.ValidationFailed))

	var stored course.Enrollment
	require.NoError(t, db.First(&stored, e.ID).Error)
	assert.Equal(t, 40.0, stored.ProgressPercentage)
}

func TestRecordProgressAuditsOnlyIncreases(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "queen")
	crs := createCourse(t, db, 10)
	e, _, err := svc.Enroll(ctx, user, crs.ID)
	require.NoError(t, err)

	for _, pct := range []float64{25, 25, 50, 50, 75} {
		_, err := svc.RecordProgress(ctx, user, e.ID, ProgressInput{Percentage: pct})
		require.NoError(t, err)
	}

	var updates []course.ProgressUpdate
	require.NoError(t, db.Where("enrollment_id = ?", e.ID).Order("id").Find(&updates).Error)
	require.Len(t, updates, 3)
	assert.Equal(t, 25.0, updates[0].ProgressPercentage)
	assert.Equal(t, 50.0, updates[1].ProgressPercentage)
	assert.Equal(t, 75.0, updates[2].ProgressPercentage)
}

func TestRecordProgressRejectsCancelled(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "rehema")
	crs := createCourse(t, db, 10)
	e, _, err := svc.Enroll(ctx, user, crs.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, user, e.ID)
	require.NoError(t, err)

	_, err = svc.RecordProgress(ctx, user, e.ID, ProgressInput{Percentage: 10})
	assert.True(t, apperr.Is(err, apperr.InvalidState))
}

func TestRecordProgressCompletionIssuesCertificate(t *testing.T) {
	svc, db, mailer := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "sam")
	crs := createCourse(t, db, 10)
	e, _, err := svc.Enroll(ctx, user, crs.ID)
	require.NoError(t, err)

	done, err := svc.RecordProgress(ctx, user, e.ID, ProgressInput{Percentage: 100})
	require.NoError(t, err)
	assert.Equal(t, course.EnrollmentCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, fixedNow, *done.CompletedAt)
	require.NotNil(t, done.CertificateNumber)
	assert.Regexp(t, certificateNumberPattern, *done.CertificateNumber)

	var cert course.Certificate
	require.NoError(t, db.Where("enrollment_id = ?", e.ID).First(&cert).Error)
	assert.Equal(t, *done.CertificateNumber, cert.CertificateNumber)
	assert.Equal(t, "A+", cert.Grade)
	assert.True(t, fixedNow.AddDate(2, 0, 0).Equal(cert.ExpiryDate))
	assert.Equal(t, int64(20), cert.Metadata.Data().CourseDuration)
	assert.Nil(t, cert.Metadata.Data().FinalScore)

	// a repeat at 100 is a no-op for both status and certificate
	again, err := svc.RecordProgress(ctx, user, e.ID, ProgressInput{Percentage: 100})
	require.NoError(t, err)
	assert.Equal(t, *done.CertificateNumber, *again.CertificateNumber)

	var certs int64
	db.Model(&course.Certificate{}).Where("enrollment_id = ?", e.ID).Count(&certs)
	assert.EqualValues(t, 1, certs)

	assert.Eventually(t, func() bool { return len(mailer.subjects()) >= 2 }, time.Second, 10*time.Millisecond)
}

func TestCompleteLessonComputesPercentage(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "tumaini")
	crs := createCourse(t, db, 3)
	e, _, err := svc.Enroll(ctx, user, crs.ID)
	require.NoError(t, err)

	updated, pct, err := svc.CompleteLesson(ctx, user, e.ID, LessonInput{LessonID: "l1", LessonTitle: "Setup", DurationMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 33.33, pct)
	assert.Equal(t, 0.5, updated.ProgressHours)
	assert.Equal(t, "Setup", updated.LastLessonCompleted)

	// same lesson again: set unchanged, hours still accrue, no audit entry
	updated, pct, err = svc.CompleteLesson(ctx, user, e.ID, LessonInput{LessonID: "l1", LessonTitle: "Setup", DurationMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 33.33, pct)
	assert.Equal(t, 1.0, updated.ProgressHours)
	assert.Equal(t, []string{"l1"}, []string(updated.CompletedLessonIDs))

	var updates int64
	db.Model(&course.ProgressUpdate{}).Where("enrollment_id = ?", e.ID).Count(&updates)
	assert.EqualValues(t, 1, updates)
}

func TestCompleteLessonFallsBackToLessonCatalogAndDefault(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "umi")

	withLessons := createCourse(t, db, 0)
	for i := 1; i <= 4; i++ {
		require.NoError(t, db.Create(&course.Lesson{CourseID: withLessons.ID, Title: fmt.Sprintf("L%d", i), OrderIndex: i}).Error)
	}
	bare := createCourse(t, db, 0)

	e1, _, err := svc.Enroll(ctx, user, withLessons.ID)
	require.NoError(t, err)
	_, pct, err := svc.CompleteLesson(ctx, user, e1.ID, LessonInput{LessonID: "1", LessonTitle: "L1"})
	require.NoError(t, err)
	assert.Equal(t, 25.0, pct)

	e2, _, err := svc.Enroll(ctx, user, bare.ID)
	require.NoError(t, err)
	_, pct, err = svc.CompleteLesson(ctx, user, e2.ID, LessonInput{LessonID: "1", LessonTitle: "L1"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, pct)
}

func TestCompleteLessonIsOrderIndependent(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	crs := createCourse(t, db, 7)

	ea, _, err := svc.Enroll(ctx, alice, crs.ID)
	require.NoError(t, err)
	eb, _, err := svc.Enroll(ctx, bob, crs.ID)
	require.NoError(t, err)

	var pa, pb float64
	for _, id := range []string{"A", "B"} {
		_, pa, err = svc.CompleteLesson(ctx, alice, ea.ID, LessonInput{LessonID: id, LessonTitle: id, DurationMinutes: 10})
		require.NoError(t, err)
	}
	for _, id := range []string{"B", "A"} {
		_, pb, err = svc.CompleteLesson(ctx, bob, eb.ID, LessonInput{LessonID: id, LessonTitle: id, DurationMinutes: 10})
		require.NoError(t, err)
	}
	assert.Equal(t, pa, pb)
	assert.Equal(t, 28.57, pa)
}

func TestLessonsToCompletionEndToEnd(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "wanjiru")
	crs := createCourse(t, db, 4)
	e, _, err := svc.Enroll(ctx, user, crs.ID)
	require.NoError(t, err)

	var last *course.Enrollment
	for _, id := range []string{"l1", "l2", "l2", "l3", "l4"} {
		last, _, err = svc.CompleteLesson(ctx, user, e.ID, LessonInput{LessonID: id, LessonTitle: "Lesson " + id, DurationMinutes: 45})
		require.NoError(t, err)
	}

	assert.Equal(t, course.EnrollmentCompleted, last.Status)
	assert.Equal(t, 100.0, last.ProgressPercentage)
	assert.Equal(t, 3.75, last.ProgressHours)
	require.NotNil(t, last.CompletedAt)
	require.NotNil(t, last.CertificateNumber)

	var updates []course.ProgressUpdate
	require.NoError(t, db.Where("enrollment_id = ?", e.ID).Order("id").Find(&updates).Error)
	require.Len(t, updates, 4)
	for i, want := range []float64{25, 50, 75, 100} {
		assert.Equal(t, want, updates[i].ProgressPercentage)
	}

	cert, pdf, err := svc.Download(ctx, user, *last.CertificateNumber)
	require.NoError(t, err)
	assert.Equal(t, *last.CertificateNumber, cert.CertificateNumber)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
	assert.NotEmpty(t, cert.DocumentPath)

	// second download is served from the document store
	_, again, err := svc.Download(ctx, user, *last.CertificateNumber)
	require.NoError(t, err)
	assert.Equal(t, pdf, again)
}
