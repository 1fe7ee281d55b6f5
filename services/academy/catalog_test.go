package academy

import (
	"apex/apperr"
	"apex/models/course"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoursesListsPublishedOnly(t *testing.T) {
	svc, db, _ := newTestService(t)
	published := createCourse(t, db, 4)
	draft := course.Course{Title: "Draft", IsPublished: false}
	require.NoError(t, db.Create(&draft).Error)

	courses, err := svc.Courses(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, published.ID, courses[0].ID)

	_, err = svc.Course(context.Background(), draft.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestCourseDetailIncludesLessonsAndExam(t *testing.T) {
	svc, db, _ := newTestService(t)
	crs := createCourse(t, db, 2)
	require.NoError(t, db.Create(&course.Lesson{CourseID: crs.ID, Title: "Second", OrderIndex: 2}).Error)
	require.NoError(t, db.Create(&course.Lesson{CourseID: crs.ID, Title: "First", OrderIndex: 1}).Error)
	createExam(t, db, crs.ID)

	detail, err := svc.Course(context.Background(), crs.ID)
	require.NoError(t, err)
	require.Len(t, detail.Lessons, 2)
	assert.Equal(t, "First", detail.Lessons[0].Title)
	require.NotNil(t, detail.Exam)
	assert.Equal(t, 3, detail.Exam.QuestionCount)
}
