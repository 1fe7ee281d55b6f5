package academy

import (
	"apex/apperr"
	"apex/models"
	"apex/models/course"
	"context"
	"math"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type Statistics struct {
	TotalEnrollments   int64   `json:"total_enrollments"`
	CompletedCourses   int64   `json:"completed_courses"`
	ActiveCourses      int64   `json:"active_courses"`
	CancelledCourses   int64   `json:"cancelled_courses"`
	TotalLearningHours float64 `json:"total_learning_hours"`
	CompletionRate     float64 `json:"completion_rate"`
	CompletedThisMonth int64   `json:"completed_this_month"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type StatisticsReport struct {
	Statistics        Statistics          `json:"statistics"`
	RecentEnrollments []course.Enrollment `json:"recent_enrollments"`
	CourseCategories  []CategoryCount     `json:"course_categories"`
}

type Badge struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type LearningStatistics struct {
	TotalCoursesCompleted int64   `json:"total_courses_completed"`
	TotalLearningHours    float64 `json:"total_learning_hours"`
	ActiveCourses         int64   `json:"active_courses"`
	CertificatesEarned    int     `json:"certificates_earned"`
}

type Achievements struct {
	CompletedCourses   []course.Enrollment  `json:"completed_courses"`
	Certificates       []course.Certificate `json:"certificates"`
	LearningStatistics LearningStatistics   `json:"learning_statistics"`
	Badges             []Badge              `json:"badges"`
}

type CourseProgress struct {
	CourseID           uint                    `json:"course_id"`
	CourseTitle        string                  `json:"course_title"`
	ProgressPercentage float64                 `json:"progress_percentage"`
	Status             course.EnrollmentStatus `json:"status"`
	LastActivity       string                  `json:"last_activity"`
	TotalHours         float64                 `json:"total_hours"`
	RecentUpdates      []course.ProgressUpdate `json:"recent_updates"`
}

type LearningProgress struct {
	ProgressByCourse []CourseProgress `json:"progress_by_course"`
	TotalEnrollments int              `json:"total_enrollments"`
	AverageProgress  float64          `json:"average_progress"`
}

type counts struct {
	total, completed, active, cancelled int64
	hours                               float64
}

func (s *Service) counts(db *gorm.DB, userID uint) (counts, error) {
	var rows []struct {
		Status string
		Count  int64
		Hours  float64
	}
	if err := db.Model(&course.Enrollment{}).
		Select("status, count(*) as count, coalesce(sum(progress_hours), 0) as hours").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return counts{}, apperr.Internal(err, "aggregate enrollments")
	}

	var c counts
	for _, r := range rows {
		c.total += r.Count
		c.hours += r.Hours
		switch course.EnrollmentStatus(r.Status) {
		case course.EnrollmentCompleted:
			c.completed = r.Count
		case course.EnrollmentActive:
			c.active = r.Count
		case course.EnrollmentCancelled:
			c.cancelled = r.Count
		}
	}
	c.hours = round2(c.hours)
	return c, nil
}

// Statistics summarizes the user's learning activity.
func (s *Service) Statistics(ctx context.Context, userID uint) (*StatisticsReport, error) {
	db := s.db.WithContext(ctx)

	c, err := s.counts(db, userID)
	if err != nil {
		return nil, err
	}

	monthStart := now.With(s.now()).BeginningOfMonth()
	var thisMonth int64
	if err := db.Model(&course.Enrollment{}).
		Where("user_id = ? AND status = ? AND completed_at >= ?", userID, course.EnrollmentCompleted, monthStart).
		Count(&thisMonth).Error; err != nil {
		return nil, apperr.Internal(err, "count monthly completions")
	}

	var recent []course.Enrollment
	if err := db.Where("user_id = ?", userID).
		Preload("Course").
		Order("created_at desc, id desc").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, apperr.Internal(err, "recent enrollments")
	}

	var categories []CategoryCount
	if err := db.Model(&course.Course{}).
		Select("category, count(*) as count").
		Where("id IN (?)", db.Model(&course.Enrollment{}).Select("course_id").Where("user_id = ?", userID)).
		Group("category").
		Scan(&categories).Error; err != nil {
		return nil, apperr.Internal(err, "course categories")
	}

	rate := 0.0
	if c.total > 0 {
		rate = math.Round(float64(c.completed)/float64(c.total)*1000) / 10
	}

	return &StatisticsReport{
		Statistics: Statistics{
			TotalEnrollments:   c.total,
			CompletedCourses:   c.completed,
			ActiveCourses:      c.active,
			CancelledCourses:   c.cancelled,
			TotalLearningHours: c.hours,
			CompletionRate:     rate,
			CompletedThisMonth: thisMonth,
		},
		RecentEnrollments: recent,
		CourseCategories:  categories,
	}, nil
}

// Badges derives badges from completion counts, hours and active courses.
func Badges(completed, active int64, hours float64) []Badge {
	badges := []Badge{}
	if completed >= 1 {
		badges = append(badges, Badge{Name: "First Course", Icon: "🎓", Description: "Completed your first course"})
	}
	if completed >= 3 {
		badges = append(badges, Badge{Name: "Quick Learner", Icon: "⚡", Description: "Completed 3 courses"})
	}
	if completed >= 10 {
		badges = append(badges, Badge{Name: "Master Learner", Icon: "🏆", Description: "Completed 10 courses"})
	}
	if hours >= 50 {
		badges = append(badges, Badge{Name: "Dedicated Learner", Icon: "⏱️", Description: "Spent 50+ hours learning"})
	}
	if active >= 5 {
		badges = append(badges, Badge{Name: "Multi-tasker", Icon: "🔀", Description: "Enrolled in 5+ active courses"})
	}
	return badges
}

func (s *Service) Achievements(ctx context.Context, who models.Identity) (*Achievements, error) {
	db := s.db.WithContext(ctx)

	var completed []course.Enrollment
	if err := db.Where("user_id = ? AND status = ?", who.UserID, course.EnrollmentCompleted).
		Preload("Course").
		Order("completed_at desc").
		Find(&completed).Error; err != nil {
		return nil, apperr.Internal(err, "completed courses")
	}

	certs, err := s.Certificates(ctx, who.UserID)
	if err != nil {
		return nil, err
	}

	c, err := s.counts(db, who.UserID)
	if err != nil {
		return nil, err
	}

	return &Achievements{
		CompletedCourses: completed,
		Certificates:     certs,
		LearningStatistics: LearningStatistics{
			TotalCoursesCompleted: c.completed,
			TotalLearningHours:    c.hours,
			ActiveCourses:         c.active,
			CertificatesEarned:    len(certs),
		},
		Badges: Badges(c.completed, c.active, c.hours),
	}, nil
}

// Progress lists per-course progress with the five latest updates each.
func (s *Service) Progress(ctx context.Context, who models.Identity) (*LearningProgress, error) {
	var enrollments []course.Enrollment
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", who.UserID).
		Preload("Course").
		Order("id desc").
		Find(&enrollments).Error; err != nil {
		return nil, apperr.Internal(err, "load progress")
	}

	out := &LearningProgress{ProgressByCourse: []CourseProgress{}, TotalEnrollments: len(enrollments)}
	var sum float64
	for _, e := range enrollments {
		var updates []course.ProgressUpdate
		if err := s.db.WithContext(ctx).
			Where("enrollment_id = ?", e.ID).
			Order("id desc").
			Limit(5).
			Find(&updates).Error; err != nil {
			return nil, apperr.Internal(err, "load progress updates")
		}

		title := ""
		if e.Course != nil {
			title = e.Course.Title
		}
		out.ProgressByCourse = append(out.ProgressByCourse, CourseProgress{
			CourseID:           e.CourseID,
			CourseTitle:        title,
			ProgressPercentage: e.ProgressPercentage,
			Status:             e.Status,
			LastActivity:       e.UpdatedAt.Format("2006-01-02 15:04:05"),
			TotalHours:         e.ProgressHours,
			RecentUpdates:      updates,
		})
		sum += e.ProgressPercentage
	}
	if len(enrollments) > 0 {
		out.AverageProgress = round2(sum / float64(len(enrollments)))
	}
	return out, nil
}
