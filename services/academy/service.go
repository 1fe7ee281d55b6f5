// Package academy implements the enrollment, progress, exam and certificate
// workflow.
package academy

import (
	"apex/apperr"
	"apex/config"
	"apex/models/course"
	"apex/services/email"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	userPageSize  = 10
	adminPageSize = 20
)

// Options are the business thresholds applied when a course or exam does
// not define its own.
type Options struct {
	CertificatePrefix        string
	CertificateValidityYears int
	PassingScore             float64
	RequiredProgress         float64
	MaxAttempts              int
	DefaultTotalLessons      int
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CertificatePrefix:        cfg.CertificatePrefix,
		CertificateValidityYears: cfg.CertificateValidityYears,
		PassingScore:             cfg.ExamPassingScore,
		RequiredProgress:         cfg.ExamRequiredProgress,
		MaxAttempts:              cfg.ExamMaxAttempts,
		DefaultTotalLessons:      cfg.DefaultTotalLessons,
	}
}

// DocumentStore persists rendered certificates.
type DocumentStore interface {
	Save(name string, data []byte) (string, error)
	Load(path string) ([]byte, error)
	Exists(path string) bool
}

type Service struct {
	db      *gorm.DB
	opts    Options
	docs    DocumentStore
	mailer  email.Mailer
	now     func() time.Time
	numbers func() (string, error)
}

func NewService(db *gorm.DB, opts Options, docs DocumentStore, mailer email.Mailer) *Service {
	s := &Service{
		db:     db,
		opts:   opts,
		docs:   docs,
		mailer: mailer,
		now:    time.Now,
	}
	s.numbers = s.randomCertificateNumber
	return s
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// lockEnrollment loads an enrollment with a row lock held until tx ends.
func lockEnrollment(tx *gorm.DB, id uint) (*course.Enrollment, error) {
	var e course.Enrollment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Enrollment not found!")
		}
		return nil, apperr.Internal(err, "lock enrollment")
	}
	return &e, nil
}

func saveEnrollment(tx *gorm.DB, e *course.Enrollment) error {
	if err := tx.Omit(clause.Associations).Save(e).Error; err != nil {
		return apperr.Internal(err, "save enrollment")
	}
	return nil
}

func loadCourse(tx *gorm.DB, id uint) (*course.Course, error) {
	var c course.Course
	if err := tx.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Course not found!")
		}
		return nil, apperr.Internal(err, "load course")
	}
	return &c, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	// sqlite reports constraint failures only in the message
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "duplicate entry") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}

// Pagination mirrors the paginator fields the frontend reads.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func newPagination(page, perPage int, total int64) Pagination {
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return Pagination{CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}

func offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}
