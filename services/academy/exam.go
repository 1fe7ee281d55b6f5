package academy

import (
	"apex/apperr"
	"apex/models"
	"apex/models/course"
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionSet struct {
	CourseTitle       string                `json:"course_title"`
	ExamTitle         string                `json:"exam_title"`
	Instructions      string                `json:"instructions"`
	Questions         []course.ExamQuestion `json:"questions"`
	TotalPoints       int                   `json:"total_points"`
	PassingScore      float64               `json:"passing_score"`
	TimeLimit         int                   `json:"time_limit"` // seconds
	AttemptsUsed      int                   `json:"attempts_used"`
	AttemptsRemaining int                   `json:"attempts_remaining"`
}

// SubmitInput carries one of: graded answers, a correct/total pair, or a
// precomputed score. They are tried in that order.
type SubmitInput struct {
	Score          *float64
	CorrectAnswers *int
	TotalQuestions *int
	Answers        map[string]string
}

type ExamOutcome struct {
	Passed            bool                `json:"passed"`
	AlreadyCompleted  bool                `json:"already_completed"`
	Score             float64             `json:"score"`
	RequiredScore     float64             `json:"required_score"`
	CourseTitle       string              `json:"course_title"`
	CertificateNumber string              `json:"certificate_number,omitempty"`
	CompletionDate    string              `json:"completion_date,omitempty"`
	AttemptsRemaining int                 `json:"attempts_remaining"`
	RetakeAvailable   bool                `json:"retake_available"`
	Certificate       *course.Certificate `json:"certificate,omitempty"`
}

type Eligibility struct {
	Eligible          bool    `json:"eligible"`
	Progress          float64 `json:"progress"`
	RequiredProgress  float64 `json:"required_progress"`
	Completed         bool    `json:"completed"`
	AttemptsUsed      int     `json:"exam_attempts"`
	MaxAttempts       int     `json:"max_attempts"`
	CertificateIssued bool    `json:"certificate_issued"`
}

type examRules struct {
	passing     float64
	required    float64
	maxAttempts int
}

func (s *Service) rulesFor(exam *course.Exam) examRules {
	r := examRules{passing: s.opts.PassingScore, required: s.opts.RequiredProgress, maxAttempts: s.opts.MaxAttempts}
	if exam == nil {
		return r
	}
	if exam.PassingScore > 0 {
		r.passing = exam.PassingScore
	}
	if exam.RequiredProgress > 0 {
		r.required = exam.RequiredProgress
	}
	if exam.MaxAttempts > 0 {
		r.maxAttempts = exam.MaxAttempts
	}
	return r
}

// examEnrollment finds the caller's latest enrollment in the course, locked
// when lock is set.
func examEnrollment(tx *gorm.DB, userID, courseID uint, lock bool) (*course.Enrollment, error) {
	q := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Order("id desc")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var e course.Enrollment
	if err := q.First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "You are not enrolled in this course!")
		}
		return nil, apperr.Internal(err, "load enrollment")
	}
	if e.Status == course.EnrollmentCancelled {
		return nil, apperr.New(apperr.InvalidState, "Enrollment has been cancelled")
	}
	return &e, nil
}

func activeExam(tx *gorm.DB, courseID uint) (*course.Exam, error) {
	var exam course.Exam
	if err := tx.Where("course_id = ? AND is_active = ?", courseID, true).First(&exam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal(err, "load exam")
	}
	return &exam, nil
}

func alreadyCompleted(e *course.Enrollment) error {
	return apperr.WithDetails(apperr.AlreadyCompleted, "You have already completed this course", map[string]any{
		"certificate_number": e.CertificateNumber,
		"score":              e.ExamScore,
	})
}

// Questions returns the exam without answers. Each successful call uses up
// one attempt.
func (s *Service) Questions(ctx context.Context, who models.Identity, courseID uint) (*QuestionSet, error) {
	var set *QuestionSet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := examEnrollment(tx, who.UserID, courseID, true)
		if err != nil {
			return err
		}
		exam, err := activeExam(tx, courseID)
		if err != nil {
			return err
		}
		if exam == nil {
			return apperr.New(apperr.NotFound, "No exam available for this course!")
		}
		rules := s.rulesFor(exam)

		if e.IsCompleted() {
			return alreadyCompleted(e)
		}
		if e.ExamAttempts >= rules.maxAttempts {
			return apperr.WithDetails(apperr.AttemptsExhausted, "Maximum exam attempts reached. Please contact support.", map[string]any{
				"attempts":     e.ExamAttempts,
				"max_attempts": rules.maxAttempts,
			})
		}

		crs, err := loadCourse(tx, courseID)
		if err != nil {
			return err
		}

		e.ExamAttempts++
		if err := tx.Model(e).UpdateColumn("exam_attempts", e.ExamAttempts).Error; err != nil {
			return apperr.Internal(err, "record exam attempt")
		}

		questions := make([]course.ExamQuestion, len(exam.Questions))
		total := 0
		for i, q := range exam.Questions {
			q.CorrectAnswer = ""
			questions[i] = q
			total += q.Points
		}
		set = &QuestionSet{
			CourseTitle:       crs.Title,
			ExamTitle:         exam.Title,
			Instructions:      exam.Instructions,
			Questions:         questions,
			TotalPoints:       total,
			PassingScore:      rules.passing,
			TimeLimit:         exam.DurationMinutes * 60,
			AttemptsUsed:      e.ExamAttempts,
			AttemptsRemaining: max(0, rules.maxAttempts-e.ExamAttempts),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Submit scores an exam whose questions were fetched. Passing completes the
// enrollment through the certificate issuer. Submitting never changes the
// attempt count.
func (s *Service) Submit(ctx context.Context, who models.Identity, courseID uint, in SubmitInput) (*ExamOutcome, error) {
	var (
		out  *ExamOutcome
		e    *course.Enrollment
		done completion
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = examEnrollment(tx, who.UserID, courseID, true); err != nil {
			return err
		}
		crs, err := loadCourse(tx, courseID)
		if err != nil {
			return err
		}
		e.Course = crs
		exam, err := activeExam(tx, courseID)
		if err != nil {
			return err
		}
		rules := s.rulesFor(exam)

		if e.IsCompleted() {
			out = &ExamOutcome{
				Passed:           true,
				AlreadyCompleted: true,
				Score:            s.gradeBasis(e),
				RequiredScore:    rules.passing,
				CourseTitle:      crs.Title,
			}
			if e.CertificateNumber != nil {
				out.CertificateNumber = *e.CertificateNumber
			}
			if e.ExamScore != nil {
				out.Score = *e.ExamScore
			}
			return nil
		}

		if exam == nil {
			return apperr.New(apperr.NotFound, "No exam available for this course!")
		}
		// the exam is started by fetching its questions
		if e.ExamAttempts == 0 {
			return apperr.New(apperr.InvalidState, "Start the exam before submitting it")
		}

		score, err := scoreSubmission(exam, in)
		if err != nil {
			return err
		}
		e.ExamScore = &score
		out = &ExamOutcome{Score: score, RequiredScore: rules.passing, CourseTitle: crs.Title}

		if score >= rules.passing {
			now := s.now()
			if done, err = s.complete(tx, e, score, now); err != nil {
				return err
			}
			out.Passed = true
			out.CertificateNumber = done.cert.CertificateNumber
			out.CompletionDate = now.Format("January 02, 2006")
			out.Certificate = done.cert
		} else {
			out.AttemptsRemaining = max(0, rules.maxAttempts-e.ExamAttempts)
			out.RetakeAvailable = out.AttemptsRemaining > 0
		}
		return saveEnrollment(tx, e)
	})
	if err != nil {
		return nil, err
	}

	s.afterCompletion(ctx, e, done)
	return out, nil
}

// Eligibility reports whether the caller may sit the exam now.
func (s *Service) Eligibility(ctx context.Context, who models.Identity, courseID uint) (*Eligibility, error) {
	db := s.db.WithContext(ctx)
	e, err := examEnrollment(db, who.UserID, courseID, false)
	if err != nil {
		return nil, err
	}
	exam, err := activeExam(db, courseID)
	if err != nil {
		return nil, err
	}
	rules := s.rulesFor(exam)

	return &Eligibility{
		Eligible:          e.ProgressPercentage >= rules.required && !e.IsCompleted() && e.ExamAttempts < rules.maxAttempts,
		Progress:          e.ProgressPercentage,
		RequiredProgress:  rules.required,
		Completed:         e.IsCompleted(),
		AttemptsUsed:      e.ExamAttempts,
		MaxAttempts:       rules.maxAttempts,
		CertificateIssued: e.CertificateNumber != nil,
	}, nil
}

func scoreSubmission(exam *course.Exam, in SubmitInput) (float64, error) {
	if len(in.Answers) > 0 && exam != nil {
		if score, ok := gradeAnswers(exam.Questions, in.Answers); ok {
			return score, nil
		}
	}

	if in.CorrectAnswers != nil && in.TotalQuestions != nil {
		total, correct := *in.TotalQuestions, *in.CorrectAnswers
		if total <= 0 || correct < 0 || correct > total {
			return 0, apperr.Invalid("Validation failed!", map[string]string{
				"correct_answers": "Correct answers must be between 0 and total questions",
			})
		}
		return round2(float64(correct) / float64(total) * 100), nil
	}

	if in.Score != nil {
		if *in.Score < 0 || *in.Score > 100 || math.IsNaN(*in.Score) {
			return 0, apperr.Invalid("Validation failed!", map[string]string{"score": "Score must be between 0 and 100"})
		}
		return *in.Score, nil
	}

	return 0, apperr.Invalid("Validation failed!", map[string]string{"score": "Score or answers are required"})
}

// gradeAnswers scores answers against questions that have a stored answer,
// weighted by points. ok is false when nothing is auto-gradable.
func gradeAnswers(questions []course.ExamQuestion, answers map[string]string) (float64, bool) {
	var earned, possible int
	for _, q := range questions {
		if q.CorrectAnswer == "" {
			continue
		}
		points := q.Points
		if points <= 0 {
			points = 1
		}
		possible += points
		given := strings.TrimSpace(answers[strconv.Itoa(q.ID)])
		if strings.EqualFold(given, strings.TrimSpace(q.CorrectAnswer)) {
			earned += points
		}
	}
	if possible == 0 {
		return 0, false
	}
	return round2(float64(earned) / float64(possible) * 100), true
}
