// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"apex/models"
	"apex/models/course"
	"apex/services/email"
	"context"
	"log"
	"time"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// PaymentExpirer settles STK pushes that never received a callback.
type PaymentExpirer interface {
	ExpirePendingPayments(ctx context.Context, ttl time.Duration) (int64, error)
}

type Options struct {
	PaymentTTL   time.Duration
	ReminderDays int
}

type Scheduler struct {
	cron     *cron.Cron
	db       *gorm.DB
	payments PaymentExpirer
	mailer   email.Mailer
	opts     Options
	now      func() time.Time
}

func New(db *gorm.DB, payments PaymentExpirer, mailer email.Mailer, opts Options) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		db:       db,
		payments: payments,
		mailer:   mailer,
		opts:     opts,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	log.Println("[SCHEDULER] Initializing scheduler...")

	// every 5 minutes: pushes older than the TTL are abandoned
	if _, err := s.cron.AddFunc("*/5 * * * *", s.ExpirePayments); err != nil {
		return err
	}

	// daily at 9 AM
	if _, err := s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[SCHEDULER] Running daily certificate expiry check...")
		s.SendCertificateReminders()
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[SCHEDULER] Scheduler started - payments every 5 minutes, certificate reminders daily at 9 AM")
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[SCHEDULER] Scheduler stopped")
}

func (s *Scheduler) ExpirePayments() {
	n, err := s.payments.ExpirePendingPayments(context.Background(), s.opts.PaymentTTL)
	if err != nil {
		log.Printf("[SCHEDULER] Error expiring payments: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[SCHEDULER] Expired %d pending payments", n)
	}
}

// SendCertificateReminders emails owners of certificates that expire within
// the reminder window, once per certificate. It returns how many were sent.
func (s *Scheduler) SendCertificateReminders() int {
	today := now.With(s.now())
	from := today.BeginningOfDay()
	until := today.EndOfDay().AddDate(0, 0, s.opts.ReminderDays)

	var expiring []course.Certificate
	if err := s.db.
		Where("reminder_sent = ? AND expiry_date BETWEEN ? AND ?", false, from, until).
		Preload("Course").
		Find(&expiring).Error; err != nil {
		log.Printf("[SCHEDULER] Error fetching expiring certificates: %v", err)
		return 0
	}

	log.Printf("[SCHEDULER] Found %d certificates expiring soon", len(expiring))

	sent := 0
	for _, cert := range expiring {
		var user models.User
		if err := s.db.First(&user, cert.UserID).Error; err != nil {
			log.Printf("[SCHEDULER] Error fetching user %d: %v", cert.UserID, err)
			continue
		}

		title := ""
		if cert.Course != nil {
			title = cert.Course.Title
		}
		email.SendAsync(s.mailer, email.CertificateExpiring(user.Email, user.Name, title, cert.CertificateNumber, cert.ExpiryDate))

		if err := s.db.Model(&cert).UpdateColumn("reminder_sent", true).Error; err != nil {
			log.Printf("[SCHEDULER] Error marking reminder for certificate %s: %v", cert.CertificateNumber, err)
			continue
		}
		sent++
		log.Printf("[SCHEDULER] Sent expiry reminder for certificate %s to %s", cert.CertificateNumber, user.Email)
	}
	return sent
}
