// Package shop implements the cart, checkout and M-Pesa payment flow of the
// merchandise store.
package shop

import (
	"apex/apperr"
	"apex/models/shop"
	"apex/services/email"
	"apex/services/mpesa"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentGateway starts a push payment on the customer's phone.
type PaymentGateway interface {
	STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error)
}

type Service struct {
	db      *gorm.DB
	gateway PaymentGateway
	mailer  email.Mailer
	now     func() time.Time
}

func NewService(db *gorm.DB, gateway PaymentGateway, mailer email.Mailer) *Service {
	return &Service{db: db, gateway: gateway, mailer: mailer, now: time.Now}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func activeProduct(tx *gorm.DB, id uint) (*shop.Product, error) {
	var p shop.Product
	if err := tx.Where("id = ? AND is_active = ?", id, true).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Product not found!")
		}
		return nil, apperr.Internal(err, "load product")
	}
	return &p, nil
}

func newOrderReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD-" + id[:12]
}
