package shop

import (
	"apex/apperr"
	"apex/models"
	"apex/models/shop"
	"apex/services/email"
	"apex/services/mpesa"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentInitiation is returned to the client after the STK push was
// accepted by M-Pesa.
type PaymentInitiation struct {
	Payment         *shop.Payment `json:"payment"`
	CustomerMessage string        `json:"customer_message"`
}

// InitiatePayment sends an STK push for an unpaid order and records the
// payment under the CheckoutRequestID M-Pesa assigned to it.
func (s *Service) InitiatePayment(ctx context.Context, userID, orderID uint, phone string) (*PaymentInitiation, error) {
	order, err := s.Order(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.AwaitingPayment() {
		return nil, apperr.New(apperr.InvalidState, "Order is not awaiting payment")
	}

	msisdn, err := mpesa.NormalizePhone(phone)
	if err != nil {
		return nil, apperr.Invalid("Invalid phone number", map[string]string{"phone": err.Error()})
	}

	resp, err := s.gateway.STKPush(ctx, mpesa.STKPushRequest{
		Phone:            msisdn,
		Amount:           order.TotalAmount,
		AccountReference: order.Reference,
		Description:      "Payment for order " + order.Reference,
	})
	if err != nil {
		log.Printf("[MPESA] STK push for order %s failed: %v", order.Reference, err)
		return nil, apperr.Wrap(err, apperr.Upstream, "Failed to initiate payment, please try again")
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, apperr.Internal(err, "encode STK push response")
	}
	payment := shop.Payment{
		OrderID:           order.ID,
		UserID:            userID,
		Phone:             msisdn,
		Amount:            order.TotalAmount,
		Gateway:           "mpesa",
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		Status:            shop.PaymentPending,
		RawResponse:       string(raw),
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, apperr.Internal(err, "record payment")
	}

	log.Printf("[MPESA] STK push sent for order %s, checkout request %s", order.Reference, resp.CheckoutRequestID)
	return &PaymentInitiation{Payment: &payment, CustomerMessage: resp.CustomerMessage}, nil
}

// HandleCallback applies an STK push result. Unknown or already settled
// payments are logged and left alone so M-Pesa retries stay harmless.
func (s *Service) HandleCallback(ctx context.Context, cb mpesa.Callback, raw []byte) error {
	stk := cb.Body.StkCallback
	if stk.CheckoutRequestID == "" {
		log.Println("[MPESA] Callback without CheckoutRequestID ignored")
		return nil
	}

	var (
		payment shop.Payment
		order   shop.Order
		applied bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("checkout_request_id = ?", stk.CheckoutRequestID).
			First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[MPESA] Callback for unknown checkout request %s", stk.CheckoutRequestID)
			return nil
		}
		if err != nil {
			return apperr.Internal(err, "load payment")
		}
		if payment.IsFinal() {
			log.Printf("[MPESA] Payment %d already %s, callback ignored", payment.ID, payment.Status)
			return nil
		}

		now := s.now()
		code := stk.ResultCode
		payment.ResultCode = &code
		payment.ResultDesc = stk.ResultDesc
		payment.RawResponse = string(raw)
		if stk.Succeeded() {
			payment.Status = shop.PaymentCompleted
			payment.MpesaReceiptNumber = stk.Receipt()
			payment.CompletedAt = &now
		} else {
			payment.Status = shop.PaymentFailed
		}
		if err := tx.Save(&payment).Error; err != nil {
			return apperr.Internal(err, "update payment")
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, payment.OrderID).Error; err != nil {
			return apperr.Internal(err, "load order")
		}
		// a paid order stays paid even if a later push for it fails
		if order.Status != shop.OrderPaid {
			if stk.Succeeded() {
				order.Status = shop.OrderPaid
				order.PaidAt = &now
			} else {
				order.Status = shop.OrderPaymentFailed
			}
			if err := tx.Omit(clause.Associations).Save(&order).Error; err != nil {
				return apperr.Internal(err, "update order")
			}
		}
		applied = true
		return nil
	})
	if err != nil || !applied {
		return err
	}

	log.Printf("[MPESA] Payment %d for order %s is %s (%d: %s)", payment.ID, order.Reference, payment.Status, stk.ResultCode, stk.ResultDesc)
	if payment.Status == shop.PaymentCompleted {
		var user models.User
		if err := s.db.WithContext(ctx).First(&user, payment.UserID).Error; err == nil {
			email.SendAsync(s.mailer, email.PaymentReceived(user.Email, user.Name, order.Reference, payment.MpesaReceiptNumber, payment.Amount))
		}
	}
	return nil
}

// ExpirePendingPayments marks pushes that never got a callback within ttl
// as expired. The order stays pending so the customer can pay again.
func (s *Service) ExpirePendingPayments(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := s.now().Add(-ttl)
	res := s.db.WithContext(ctx).Model(&shop.Payment{}).
		Where("status = ? AND created_at < ?", shop.PaymentPending, cutoff).
		Update("status", shop.PaymentExpired)
	if res.Error != nil {
		return 0, apperr.Internal(res.Error, "expire payments")
	}
	return res.RowsAffected, nil
}
