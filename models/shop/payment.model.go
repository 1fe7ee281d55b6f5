package shop

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentExpired   PaymentStatus = "expired"
)

// Payment is one M-Pesa STK push for an order. CheckoutRequestID is the key
// the asynchronous callback is correlated by.
type Payment struct {
	gorm.Model
	OrderID            uint          `json:"order_id" gorm:"index;not null"`
	UserID             uint          `json:"user_id" gorm:"index;not null"`
	Phone              string        `json:"phone" gorm:"type:varchar(20)"`
	Amount             float64       `json:"amount" gorm:"type:decimal(12,2);not null"`
	Gateway            string        `json:"gateway" gorm:"type:varchar(20);default:'mpesa'"`
	MerchantRequestID  string        `json:"merchant_request_id" gorm:"type:varchar(100)"`
	CheckoutRequestID  string        `json:"checkout_request_id" gorm:"type:varchar(100);uniqueIndex"`
	Status             PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ResultCode         *int          `json:"result_code"`
	ResultDesc         string        `json:"result_desc"`
	MpesaReceiptNumber string        `json:"mpesa_receipt_number" gorm:"type:varchar(40)"`
	RawResponse        string        `json:"-" gorm:"type:text"`
	CompletedAt        *time.Time    `json:"completed_at"`
}

func (p *Payment) IsFinal() bool { return p.Status != PaymentPending }
