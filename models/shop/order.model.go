package shop

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending       OrderStatus = "pending"
	OrderPaid          OrderStatus = "paid"
	OrderPaymentFailed OrderStatus = "payment_failed"
)

// Order is created from the cart at checkout
type Order struct {
	gorm.Model
	UserID      uint        `json:"user_id" gorm:"index;not null"`
	Reference   string      `json:"reference" gorm:"type:varchar(40);uniqueIndex"`
	TotalAmount float64     `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaidAt      *time.Time  `json:"paid_at"`
	Items       []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the product price at purchase time
type OrderItem struct {
	gorm.Model
	OrderID   uint     `json:"order_id" gorm:"index;not null"`
	ProductID uint     `json:"product_id" gorm:"index;not null"`
	Quantity  int      `json:"quantity" gorm:"not null"`
	Price     float64  `json:"price" gorm:"type:decimal(10,2);not null"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// AwaitingPayment reports whether a new STK push may be sent for the order.
// A failed push leaves the order open for another attempt.
func (o *Order) AwaitingPayment() bool {
	return o.Status == OrderPending || o.Status == OrderPaymentFailed
}
