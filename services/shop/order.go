package shop

import (
	"apex/apperr"
	"apex/models/shop"
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Checkout turns the cart into a pending order priced at current product
// prices and empties the cart, all in one transaction.
func (s *Service) Checkout(ctx context.Context, userID uint) (*shop.Order, error) {
	var order shop.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := cartFor(tx, userID)
		if err != nil {
			return err
		}
		// concurrent checkouts of the same cart queue here
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(cart, cart.ID).Error; err != nil {
			return apperr.Internal(err, "lock cart")
		}

		items, err := cartItems(tx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperr.Invalid("Cart is empty", map[string]string{"cart": "empty"})
		}

		order = shop.Order{
			UserID:    userID,
			Reference: newOrderReference(),
			Status:    shop.OrderPending,
		}
		for _, it := range items {
			if it.Product == nil || !it.Product.IsActive {
				return apperr.New(apperr.InvalidState, fmt.Sprintf("Product %d is no longer available", it.ProductID))
			}
			order.TotalAmount += it.Product.Price * float64(it.Quantity)
			order.Items = append(order.Items, shop.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Product.Price,
			})
		}
		order.TotalAmount = math.Round(order.TotalAmount*100) / 100

		if err := tx.Create(&order).Error; err != nil {
			return apperr.Internal(err, "create order")
		}
		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&shop.CartItem{}).Error; err != nil {
			return apperr.Internal(err, "empty cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ORDER] Order %s created for user %d, total %.2f", order.Reference, userID, order.TotalAmount)
	return s.Order(ctx, userID, order.ID)
}

// Orders lists the user's orders, newest first.
func (s *Service) Orders(ctx context.Context, userID uint) ([]shop.Order, error) {
	var orders []shop.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Internal(err, "list orders")
	}
	return orders, nil
}

// Order returns one of the user's orders. Orders of other users are
// reported as missing.
func (s *Service) Order(ctx context.Context, userID, id uint) (*shop.Order, error) {
	var order shop.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Order not found!")
		}
		return nil, apperr.Internal(err, "load order")
	}
	return &order, nil
}
