package shop

import (
	"apex/apperr"
	"apex/models/shop"
	"context"
	"errors"
	"math"

	"gorm.io/gorm"
)

// CartView is the cart with its computed totals at current prices.
type CartView struct {
	ID        uint            `json:"id"`
	Items     []shop.CartItem `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     float64         `json:"total"`
}

func cartFor(tx *gorm.DB, userID uint) (*shop.Cart, error) {
	var cart shop.Cart
	if err := tx.Where(shop.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, apperr.Internal(err, "load cart")
	}
	return &cart, nil
}

func cartItems(tx *gorm.DB, cartID uint) ([]shop.CartItem, error) {
	var items []shop.CartItem
	if err := tx.Preload("Product").Where("cart_id = ?", cartID).Order("id asc").Find(&items).Error; err != nil {
		return nil, apperr.Internal(err, "load cart items")
	}
	return items, nil
}

func (s *Service) view(tx *gorm.DB, cart *shop.Cart) (*CartView, error) {
	items, err := cartItems(tx, cart.ID)
	if err != nil {
		return nil, err
	}
	v := &CartView{ID: cart.ID, Items: items}
	for _, it := range items {
		v.ItemCount += it.Quantity
		if it.Product != nil {
			v.Total += it.Product.Price * float64(it.Quantity)
		}
	}
	v.Total = math.Round(v.Total*100) / 100
	return v, nil
}

func (s *Service) Cart(ctx context.Context, userID uint) (*CartView, error) {
	db := s.db.WithContext(ctx)
	cart, err := cartFor(db, userID)
	if err != nil {
		return nil, err
	}
	return s.view(db, cart)
}

// AddToCart adds quantity units of the product, incrementing an existing line.
func (s *Service) AddToCart(ctx context.Context, userID, productID uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, apperr.Invalid("Quantity must be at least 1", map[string]string{"quantity": "min=1"})
	}

	var view *CartView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := activeProduct(tx, productID); err != nil {
			return err
		}
		cart, err := cartFor(tx, userID)
		if err != nil {
			return err
		}

		var item shop.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case err == nil:
			if err := tx.Model(&item).UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
				return apperr.Internal(err, "increment cart item")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = shop.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
			if err := tx.Create(&item).Error; err != nil {
				return apperr.Internal(err, "create cart item")
			}
		default:
			return apperr.Internal(err, "find cart item")
		}

		view, err = s.view(tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateCartItem sets the quantity of a product already in the cart. A
// quantity of zero or less removes the line.
func (s *Service) UpdateCartItem(ctx context.Context, userID, productID uint, quantity int) (*CartView, error) {
	var view *CartView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := cartFor(tx, userID)
		if err != nil {
			return err
		}

		var item shop.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Product is not in the cart!")
			}
			return apperr.Internal(err, "find cart item")
		}

		if quantity <= 0 {
			if err := tx.Unscoped().Delete(&item).Error; err != nil {
				return apperr.Internal(err, "delete cart item")
			}
		} else if err := tx.Model(&item).UpdateColumn("quantity", quantity).Error; err != nil {
			return apperr.Internal(err, "update cart item")
		}

		view, err = s.view(tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, productID uint) (*CartView, error) {
	var view *CartView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := cartFor(tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Unscoped().Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&shop.CartItem{}).Error; err != nil {
			return apperr.Internal(err, "remove cart item")
		}
		view, err = s.view(tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Service) ClearCart(ctx context.Context, userID uint) error {
	db := s.db.WithContext(ctx)
	cart, err := cartFor(db, userID)
	if err != nil {
		return err
	}
	if err := db.Unscoped().Where("cart_id = ?", cart.ID).Delete(&shop.CartItem{}).Error; err != nil {
		return apperr.Internal(err, "clear cart")
	}
	return nil
}
