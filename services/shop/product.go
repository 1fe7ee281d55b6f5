package shop

import (
	"apex/apperr"
	"apex/models/shop"
	"context"
)

// Products lists the active catalog, optionally filtered by category.
func (s *Service) Products(ctx context.Context, category string) ([]shop.Product, error) {
	q := s.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var products []shop.Product
	if err := q.Order("id asc").Find(&products).Error; err != nil {
		return nil, apperr.Internal(err, "list products")
	}
	return products, nil
}

func (s *Service) Product(ctx context.Context, id uint) (*shop.Product, error) {
	return activeProduct(s.db.WithContext(ctx), id)
}
