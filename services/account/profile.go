// Package account reads and edits the profile fields the backend owns.
// Email and credentials belong to the auth provider and are read-only here.
package account

import (
	"apex/apperr"
	"apex/models"
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ProfileInput carries the editable fields. A nil field is left unchanged.
type ProfileInput struct {
	Name  *string
	Phone *string
}

func (s *Service) Profile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.Unauthorized, "User not found!")
	}
	if err != nil {
		return nil, apperr.Internal(err, "load user")
	}
	return &user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(err, "update profile")
	}
	log.Printf("[PROFILE] User %d updated %d field(s)", userID, len(updates))
	return s.Profile(ctx, userID)
}
