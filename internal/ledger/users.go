package ledger

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger/internal/models"

	"gorm.io/gorm"
)

// CreateUser registers an owner. Credentials live with the authentication
// layer, not here.
func (s *Service) CreateUser(ctx context.Context, username, displayName string) (*models.User, error) {
	username, err := cleanName("username", username)
	if err != nil {
		return nil, err
	}
	u := models.User{Username: username, DisplayName: displayName}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user %q: %w", username, ErrDuplicateName)
		}
		return nil, err
	}
	return &u, nil
}

// GetUser returns the owner with the given id.
func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
