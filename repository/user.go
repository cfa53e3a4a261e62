package repository

import (
	"context"

	"github.com/pixvault/pixvault/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID looks up a user. Absence surfaces as gorm.ErrRecordNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByExternalID looks up a user by the identifier assigned by the
// external auth provider.
func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where(&models.User{ExternalID: externalID}).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}
