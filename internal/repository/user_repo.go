package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindOrCreateByExternalID mirrors an identity-provider account into the
// users table on first sight. Email and display name are refreshed on every
// lookup so they track the provider.
func (r *UserRepository) FindOrCreateByExternalID(ctx context.Context, externalID, email, name string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = model.User{
			ExternalID:  externalID,
			Email:       email,
			DisplayName: name,
		}
		if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	} else if err != nil {
		return nil, err
	}

	if (email != "" && user.Email != email) || (name != "" && user.DisplayName != name) {
		user.Email = email
		user.DisplayName = name
		if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}
