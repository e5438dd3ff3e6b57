// Package adapters provides repository implementations for the users feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskmanager/internal/feature/users/domain/entity"
	"taskmanager/internal/feature/users/usecase"
	"taskmanager/internal/platform/db"
)

// userGorm is a gorm implementation of the UserRepository interface.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a new instance of userGorm.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts a new user. A duplicate email returns ErrEmailAlreadyExists.
func (r *userGorm) Create(ctx context.Context, user *entity.User) error {
	model := UserModelFromEntity(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	user.CreatedAt, user.UpdatedAt = model.CreatedAt, model.UpdatedAt
	return nil
}

// FindByEmail retrieves a user by email.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByID retrieves a user by ID.
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userGorm) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Update writes the profile fields. A map is used so zero values such as age 0 are persisted.
func (r *userGorm) Update(ctx context.Context, user *entity.User) error {
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"name":       user.Name,
			"email":      user.Email,
			"password":   user.Password,
			"age":        user.Age,
			"updated_at": user.UpdatedAt,
		})
	if result.Error != nil {
		if db.IsDuplicateKey(result.Error) {
			return usecase.ErrEmailAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// Delete removes the user row and its avatar.
func (r *userGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&AvatarModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&UserModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
}

// SaveAvatar upserts the avatar row and flags the user.
func (r *userGorm) SaveAvatar(ctx context.Context, userID string, png []byte) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := setHasAvatar(tx, userID, true); err != nil {
			return err
		}
		avatar := &AvatarModel{UserID: userID, Data: png, UpdatedAt: time.Now()}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(avatar).Error
	})
}

// DeleteAvatar removes the avatar row and clears the flag.
func (r *userGorm) DeleteAvatar(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&AvatarModel{}).Error; err != nil {
			return err
		}
		return setHasAvatar(tx, userID, false)
	})
}

// FindAvatar returns the stored PNG bytes.
func (r *userGorm) FindAvatar(ctx context.Context, userID string) ([]byte, error) {
	var model AvatarModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAvatarNotFound
		}
		return nil, err
	}
	return model.Data, nil
}

func setHasAvatar(tx *gorm.DB, userID string, has bool) error {
	result := tx.Model(&UserModel{}).Where("id = ?", userID).Update("has_avatar", has)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
