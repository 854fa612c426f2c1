// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"friendsapp/internal/cache"
	"friendsapp/internal/models"
	"friendsapp/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID is served from the cache when possible. Cached copies carry no
// password hash, so callers that verify credentials must use GetByUsername.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		defer observability.TrackQuery("get_by_id", "user")()
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil without error when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observability.TrackQuery("get_by_email", "user")()
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername returns nil without error when no user has the username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer observability.TrackQuery("get_by_username", "user")()
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "user")()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return r.conflictFor(ctx, user, err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// conflictFor names the taken field. Translated driver errors drop the
// constraint name, so it falls back to asking the store.
func (r *userRepository) conflictFor(ctx context.Context, user *models.User, err error) error {
	field := conflictField(err)
	if field == "" {
		var taken int64
		if cerr := r.db.WithContext(ctx).Model(&models.User{}).
			Where("username = ?", user.Username).
			Count(&taken).Error; cerr == nil && taken == 0 {
			field = "email"
		}
	}
	if strings.Contains(field, "email") {
		return models.NewConflictError("Email already registered")
	}
	return models.NewConflictError("Username already exists")
}

// List returns every user, newest first.
func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	defer observability.TrackQuery("list", "user")()
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
