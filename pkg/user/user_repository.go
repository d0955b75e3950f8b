package user

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/entities"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		RegisterUser(ctx context.Context, user *entities.User) error
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		CheckUsername(ctx context.Context, username string) (bool, error)
		CheckEmail(ctx context.Context, email string) (bool, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

var ErrUserNotFound = errors.New("user not found")

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// RegisterUser returns domain.ErrConflict when a unique index rejects the row.
func (r *userRepository) RegisterUser(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return fmt.Errorf("%w: create user: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: get user: %v", domain.ErrStorage, err)
	}
	return &user, nil
}

func (r *userRepository) CheckUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userRepository) CheckEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("%w: check user: %v", domain.ErrStorage, err)
	}
	return count > 0, nil
}
