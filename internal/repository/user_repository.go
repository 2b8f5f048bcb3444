package repository

import (
	"errors"

	"github.com/KaranVikas/mediumBlog/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// Lookup helpers return (nil, nil) when no row matches so callers can
// distinguish "absent" from a real database failure.

func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// UpdateUser applies the given partial fields and returns the refreshed
// row, or nil when the user does not exist. GORM refreshes updated_at.
func (r *UserRepository) UpdateUser(id uuid.UUID, updates map[string]interface{}) (*models.User, error) {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetUserByID(id)
}

// DeleteUser removes the user and returns the deleted row, or nil when
// the user does not exist.
func (r *UserRepository) DeleteUser(id uuid.UUID) (*models.User, error) {
	user, err := r.GetUserByID(id)
	if err != nil || user == nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", id).Delete(&models.User{}).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) ListUsers() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
