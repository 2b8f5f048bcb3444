package service

import (
	"errors"

	"github.com/KaranVikas/mediumBlog/internal/models"
	"github.com/KaranVikas/mediumBlog/internal/repository"
	"github.com/KaranVikas/mediumBlog/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUserNotFound = errors.New("user not found")

// UserUpdate holds the partial fields of a profile update. Nil means
// "leave unchanged". Role is only honored on the admin path.
type UserUpdate struct {
	Email    *string
	FullName *string
	Role     *models.Role
}

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		logger.Log.Error("Failed to get user",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]*models.User, error) {
	users, err := s.userRepo.ListUsers()
	if err != nil {
		logger.Log.Error("Failed to list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// UpdateUser applies a partial update. An email change re-checks the
// uniqueness invariant before anything is written.
func (s *UserService) UpdateUser(id uuid.UUID, update UserUpdate) (*models.User, error) {
	updates := map[string]interface{}{}

	if update.Email != nil {
		existing, err := s.userRepo.GetUserByEmail(*update.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrEmailAlreadyExists
		}
		updates["email"] = *update.Email
	}
	if update.FullName != nil {
		updates["full_name"] = *update.FullName
	}
	if update.Role != nil {
		updates["role"] = *update.Role
	}

	if len(updates) == 0 {
		return s.GetUser(id)
	}

	user, err := s.userRepo.UpdateUser(id, updates)
	if err != nil {
		logger.Log.Error("Failed to update user",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	logger.Log.Info("User updated",
		zap.String("user_id", id.String()),
	)

	return user, nil
}

func (s *UserService) DeleteUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.DeleteUser(id)
	if err != nil {
		logger.Log.Error("Failed to delete user",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	logger.Log.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.String("username", user.Username),
	)

	return user, nil
}
