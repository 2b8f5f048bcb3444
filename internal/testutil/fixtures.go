package testutil

import (
	"time"

	"github.com/KaranVikas/mediumBlog/internal/models"
	"github.com/KaranVikas/mediumBlog/internal/utils"
	"github.com/google/uuid"
)

// CreateTestUser creates a SQLite-compatible test user with hashed password
func CreateTestUser(username, email, password string, role models.Role) (*TestUser, error) {
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &TestUser{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(role),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// DefaultTestUser returns a default regular user
func DefaultTestUser() (*TestUser, error) {
	return CreateTestUser("testuser", "test@example.com", "Test123456", models.RoleUser)
}

// DefaultAuthorUser returns a default author user
func DefaultAuthorUser() (*TestUser, error) {
	return CreateTestUser("author", "author@example.com", "Author123456", models.RoleAuthor)
}

// DefaultAdminUser returns a default admin user
func DefaultAdminUser() (*TestUser, error) {
	return CreateTestUser("admin", "admin@example.com", "Admin123456", models.RoleAdmin)
}

// DefaultSuperAdminUser returns a default super admin user
func DefaultSuperAdminUser() (*TestUser, error) {
	return CreateTestUser("superadmin", "superadmin@example.com", "Super123456", models.RoleSuperAdmin)
}
