package main

import (
	"log"
	"os"

	"github.com/KaranVikas/mediumBlog/internal/config"
	"github.com/KaranVikas/mediumBlog/internal/database"
	"github.com/KaranVikas/mediumBlog/internal/models"
	"github.com/KaranVikas/mediumBlog/internal/utils"
	"github.com/google/uuid"
)

// Seeds the first super admin so role-gated endpoints are reachable on a
// fresh database. Safe to run repeatedly.
func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	var admin models.User
	result := database.DB.Where("email = ?", adminEmail).First(&admin)

	if result.Error == nil {
		log.Println("Super admin already exists:", admin.Username)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		ID:           uuid.New(),
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Role:         models.RoleSuperAdmin,
		IsVerified:   true,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create super admin:", err)
	}

	log.Println("Super admin created successfully:", admin.Username)
}
