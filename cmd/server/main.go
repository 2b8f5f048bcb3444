package main

import (
	"log"

	"github.com/KaranVikas/mediumBlog/internal/config"
	"github.com/KaranVikas/mediumBlog/internal/database"
	"github.com/KaranVikas/mediumBlog/internal/handler"
	"github.com/KaranVikas/mediumBlog/internal/middleware"
	"github.com/KaranVikas/mediumBlog/internal/models"
	"github.com/KaranVikas/mediumBlog/internal/repository"
	"github.com/KaranVikas/mediumBlog/internal/service"
	"github.com/KaranVikas/mediumBlog/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.DB)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepo)

	// Initialize handlers and middleware
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	auth := middleware.NewAuthenticator(userRepo, cfg.JWTSecret)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))

	// Public auth routes, throttled per IP
	authRoutes := router.Group("/api/auth")
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		limiter := middleware.NewRateLimiter(redis.NewClient(opt), middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
		})
		authRoutes.Use(limiter.Middleware())
	} else {
		log.Println("REDIS_URL not set, auth rate limiting disabled")
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	// Protected routes (require a valid access token)
	users := router.Group("/api/users")
	users.Use(auth.Authenticate())
	{
		users.GET("/me", userHandler.Me)
		users.PATCH("/me", userHandler.UpdateMe)

		users.GET("", auth.RequireRole(models.RoleAdmin), userHandler.ListUsers)
		users.GET("/:id", auth.RequireRole(models.RoleAdmin), userHandler.GetUser)
		users.PATCH("/:id", auth.RequireRole(models.RoleAdmin), userHandler.UpdateUser)
		users.DELETE("/:id", auth.RequireRole(models.RoleSuperAdmin), userHandler.DeleteUser)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
