package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/KaranVikas/mediumBlog/internal/models"
	"github.com/KaranVikas/mediumBlog/internal/repository"
	"github.com/KaranVikas/mediumBlog/internal/utils"
	"github.com/KaranVikas/mediumBlog/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const userContextKey = "current_user"

var (
	errMissingToken    = errors.New("authorization header required")
	errMalformedHeader = errors.New("invalid authorization format, use: Bearer <token>")
)

// Authenticator resolves the requesting user from a bearer token.
// Every request walks the same stages: extract the token, validate it,
// resolve the subject against the user table. Each stage is a hard
// failure point; there is nothing to retry.
type Authenticator struct {
	userRepo  *repository.UserRepository
	jwtSecret string
}

func NewAuthenticator(userRepo *repository.UserRepository, jwtSecret string) *Authenticator {
	return &Authenticator{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Authenticate aborts with 401 unless the request carries a valid access
// token for an existing user. On success the resolved user is stored in
// the request context for handlers and later middleware.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Stage 1: extract bearer token
		tokenString, err := extractBearerToken(c)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		// Stage 2: validate signature, expiry and token type.
		// Expired tokens get a distinct message; every other failure
		// stays generic so callers can't probe what went wrong.
		subject, err := utils.ValidateToken(tokenString, a.jwtSecret)
		if err != nil {
			if errors.Is(err, utils.ErrExpiredToken) {
				unauthorized(c, "token has expired")
				return
			}
			unauthorized(c, "could not validate credentials")
			return
		}

		// Stage 3: resolve the subject. A token for a deleted user is
		// treated as bad credentials, not as a missing resource.
		userID, err := uuid.Parse(subject)
		if err != nil {
			unauthorized(c, "could not validate credentials")
			return
		}

		user, err := a.userRepo.GetUserByID(userID)
		if err != nil {
			logger.Log.Error("Failed to resolve user from token",
				zap.String("user_id", subject),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
			c.Abort()
			return
		}
		if user == nil {
			unauthorized(c, "could not validate credentials")
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole gates a route on the role hierarchy. It must run after
// Authenticate; a missing context user aborts with 401.
func (a *Authenticator) RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthorized(c, "could not validate credentials")
			return
		}

		if !user.Role.Satisfies(required) {
			logger.Log.Warn("Access denied: insufficient role",
				zap.String("user_id", user.ID.String()),
				zap.String("role", string(user.Role)),
				zap.String("required", string(required)),
			)
			c.JSON(http.StatusForbidden, gin.H{
				"error": "requires at least " + string(required) + " privileges",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user resolved by Authenticate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func extractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", errMalformedHeader
	}

	return tokenString, nil
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
	c.Abort()
}
