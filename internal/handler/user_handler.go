package handler

import (
	"errors"
	"net/http"

	"github.com/KaranVikas/mediumBlog/internal/middleware"
	"github.com/KaranVikas/mediumBlog/internal/models"
	"github.com/KaranVikas/mediumBlog/internal/service"
	"github.com/KaranVikas/mediumBlog/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type UpdateProfileRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
}

// Me returns the authenticated user's own record.
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, user)
}

// UpdateMe applies a partial update to the authenticated user's profile.
// PATCH /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	updated, err := h.userService.UpdateUser(user.ID, service.UserUpdate{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		h.writeUpdateError(c, user.ID, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ListUsers returns every user. Admin only.
// GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
	})
}

// GetUser returns a user by id. Admin only.
// GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update to any user, including the role.
// Admin only.
// PATCH /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	update := service.UserUpdate{
		Email:    req.Email,
		FullName: req.FullName,
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		update.Role = &role
	}

	admin := middleware.CurrentUser(c)
	logger.Log.Info("Admin updating user",
		zap.String("admin_id", admin.ID.String()),
		zap.String("target_user_id", id.String()),
	)

	updated, err := h.userService.UpdateUser(id, update)
	if err != nil {
		h.writeUpdateError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteUser removes a user permanently. Super admin only. Tokens the
// deleted user already holds keep their signature but stop resolving,
// so they die at the next request.
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	admin := middleware.CurrentUser(c)
	logger.Log.Info("Admin deleting user",
		zap.String("admin_id", admin.ID.String()),
		zap.String("target_user_id", id.String()),
	)

	if _, err := h.userService.DeleteUser(id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

func (h *UserHandler) writeUpdateError(c *gin.Context, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
	case errors.Is(err, service.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	default:
		logger.Log.Error("Failed to update user",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid user ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}
