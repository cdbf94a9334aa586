package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suduyun739/project-management-platform/internal/constants"
	"github.com/suduyun739/project-management-platform/internal/dto"
	apierrors "github.com/suduyun739/project-management-platform/internal/errors"
	"github.com/suduyun739/project-management-platform/internal/middleware"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/services"
)

// UserHandler coordinates user management HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns the users visible to the caller. Admins see everyone,
// members see only themselves.
func (h *UserHandler) ListUsers(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	users, err := h.userService.ListUsers(principal)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns a single user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial update to a user. A role change supplied by a
// non-admin is dropped, not rejected.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateUserRequest struct {
		Name   *string      `json:"name"`
		Email  *string      `json:"email"`
		Avatar *string      `json:"avatar"`
		Role   *models.Role `json:"role"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(principal, c.Param("id"), services.UpdateUserInput{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
		Role:   req.Role,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user account. Admin only; self-deletion is rejected.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.userService.DeleteUser(principal, c.Param("id")); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ResetPassword sets a new password for a user without the old one. Admin only.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type ResetPasswordRequest struct {
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ResetPassword(principal, c.Param("id"), req.NewPassword); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUserPermissionDenied),
		errors.Is(err, services.ErrOnlyAdminCanDelete),
		errors.Is(err, services.ErrOnlyAdminCanReset):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCannotDeleteSelf):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNameTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Name must be at least %d characters", constants.MinNameLength))
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
