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
	"github.com/suduyun739/project-management-platform/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  dto.ToUserDTO(*user),
	})
}

// Register creates a new user account. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type RegisterRequest struct {
		Username string  `json:"username" binding:"required"`
		Password string  `json:"password" binding:"required"`
		Name     string  `json:"name" binding:"required"`
		Email    *string `json:"email"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(principal, services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(principal.ID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ChangePassword replaces the caller's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type ChangePasswordRequest struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ChangePassword(principal.ID, req.OldPassword, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Username must be at least %d characters", constants.MinUsernameLength))
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrNameTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Name must be at least %d characters", constants.MinNameLength))
	case errors.Is(err, services.ErrOldPasswordRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrOldPasswordMismatch):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrOnlyAdminCanRegister):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
