package services

import (
	"errors"
	"fmt"

	"github.com/suduyun739/project-management-platform/internal/constants"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/policy"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserPermissionDenied = errors.New("no permission to modify this user")
	ErrCannotDeleteSelf     = errors.New("cannot delete your own account")
	ErrOnlyAdminCanDelete   = errors.New("only administrators can delete users")
	ErrOnlyAdminCanReset    = errors.New("only administrators can reset passwords")
)

// UserService handles user management business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns all users for admins and a single-element view of self
// for everyone else.
func (s *UserService) ListUsers(actor policy.Principal) ([]models.User, error) {
	if actor.IsAdmin() {
		users, err := s.userRepo.List()
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return users, nil
	}

	self, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return []models.User{*self}, nil
}

// GetUser returns a single user by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput represents a partial user update. Nil fields are untouched.
type UpdateUserInput struct {
	Name   *string
	Email  *string
	Avatar *string
	Role   *models.Role
}

// UpdateUser applies a partial update. Members may update only themselves;
// a role field supplied by a non-admin is silently dropped.
func (s *UserService) UpdateUser(actor policy.Principal, targetID string, input UpdateUserInput) (*models.User, error) {
	if !policy.CanUpdateUser(actor, targetID) {
		return nil, ErrUserPermissionDenied
	}

	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil && *input.Name != "" {
		if len(*input.Name) < constants.MinNameLength {
			return nil, ErrNameTooShort
		}
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != "" {
		if existing, err := s.userRepo.FindByEmail(*input.Email); err == nil && existing.ID != user.ID {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = input.Email
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}
	if input.Role != nil && policy.CanSetRole(actor) {
		user.Role = *input.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user. Admin only; the acting principal's own record is
// protected.
func (s *UserService) DeleteUser(actor policy.Principal, targetID string) error {
	if !policy.CanDeleteUser(actor) {
		return ErrOnlyAdminCanDelete
	}
	if actor.ID == targetID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.userRepo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ResetPassword replaces a user's password with a new credential. Admin only.
func (s *UserService) ResetPassword(actor policy.Principal, targetID, newPassword string) error {
	if !policy.CanResetPassword(actor) {
		return ErrOnlyAdminCanReset
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
