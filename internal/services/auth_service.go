package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/suduyun739/project-management-platform/internal/constants"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/policy"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUsernameTooShort     = errors.New("username too short")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrNameTooShort         = errors.New("name too short")
	ErrOldPasswordRequired  = errors.New("old and new passwords are required")
	ErrOldPasswordMismatch  = errors.New("old password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
	ErrOnlyAdminCanRegister = errors.New("only administrators can create users")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the user with a signed bearer token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	if len(strings.TrimSpace(input.Username)) < constants.MinUsernameLength {
		return nil, "", ErrUsernameTooShort
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return user, token, nil
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    *string
}

// Register creates a new user. Only administrators may register accounts.
func (s *AuthService) Register(actor policy.Principal, input RegisterInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrOnlyAdminCanRegister
	}

	username := strings.TrimSpace(input.Username)
	if len(username) < constants.MinUsernameLength {
		return nil, ErrUsernameTooShort
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(strings.TrimSpace(input.Name)) < constants.MinNameLength {
		return nil, ErrNameTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if input.Email != nil && *input.Email != "" {
		if _, err := s.userRepo.FindByEmail(*input.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Name:         input.Name,
		Email:        input.Email,
		Role:         models.RoleMember,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the caller's own password after verifying the old one.
func (s *AuthService) ChangePassword(userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrOldPasswordRequired
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrOldPasswordMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// Claims carried by the bearer token. The subject is the user ID.
type tokenClaims struct {
	jwt.RegisteredClaims
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Username: user.Username,
		Role:     user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
