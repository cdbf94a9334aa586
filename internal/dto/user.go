package dto

import (
	"time"

	"github.com/suduyun739/project-management-platform/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Email     *string     `json:"email"`
	Avatar    *string     `json:"avatar"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserSummaryDTO is the compact user shape embedded in other resources
type UserSummaryDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	result := make([]UserDTO, len(users))
	for i, u := range users {
		result[i] = ToUserDTO(u)
	}
	return result
}

// ToUserSummaryDTO converts a User model to its compact form
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
	}
}
