package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type User struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        *string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Avatar       *string   `gorm:"type:varchar(255)" json:"avatar"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	CreatedProjects []Project `gorm:"foreignKey:CreatorID" json:"-"`
	Comments        []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
