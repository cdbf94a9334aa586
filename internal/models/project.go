package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusArchived  ProjectStatus = "ARCHIVED"
)

type Project struct {
	ID          string        `gorm:"type:uuid;primarykey" json:"id"`
	Name        string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CreatorID   string        `gorm:"type:uuid;not null" json:"creator_id"`
	SortOrder   int           `gorm:"not null;default:0" json:"sort_order"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Creator      User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Requirements []Requirement `gorm:"foreignKey:ProjectID" json:"requirements,omitempty"`
	Tasks        []Task        `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
