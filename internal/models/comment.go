package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment attaches to exactly one of a requirement or a task.
type Comment struct {
	ID            string    `gorm:"type:uuid;primarykey" json:"id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	AuthorID      string    `gorm:"type:uuid;not null" json:"author_id"`
	RequirementID *string   `gorm:"type:uuid;index" json:"requirement_id"`
	TaskID        *string   `gorm:"type:uuid;index" json:"task_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Author      User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Requirement *Requirement `gorm:"foreignKey:RequirementID" json:"requirement,omitempty"`
	Task        *Task        `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
