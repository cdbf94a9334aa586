package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID             string         `gorm:"type:uuid;primarykey" json:"id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Priority       Priority       `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	Status         WorkItemStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ProjectID      string         `gorm:"type:uuid;not null;index" json:"project_id"`
	RequirementID  *string        `gorm:"type:uuid;index" json:"requirement_id"`
	ParentID       *string        `gorm:"type:uuid" json:"parent_id"`
	EstimatedHours *float64       `json:"estimated_hours"`
	ActualHours    *float64       `json:"actual_hours"`
	StartDate      *time.Time     `json:"start_date"`
	DueDate        *time.Time     `json:"due_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Relations
	Project     Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Requirement *Requirement   `gorm:"foreignKey:RequirementID" json:"requirement,omitempty"`
	Parent      *Task          `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children    []Task         `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Assignees   []TaskAssignee `gorm:"foreignKey:TaskID" json:"assignees,omitempty"`
	Comments    []Comment      `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
