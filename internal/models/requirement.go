package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

type WorkItemStatus string

const (
	WorkItemStatusPending    WorkItemStatus = "PENDING"
	WorkItemStatusInProgress WorkItemStatus = "IN_PROGRESS"
	WorkItemStatusCompleted  WorkItemStatus = "COMPLETED"
	WorkItemStatusRejected   WorkItemStatus = "REJECTED"
)

type Requirement struct {
	ID             string         `gorm:"type:uuid;primarykey" json:"id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Priority       Priority       `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	Status         WorkItemStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ProjectID      string         `gorm:"type:uuid;not null;index" json:"project_id"`
	ParentID       *string        `gorm:"type:uuid" json:"parent_id"`
	EstimatedHours *float64       `json:"estimated_hours"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Relations
	Project   Project               `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Parent    *Requirement          `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children  []Requirement         `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Tasks     []Task                `gorm:"foreignKey:RequirementID" json:"tasks,omitempty"`
	Assignees []RequirementAssignee `gorm:"foreignKey:RequirementID" json:"assignees,omitempty"`
	Comments  []Comment             `gorm:"foreignKey:RequirementID" json:"comments,omitempty"`
}

func (r *Requirement) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
