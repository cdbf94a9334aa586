package models

import "time"

// RequirementAssignee links a user to a requirement. The (requirement, user)
// pair is unique; a user appears in the assignee set at most once.
type RequirementAssignee struct {
	RequirementID string    `gorm:"type:uuid;primarykey" json:"requirement_id"`
	UserID        string    `gorm:"type:uuid;primarykey" json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Requirement Requirement `gorm:"foreignKey:RequirementID" json:"requirement,omitempty"`
	User        User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TaskAssignee links a user to a task.
type TaskAssignee struct {
	TaskID    string    `gorm:"type:uuid;primarykey" json:"task_id"`
	UserID    string    `gorm:"type:uuid;primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
