package dto

import (
	"time"

	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/services"
)

// ProjectListItemDTO represents a project in list responses, with dependent
// row counts for the overview screen.
type ProjectListItemDTO struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	Status           models.ProjectStatus `json:"status"`
	SortOrder        int                  `json:"sort_order"`
	StartDate        *time.Time           `json:"start_date"`
	EndDate          *time.Time           `json:"end_date"`
	CreatedAt        time.Time            `json:"created_at"`
	Creator          *UserSummaryDTO      `json:"creator,omitempty"`
	RequirementCount int64                `json:"requirement_count"`
	TaskCount        int64                `json:"task_count"`
}

// ToProjectListItemDTO converts a project with counts for list responses
func ToProjectListItemDTO(p services.ProjectWithCounts) ProjectListItemDTO {
	item := ProjectListItemDTO{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Status:           p.Status,
		SortOrder:        p.SortOrder,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		CreatedAt:        p.CreatedAt,
		RequirementCount: p.RequirementCount,
		TaskCount:        p.TaskCount,
	}
	if p.Creator.ID != "" {
		creator := ToUserSummaryDTO(p.Creator)
		item.Creator = &creator
	}
	return item
}

// ToProjectListItemDTOs converts a slice of projects with counts
func ToProjectListItemDTOs(projects []services.ProjectWithCounts) []ProjectListItemDTO {
	result := make([]ProjectListItemDTO, len(projects))
	for i, p := range projects {
		result[i] = ToProjectListItemDTO(p)
	}
	return result
}
