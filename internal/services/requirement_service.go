package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suduyun739/project-management-platform/internal/constants"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/policy"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRequirementNotFound       = errors.New("requirement not found")
	ErrTaskNotFound              = errors.New("task not found")
	ErrTitleTooShort             = errors.New("title too short")
	ErrWorkItemPermissionDenied  = errors.New("no permission to access this work item")
	ErrOnlyAdminDeletesWorkItems = errors.New("only administrators can delete work items")
	ErrInvalidAssignee           = errors.New("one or more assignees do not exist")
	ErrParentNotFound            = errors.New("parent work item not found")
	ErrParentCycle               = errors.New("parent must not be the item itself or one of its descendants")
	ErrEstimatedHoursNotPositive = errors.New("estimated hours must be positive")
	ErrActualHoursNegative       = errors.New("actual hours cannot be negative")
)

// RequirementService handles requirement business logic under the
// assignment-scoped regime.
type RequirementService struct {
	requirementRepo repository.RequirementRepository
	projectRepo     repository.ProjectRepository
	assignmentRepo  repository.AssignmentRepository
}

// NewRequirementService creates a new RequirementService.
func NewRequirementService(
	requirementRepo repository.RequirementRepository,
	projectRepo repository.ProjectRepository,
	assignmentRepo repository.AssignmentRepository,
) *RequirementService {
	return &RequirementService{
		requirementRepo: requirementRepo,
		projectRepo:     projectRepo,
		assignmentRepo:  assignmentRepo,
	}
}

// ListRequirements returns requirements visible to the actor. Without an
// explicit assignee filter, non-admins see only their own assignments.
func (s *RequirementService) ListRequirements(actor policy.Principal, filter repository.WorkItemFilter) ([]models.Requirement, error) {
	filter.AssigneeID = policy.AssigneeScope(actor, filter.AssigneeID)

	requirements, err := s.requirementRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	return requirements, nil
}

// GetRequirement returns a requirement with related data. Non-admins must be
// in the assignee set.
func (s *RequirementService) GetRequirement(actor policy.Principal, id string) (*models.Requirement, error) {
	requirement, err := s.requirementRepo.FindByID(id,
		"Project", "Assignees", "Assignees.User",
		"Tasks", "Comments", "Comments.Author", "Children",
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("failed to find requirement: %w", err)
	}

	isAssignee, err := s.assignmentRepo.IsAssignee(repository.KindRequirement, id, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !policy.CanReadWorkItem(actor, isAssignee) {
		return nil, ErrWorkItemPermissionDenied
	}

	return requirement, nil
}

// CreateRequirementInput represents input for creating a requirement.
type CreateRequirementInput struct {
	Title          string
	Description    string
	Priority       models.Priority
	ProjectID      string
	ParentID       *string
	EstimatedHours *float64
	AssigneeIDs    []string
}

// CreateRequirement creates a requirement. A non-admin creator is always
// added to the assignee set, whatever list they supplied.
func (s *RequirementService) CreateRequirement(actor policy.Principal, input CreateRequirementInput) (*models.Requirement, error) {
	if len(strings.TrimSpace(input.Title)) < constants.MinTitleLength {
		return nil, ErrTitleTooShort
	}
	if input.EstimatedHours != nil && *input.EstimatedHours <= 0 {
		return nil, ErrEstimatedHoursNotPositive
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.ParentID != nil {
		if _, err := s.requirementRepo.FindByID(*input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to find parent: %w", err)
		}
	}

	assigneeIDs := policy.AugmentAssignees(actor, input.AssigneeIDs)
	if err := s.verifyAssignees(assigneeIDs); err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	requirement := &models.Requirement{
		Title:          input.Title,
		Description:    input.Description,
		Priority:       input.Priority,
		Status:         models.WorkItemStatusPending,
		ProjectID:      input.ProjectID,
		ParentID:       input.ParentID,
		EstimatedHours: input.EstimatedHours,
	}

	if err := s.requirementRepo.Create(requirement); err != nil {
		return nil, fmt.Errorf("failed to create requirement: %w", err)
	}

	if len(assigneeIDs) > 0 {
		if err := s.assignmentRepo.ReplaceAssignees(repository.KindRequirement, requirement.ID, assigneeIDs); err != nil {
			return nil, fmt.Errorf("failed to assign users: %w", err)
		}
	}

	return s.requirementRepo.FindByID(requirement.ID, "Project", "Assignees", "Assignees.User")
}

// UpdateRequirementInput represents a partial requirement update.
type UpdateRequirementInput struct {
	Title          *string
	Description    *string
	Priority       *models.Priority
	Status         *models.WorkItemStatus
	ParentID       *string
	ClearParent    bool
	EstimatedHours *float64
	ClearHours     bool
	AssigneeIDs    *[]string
}

// UpdateRequirement applies a partial update. Admins may edit anything;
// members must be assignees, and then may edit any field including status.
func (s *RequirementService) UpdateRequirement(actor policy.Principal, id string, input UpdateRequirementInput) (*models.Requirement, error) {
	requirement, err := s.requirementRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("failed to find requirement: %w", err)
	}

	isAssignee, err := s.assignmentRepo.IsAssignee(repository.KindRequirement, id, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !policy.CanUpdateWorkItem(actor, isAssignee) {
		return nil, ErrWorkItemPermissionDenied
	}

	if input.Title != nil {
		if len(strings.TrimSpace(*input.Title)) < constants.MinTitleLength {
			return nil, ErrTitleTooShort
		}
		requirement.Title = *input.Title
	}
	if input.Description != nil {
		requirement.Description = *input.Description
	}
	if input.Priority != nil {
		requirement.Priority = *input.Priority
	}
	if input.Status != nil {
		requirement.Status = *input.Status
	}
	if input.ClearParent {
		requirement.ParentID = nil
	} else if input.ParentID != nil {
		if err := s.checkParent(id, *input.ParentID); err != nil {
			return nil, err
		}
		requirement.ParentID = input.ParentID
	}
	if input.ClearHours {
		requirement.EstimatedHours = nil
	} else if input.EstimatedHours != nil {
		if *input.EstimatedHours <= 0 {
			return nil, ErrEstimatedHoursNotPositive
		}
		requirement.EstimatedHours = input.EstimatedHours
	}

	if input.AssigneeIDs != nil {
		if err := s.verifyAssignees(*input.AssigneeIDs); err != nil {
			return nil, err
		}
	}

	if err := s.requirementRepo.Update(requirement); err != nil {
		return nil, fmt.Errorf("failed to update requirement: %w", err)
	}

	if input.AssigneeIDs != nil {
		if err := s.assignmentRepo.ReplaceAssignees(repository.KindRequirement, id, *input.AssigneeIDs); err != nil {
			return nil, fmt.Errorf("failed to replace assignees: %w", err)
		}
	}

	return s.requirementRepo.FindByID(id, "Project", "Assignees", "Assignees.User")
}

// DeleteRequirement removes a requirement. Admin only.
func (s *RequirementService) DeleteRequirement(actor policy.Principal, id string) error {
	if !policy.CanDeleteWorkItem(actor) {
		return ErrOnlyAdminDeletesWorkItems
	}

	if _, err := s.requirementRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequirementNotFound
		}
		return fmt.Errorf("failed to find requirement: %w", err)
	}

	if err := s.requirementRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete requirement: %w", err)
	}
	return nil
}

// checkParent rejects a parent that is the requirement itself or any of its
// descendants, which would create a cycle in the tree.
func (s *RequirementService) checkParent(id, parentID string) error {
	if parentID == id {
		return ErrParentCycle
	}

	seen := map[string]struct{}{id: {}}
	current := parentID
	for {
		parent, err := s.requirementRepo.FindByID(current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParentNotFound
			}
			return fmt.Errorf("failed to find parent: %w", err)
		}
		if parent.ParentID == nil {
			return nil
		}
		if _, exists := seen[*parent.ParentID]; exists {
			return ErrParentCycle
		}
		seen[current] = struct{}{}
		current = *parent.ParentID
	}
}

func (s *RequirementService) verifyAssignees(userIDs []string) error {
	return verifyAssignees(s.assignmentRepo, userIDs)
}

// verifyAssignees checks that every distinct user ID refers to an existing user.
func verifyAssignees(assignmentRepo repository.AssignmentRepository, userIDs []string) error {
	unique := uniqueIDs(userIDs)
	if len(unique) == 0 {
		return nil
	}
	count, err := assignmentRepo.CountUsersByIDs(unique)
	if err != nil {
		return fmt.Errorf("failed to verify assignees: %w", err)
	}
	if int(count) != len(unique) {
		return ErrInvalidAssignee
	}
	return nil
}

// uniqueIDs removes duplicate values from a slice of IDs.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
