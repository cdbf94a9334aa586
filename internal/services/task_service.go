package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/suduyun739/project-management-platform/internal/constants"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/policy"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task business logic under the assignment-scoped regime.
type TaskService struct {
	taskRepo        repository.TaskRepository
	requirementRepo repository.RequirementRepository
	projectRepo     repository.ProjectRepository
	assignmentRepo  repository.AssignmentRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskRepo repository.TaskRepository,
	requirementRepo repository.RequirementRepository,
	projectRepo repository.ProjectRepository,
	assignmentRepo repository.AssignmentRepository,
) *TaskService {
	return &TaskService{
		taskRepo:        taskRepo,
		requirementRepo: requirementRepo,
		projectRepo:     projectRepo,
		assignmentRepo:  assignmentRepo,
	}
}

// ListTasks returns tasks visible to the actor. Without an explicit assignee
// filter, non-admins see only their own assignments.
func (s *TaskService) ListTasks(actor policy.Principal, filter repository.TaskFilter) ([]models.Task, error) {
	filter.AssigneeID = policy.AssigneeScope(actor, filter.AssigneeID)

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// KanbanBoard groups tasks by status for board views.
type KanbanBoard map[models.WorkItemStatus][]models.Task

// Kanban returns the actor's visible tasks grouped by status. Every status
// column is present, empty or not.
func (s *TaskService) Kanban(actor policy.Principal, filter repository.TaskFilter) (KanbanBoard, error) {
	tasks, err := s.ListTasks(actor, filter)
	if err != nil {
		return nil, err
	}

	board := KanbanBoard{
		models.WorkItemStatusPending:    {},
		models.WorkItemStatusInProgress: {},
		models.WorkItemStatusCompleted:  {},
		models.WorkItemStatusRejected:   {},
	}
	for _, task := range tasks {
		board[task.Status] = append(board[task.Status], task)
	}
	return board, nil
}

// GetTask returns a task with related data. Non-admins must be in the
// assignee set.
func (s *TaskService) GetTask(actor policy.Principal, id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id,
		"Project", "Requirement", "Assignees", "Assignees.User",
		"Comments", "Comments.Author", "Children",
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	isAssignee, err := s.assignmentRepo.IsAssignee(repository.KindTask, id, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !policy.CanReadWorkItem(actor, isAssignee) {
		return nil, ErrWorkItemPermissionDenied
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title          string
	Description    string
	Priority       models.Priority
	Status         models.WorkItemStatus
	ProjectID      string
	RequirementID  *string
	ParentID       *string
	EstimatedHours *float64
	ActualHours    *float64
	StartDate      *time.Time
	DueDate        *time.Time
	AssigneeIDs    []string
}

// CreateTask creates a task. A non-admin creator is always added to the
// assignee set, whatever list they supplied.
func (s *TaskService) CreateTask(actor policy.Principal, input CreateTaskInput) (*models.Task, error) {
	if len(strings.TrimSpace(input.Title)) < constants.MinTitleLength {
		return nil, ErrTitleTooShort
	}
	if input.EstimatedHours != nil && *input.EstimatedHours <= 0 {
		return nil, ErrEstimatedHoursNotPositive
	}
	if input.ActualHours != nil && *input.ActualHours < 0 {
		return nil, ErrActualHoursNegative
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.RequirementID != nil {
		if _, err := s.requirementRepo.FindByID(*input.RequirementID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRequirementNotFound
			}
			return nil, fmt.Errorf("failed to find requirement: %w", err)
		}
	}

	if input.ParentID != nil {
		if _, err := s.taskRepo.FindByID(*input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to find parent: %w", err)
		}
	}

	assigneeIDs := policy.AugmentAssignees(actor, input.AssigneeIDs)
	if err := verifyAssignees(s.assignmentRepo, assigneeIDs); err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.Status == "" {
		input.Status = models.WorkItemStatusPending
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Priority:       input.Priority,
		Status:         input.Status,
		ProjectID:      input.ProjectID,
		RequirementID:  input.RequirementID,
		ParentID:       input.ParentID,
		EstimatedHours: input.EstimatedHours,
		ActualHours:    input.ActualHours,
		StartDate:      input.StartDate,
		DueDate:        input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if len(assigneeIDs) > 0 {
		if err := s.assignmentRepo.ReplaceAssignees(repository.KindTask, task.ID, assigneeIDs); err != nil {
			return nil, fmt.Errorf("failed to assign users: %w", err)
		}
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Requirement", "Assignees", "Assignees.User")
}

// UpdateTaskInput represents a partial task update.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *models.Priority
	Status         *models.WorkItemStatus
	ParentID       *string
	ClearParent    bool
	EstimatedHours *float64
	ClearEstimate  bool
	ActualHours    *float64
	ClearActual    bool
	StartDate      *time.Time
	ClearStartDate bool
	DueDate        *time.Time
	ClearDueDate   bool
	AssigneeIDs    *[]string
}

// UpdateTask applies a partial update. Admins may edit anything; members must
// be assignees, and then may edit any field including status.
func (s *TaskService) UpdateTask(actor policy.Principal, id string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	isAssignee, err := s.assignmentRepo.IsAssignee(repository.KindTask, id, actor.ID)
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
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.ClearParent {
		task.ParentID = nil
	} else if input.ParentID != nil {
		if err := s.checkParent(id, *input.ParentID); err != nil {
			return nil, err
		}
		task.ParentID = input.ParentID
	}
	if input.ClearEstimate {
		task.EstimatedHours = nil
	} else if input.EstimatedHours != nil {
		if *input.EstimatedHours <= 0 {
			return nil, ErrEstimatedHoursNotPositive
		}
		task.EstimatedHours = input.EstimatedHours
	}
	if input.ClearActual {
		task.ActualHours = nil
	} else if input.ActualHours != nil {
		if *input.ActualHours < 0 {
			return nil, ErrActualHoursNegative
		}
		task.ActualHours = input.ActualHours
	}
	if input.ClearStartDate {
		task.StartDate = nil
	} else if input.StartDate != nil {
		task.StartDate = input.StartDate
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if input.AssigneeIDs != nil {
		if err := verifyAssignees(s.assignmentRepo, *input.AssigneeIDs); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if input.AssigneeIDs != nil {
		if err := s.assignmentRepo.ReplaceAssignees(repository.KindTask, id, *input.AssigneeIDs); err != nil {
			return nil, fmt.Errorf("failed to replace assignees: %w", err)
		}
	}

	return s.taskRepo.FindByID(id, "Project", "Requirement", "Assignees", "Assignees.User")
}

// DeleteTask removes a task. Admin only.
func (s *TaskService) DeleteTask(actor policy.Principal, id string) error {
	if !policy.CanDeleteWorkItem(actor) {
		return ErrOnlyAdminDeletesWorkItems
	}

	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// checkParent rejects a parent that is the task itself or any of its
// descendants, which would create a cycle in the tree.
func (s *TaskService) checkParent(id, parentID string) error {
	if parentID == id {
		return ErrParentCycle
	}

	seen := map[string]struct{}{id: {}}
	current := parentID
	for {
		parent, err := s.taskRepo.FindByID(current)
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
