package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suduyun739/project-management-platform/internal/dto"
	apierrors "github.com/suduyun739/project-management-platform/internal/errors"
	"github.com/suduyun739/project-management-platform/internal/middleware"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"github.com/suduyun739/project-management-platform/internal/services"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks visible to the caller, filtered by optional
// project_id, requirement_id, status, priority, assignee_id and search params.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(principal, taskFilterFromQuery(c))
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Kanban returns the caller's visible tasks grouped by status.
func (h *TaskHandler) Kanban(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	board, err := h.taskService.Kanban(principal, taskFilterFromQuery(c))
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// GetTask returns a task with its relations.
func (h *TaskHandler) GetTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.GetTask(principal, c.Param("id"))
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask creates a task in a project, optionally linked to a requirement
// and a parent task.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title          string                `json:"title" binding:"required"`
		Description    string                `json:"description"`
		Priority       models.Priority       `json:"priority"`
		Status         models.WorkItemStatus `json:"status"`
		ProjectID      string                `json:"project_id" binding:"required"`
		RequirementID  *string               `json:"requirement_id"`
		ParentID       *string               `json:"parent_id"`
		EstimatedHours *float64              `json:"estimated_hours"`
		ActualHours    *float64              `json:"actual_hours"`
		StartDate      *time.Time            `json:"start_date"`
		DueDate        *time.Time            `json:"due_date"`
		AssigneeIDs    []string              `json:"assignee_ids"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(principal, services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Status:         req.Status,
		ProjectID:      req.ProjectID,
		RequirementID:  req.RequirementID,
		ParentID:       req.ParentID,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
		AssigneeIDs:    req.AssigneeIDs,
	})
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial update to a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	// Nullable fields distinguish an absent key from an explicit null,
	// which clears the value.
	type UpdateTaskRequest struct {
		Title          *string                 `json:"title"`
		Description    *string                 `json:"description"`
		Priority       *models.Priority        `json:"priority"`
		Status         *models.WorkItemStatus  `json:"status"`
		ParentID       dto.Nullable[string]    `json:"parent_id"`
		EstimatedHours dto.Nullable[float64]   `json:"estimated_hours"`
		ActualHours    dto.Nullable[float64]   `json:"actual_hours"`
		StartDate      dto.Nullable[time.Time] `json:"start_date"`
		DueDate        dto.Nullable[time.Time] `json:"due_date"`
		AssigneeIDs    *[]string               `json:"assignee_ids"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		AssigneeIDs: req.AssigneeIDs,
	}
	if req.ParentID.Set {
		input.ClearParent = req.ParentID.Null
		input.ParentID = req.ParentID.Ptr()
	}
	if req.EstimatedHours.Set {
		input.ClearEstimate = req.EstimatedHours.Null
		input.EstimatedHours = req.EstimatedHours.Ptr()
	}
	if req.ActualHours.Set {
		input.ClearActual = req.ActualHours.Null
		input.ActualHours = req.ActualHours.Ptr()
	}
	if req.StartDate.Set {
		input.ClearStartDate = req.StartDate.Null
		input.StartDate = req.StartDate.Ptr()
	}
	if req.DueDate.Set {
		input.ClearDueDate = req.DueDate.Null
		input.DueDate = req.DueDate.Ptr()
	}

	task, err := h.taskService.UpdateTask(principal, c.Param("id"), input)
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task. Admin only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(principal, c.Param("id")); err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func taskFilterFromQuery(c *gin.Context) repository.TaskFilter {
	filter := repository.TaskFilter{
		WorkItemFilter: workItemFilterFromQuery(c),
	}
	if requirementID := c.Query("requirement_id"); requirementID != "" {
		filter.RequirementID = &requirementID
	}
	return filter
}
