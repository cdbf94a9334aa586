package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suduyun739/project-management-platform/internal/dto"
	apierrors "github.com/suduyun739/project-management-platform/internal/errors"
	"github.com/suduyun739/project-management-platform/internal/middleware"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"github.com/suduyun739/project-management-platform/internal/services"
)

// RequirementHandler coordinates requirement HTTP handlers.
type RequirementHandler struct {
	requirementService *services.RequirementService
}

// NewRequirementHandler creates a new RequirementHandler.
func NewRequirementHandler(requirementService *services.RequirementService) *RequirementHandler {
	return &RequirementHandler{
		requirementService: requirementService,
	}
}

// ListRequirements returns the requirements visible to the caller, filtered
// by optional project_id, status, priority, assignee_id and search params.
func (h *RequirementHandler) ListRequirements(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	requirements, err := h.requirementService.ListRequirements(principal, workItemFilterFromQuery(c))
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, requirements)
}

// GetRequirement returns a requirement with its relations.
func (h *RequirementHandler) GetRequirement(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	requirement, err := h.requirementService.GetRequirement(principal, c.Param("id"))
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, requirement)
}

// CreateRequirement creates a requirement in a project.
func (h *RequirementHandler) CreateRequirement(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateRequirementRequest struct {
		Title          string          `json:"title" binding:"required"`
		Description    string          `json:"description"`
		Priority       models.Priority `json:"priority"`
		ProjectID      string          `json:"project_id" binding:"required"`
		ParentID       *string         `json:"parent_id"`
		EstimatedHours *float64        `json:"estimated_hours"`
		AssigneeIDs    []string        `json:"assignee_ids"`
	}

	var req CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	requirement, err := h.requirementService.CreateRequirement(principal, services.CreateRequirementInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		ProjectID:      req.ProjectID,
		ParentID:       req.ParentID,
		EstimatedHours: req.EstimatedHours,
		AssigneeIDs:    req.AssigneeIDs,
	})
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusCreated, requirement)
}

// UpdateRequirement applies a partial update to a requirement.
func (h *RequirementHandler) UpdateRequirement(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	// Nullable fields distinguish an absent key from an explicit null,
	// which clears the value.
	type UpdateRequirementRequest struct {
		Title          *string                `json:"title"`
		Description    *string                `json:"description"`
		Priority       *models.Priority       `json:"priority"`
		Status         *models.WorkItemStatus `json:"status"`
		ParentID       dto.Nullable[string]   `json:"parent_id"`
		EstimatedHours dto.Nullable[float64]  `json:"estimated_hours"`
		AssigneeIDs    *[]string              `json:"assignee_ids"`
	}

	var req UpdateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateRequirementInput{
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
		input.ClearHours = req.EstimatedHours.Null
		input.EstimatedHours = req.EstimatedHours.Ptr()
	}

	requirement, err := h.requirementService.UpdateRequirement(principal, c.Param("id"), input)
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, requirement)
}

// DeleteRequirement removes a requirement. Admin only.
func (h *RequirementHandler) DeleteRequirement(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.requirementService.DeleteRequirement(principal, c.Param("id")); err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Requirement deleted successfully"})
}

func workItemFilterFromQuery(c *gin.Context) repository.WorkItemFilter {
	filter := repository.WorkItemFilter{
		Search: c.Query("search"),
	}
	if projectID := c.Query("project_id"); projectID != "" {
		filter.ProjectID = &projectID
	}
	if status := c.Query("status"); status != "" {
		s := models.WorkItemStatus(status)
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.Priority(priority)
		filter.Priority = &p
	}
	if assigneeID := c.Query("assignee_id"); assigneeID != "" {
		filter.AssigneeID = &assigneeID
	}
	return filter
}

func respondWorkItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRequirementNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrWorkItemPermissionDenied),
		errors.Is(err, services.ErrOnlyAdminDeletesWorkItems):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleTooShort),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrParentNotFound),
		errors.Is(err, services.ErrParentCycle),
		errors.Is(err, services.ErrEstimatedHoursNotPositive),
		errors.Is(err, services.ErrActualHoursNegative):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
