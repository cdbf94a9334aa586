package handlers

import (
	"errors"
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

// ProjectHandler coordinates project management HTTP handlers.
type ProjectHandler struct {
	projectService  *services.ProjectService
	orderingService *services.OrderingService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, orderingService *services.OrderingService) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		orderingService: orderingService,
	}
}

// ListProjects returns all projects in manual sort order, with requirement
// and task counts. Supports status and search query filters.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	filter := repository.ProjectFilter{
		Search: c.Query("search"),
	}
	if status := c.Query("status"); status != "" {
		s := models.ProjectStatus(status)
		filter.Status = &s
	}

	projects, err := h.projectService.ListProjects(filter)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListItemDTOs(projects))
}

// GetProject returns a single project with its requirements and tasks.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Param("id"))
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// CreateProject creates a project at the bottom of the ordering. Admin only.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string     `json:"name" binding:"required"`
		Description string     `json:"description"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(principal, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// UpdateProject applies a partial update to a project. Admin only.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
		StartDate   *time.Time            `json:"start_date"`
		EndDate     *time.Time            `json:"end_date"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(principal, c.Param("id"), services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project and everything under it. Admin only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.projectService.DeleteProject(principal, c.Param("id")); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// SortProject applies a single ordering action to a project. Admin only.
func (h *ProjectHandler) SortProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type SortRequest struct {
		Action services.SortAction `json:"action" binding:"required"`
	}

	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.orderingService.Sort(principal, c.Param("id"), req.Action); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project order updated"})
}

// ReorderProjects renumbers the listed projects by position. Admin only.
func (h *ProjectHandler) ReorderProjects(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type ReorderRequest struct {
		ProjectIDs []string `json:"project_ids"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.orderingService.Reorder(principal, req.ProjectIDs); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Projects reordered"})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrProjectNameTooShort),
		errors.Is(err, services.ErrInvalidSortAction),
		errors.Is(err, services.ErrInvalidIDList):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOnlyAdminManagesProjects):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
