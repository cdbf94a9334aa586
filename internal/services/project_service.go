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

var (
	ErrProjectNotFound          = errors.New("project not found")
	ErrProjectNameTaken         = errors.New("project name already exists")
	ErrProjectNameTooShort      = errors.New("project name too short")
	ErrOnlyAdminManagesProjects = errors.New("only administrators can manage projects")
)

// ProjectService handles project business logic. Projects follow the
// admin-curated regime: everyone reads, only admins write.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// ProjectWithCounts pairs a project with its dependent-row counts.
type ProjectWithCounts struct {
	models.Project
	RequirementCount int64
	TaskCount        int64
}

// ListProjects returns all projects ordered by sort order. Visible to every
// authenticated principal.
func (s *ProjectService) ListProjects(filter repository.ProjectFilter) ([]ProjectWithCounts, error) {
	projects, err := s.projectRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	counts, err := s.projectRepo.CountsByProject()
	if err != nil {
		return nil, fmt.Errorf("failed to count project items: %w", err)
	}

	result := make([]ProjectWithCounts, len(projects))
	for i, p := range projects {
		c := counts[p.ID]
		result[i] = ProjectWithCounts{
			Project:          p,
			RequirementCount: c.Requirements,
			TaskCount:        c.Tasks,
		}
	}
	return result, nil
}

// GetProject returns a single project with its work items embedded.
func (s *ProjectService) GetProject(id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id,
		"Creator",
		"Requirements", "Requirements.Assignees", "Requirements.Assignees.User",
		"Tasks", "Tasks.Assignees", "Tasks.Assignees.User",
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// CreateProject creates a project at the end of the ordering. Admin only.
func (s *ProjectService) CreateProject(actor policy.Principal, input CreateProjectInput) (*models.Project, error) {
	if !policy.CanManageProjects(actor) {
		return nil, ErrOnlyAdminManagesProjects
	}

	name := strings.TrimSpace(input.Name)
	if len(name) < constants.MinTitleLength {
		return nil, ErrProjectNameTooShort
	}

	if _, err := s.projectRepo.FindByName(name); err == nil {
		return nil, ErrProjectNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}

	maxOrder, err := s.projectRepo.MaxSortOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sort order: %w", err)
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		Status:      models.ProjectStatusActive,
		CreatorID:   actor.ID,
		SortOrder:   maxOrder + 1,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Creator")
}

// UpdateProjectInput represents a partial project update. Nil fields are untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateProject applies a partial update. Admin only; a rename must not
// collide with another project's name.
func (s *ProjectService) UpdateProject(actor policy.Principal, id string, input UpdateProjectInput) (*models.Project, error) {
	if !policy.CanManageProjects(actor) {
		return nil, ErrOnlyAdminManagesProjects
	}

	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len(name) < constants.MinTitleLength {
			return nil, ErrProjectNameTooShort
		}
		if name != project.Name {
			if existing, err := s.projectRepo.FindByName(name); err == nil && existing.ID != project.ID {
				return nil, ErrProjectNameTaken
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check project name: %w", err)
			}
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Creator")
}

// DeleteProject removes a project and everything under it. Admin only.
func (s *ProjectService) DeleteProject(actor policy.Principal, id string) error {
	if !policy.CanManageProjects(actor) {
		return ErrOnlyAdminManagesProjects
	}

	if _, err := s.projectRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
