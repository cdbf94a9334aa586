package repository

import (
	"github.com/suduyun739/project-management-platform/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users, newest first
	List() ([]models.User, error)

	// Update persists all fields of a user
	Update(user *models.User) error

	// Delete removes a user
	Delete(id string) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status *models.ProjectStatus
	Search string
}

// ProjectCounts carries per-project dependent-row counts for list views
type ProjectCounts struct {
	Requirements int64
	Tasks        int64
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Project, error)

	// FindByName finds a project by exact name match
	FindByName(name string) (*models.Project, error)

	// List returns projects matching the filter, ordered by sort order
	List(filter ProjectFilter) ([]models.Project, error)

	// ListOrdered returns every project ordered by sort order ascending
	ListOrdered() ([]models.Project, error)

	// CountsByProject returns requirement and task counts keyed by project ID
	CountsByProject() (map[string]ProjectCounts, error)

	// MaxSortOrder returns the highest sort order in the collection (0 when empty)
	MaxSortOrder() (int, error)

	// UpdateSortOrders applies the given sort order values in one transaction
	UpdateSortOrders(orders map[string]int) error

	// Update persists all fields of a project
	Update(project *models.Project) error

	// Delete removes a project and all dependent rows
	Delete(id string) error
}

// WorkItemFilter holds filtering options shared by requirement and task lists
type WorkItemFilter struct {
	ProjectID  *string
	Status     *models.WorkItemStatus
	Priority   *models.Priority
	AssigneeID *string
	Search     string
}

// RequirementRepository defines the interface for requirement data access
type RequirementRepository interface {
	// Create creates a new requirement
	Create(requirement *models.Requirement) error

	// FindByID finds a requirement by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Requirement, error)

	// List returns requirements matching the filter
	List(filter WorkItemFilter) ([]models.Requirement, error)

	// Update persists all fields of a requirement
	Update(requirement *models.Requirement) error

	// Delete removes a requirement and its dependent rows
	Delete(id string) error
}

// TaskFilter extends WorkItemFilter with task-specific criteria
type TaskFilter struct {
	WorkItemFilter
	RequirementID *string
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// List returns tasks matching the filter
	List(filter TaskFilter) ([]models.Task, error)

	// Update persists all fields of a task
	Update(task *models.Task) error

	// Delete removes a task and its dependent rows
	Delete(id string) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID
	FindByID(id string) (*models.Comment, error)

	// Delete removes a comment
	Delete(id string) error
}

// WorkItemKind selects which assignment relation an operation targets.
type WorkItemKind string

const (
	KindRequirement WorkItemKind = "requirement"
	KindTask        WorkItemKind = "task"
)

// AssignmentRepository manages the set-valued user relation on work items.
type AssignmentRepository interface {
	// ListAssignees returns the user IDs assigned to an entity
	ListAssignees(kind WorkItemKind, entityID string) ([]string, error)

	// ReplaceAssignees atomically replaces the full assignee set
	ReplaceAssignees(kind WorkItemKind, entityID string, userIDs []string) error

	// IsAssignee reports whether a user is in the entity's assignee set
	IsAssignee(kind WorkItemKind, entityID, userID string) (bool, error)

	// CountUsersByIDs counts how many of the given user IDs exist
	CountUsersByIDs(userIDs []string) (int64, error)
}
