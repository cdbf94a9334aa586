package repository

import (
	"github.com/suduyun739/project-management-platform/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks matching the filter
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.RequirementID != nil {
		query = query.Where("tasks.requirement_id = ?", *filter.RequirementID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		assigneeSubQuery := r.db.Model(&models.TaskAssignee{}).
			Select("1").
			Where("task_assignees.task_id = tasks.id").
			Where("task_assignees.user_id = ?", *filter.AssigneeID)
		query = query.Where("EXISTS (?)", assigneeSubQuery)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(tasks.title) LIKE LOWER(?) OR LOWER(tasks.description) LIKE LOWER(?)", pattern, pattern)
	}

	if err := query.
		Preload("Project").
		Preload("Requirement").
		Preload("Assignees").
		Preload("Assignees.User").
		Order(priorityOrder).
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update persists all fields of a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its dependent rows
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}
