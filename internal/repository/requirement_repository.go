package repository

import (
	"github.com/suduyun739/project-management-platform/internal/models"
	"gorm.io/gorm"
)

// priorityOrder ranks the priority enum so URGENT sorts first.
const priorityOrder = "CASE priority WHEN 'URGENT' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC, created_at DESC"

// GormRequirementRepository is a GORM implementation of RequirementRepository
type GormRequirementRepository struct {
	db *gorm.DB
}

// NewRequirementRepository creates a new RequirementRepository
func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &GormRequirementRepository{db: db}
}

// Create creates a new requirement
func (r *GormRequirementRepository) Create(requirement *models.Requirement) error {
	return r.db.Create(requirement).Error
}

// FindByID finds a requirement by ID with optional preloading
func (r *GormRequirementRepository) FindByID(id string, preload ...string) (*models.Requirement, error) {
	var requirement models.Requirement
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&requirement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &requirement, nil
}

// List returns requirements matching the filter
func (r *GormRequirementRepository) List(filter WorkItemFilter) ([]models.Requirement, error) {
	var requirements []models.Requirement

	query := r.db.Model(&models.Requirement{})

	if filter.ProjectID != nil {
		query = query.Where("requirements.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("requirements.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("requirements.priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		assigneeSubQuery := r.db.Model(&models.RequirementAssignee{}).
			Select("1").
			Where("requirement_assignees.requirement_id = requirements.id").
			Where("requirement_assignees.user_id = ?", *filter.AssigneeID)
		query = query.Where("EXISTS (?)", assigneeSubQuery)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(requirements.title) LIKE LOWER(?) OR LOWER(requirements.description) LIKE LOWER(?)", pattern, pattern)
	}

	if err := query.
		Preload("Project").
		Preload("Assignees").
		Preload("Assignees.User").
		Order(priorityOrder).
		Find(&requirements).Error; err != nil {
		return nil, err
	}

	return requirements, nil
}

// Update persists all fields of a requirement
func (r *GormRequirementRepository) Update(requirement *models.Requirement) error {
	return r.db.Save(requirement).Error
}

// Delete removes a requirement and its dependent rows
func (r *GormRequirementRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("requirement_id = ?", id).Delete(&models.RequirementAssignee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("requirement_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		// Tasks survive their requirement; only the link is cleared.
		if err := tx.Model(&models.Task{}).
			Where("requirement_id = ?", id).
			Update("requirement_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Requirement{}, "id = ?", id).Error
	})
}
