package repository

import (
	"github.com/suduyun739/project-management-platform/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id string, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByName finds a project by exact name match
func (r *GormProjectRepository) FindByName(name string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("name = ?", name).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns projects matching the filter, ordered by sort order
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, error) {
	var projects []models.Project
	query := r.db.Model(&models.Project{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	if err := query.Preload("Creator").Order("sort_order ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListOrdered returns every project ordered by sort order ascending
func (r *GormProjectRepository) ListOrdered() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Order("sort_order ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// CountsByProject returns requirement and task counts keyed by project ID
func (r *GormProjectRepository) CountsByProject() (map[string]ProjectCounts, error) {
	type row struct {
		ProjectID string
		Total     int64
	}

	counts := make(map[string]ProjectCounts)

	var reqRows []row
	if err := r.db.Model(&models.Requirement{}).
		Select("project_id, COUNT(*) AS total").
		Group("project_id").
		Scan(&reqRows).Error; err != nil {
		return nil, err
	}
	for _, rw := range reqRows {
		c := counts[rw.ProjectID]
		c.Requirements = rw.Total
		counts[rw.ProjectID] = c
	}

	var taskRows []row
	if err := r.db.Model(&models.Task{}).
		Select("project_id, COUNT(*) AS total").
		Group("project_id").
		Scan(&taskRows).Error; err != nil {
		return nil, err
	}
	for _, rw := range taskRows {
		c := counts[rw.ProjectID]
		c.Tasks = rw.Total
		counts[rw.ProjectID] = c
	}

	return counts, nil
}

// MaxSortOrder returns the highest sort order in the collection (0 when empty)
func (r *GormProjectRepository) MaxSortOrder() (int, error) {
	var max int
	err := r.db.Model(&models.Project{}).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	return max, err
}

// UpdateSortOrders applies the given sort order values in one transaction.
// Either every update commits or none do.
func (r *GormProjectRepository) UpdateSortOrders(orders map[string]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for id, order := range orders {
			result := tx.Model(&models.Project{}).
				Where("id = ?", id).
				Update("sort_order", order)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// Update persists all fields of a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and all dependent rows
func (r *GormProjectRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var requirementIDs []string
		if err := tx.Model(&models.Requirement{}).
			Where("project_id = ?", id).
			Pluck("id", &requirementIDs).Error; err != nil {
			return err
		}

		var taskIDs []string
		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(requirementIDs) > 0 {
			if err := tx.Where("requirement_id IN ?", requirementIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("requirement_id IN ?", requirementIDs).Delete(&models.RequirementAssignee{}).Error; err != nil {
				return err
			}
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskAssignee{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Requirement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}
