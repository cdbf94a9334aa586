package repository

import (
	"fmt"

	"github.com/suduyun739/project-management-platform/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository.
// It serves both work item kinds; the kind selects the join table.
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// ListAssignees returns the user IDs assigned to an entity
func (r *GormAssignmentRepository) ListAssignees(kind WorkItemKind, entityID string) ([]string, error) {
	var userIDs []string

	switch kind {
	case KindRequirement:
		if err := r.db.Model(&models.RequirementAssignee{}).
			Where("requirement_id = ?", entityID).
			Pluck("user_id", &userIDs).Error; err != nil {
			return nil, err
		}
	case KindTask:
		if err := r.db.Model(&models.TaskAssignee{}).
			Where("task_id = ?", entityID).
			Pluck("user_id", &userIDs).Error; err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown work item kind: %s", kind)
	}

	return userIDs, nil
}

// ReplaceAssignees atomically replaces the full assignee set. Duplicate user
// IDs in the input are collapsed; no partial state is observable.
func (r *GormAssignmentRepository) ReplaceAssignees(kind WorkItemKind, entityID string, userIDs []string) error {
	unique := dedupe(userIDs)

	return r.db.Transaction(func(tx *gorm.DB) error {
		switch kind {
		case KindRequirement:
			if err := tx.Where("requirement_id = ?", entityID).Delete(&models.RequirementAssignee{}).Error; err != nil {
				return err
			}
			if len(unique) == 0 {
				return nil
			}
			rows := make([]models.RequirementAssignee, len(unique))
			for i, userID := range unique {
				rows[i] = models.RequirementAssignee{RequirementID: entityID, UserID: userID}
			}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
		case KindTask:
			if err := tx.Where("task_id = ?", entityID).Delete(&models.TaskAssignee{}).Error; err != nil {
				return err
			}
			if len(unique) == 0 {
				return nil
			}
			rows := make([]models.TaskAssignee, len(unique))
			for i, userID := range unique {
				rows[i] = models.TaskAssignee{TaskID: entityID, UserID: userID}
			}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
		default:
			return fmt.Errorf("unknown work item kind: %s", kind)
		}
	})
}

// IsAssignee reports whether a user is in the entity's assignee set
func (r *GormAssignmentRepository) IsAssignee(kind WorkItemKind, entityID, userID string) (bool, error) {
	var count int64

	switch kind {
	case KindRequirement:
		if err := r.db.Model(&models.RequirementAssignee{}).
			Where("requirement_id = ? AND user_id = ?", entityID, userID).
			Count(&count).Error; err != nil {
			return false, err
		}
	case KindTask:
		if err := r.db.Model(&models.TaskAssignee{}).
			Where("task_id = ? AND user_id = ?", entityID, userID).
			Count(&count).Error; err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown work item kind: %s", kind)
	}

	return count > 0, nil
}

// CountUsersByIDs counts how many of the given user IDs exist
func (r *GormAssignmentRepository) CountUsersByIDs(userIDs []string) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("id IN ?", userIDs).
		Count(&count).Error
	return count, err
}

func dedupe(ids []string) []string {
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
