package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database.
// Only supported on PostgreSQL; index existence is checked via pg_indexes.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Project list ordering and filtering
		{"projects", "idx_projects_sort_order", "sort_order"},
		{"projects", "idx_projects_status", "status"},
		{"projects", "idx_projects_creator_id", "creator_id"},

		// Work item filtering
		{"requirements", "idx_requirements_status", "status"},
		{"requirements", "idx_requirements_priority", "priority"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_priority", "priority"},
		{"tasks", "idx_tasks_due_date", "due_date"},

		// Assignee visibility lookups
		{"requirement_assignees", "idx_requirement_assignees_user_id", "user_id"},
		{"task_assignees", "idx_task_assignees_user_id", "user_id"},

		// Comment attachment lookups
		{"comments", "idx_comments_author_id", "author_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
