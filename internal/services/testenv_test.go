package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/policy"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Requirement{},
		&models.Task{},
		&models.RequirementAssignee{},
		&models.TaskAssignee{},
		&models.Comment{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Name:         username,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, name string, creatorID string, sortOrder int) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:      name,
		Status:    models.ProjectStatusActive,
		CreatorID: creatorID,
		SortOrder: sortOrder,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func asPrincipal(user *models.User) policy.Principal {
	return policy.Principal{ID: user.ID, Role: user.Role}
}
