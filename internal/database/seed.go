package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/suduyun739/project-management-platform/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed bootstraps an admin account and sample data. It is a no-op when the
// admin user already exists.
func Seed(db *gorm.DB) error {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	email := "admin@example.com"
	admin := models.User{
		Username:     "admin",
		PasswordHash: string(hashed),
		Name:         "System Administrator",
		Email:        &email,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	now := time.Now()
	project := models.Project{
		Name:        "Sample Project",
		Description: "A sample project demonstrating the platform",
		Status:      models.ProjectStatusActive,
		CreatorID:   admin.ID,
		SortOrder:   1,
		StartDate:   &now,
	}
	if err := db.Create(&project).Error; err != nil {
		return fmt.Errorf("failed to create sample project: %w", err)
	}

	sixteen := 16.0
	requirement := models.Requirement{
		Title:          "Sample requirement: user sign-in",
		Description:    "Implement login, registration and permission management",
		Priority:       models.PriorityHigh,
		Status:         models.WorkItemStatusInProgress,
		ProjectID:      project.ID,
		EstimatedHours: &sixteen,
	}
	if err := db.Create(&requirement).Error; err != nil {
		return fmt.Errorf("failed to create sample requirement: %w", err)
	}
	if err := db.Create(&models.RequirementAssignee{RequirementID: requirement.ID, UserID: admin.ID}).Error; err != nil {
		return fmt.Errorf("failed to assign sample requirement: %w", err)
	}

	four, six := 4.0, 6.0
	tasks := []models.Task{
		{
			Title:          "Design the sign-in page",
			Priority:       models.PriorityHigh,
			Status:         models.WorkItemStatusCompleted,
			ProjectID:      project.ID,
			RequirementID:  &requirement.ID,
			EstimatedHours: &four,
		},
		{
			Title:          "Implement the sign-in API",
			Priority:       models.PriorityHigh,
			Status:         models.WorkItemStatusInProgress,
			ProjectID:      project.ID,
			RequirementID:  &requirement.ID,
			EstimatedHours: &six,
		},
		{
			Title:          "Add token verification",
			Priority:       models.PriorityMedium,
			Status:         models.WorkItemStatusPending,
			ProjectID:      project.ID,
			RequirementID:  &requirement.ID,
			EstimatedHours: &six,
		},
	}
	for i := range tasks {
		if err := db.Create(&tasks[i]).Error; err != nil {
			return fmt.Errorf("failed to create sample task: %w", err)
		}
		if err := db.Create(&models.TaskAssignee{TaskID: tasks[i].ID, UserID: admin.ID}).Error; err != nil {
			return fmt.Errorf("failed to assign sample task: %w", err)
		}
	}

	log.Println("Database seeded: default admin account is admin/admin123")
	return nil
}
