package repository

import (
	"github.com/suduyun739/project-management-platform/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID finds a comment by ID
func (r *GormCommentRepository) FindByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment
func (r *GormCommentRepository) Delete(id string) error {
	return r.db.Delete(&models.Comment{}, "id = ?", id).Error
}
