package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/policy"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound         = errors.New("comment not found")
	ErrCommentContentRequired  = errors.New("comment content is required")
	ErrCommentAttachmentNeeded = errors.New("a comment must reference exactly one requirement or task")
	ErrCommentDeleteDenied     = errors.New("only the author or an administrator can delete this comment")
)

// CommentService handles comment business logic.
type CommentService struct {
	commentRepo     repository.CommentRepository
	requirementRepo repository.RequirementRepository
	taskRepo        repository.TaskRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	requirementRepo repository.RequirementRepository,
	taskRepo repository.TaskRepository,
) *CommentService {
	return &CommentService{
		commentRepo:     commentRepo,
		requirementRepo: requirementRepo,
		taskRepo:        taskRepo,
	}
}

// CreateCommentInput represents input for creating a comment. Exactly one of
// RequirementID and TaskID must be set.
type CreateCommentInput struct {
	Content       string
	RequirementID *string
	TaskID        *string
}

// CreateComment attaches a comment to a single requirement or task.
func (s *CommentService) CreateComment(actor policy.Principal, input CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrCommentContentRequired
	}
	if (input.RequirementID == nil) == (input.TaskID == nil) {
		return nil, ErrCommentAttachmentNeeded
	}

	if input.RequirementID != nil {
		if _, err := s.requirementRepo.FindByID(*input.RequirementID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRequirementNotFound
			}
			return nil, fmt.Errorf("failed to find requirement: %w", err)
		}
	}
	if input.TaskID != nil {
		if _, err := s.taskRepo.FindByID(*input.TaskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTaskNotFound
			}
			return nil, fmt.Errorf("failed to find task: %w", err)
		}
	}

	comment := &models.Comment{
		Content:       input.Content,
		AuthorID:      actor.ID,
		RequirementID: input.RequirementID,
		TaskID:        input.TaskID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment. Allowed to the author and admins.
func (s *CommentService) DeleteComment(actor policy.Principal, id string) error {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if !policy.CanDeleteComment(actor, comment.AuthorID) {
		return ErrCommentDeleteDenied
	}

	if err := s.commentRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
