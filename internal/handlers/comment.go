package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/suduyun739/project-management-platform/internal/errors"
	"github.com/suduyun739/project-management-platform/internal/middleware"
	"github.com/suduyun739/project-management-platform/internal/services"
)

// CommentHandler coordinates comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// CreateComment attaches a comment to a requirement or a task.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCommentRequest struct {
		Content       string  `json:"content" binding:"required"`
		RequirementID *string `json:"requirement_id"`
		TaskID        *string `json:"task_id"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(principal, services.CreateCommentInput{
		Content:       req.Content,
		RequirementID: req.RequirementID,
		TaskID:        req.TaskID,
	})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment. Author or admin only.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.commentService.DeleteComment(principal, c.Param("id")); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRequirementNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCommentContentRequired),
		errors.Is(err, services.ErrCommentAttachmentNeeded):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCommentDeleteDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
