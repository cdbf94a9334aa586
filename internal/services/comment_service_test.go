package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"gorm.io/gorm"
)

type commentTestEnv struct {
	db          *gorm.DB
	service     *CommentService
	admin       *models.User
	member      *models.User
	other       *models.User
	requirement *models.Requirement
	task        *models.Task
}

func setupCommentTestEnv(t *testing.T) commentTestEnv {
	t.Helper()

	db := newTestDB(t)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	member := createTestUser(t, db, "member", models.RoleMember)
	other := createTestUser(t, db, "other", models.RoleMember)
	project := createTestProject(t, db, "Platform", admin.ID, 1)

	requirement := &models.Requirement{
		Title:     "Login",
		Priority:  models.PriorityMedium,
		Status:    models.WorkItemStatusPending,
		ProjectID: project.ID,
	}
	require.NoError(t, db.Create(requirement).Error)

	task := &models.Task{
		Title:     "Login form",
		Priority:  models.PriorityMedium,
		Status:    models.WorkItemStatusPending,
		ProjectID: project.ID,
	}
	require.NoError(t, db.Create(task).Error)

	service := NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewRequirementRepository(db),
		repository.NewTaskRepository(db),
	)

	return commentTestEnv{
		db:          db,
		service:     service,
		admin:       admin,
		member:      member,
		other:       other,
		requirement: requirement,
		task:        task,
	}
}

func TestCommentService_CreateOnRequirement(t *testing.T) {
	env := setupCommentTestEnv(t)

	comment, err := env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content:       "Looks good to me",
		RequirementID: &env.requirement.ID,
	})
	require.NoError(t, err)
	require.Equal(t, env.member.ID, comment.AuthorID)
	require.Equal(t, env.requirement.ID, *comment.RequirementID)
	require.Nil(t, comment.TaskID)
}

func TestCommentService_CreateOnTask(t *testing.T) {
	env := setupCommentTestEnv(t)

	comment, err := env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content: "Started on this",
		TaskID:  &env.task.ID,
	})
	require.NoError(t, err)
	require.Equal(t, env.task.ID, *comment.TaskID)
}

func TestCommentService_CreateRejectsEmptyContent(t *testing.T) {
	env := setupCommentTestEnv(t)

	_, err := env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content:       "   ",
		RequirementID: &env.requirement.ID,
	})
	require.ErrorIs(t, err, ErrCommentContentRequired)
}

func TestCommentService_CreateRequiresExactlyOneTarget(t *testing.T) {
	env := setupCommentTestEnv(t)

	_, err := env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content: "Orphan comment",
	})
	require.ErrorIs(t, err, ErrCommentAttachmentNeeded)

	_, err = env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content:       "Double-homed comment",
		RequirementID: &env.requirement.ID,
		TaskID:        &env.task.ID,
	})
	require.ErrorIs(t, err, ErrCommentAttachmentNeeded)
}

func TestCommentService_CreateRejectsUnknownTarget(t *testing.T) {
	env := setupCommentTestEnv(t)

	missing := "does-not-exist"
	_, err := env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content:       "Lost comment",
		RequirementID: &missing,
	})
	require.ErrorIs(t, err, ErrRequirementNotFound)

	_, err = env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content: "Lost comment",
		TaskID:  &missing,
	})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCommentService_DeleteByAuthor(t *testing.T) {
	env := setupCommentTestEnv(t)

	comment, err := env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content:       "Delete me",
		RequirementID: &env.requirement.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteComment(asPrincipal(env.member), comment.ID))

	err = env.service.DeleteComment(asPrincipal(env.member), comment.ID)
	require.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentService_DeleteByOtherMemberDenied(t *testing.T) {
	env := setupCommentTestEnv(t)

	comment, err := env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content:       "Protected",
		RequirementID: &env.requirement.ID,
	})
	require.NoError(t, err)

	err = env.service.DeleteComment(asPrincipal(env.other), comment.ID)
	require.ErrorIs(t, err, ErrCommentDeleteDenied)
}

func TestCommentService_DeleteByAdmin(t *testing.T) {
	env := setupCommentTestEnv(t)

	comment, err := env.service.CreateComment(asPrincipal(env.member), CreateCommentInput{
		Content:       "Moderated away",
		RequirementID: &env.requirement.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteComment(asPrincipal(env.admin), comment.ID))
}
