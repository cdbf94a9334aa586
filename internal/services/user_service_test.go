package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type userTestEnv struct {
	db      *gorm.DB
	service *UserService
	admin   *models.User
	member  *models.User
	other   *models.User
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db := newTestDB(t)
	return userTestEnv{
		db:      db,
		service: NewUserService(repository.NewUserRepository(db)),
		admin:   createTestUser(t, db, "admin", models.RoleAdmin),
		member:  createTestUser(t, db, "member", models.RoleMember),
		other:   createTestUser(t, db, "other", models.RoleMember),
	}
}

func TestUserService_ListShowsEveryoneToAdmins(t *testing.T) {
	env := setupUserTestEnv(t)

	users, err := env.service.ListUsers(asPrincipal(env.admin))
	require.NoError(t, err)
	require.Len(t, users, 3)
}

func TestUserService_ListShowsMembersOnlyThemselves(t *testing.T) {
	env := setupUserTestEnv(t)

	users, err := env.service.ListUsers(asPrincipal(env.member))
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, env.member.ID, users[0].ID)
}

func TestUserService_UpdateOwnProfile(t *testing.T) {
	env := setupUserTestEnv(t)

	name := "Renamed Member"
	updated, err := env.service.UpdateUser(asPrincipal(env.member), env.member.ID, UpdateUserInput{
		Name: &name,
	})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
}

func TestUserService_UpdateOtherUserRequiresAdmin(t *testing.T) {
	env := setupUserTestEnv(t)

	name := "Renamed"
	_, err := env.service.UpdateUser(asPrincipal(env.member), env.other.ID, UpdateUserInput{
		Name: &name,
	})
	require.ErrorIs(t, err, ErrUserPermissionDenied)
}

func TestUserService_RoleChangeByMemberIsSilentlyDropped(t *testing.T) {
	env := setupUserTestEnv(t)

	role := models.RoleAdmin
	updated, err := env.service.UpdateUser(asPrincipal(env.member), env.member.ID, UpdateUserInput{
		Role: &role,
	})
	require.NoError(t, err, "a role field from a non-admin is ignored, not rejected")
	require.Equal(t, models.RoleMember, updated.Role)
}

func TestUserService_RoleChangeByAdminIsApplied(t *testing.T) {
	env := setupUserTestEnv(t)

	role := models.RoleAdmin
	updated, err := env.service.UpdateUser(asPrincipal(env.admin), env.member.ID, UpdateUserInput{
		Role: &role,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, updated.Role)
}

func TestUserService_UpdateRejectsTakenEmail(t *testing.T) {
	env := setupUserTestEnv(t)

	email := "taken@example.com"
	require.NoError(t, env.db.Model(env.other).Update("email", email).Error)

	_, err := env.service.UpdateUser(asPrincipal(env.member), env.member.ID, UpdateUserInput{
		Email: &email,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_DeleteRequiresAdmin(t *testing.T) {
	env := setupUserTestEnv(t)

	err := env.service.DeleteUser(asPrincipal(env.member), env.other.ID)
	require.ErrorIs(t, err, ErrOnlyAdminCanDelete)
}

func TestUserService_DeleteRejectsSelf(t *testing.T) {
	env := setupUserTestEnv(t)

	err := env.service.DeleteUser(asPrincipal(env.admin), env.admin.ID)
	require.ErrorIs(t, err, ErrCannotDeleteSelf)
}

func TestUserService_DeleteRemovesUserAndAssignments(t *testing.T) {
	env := setupUserTestEnv(t)

	project := createTestProject(t, env.db, "Platform", env.admin.ID, 1)
	requirement := &models.Requirement{
		Title:     "Login",
		Priority:  models.PriorityMedium,
		Status:    models.WorkItemStatusPending,
		ProjectID: project.ID,
	}
	require.NoError(t, env.db.Create(requirement).Error)
	require.NoError(t, env.db.Create(&models.RequirementAssignee{
		RequirementID: requirement.ID,
		UserID:        env.other.ID,
	}).Error)

	require.NoError(t, env.service.DeleteUser(asPrincipal(env.admin), env.other.ID))

	_, err := env.service.GetUser(env.other.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	var assignments int64
	require.NoError(t, env.db.Model(&models.RequirementAssignee{}).
		Where("user_id = ?", env.other.ID).
		Count(&assignments).Error)
	require.Zero(t, assignments)
}

func TestUserService_ResetPasswordRequiresAdmin(t *testing.T) {
	env := setupUserTestEnv(t)

	err := env.service.ResetPassword(asPrincipal(env.member), env.other.ID, "brand-new-pass")
	require.ErrorIs(t, err, ErrOnlyAdminCanReset)
}

func TestUserService_ResetPasswordRejectsShortPassword(t *testing.T) {
	env := setupUserTestEnv(t)

	err := env.service.ResetPassword(asPrincipal(env.admin), env.member.ID, "short")
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestUserService_ResetPasswordStoresNewCredential(t *testing.T) {
	env := setupUserTestEnv(t)

	require.NoError(t, env.service.ResetPassword(asPrincipal(env.admin), env.member.ID, "brand-new-pass"))

	updated, err := env.service.GetUser(env.member.ID)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("brand-new-pass")))
}
