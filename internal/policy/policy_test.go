package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suduyun739/project-management-platform/internal/models"
)

var (
	admin  = Principal{ID: "admin-id", Role: models.RoleAdmin}
	member = Principal{ID: "member-id", Role: models.RoleMember}
)

func TestCanManageProjects(t *testing.T) {
	require.True(t, CanManageProjects(admin))
	require.False(t, CanManageProjects(member))
}

func TestCanReadWorkItem(t *testing.T) {
	require.True(t, CanReadWorkItem(admin, false))
	require.True(t, CanReadWorkItem(member, true))
	require.False(t, CanReadWorkItem(member, false))
}

func TestCanUpdateWorkItem(t *testing.T) {
	require.True(t, CanUpdateWorkItem(admin, false))
	require.True(t, CanUpdateWorkItem(member, true))
	require.False(t, CanUpdateWorkItem(member, false))
}

func TestAssigneeScope(t *testing.T) {
	require.Nil(t, AssigneeScope(admin, nil), "admins list everything by default")

	scope := AssigneeScope(member, nil)
	require.NotNil(t, scope)
	require.Equal(t, member.ID, *scope)

	requested := "someone-else"
	scope = AssigneeScope(member, &requested)
	require.Equal(t, requested, *scope, "an explicit filter wins for any principal")

	scope = AssigneeScope(admin, &requested)
	require.Equal(t, requested, *scope)
}

func TestAugmentAssigneesIncludesNonAdminCreator(t *testing.T) {
	ids := AugmentAssignees(member, []string{"user-x"})
	require.ElementsMatch(t, []string{"user-x", member.ID}, ids)
}

func TestAugmentAssigneesLeavesAdminListAlone(t *testing.T) {
	ids := AugmentAssignees(admin, []string{"user-x"})
	require.Equal(t, []string{"user-x"}, ids)
}

func TestAugmentAssigneesDeduplicates(t *testing.T) {
	ids := AugmentAssignees(member, []string{"user-x", "user-x", member.ID})
	require.ElementsMatch(t, []string{"user-x", member.ID}, ids)
}

func TestAugmentAssigneesEmptyList(t *testing.T) {
	require.Equal(t, []string{member.ID}, AugmentAssignees(member, nil))
	require.Empty(t, AugmentAssignees(admin, nil))
}

func TestCanDeleteComment(t *testing.T) {
	require.True(t, CanDeleteComment(admin, "someone-else"))
	require.True(t, CanDeleteComment(member, member.ID))
	require.False(t, CanDeleteComment(member, "someone-else"))
}

func TestCanUpdateUser(t *testing.T) {
	require.True(t, CanUpdateUser(admin, "anyone"))
	require.True(t, CanUpdateUser(member, member.ID))
	require.False(t, CanUpdateUser(member, "someone-else"))
}

func TestCanSetRole(t *testing.T) {
	require.True(t, CanSetRole(admin))
	require.False(t, CanSetRole(member))
}

func TestAdminOnlyGates(t *testing.T) {
	require.True(t, CanDeleteWorkItem(admin))
	require.False(t, CanDeleteWorkItem(member))
	require.True(t, CanDeleteUser(admin))
	require.False(t, CanDeleteUser(member))
	require.True(t, CanResetPassword(admin))
	require.False(t, CanResetPassword(member))
}
