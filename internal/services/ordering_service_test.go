package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"gorm.io/gorm"
)

type orderingTestEnv struct {
	db      *gorm.DB
	service *OrderingService
	admin   *models.User
	member  *models.User
	a, b, c *models.Project
}

func setupOrderingTestEnv(t *testing.T) orderingTestEnv {
	t.Helper()

	db := newTestDB(t)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	member := createTestUser(t, db, "member", models.RoleMember)

	return orderingTestEnv{
		db:      db,
		service: NewOrderingService(repository.NewProjectRepository(db)),
		admin:   admin,
		member:  member,
		a:       createTestProject(t, db, "Alpha", admin.ID, 1),
		b:       createTestProject(t, db, "Beta", admin.ID, 2),
		c:       createTestProject(t, db, "Gamma", admin.ID, 3),
	}
}

func (env orderingTestEnv) sortOrders(t *testing.T) map[string]int {
	t.Helper()

	var projects []models.Project
	require.NoError(t, env.db.Find(&projects).Error)

	orders := make(map[string]int, len(projects))
	for _, p := range projects {
		orders[p.ID] = p.SortOrder
	}
	return orders
}

func TestOrderingService_SortMoveUp(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Sort(asPrincipal(env.admin), env.c.ID, SortActionMoveUp)
	require.NoError(t, err)

	orders := env.sortOrders(t)
	require.Equal(t, 1, orders[env.a.ID])
	require.Equal(t, 3, orders[env.b.ID])
	require.Equal(t, 2, orders[env.c.ID])
}

func TestOrderingService_SortMoveUpAtTopIsNoop(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Sort(asPrincipal(env.admin), env.a.ID, SortActionMoveUp)
	require.NoError(t, err)

	orders := env.sortOrders(t)
	require.Equal(t, 1, orders[env.a.ID])
	require.Equal(t, 2, orders[env.b.ID])
	require.Equal(t, 3, orders[env.c.ID])
}

func TestOrderingService_SortMoveDownAtBottomIsNoop(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Sort(asPrincipal(env.admin), env.c.ID, SortActionMoveDown)
	require.NoError(t, err)

	orders := env.sortOrders(t)
	require.Equal(t, 3, orders[env.c.ID])
}

func TestOrderingService_SortPinToTop(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Sort(asPrincipal(env.admin), env.c.ID, SortActionPinToTop)
	require.NoError(t, err)

	orders := env.sortOrders(t)
	require.Equal(t, 1, orders[env.c.ID])
	require.Equal(t, 2, orders[env.a.ID])
	require.Equal(t, 3, orders[env.b.ID])
}

func TestOrderingService_SortPinToTopIsIdempotent(t *testing.T) {
	env := setupOrderingTestEnv(t)

	require.NoError(t, env.service.Sort(asPrincipal(env.admin), env.c.ID, SortActionPinToTop))
	require.NoError(t, env.service.Sort(asPrincipal(env.admin), env.c.ID, SortActionPinToTop))

	orders := env.sortOrders(t)
	require.Equal(t, 1, orders[env.c.ID])
	require.Equal(t, 2, orders[env.a.ID])
	require.Equal(t, 3, orders[env.b.ID])
}

func TestOrderingService_SortOrdersStayUnique(t *testing.T) {
	env := setupOrderingTestEnv(t)
	admin := asPrincipal(env.admin)

	require.NoError(t, env.service.Sort(admin, env.b.ID, SortActionPinToTop))
	require.NoError(t, env.service.Sort(admin, env.c.ID, SortActionMoveUp))
	require.NoError(t, env.service.Sort(admin, env.a.ID, SortActionMoveDown))

	seen := make(map[int]string)
	for id, order := range env.sortOrders(t) {
		previous, exists := seen[order]
		require.False(t, exists, "projects %s and %s share sort order %d", previous, id, order)
		seen[order] = id
	}
}

func TestOrderingService_SortRejectsUnknownAction(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Sort(asPrincipal(env.admin), env.a.ID, SortAction("shuffle"))
	require.ErrorIs(t, err, ErrInvalidSortAction)
}

func TestOrderingService_SortRejectsUnknownProject(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Sort(asPrincipal(env.admin), "does-not-exist", SortActionMoveUp)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestOrderingService_SortRequiresAdmin(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Sort(asPrincipal(env.member), env.a.ID, SortActionMoveDown)
	require.ErrorIs(t, err, ErrOnlyAdminManagesProjects)
}

func TestOrderingService_Reorder(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Reorder(asPrincipal(env.admin), []string{env.c.ID, env.a.ID, env.b.ID})
	require.NoError(t, err)

	orders := env.sortOrders(t)
	require.Equal(t, 1, orders[env.c.ID])
	require.Equal(t, 2, orders[env.a.ID])
	require.Equal(t, 3, orders[env.b.ID])
}

func TestOrderingService_ReorderLeavesUnlistedProjectsAlone(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Reorder(asPrincipal(env.admin), []string{env.c.ID, env.b.ID})
	require.NoError(t, err)

	orders := env.sortOrders(t)
	require.Equal(t, 1, orders[env.c.ID])
	require.Equal(t, 2, orders[env.b.ID])
	require.Equal(t, 1, orders[env.a.ID], "unlisted project keeps its old sort order")
}

func TestOrderingService_ReorderRejectsMissingList(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Reorder(asPrincipal(env.admin), nil)
	require.ErrorIs(t, err, ErrInvalidIDList)
}

func TestOrderingService_ReorderEmptyListIsNoop(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Reorder(asPrincipal(env.admin), []string{})
	require.NoError(t, err)

	orders := env.sortOrders(t)
	require.Equal(t, 1, orders[env.a.ID])
}

func TestOrderingService_ReorderUnknownProjectRollsBack(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Reorder(asPrincipal(env.admin), []string{env.b.ID, "does-not-exist"})
	require.ErrorIs(t, err, ErrProjectNotFound)

	orders := env.sortOrders(t)
	require.Equal(t, 2, orders[env.b.ID], "failed reorder must not change any sort order")
}

func TestOrderingService_ReorderRequiresAdmin(t *testing.T) {
	env := setupOrderingTestEnv(t)

	err := env.service.Reorder(asPrincipal(env.member), []string{env.a.ID})
	require.ErrorIs(t, err, ErrOnlyAdminManagesProjects)
}
