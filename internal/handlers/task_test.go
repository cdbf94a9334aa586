package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/suduyun739/project-management-platform/internal/constants"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"github.com/suduyun739/project-management-platform/internal/services"
	"gorm.io/gorm"
)

type taskHandlerTestEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	admin   *models.User
	member  *models.User
	project *models.Project

	user *models.User
}

func setupTaskHandlerTestEnv(t *testing.T) *taskHandlerTestEnv {
	t.Helper()

	db := newHandlerTestDB(t)
	env := &taskHandlerTestEnv{
		db:     db,
		admin:  createHandlerTestUser(t, db, "admin", "adminpass", models.RoleAdmin),
		member: createHandlerTestUser(t, db, "member", "memberpass", models.RoleMember),
	}
	env.user = env.admin

	project := &models.Project{
		Name:      "Platform",
		Status:    models.ProjectStatusActive,
		CreatorID: env.admin.ID,
		SortOrder: 1,
	}
	require.NoError(t, db.Create(project).Error)
	env.project = project

	taskService := services.NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewRequirementRepository(db),
		repository.NewProjectRepository(db),
		repository.NewAssignmentRepository(db),
	)
	handler := NewTaskHandler(taskService)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, env.user.ID)
		c.Set(constants.ContextKeyUserRole, env.user.Role)
		c.Next()
	})
	r.GET("/api/tasks", handler.ListTasks)
	r.GET("/api/tasks/kanban", handler.Kanban)
	r.POST("/api/tasks", handler.CreateTask)
	r.GET("/api/tasks/:id", handler.GetTask)
	r.PUT("/api/tasks/:id", handler.UpdateTask)
	r.DELETE("/api/tasks/:id", handler.DeleteTask)

	env.router = r
	return env
}

func (env *taskHandlerTestEnv) createTask(t *testing.T, payload map[string]any) models.Task {
	t.Helper()

	payload["project_id"] = env.project.ID
	req := jsonRequest(t, http.MethodPost, "/api/tasks", payload)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func TestTaskHandler_CreateDefaults(t *testing.T) {
	env := setupTaskHandlerTestEnv(t)

	task := env.createTask(t, map[string]any{"title": "Implement login form"})
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.Equal(t, models.WorkItemStatusPending, task.Status)
}

func TestTaskHandler_CreateByMemberAddsCreatorToAssignees(t *testing.T) {
	env := setupTaskHandlerTestEnv(t)
	env.user = env.member

	task := env.createTask(t, map[string]any{
		"title":        "Implement login form",
		"assignee_ids": []string{env.admin.ID},
	})

	var assignees []models.TaskAssignee
	require.NoError(t, env.db.Where("task_id = ?", task.ID).Find(&assignees).Error)
	ids := make([]string, len(assignees))
	for i, a := range assignees {
		ids[i] = a.UserID
	}
	require.ElementsMatch(t, []string{env.admin.ID, env.member.ID}, ids)
}

func TestTaskHandler_Kanban(t *testing.T) {
	env := setupTaskHandlerTestEnv(t)

	env.createTask(t, map[string]any{"title": "Pending work"})
	env.createTask(t, map[string]any{"title": "Running work", "status": "IN_PROGRESS"})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/kanban", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var board map[string][]models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Len(t, board, 4)
	require.Len(t, board["PENDING"], 1)
	require.Len(t, board["IN_PROGRESS"], 1)
	require.Empty(t, board["COMPLETED"])
	require.Empty(t, board["REJECTED"])
}

func TestTaskHandler_UpdateNullClearsDueDate(t *testing.T) {
	env := setupTaskHandlerTestEnv(t)

	due := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	task := env.createTask(t, map[string]any{
		"title":    "Implement login form",
		"due_date": due,
	})
	require.NotNil(t, task.DueDate)

	// An explicit null clears the field; an absent field leaves it alone.
	body := []byte(`{"due_date": null, "description": "still on it"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Nil(t, updated.DueDate)
	require.Equal(t, "still on it", updated.Description)
}

func TestTaskHandler_UpdateOmittedDueDateIsKept(t *testing.T) {
	env := setupTaskHandlerTestEnv(t)

	due := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	task := env.createTask(t, map[string]any{
		"title":    "Implement login form",
		"due_date": due,
	})
	require.NotNil(t, task.DueDate)

	body := []byte(`{"description": "still on it"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.DueDate)
	require.Equal(t, "still on it", updated.Description)
}

func TestTaskHandler_GetDeniedForNonAssignee(t *testing.T) {
	env := setupTaskHandlerTestEnv(t)

	task := env.createTask(t, map[string]any{"title": "Unassigned work"})

	env.user = env.member
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+task.ID, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskHandler_DeleteByMemberIsForbidden(t *testing.T) {
	env := setupTaskHandlerTestEnv(t)

	task := env.createTask(t, map[string]any{"title": "Implement login form"})

	env.user = env.member
	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/"+task.ID, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
