package admin_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vaultodo/vaultodo-core/internal/server"
	"github.com/vaultodo/vaultodo-core/internal/tasks"
	"github.com/vaultodo/vaultodo-core/internal/testutil"
	"github.com/vaultodo/vaultodo-core/internal/users"
)

type payload = map[string]interface{}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func seedTask(t *testing.T, db *gorm.DB, ownerID uint, title string) tasks.Task {
	t.Helper()
	task := tasks.Task{
		Title:    title,
		Priority: tasks.PriorityMedium,
		Status:   tasks.StatusToDo,
		UserID:   ownerID,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupDB(t)
	r := server.NewRouter()
	boss := testutil.CreateUser(t, db, "boss@x.com", "pw123456", users.RoleAdmin)
	member := testutil.CreateUser(t, db, "member@x.com", "pw123456", users.RoleUser)

	// give member a pending reset so redaction is observable
	tok := "reset-token"
	exp := time.Now().Add(time.Hour)
	require.NoError(t, db.Model(&member).Updates(map[string]interface{}{
		"password_reset_token":   tok,
		"password_reset_expires": exp,
	}).Error)

	w := testutil.Do(t, r, http.MethodGet, "/api/admin/users", nil, testutil.Token(t, &boss))
	require.Equal(t, http.StatusOK, w.Code)

	var got []users.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	assert.NotContains(t, w.Body.String(), "reset-token")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUpdateUserRole(t *testing.T) {
	db := testutil.SetupDB(t)
	r := server.NewRouter()
	boss := testutil.CreateUser(t, db, "boss@x.com", "pw123456", users.RoleAdmin)
	member := testutil.CreateUser(t, db, "member@x.com", "pw123456", users.RoleUser)
	adminTok := testutil.Token(t, &boss)

	t.Run("promotes a member", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", member.ID),
			payload{"newRole": "admin"}, adminTok)
		require.Equal(t, http.StatusOK, w.Code)

		var got users.User
		require.NoError(t, db.First(&got, member.ID).Error)
		assert.Equal(t, users.RoleAdmin, got.Role)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", member.ID),
			payload{"newRole": "superuser"}, adminTok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("self-demotion rejected", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", boss.ID),
			payload{"newRole": "user"}, adminTok)
		assert.Equal(t, http.StatusForbidden, w.Code)

		var got users.User
		require.NoError(t, db.First(&got, boss.ID).Error)
		assert.Equal(t, users.RoleAdmin, got.Role)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodPatch, "/api/admin/users/999999/role",
			payload{"newRole": "admin"}, adminTok)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	db := testutil.SetupDB(t)
	r := server.NewRouter()
	boss := testutil.CreateUser(t, db, "boss@x.com", "pw123456", users.RoleAdmin)
	member := testutil.CreateUser(t, db, "member@x.com", "pw123456", users.RoleUser)
	adminTok := testutil.Token(t, &boss)

	seedTask(t, db, member.ID, "m1")
	seedTask(t, db, member.ID, "m2")
	keep := seedTask(t, db, boss.ID, "b1")

	t.Run("self-deletion rejected", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", boss.ID), nil, adminTok)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("cascades to the user's tasks only", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", member.ID), nil, adminTok)
		require.Equal(t, http.StatusOK, w.Code)

		var userCount int64
		require.NoError(t, db.Model(&users.User{}).Count(&userCount).Error)
		assert.Equal(t, int64(1), userCount)

		var remaining []tasks.Task
		require.NoError(t, db.Find(&remaining).Error)
		require.Len(t, remaining, 1)
		assert.Equal(t, keep.ID, remaining[0].ID)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", member.ID), nil, adminTok)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListAllTasks(t *testing.T) {
	db := testutil.SetupDB(t)
	r := server.NewRouter()
	boss := testutil.CreateUser(t, db, "boss@x.com", "pw123456", users.RoleAdmin)
	member := testutil.CreateUser(t, db, "member@x.com", "pw123456", users.RoleUser)

	seedTask(t, db, member.ID, "m1")
	seedTask(t, db, boss.ID, "b1")
	seedTask(t, db, member.ID+boss.ID+100, "orphaned")

	w := testutil.Do(t, r, http.MethodGet, "/api/admin/tasks", nil, testutil.Token(t, &boss))
	require.Equal(t, http.StatusOK, w.Code)

	var got []struct {
		tasks.Task
		UserEmail string `json:"userEmail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 3)

	byTitle := map[string]string{}
	for _, row := range got {
		byTitle[row.Title] = row.UserEmail
	}
	assert.Equal(t, "member@x.com", byTitle["m1"])
	assert.Equal(t, "boss@x.com", byTitle["b1"])
	assert.Equal(t, "Unknown User", byTitle["orphaned"])
}

func TestDeleteAnyTask(t *testing.T) {
	db := testutil.SetupDB(t)
	r := server.NewRouter()
	boss := testutil.CreateUser(t, db, "boss@x.com", "pw123456", users.RoleAdmin)
	member := testutil.CreateUser(t, db, "member@x.com", "pw123456", users.RoleUser)
	task := seedTask(t, db, member.ID, "m1")

	t.Run("deletes regardless of owner", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/tasks/%d", task.ID),
			nil, testutil.Token(t, &boss))
		require.Equal(t, http.StatusOK, w.Code)

		var count int64
		require.NoError(t, db.Model(&tasks.Task{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("missing task is not found", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/tasks/%d", task.ID),
			nil, testutil.Token(t, &boss))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
