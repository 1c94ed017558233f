// Package testutil provides the shared fixtures for handler tests: an
// in-memory sqlite database wired into the global connection, plus user
// and token factories.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vaultodo/vaultodo-core/internal/auth"
	"github.com/vaultodo/vaultodo-core/internal/database"
	"github.com/vaultodo/vaultodo-core/internal/tasks"
	"github.com/vaultodo/vaultodo-core/internal/users"
)

// SetupDB points database.DB at a fresh in-memory sqlite database for
// the duration of the test.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// a second pooled connection would see a different :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&users.User{}, &tasks.Task{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email, password, role string) users.User {
	t.Helper()
	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	u := users.User{Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func Token(t *testing.T, u *users.User) string {
	t.Helper()
	tok, err := auth.GenerateToken(u)
	require.NoError(t, err)
	return tok
}

// Do runs a JSON request through the handler and returns the recorder.
func Do(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
