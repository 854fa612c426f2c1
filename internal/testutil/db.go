// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"testing"

	"friendsapp/internal/config"
	"friendsapp/internal/database"
	"friendsapp/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteDB returns a fresh in-memory database with migrations applied.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		Env:          "test",
		DBDriver:     database.DriverSQLite,
		DBPath:       ":memory:",
		DBSchemaMode: database.SchemaModeSQL,
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts a user with a placeholder hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost inserts a post authored by userID.
func CreatePost(t *testing.T, db *gorm.DB, userID uint, title string) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: title + " body", UserID: userID}
	require.NoError(t, db.Omit("User").Create(p).Error)
	return p
}
