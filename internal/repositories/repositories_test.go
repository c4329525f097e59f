package repositories

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/notepass/backend/internal/models"
)

// setupTestDB opens an isolated in-memory database, named after the test so
// parallel tests never share state, and migrates the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.FriendRequest{},
		&models.FriendNickname{},
		&models.DraftNote{},
		&models.Note{},
		&models.FavoriteNote{},
		&models.DeletedNote{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user, err := NewPostgresUserRepository(db).Create(username+"@example.com", username, "Display "+username)
	require.NoError(t, err)
	return user
}

// makeFriends establishes a friendship through the normal request flow.
func makeFriends(t *testing.T, db *gorm.DB, a, b *models.User) {
	t.Helper()
	repo := NewPostgresFriendshipRepository(db)
	require.NoError(t, repo.SendRequest(a.ID, b.ID))
	require.NoError(t, repo.AcceptRequest(a.ID, b.ID))
}
