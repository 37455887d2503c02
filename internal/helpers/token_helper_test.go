package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/config"
	"github.com/mkraemer/craftmarket/internal/helpers"
	"github.com/mkraemer/craftmarket/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.MigrateModels(db))
	return db
}

func TestGenerateTokenKey(t *testing.T) {
	key, err := helpers.GenerateTokenKey()
	require.NoError(t, err)
	assert.Len(t, key, 40)
	assert.Regexp(t, "^[0-9a-f]{40}$", key)

	other, err := helpers.GenerateTokenKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestGetOrCreateTokenIsStable(t *testing.T) {
	db := setupDB(t)

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)

	first, err := helpers.GetOrCreateToken(db, user.ID)
	require.NoError(t, err)
	assert.Len(t, first.Key, 40)

	second, err := helpers.GetOrCreateToken(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)

	var count int64
	db.Model(&models.Token{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetOrCreateTokenPerUser(t *testing.T) {
	db := setupDB(t)

	alice := models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	bob := models.User{Username: "bob", Email: "bob@example.com", Password: "hash"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	aliceToken, err := helpers.GetOrCreateToken(db, alice.ID)
	require.NoError(t, err)
	bobToken, err := helpers.GetOrCreateToken(db, bob.ID)
	require.NoError(t, err)

	assert.NotEqual(t, aliceToken.Key, bobToken.Key)
}
