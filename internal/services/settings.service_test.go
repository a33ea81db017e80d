package services

import (
	"context"
	"testing"
	"vistoria/internal/database"
	"vistoria/internal/models"
	"vistoria/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) database.DB {
	t.Helper()

	sql, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	db := database.NewFromGorm(sql)
	require.NoError(t, db.MigrateModels())
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestSettingsService_Value(t *testing.T) {
	db := setupSQLite(t)
	repo := repositories.NewSettingRepository()
	settings := NewSettingsService(db, repo)
	ctx := context.Background()

	assert.Equal(t, "env-token", settings.Value(ctx, "chatwoot", "api_token", "env-token"))

	require.NoError(t, repo.Upsert(ctx, db.SQL, &models.Setting{
		Category:  "chatwoot",
		Key:       "api_token",
		Value:     "stored-token",
		Sensitive: true,
	}))
	settings.Invalidate(ctx, "chatwoot", "api_token")
	assert.Equal(t, "stored-token", settings.Value(ctx, "chatwoot", "api_token", "env-token"))

	require.NoError(t, repo.Upsert(ctx, db.SQL, &models.Setting{Category: "chatwoot", Key: "inbox_id"}))
	assert.Equal(t, "7", settings.Value(ctx, "chatwoot", "inbox_id", "7"), "empty values fall back")
}
