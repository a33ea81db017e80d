package settingsController

import (
	"context"
	"testing"
	"vistoria/internal/database"
	"vistoria/internal/models"
	"vistoria/internal/repositories"
	"vistoria/internal/services"
	"vistoria/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (SettingsControllerInterface, database.DB) {
	t.Helper()

	sql, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	db := database.NewFromGorm(sql)
	require.NoError(t, db.MigrateModels())
	t.Cleanup(func() { _ = db.Close() })

	repos := repositories.New(db)
	controller := New(repos, services.Service{
		Transaction: services.NewTransactionService(db),
		Settings:    services.NewSettingsService(db, repos.Setting),
	}, db)
	return controller, db
}

func TestUpsert_MasksSensitiveValues(t *testing.T) {
	controller, db := setup(t)
	ctx := context.Background()

	saved, err := controller.Upsert(ctx, types.Actor{}, SettingRequest{
		Category:  "chatwoot",
		Key:       "api_token",
		Value:     "real-token",
		Sensitive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaskedSettingValue, saved.Value)

	_, err = controller.Upsert(ctx, types.Actor{}, SettingRequest{
		Category:    "chatwoot",
		Key:         "api_token",
		Value:       models.MaskedSettingValue,
		Description: "agent bot token",
		Sensitive:   true,
	})
	require.NoError(t, err)

	var stored models.Setting
	require.NoError(t, db.SQL.First(&stored, "category = ? AND setting_key = ?", "chatwoot", "api_token").Error)
	assert.Equal(t, "real-token", stored.Value)
	assert.Equal(t, "agent bot token", stored.Description)

	listed, err := controller.List(ctx, "chatwoot")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, models.MaskedSettingValue, listed[0].Value)
}

func TestUpsertBatch(t *testing.T) {
	controller, db := setup(t)
	ctx := context.Background()

	_, err := controller.UpsertBatch(ctx, types.Actor{}, BatchRequest{Settings: []SettingRequest{
		{Category: "smtp", Key: "from", Value: "noreply@example.com"},
		{Category: "smtp", Key: ""},
	}})
	assert.ErrorIs(t, err, types.ErrValidation)

	saved, err := controller.UpsertBatch(ctx, types.Actor{}, BatchRequest{Settings: []SettingRequest{
		{Category: "smtp", Key: "from", Value: "noreply@example.com"},
		{Category: "smtp", Key: "host", Value: "mail.example.com"},
	}})
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	var count int64
	require.NoError(t, db.SQL.Model(&models.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestDelete(t *testing.T) {
	controller, _ := setup(t)
	ctx := context.Background()

	saved, err := controller.Upsert(ctx, types.Actor{}, SettingRequest{Category: "app", Key: "banner", Value: "hi"})
	require.NoError(t, err)

	require.NoError(t, controller.Delete(ctx, types.Actor{}, saved.ID))
	assert.ErrorIs(t, controller.Delete(ctx, types.Actor{}, saved.ID), types.ErrNotFound)
	assert.ErrorIs(t, controller.Delete(ctx, types.Actor{}, uuid.New()), types.ErrNotFound)

	listed, err := controller.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, listed)
}
