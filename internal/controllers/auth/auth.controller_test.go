package authController

import (
	"context"
	"testing"
	"time"
	"vistoria/config"
	"vistoria/internal/database"
	"vistoria/internal/models"
	"vistoria/internal/repositories"
	"vistoria/internal/services"
	"vistoria/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (AuthControllerInterface, database.DB, *models.User) {
	t.Helper()

	sql, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	db := database.NewFromGorm(sql)
	require.NoError(t, db.MigrateModels())
	t.Cleanup(func() { _ = db.Close() })

	hash, err := services.HashPassword("s3cret!")
	require.NoError(t, err)

	user := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: hash, Role: models.RoleInspector, IsActive: true}
	require.NoError(t, db.SQL.Create(user).Error)

	controller := New(repositories.New(db), services.Service{
		Transaction: services.NewTransactionService(db),
		Token: services.NewTokenService(config.Config{
			JWTSecret:     "test-secret",
			JWTAccessTTL:  time.Hour,
			JWTRefreshTTL: 24 * time.Hour,
		}),
	}, db)

	return controller, db, user
}

func TestLogin(t *testing.T) {
	controller, db, user := setup(t)
	ctx := context.Background()

	resp, err := controller.Login(ctx, "10.0.0.1", LoginRequest{Email: "ANA@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotNil(t, resp.User.LastLoginAt)

	authenticated, err := controller.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	var audit models.AuditLog
	require.NoError(t, db.SQL.Where("action = ?", models.AuditLogin).First(&audit).Error)
	assert.Equal(t, "10.0.0.1", audit.IP)
}

func TestLogin_Rejections(t *testing.T) {
	controller, db, user := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  LoginRequest
		kind error
	}{
		{"wrong password", LoginRequest{Email: "ana@example.com", Password: "nope"}, types.ErrUnauthorized},
		{"unknown email", LoginRequest{Email: "bob@example.com", Password: "s3cret!"}, types.ErrUnauthorized},
		{"malformed email", LoginRequest{Email: "ana", Password: "s3cret!"}, types.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := controller.Login(ctx, "", tt.req)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	require.NoError(t, db.SQL.Model(user).Update("is_active", false).Error)
	_, err := controller.Login(ctx, "", LoginRequest{Email: "ana@example.com", Password: "s3cret!"})
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestRefresh(t *testing.T) {
	controller, _, _ := setup(t)
	ctx := context.Background()

	resp, err := controller.Login(ctx, "", LoginRequest{Email: "ana@example.com", Password: "s3cret!"})
	require.NoError(t, err)

	refreshed, err := controller.Refresh(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = controller.Refresh(ctx, RefreshRequest{RefreshToken: resp.AccessToken})
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = controller.Authenticate(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}
