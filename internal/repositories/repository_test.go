package repositories

import (
	"context"
	"testing"
	"time"

	"vistoria/internal/database"
	. "vistoria/internal/models"
	"vistoria/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sql, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	db := database.NewFromGorm(sql)
	require.NoError(t, db.MigrateModels())
	t.Cleanup(func() { _ = db.Close() })

	return sql
}

func seedInspection(t *testing.T, db *gorm.DB, conditions ...Condition) (*Property, *Inspection) {
	t.Helper()

	user := &User{Name: "Inspector", Email: uuid.NewString() + "@example.com", PasswordHash: "x", Role: RoleInspector, IsActive: true}
	require.NoError(t, db.Create(user).Error)

	property := &Property{
		Type:     PropertyApartment,
		Street:   "Rua das Flores",
		Number:   "10",
		District: "Centro",
		City:     "Curitiba",
		State:    "PR",
		Active:   true,
		Rooms:    []Room{{Name: "Living Room", DisplayOrder: 1, Exists: true}},
	}
	require.NoError(t, db.Create(property).Error)

	inspection := &Inspection{
		PropertyID:  property.ID,
		InspectorID: user.ID,
		Type:        InspectionMoveIn,
		Status:      StatusInProgress,
		InspectedAt: time.Now(),
		Version:     1,
	}
	for i, condition := range conditions {
		inspection.Items = append(inspection.Items, ChecklistItem{
			RoomID:    property.Rooms[0].ID,
			Label:     ChecklistVocabulary[i%len(ChecklistVocabulary)],
			Condition: condition,
			SortOrder: i,
		})
	}

	repo := NewInspectionRepository()
	require.NoError(t, repo.Create(context.Background(), db, inspection))

	return property, inspection
}

func TestInspectionRepository_CreateAndDetail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewInspectionRepository()

	_, inspection := seedInspection(t, db, ConditionUnverified, ConditionGood, ConditionPoor)

	detailed, err := repo.GetDetailed(ctx, db, inspection.ID)
	require.NoError(t, err)
	require.Len(t, detailed.Items, 3)
	assert.Equal(t, LabelFloor, detailed.Items[0].Label)
	require.NotNil(t, detailed.Items[0].Room)
	assert.Equal(t, "Living Room", detailed.Items[0].Room.Name)
	require.NotNil(t, detailed.Property)
	assert.Len(t, detailed.Property.Rooms, 1)

	unverified, err := repo.CountUnverified(ctx, db, inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unverified)
}

func TestInspectionRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewInspectionRepository().GetByID(context.Background(), db, uuid.New())
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestInspectionRepository_FinalizeOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewInspectionRepository()

	_, inspection := seedInspection(t, db, ConditionGood)
	at := time.Now().UTC()

	ok, err := repo.Finalize(ctx, db, inspection.ID, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Finalize(ctx, db, inspection.ID, at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByID(ctx, db, inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFinalized, stored.Status)
	assert.Equal(t, 2, stored.Version)
	require.NotNil(t, stored.FinalizedAt)
	assert.WithinDuration(t, at, *stored.FinalizedAt, time.Second)
}

func TestInspectionRepository_UpdateNotesGuardedByStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewInspectionRepository()

	_, inspection := seedInspection(t, db, ConditionGood)

	ok, err := repo.UpdateNotes(ctx, db, inspection.ID, "keys delivered")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Finalize(ctx, db, inspection.ID, time.Now())
	require.NoError(t, err)

	ok, err = repo.UpdateNotes(ctx, db, inspection.ID, "too late")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByID(ctx, db, inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, "keys delivered", stored.Notes)
}

func TestPropertyRepository_ListFiltersInactive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPropertyRepository(nil)

	active, _ := seedInspection(t, db)
	inactive, _ := seedInspection(t, db)
	require.NoError(t, repo.Deactivate(ctx, db, inactive.ID))

	properties, total, err := repo.List(ctx, db, PropertyFilter{Search: "flores"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, properties, 1)
	assert.Equal(t, active.ID, properties[0].ID)

	var inspections int64
	require.NoError(t, db.Model(&Inspection{}).Where("property_id = ?", inactive.ID).Count(&inspections).Error)
	assert.Equal(t, int64(1), inspections)
}

func TestPropertyRepository_RoomHelpers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPropertyRepository(nil)

	property, _ := seedInspection(t, db, ConditionGood)

	next, err := repo.NextRoomOrder(ctx, db, property.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	inUse, err := repo.RoomInUse(ctx, db, property.Rooms[0].ID)
	require.NoError(t, err)
	assert.True(t, inUse)

	_, err = repo.GetRoom(ctx, db, uuid.New(), property.Rooms[0].ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSettingRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSettingRepository()

	first := &Setting{Category: "chatwoot", Key: "api_token", Value: "one", Sensitive: true}
	require.NoError(t, repo.Upsert(ctx, db, first))

	second := &Setting{Category: "chatwoot", Key: "api_token", Value: "two", Sensitive: true}
	require.NoError(t, repo.Upsert(ctx, db, second))

	assert.Equal(t, first.ID, second.ID)

	settings, err := repo.List(ctx, db, "chatwoot")
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "two", settings[0].Value)

	require.NoError(t, repo.Delete(ctx, db, second.ID))
	assert.ErrorIs(t, repo.Delete(ctx, db, second.ID), types.ErrNotFound)
}

func TestMetricsRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMetricsRepository()

	seedInspection(t, db, ConditionGood)
	seedInspection(t, db, ConditionGood)

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	totals, err := repo.Totals(ctx, db, monthStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Inspections)
	assert.Equal(t, int64(2), totals.InProgress)
	assert.Equal(t, int64(2), totals.ActiveProperties)
	assert.Equal(t, int64(2), totals.ThisMonth)

	byType, err := repo.CountByType(ctx, db)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, string(InspectionMoveIn), byType[0].Type)
	assert.Equal(t, int64(2), byType[0].Count)

	months, err := repo.PerMonth(ctx, db, now, 12)
	require.NoError(t, err)
	require.Len(t, months, 12)
	assert.Equal(t, now.Format("2006-01"), months[11].Month)
	assert.Equal(t, int64(2), months[11].Count)

	recent, err := repo.Recent(ctx, db, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.Equal(t, "Inspector", recent[0].Inspector)
}

func TestAuditRepository_Record(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewAuditRepository()

	userID := uuid.New()
	require.NoError(t, repo.Record(ctx, db, AuditEntry{
		Action:   AuditFinalize,
		Entity:   "inspection",
		EntityID: "abc",
		UserID:   &userID,
		Data:     map[string]any{"unverified": 0},
		IP:       "127.0.0.1",
	}))

	logs, err := repo.ListByEntity(ctx, db, "inspection", "abc")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, AuditFinalize, logs[0].Action)
	assert.JSONEq(t, `{"unverified":0}`, string(logs[0].Data))
}
