package inspectionController

import (
	"context"
	"sync"
	"testing"
	"time"
	"vistoria/internal/database"
	"vistoria/internal/events"
	"vistoria/internal/models"
	"vistoria/internal/repositories"
	"vistoria/internal/services"
	"vistoria/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db         database.DB
	controller *InspectionController
	bus        *events.EventBus
	actor      types.Actor
	property   *models.Property
}

func setup(t *testing.T) *fixture {
	t.Helper()

	sql, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	db := database.NewFromGorm(sql)
	require.NoError(t, db.MigrateModels())
	t.Cleanup(func() { _ = db.Close() })

	inspector := &models.User{
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "x",
		Role:         models.RoleInspector,
		IsActive:     true,
	}
	require.NoError(t, db.SQL.Create(inspector).Error)

	property := &models.Property{
		Type:     models.PropertyHouse,
		Street:   "Rua A",
		Number:   "5",
		District: "Centro",
		City:     "Curitiba",
		State:    "PR",
		Active:   true,
		Rooms: []models.Room{
			{Name: "Living Room", DisplayOrder: 1, Exists: true},
			{Name: "Kitchen", DisplayOrder: 2, Exists: true},
			{Name: "Garage", DisplayOrder: 3, Exists: false},
		},
	}
	require.NoError(t, db.SQL.Create(property).Error)

	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	controller := New(
		repositories.New(db),
		services.Service{Transaction: services.NewTransactionService(db)},
		bus,
		db,
	).(*InspectionController)

	return &fixture{
		db:         db,
		controller: controller,
		bus:        bus,
		actor:      types.Actor{User: inspector, IP: "127.0.0.1"},
		property:   property,
	}
}

func (f *fixture) create(t *testing.T, kind models.InspectionType, roomIDs ...uuid.UUID) *models.Inspection {
	t.Helper()

	inspection, err := f.controller.Create(context.Background(), f.actor, CreateInspectionRequest{
		PropertyID: f.property.ID,
		Type:       kind,
		RoomIDs:    roomIDs,
	})
	require.NoError(t, err)
	return inspection
}

func (f *fixture) setAll(t *testing.T, inspection *models.Inspection, condition models.Condition) {
	t.Helper()

	for _, item := range inspection.Items {
		_, err := f.controller.UpdateItem(context.Background(), f.actor, inspection.ID, item.ID,
			UpdateItemRequest{Condition: condition})
		require.NoError(t, err)
	}
}

func TestCreate_GeneratesChecklistForSelectedRooms(t *testing.T) {
	f := setup(t)

	inspection := f.create(t, models.InspectionMoveIn, f.property.Rooms[0].ID, f.property.Rooms[1].ID)

	assert.Equal(t, models.StatusInProgress, inspection.Status)
	assert.Nil(t, inspection.FinalizedAt)
	require.Len(t, inspection.Items, 2*len(models.ChecklistVocabulary))
	for _, item := range inspection.Items {
		assert.Equal(t, models.ConditionUnverified, item.Condition)
	}

	var audits int64
	require.NoError(t, f.db.SQL.Model(&models.AuditLog{}).Where("entity = ?", "inspection").Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestCreate_DefaultsToExistingRooms(t *testing.T) {
	f := setup(t)

	inspection := f.create(t, models.InspectionPeriodic)

	assert.Len(t, inspection.Items, 2*len(models.ChecklistVocabulary))
}

func TestCreate_UnknownProperty(t *testing.T) {
	f := setup(t)

	_, err := f.controller.Create(context.Background(), f.actor, CreateInspectionRequest{
		PropertyID: uuid.New(),
		Type:       models.InspectionMoveIn,
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	var count int64
	require.NoError(t, f.db.SQL.Model(&models.Inspection{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreate_InvalidType(t *testing.T) {
	f := setup(t)

	_, err := f.controller.Create(context.Background(), f.actor, CreateInspectionRequest{
		PropertyID: f.property.ID,
		Type:       "DEMOLITION",
	})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestFinalize_Lifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var (
		mu        sync.Mutex
		published []events.Event
	)
	require.NoError(t, f.bus.Subscribe(events.INSPECTION_FINALIZED, func(event events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, event)
		return nil
	}))

	inspection := f.create(t, models.InspectionMoveIn, f.property.Rooms[0].ID, f.property.Rooms[1].ID)

	_, err := f.controller.Finalize(ctx, f.actor, inspection.ID)
	appErr, ok := types.AsAppError(err)
	require.True(t, ok)
	assert.ErrorIs(t, err, types.ErrInvalidState)
	assert.Equal(t, 18, appErr.UnverifiedCount)

	f.setAll(t, inspection, models.ConditionGood)

	finalized, err := f.controller.Finalize(ctx, f.actor, inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinalized, finalized.Status)
	assert.NotNil(t, finalized.FinalizedAt)
	assert.Equal(t, 2, finalized.Version)

	_, err = f.controller.Finalize(ctx, f.actor, inspection.ID)
	assert.ErrorIs(t, err, types.ErrInvalidState)

	_, err = f.controller.UpdateItem(ctx, f.actor, inspection.ID, inspection.Items[0].ID,
		UpdateItemRequest{Condition: models.ConditionPoor})
	assert.ErrorIs(t, err, types.ErrInvalidState)

	_, err = f.controller.UpdateNotes(ctx, f.actor, inspection.ID, UpdateNotesRequest{Notes: "late"})
	assert.ErrorIs(t, err, types.ErrInvalidState)

	name := "Carlos"
	signed, err := f.controller.Sign(ctx, f.actor, inspection.ID, SignRequest{ClientName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Carlos", signed.ClientName)

	f.bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, published, 1)
	assert.Equal(t, inspection.ID.String(), published[0].Data["inspectionId"])
}

func TestUpdateItem_OtherInspectionFinalized(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := f.create(t, models.InspectionMoveIn)
	f.setAll(t, first, models.ConditionGood)
	_, err := f.controller.Finalize(ctx, f.actor, first.ID)
	require.NoError(t, err)

	second := f.create(t, models.InspectionMoveOut)
	note := "cracked tile"
	item, err := f.controller.UpdateItem(ctx, f.actor, second.ID, second.Items[0].ID,
		UpdateItemRequest{Condition: models.ConditionPoor, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, models.ConditionPoor, item.Condition)
	assert.Equal(t, "cracked tile", item.Note)
}

func TestUpdateItem_ItemOfAnotherInspection(t *testing.T) {
	f := setup(t)

	first := f.create(t, models.InspectionMoveIn)
	second := f.create(t, models.InspectionMoveOut)

	_, err := f.controller.UpdateItem(context.Background(), f.actor, second.ID, first.Items[0].ID,
		UpdateItemRequest{Condition: models.ConditionGood})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestProgress(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	inspection := f.create(t, models.InspectionMoveIn)
	for _, item := range inspection.Items[:3] {
		_, err := f.controller.UpdateItem(ctx, f.actor, inspection.ID, item.ID,
			UpdateItemRequest{Condition: models.ConditionFair})
		require.NoError(t, err)
	}

	progress, err := f.controller.Progress(ctx, inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, progress.Total)
	assert.Equal(t, 3, progress.Verified)
	assert.Equal(t, 17, progress.Percent)
	require.Len(t, progress.Rooms, 2)
	assert.Equal(t, "Living Room", progress.Rooms[0].Room)
	assert.Equal(t, 3, progress.Rooms[0].Verified)
}

func TestCompare_ClassifiesByRank(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	entry := f.create(t, models.InspectionMoveIn, f.property.Rooms[0].ID)
	exit := f.create(t, models.InspectionMoveOut, f.property.Rooms[0].ID)

	f.setAll(t, entry, models.ConditionFair)
	f.setAll(t, exit, models.ConditionFair)

	floor := func(inspection *models.Inspection) uuid.UUID {
		for _, item := range inspection.Items {
			if item.Label == models.LabelFloor {
				return item.ID
			}
		}
		t.Fatal("floor item missing")
		return uuid.Nil
	}

	_, err := f.controller.UpdateItem(ctx, f.actor, entry.ID, floor(entry), UpdateItemRequest{Condition: models.ConditionPoor})
	require.NoError(t, err)
	_, err = f.controller.UpdateItem(ctx, f.actor, exit.ID, floor(exit), UpdateItemRequest{Condition: models.ConditionGood})
	require.NoError(t, err)

	comparison, err := f.controller.Compare(ctx, entry.ID, exit.ID)
	require.NoError(t, err)
	require.Len(t, comparison.Items, len(models.ChecklistVocabulary))

	diff := comparison.Items[0]
	assert.Equal(t, "Living Room", diff.Room)
	assert.Equal(t, string(models.LabelFloor), diff.Label)
	assert.True(t, diff.Changed)
	assert.Equal(t, types.Improved, diff.Classification)
	assert.Equal(t, 1, comparison.Summary.Improved)
	assert.Equal(t, len(models.ChecklistVocabulary)-1, comparison.Summary.Unchanged)
	assert.Equal(t, "Ana", comparison.Entry.Inspector)
}

func TestCompare_MissingExitItem(t *testing.T) {
	entry := &models.Inspection{Items: []models.ChecklistItem{
		{Room: &models.Room{Name: "Kitchen"}, Label: models.LabelWalls, Condition: models.ConditionGood},
	}}
	exit := &models.Inspection{}

	comparison := compareInspections(entry, exit)

	require.Len(t, comparison.Items, 1)
	assert.Nil(t, comparison.Items[0].Exit)
	assert.False(t, comparison.Items[0].Changed)
	assert.Equal(t, 1, comparison.Summary.Missing)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		entry, exit models.Condition
		want        types.Classification
	}{
		{models.ConditionPoor, models.ConditionGood, types.Improved},
		{models.ConditionGood, models.ConditionFair, types.Worsened},
		{models.ConditionFair, models.ConditionFair, types.Unchanged},
		{models.ConditionNotApplicable, models.ConditionUnverified, types.Worsened},
	}

	for _, tt := range tests {
		t.Run(string(tt.entry)+"->"+string(tt.exit), func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.entry, tt.exit))
		})
	}
}

func TestList_InspectorSeesOwnOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.create(t, models.InspectionMoveIn)

	other := &models.User{Name: "Bia", Email: "bia@example.com", PasswordHash: "x", Role: models.RoleInspector, IsActive: true}
	require.NoError(t, f.db.SQL.Create(other).Error)

	list, err := f.controller.List(ctx, types.Actor{User: other}, ListInspectionsRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Data)

	admin := &models.User{Name: "Root", Email: "root@example.com", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	list, err = f.controller.List(ctx, types.Actor{User: admin}, ListInspectionsRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, int64(1), list.Pagination.Total)
}

func TestFinalize_StampsClock(t *testing.T) {
	f := setup(t)
	stamp := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	f.controller.now = func() time.Time { return stamp }

	inspection := f.create(t, models.InspectionMoveIn, f.property.Rooms[0].ID)
	f.setAll(t, inspection, models.ConditionNotApplicable)

	finalized, err := f.controller.Finalize(context.Background(), f.actor, inspection.ID)
	require.NoError(t, err)
	require.NotNil(t, finalized.FinalizedAt)
	assert.True(t, stamp.Equal(finalized.FinalizedAt.UTC()))
}
