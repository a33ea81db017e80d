package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCondition_Rank(t *testing.T) {
	tests := []struct {
		condition Condition
		expected  int
	}{
		{ConditionGood, 0},
		{ConditionFair, 1},
		{ConditionPoor, 2},
		{ConditionNotApplicable, 3},
		{ConditionUnverified, 4},
		{Condition("BROKEN"), -1},
	}

	for _, tt := range tests {
		t.Run(string(tt.condition), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.condition.Rank())
			assert.Equal(t, tt.expected >= 0, tt.condition.Valid())
		})
	}
}

func TestChecklistVocabulary(t *testing.T) {
	assert.Len(t, ChecklistVocabulary, 9)
	assert.Equal(t, LabelFloor, ChecklistVocabulary[0])
	assert.Equal(t, LabelOther, ChecklistVocabulary[8])
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, InspectionMoveIn.Valid())
	assert.True(t, InspectionPeriodic.Valid())
	assert.False(t, InspectionType("ENTRADA").Valid())

	assert.True(t, StatusInProgress.Editable())
	assert.False(t, StatusFinalized.Editable())
	assert.False(t, InspectionStatus("DRAFT").Valid())

	assert.True(t, PropertyRural.Valid())
	assert.False(t, PropertyType("CASTLE").Valid())

	assert.True(t, RoleBroker.Valid())
	assert.False(t, Role("ROOT").Valid())
}

func TestExistingRooms(t *testing.T) {
	rooms := ExistingRooms([]Room{
		{Name: "Kitchen", DisplayOrder: 1, Exists: true},
		{Name: "Garage", DisplayOrder: 2, Exists: false},
		{Name: "Balcony", DisplayOrder: 3, Exists: true},
	})

	assert.Len(t, rooms, 2)
	assert.Equal(t, "Kitchen", rooms[0].Name)
	assert.Equal(t, "Balcony", rooms[1].Name)
}

func TestBaseUUIDModel_BeforeCreate(t *testing.T) {
	t.Run("assigns id when empty", func(t *testing.T) {
		base := &BaseUUIDModel{}
		assert.NoError(t, base.BeforeCreate(nil))
		assert.NotEqual(t, uuid.Nil, base.ID)
		assert.Equal(t, uuid.Version(7), base.ID.Version())
	})

	t.Run("keeps existing id", func(t *testing.T) {
		id := uuid.New()
		base := &BaseUUIDModel{ID: id}
		assert.NoError(t, base.BeforeCreate(nil))
		assert.Equal(t, id, base.ID)
	})
}

func TestSetting_Masked(t *testing.T) {
	secret := Setting{Category: "chatwoot", Key: "api_token", Value: "abc", Sensitive: true}
	plain := Setting{Category: "email", Key: "from", Value: "noreply@example.com"}

	assert.Equal(t, MaskedSettingValue, secret.Masked().Value)
	assert.Equal(t, "abc", secret.Value)
	assert.Equal(t, "noreply@example.com", plain.Masked().Value)
}

func TestUser_ToProfile(t *testing.T) {
	user := &User{Name: "Ana", Email: "ana@example.com", Role: RoleAdmin, IsActive: true, PasswordHash: "secret"}
	user.ID = uuid.New()

	profile := user.ToProfile()

	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, RoleAdmin, profile.Role)
	assert.True(t, user.IsAdmin())
}
