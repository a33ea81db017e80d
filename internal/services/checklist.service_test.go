package services

import (
	"testing"

	"vistoria/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testRooms() []models.Room {
	rooms := []models.Room{
		{Name: "Living Room", DisplayOrder: 1, Exists: true},
		{Name: "Kitchen", DisplayOrder: 2, Exists: true},
		{Name: "Garage", DisplayOrder: 3, Exists: false},
	}
	for i := range rooms {
		rooms[i].ID = uuid.New()
	}
	return rooms
}

func TestGenerateChecklist(t *testing.T) {
	rooms := testRooms()
	stranger := uuid.New()

	tests := []struct {
		name          string
		selected      []uuid.UUID
		expectedRooms []string
		unknown       []uuid.UUID
	}{
		{
			name:          "defaults to existing rooms",
			selected:      nil,
			expectedRooms: []string{"Living Room", "Kitchen"},
		},
		{
			name:          "explicit selection keeps property order",
			selected:      []uuid.UUID{rooms[1].ID, rooms[0].ID},
			expectedRooms: []string{"Living Room", "Kitchen"},
		},
		{
			name:          "explicit selection may include a room marked absent",
			selected:      []uuid.UUID{rooms[2].ID},
			expectedRooms: []string{"Garage"},
		},
		{
			name:          "unknown ids are reported and skipped",
			selected:      []uuid.UUID{rooms[0].ID, stranger},
			expectedRooms: []string{"Living Room"},
			unknown:       []uuid.UUID{stranger},
		},
	}

	byID := map[uuid.UUID]string{}
	for _, room := range rooms {
		byID[room.ID] = room.Name
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, unknown := GenerateChecklist(rooms, tt.selected)

			assert.Equal(t, tt.unknown, unknown)
			assert.Len(t, items, len(tt.expectedRooms)*len(models.ChecklistVocabulary))

			for i, item := range items {
				room := tt.expectedRooms[i/len(models.ChecklistVocabulary)]
				assert.Equal(t, room, byID[item.RoomID])
				assert.Equal(t, models.ChecklistVocabulary[i%len(models.ChecklistVocabulary)], item.Label)
				assert.Equal(t, models.ConditionUnverified, item.Condition)
				assert.Equal(t, i, item.SortOrder)
			}
		})
	}
}

func TestGenerateChecklist_TwoRoomsYieldEighteenItems(t *testing.T) {
	rooms := testRooms()[:2]

	items, _ := GenerateChecklist(rooms, []uuid.UUID{rooms[0].ID, rooms[1].ID})

	assert.Len(t, items, 18)
}
