package services

import (
	"vistoria/internal/models"

	"github.com/google/uuid"
)

// GenerateChecklist expands rooms x ChecklistVocabulary into UNVERIFIED items.
//
// When selected is empty every room flagged as existing is used. Otherwise only the
// listed rooms are used, in the property's room order; ids that do not belong to the
// property are returned as unknown and skipped.
func GenerateChecklist(
	rooms []models.Room,
	selected []uuid.UUID,
) (items []models.ChecklistItem, unknown []uuid.UUID) {
	var chosen []models.Room

	if len(selected) == 0 {
		chosen = models.ExistingRooms(rooms)
	} else {
		chosen = make([]models.Room, 0, len(selected))
		wanted := make(map[uuid.UUID]bool, len(selected))
		for _, id := range selected {
			wanted[id] = true
		}

		for _, room := range rooms {
			if wanted[room.ID] {
				chosen = append(chosen, room)
				delete(wanted, room.ID)
			}
		}

		for _, id := range selected {
			if wanted[id] {
				unknown = append(unknown, id)
				delete(wanted, id)
			}
		}
	}

	items = make([]models.ChecklistItem, 0, len(chosen)*len(models.ChecklistVocabulary))
	for _, room := range chosen {
		for _, label := range models.ChecklistVocabulary {
			items = append(items, models.ChecklistItem{
				RoomID:    room.ID,
				Label:     label,
				Condition: models.ConditionUnverified,
				SortOrder: len(items),
			})
		}
	}

	return items, unknown
}
