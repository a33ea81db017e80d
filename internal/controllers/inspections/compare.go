package inspectionController

import (
	"math"
	. "vistoria/internal/models"
	"vistoria/internal/types"

	"github.com/google/uuid"
)

func buildProgress(items []*ChecklistItem) *types.Progress {
	progress := &types.Progress{Rooms: []types.RoomProgress{}}
	index := map[uuid.UUID]int{}

	for _, item := range items {
		pos, ok := index[item.RoomID]
		if !ok {
			name := ""
			if item.Room != nil {
				name = item.Room.Name
			}
			progress.Rooms = append(progress.Rooms, types.RoomProgress{RoomID: item.RoomID, Room: name})
			pos = len(progress.Rooms) - 1
			index[item.RoomID] = pos
		}

		progress.Total++
		progress.Rooms[pos].Total++
		if item.Condition != ConditionUnverified {
			progress.Verified++
			progress.Rooms[pos].Verified++
		}
	}

	if progress.Total > 0 {
		progress.Percent = int(math.Round(float64(progress.Verified) * 100 / float64(progress.Total)))
	}

	return progress
}

type itemKey struct {
	room  string
	label ItemLabel
}

func keyOf(item ChecklistItem) itemKey {
	key := itemKey{label: item.Label}
	if item.Room != nil {
		key.room = item.Room.Name
	}
	return key
}

// classify compares severity ranks; a lower rank on the exit side is an improvement.
func classify(entry, exit Condition) types.Classification {
	switch {
	case exit.Rank() < entry.Rank():
		return types.Improved
	case exit.Rank() > entry.Rank():
		return types.Worsened
	default:
		return types.Unchanged
	}
}

func sideOf(item ChecklistItem) types.ItemSide {
	side := types.ItemSide{
		Condition: string(item.Condition),
		Note:      item.Note,
		Photos:    make([]types.PhotoRef, 0, len(item.Photos)),
	}
	for _, photo := range item.Photos {
		side.Photos = append(side.Photos, types.PhotoRef{URL: photo.URL, Caption: photo.Caption})
	}
	return side
}

func headerOf(inspection *Inspection) types.InspectionHeader {
	header := types.InspectionHeader{
		ID:          inspection.ID,
		Type:        string(inspection.Type),
		Status:      string(inspection.Status),
		InspectedAt: inspection.InspectedAt,
		FinalizedAt: inspection.FinalizedAt,
	}
	if inspection.Inspector != nil {
		header.Inspector = inspection.Inspector.Name
	}
	return header
}

// compareInspections diffs entry against exit keyed by room name and item label.
// Entry items without an exit counterpart report a nil exit side and count as missing.
func compareInspections(entry, exit *Inspection) *types.Comparison {
	exitItems := make(map[itemKey]ChecklistItem, len(exit.Items))
	for _, item := range exit.Items {
		key := keyOf(item)
		if _, seen := exitItems[key]; !seen {
			exitItems[key] = item
		}
	}

	comparison := &types.Comparison{
		Entry:    headerOf(entry),
		Exit:     headerOf(exit),
		Property: entry.Property,
		Items:    make([]types.ItemDiff, 0, len(entry.Items)),
	}

	for _, item := range entry.Items {
		key := keyOf(item)
		diff := types.ItemDiff{
			Room:           key.room,
			Label:          string(item.Label),
			Entry:          sideOf(item),
			Classification: types.Unchanged,
		}

		match, ok := exitItems[key]
		if !ok {
			comparison.Summary.Missing++
			comparison.Items = append(comparison.Items, diff)
			continue
		}

		exitSide := sideOf(match)
		diff.Exit = &exitSide
		diff.Changed = item.Condition != match.Condition
		diff.Classification = classify(item.Condition, match.Condition)

		switch diff.Classification {
		case types.Improved:
			comparison.Summary.Improved++
		case types.Worsened:
			comparison.Summary.Worsened++
		default:
			comparison.Summary.Unchanged++
		}
		comparison.Items = append(comparison.Items, diff)
	}

	return comparison
}
