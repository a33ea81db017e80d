package main

import (
	"fmt"
	"os"
	"strings"
	"vistoria/internal/models"
	"vistoria/internal/offline"
	"vistoria/internal/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Record an edit locally; it is sent on the next sync",
	}

	cmd.AddCommand(newQueueInspectionCmd(), newQueueItemCmd(), newQueuePhotoCmd())
	return cmd
}

func newQueueInspectionCmd() *cobra.Command {
	var (
		propertyID     string
		inspectionType string
		notes          string
		rooms          []string
	)

	cmd := &cobra.Command{
		Use:   "inspection",
		Short: "Queue a new inspection for a property",
		RunE: withAgent(func(cmd *cobra.Command, args []string, a *agent) error {
			property, err := uuid.Parse(propertyID)
			if err != nil {
				return fmt.Errorf("invalid --property: %w", err)
			}

			roomIDs, err := parseIDs(rooms)
			if err != nil {
				return fmt.Errorf("invalid --rooms: %w", err)
			}

			entry, err := a.queue.EnqueueInspection(cmd.Context(), uuid.New(), offline.InspectionPayload{
				PropertyID: property,
				Type:       models.InspectionType(strings.ToUpper(inspectionType)),
				Notes:      notes,
				RoomIDs:    roomIDs,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "queued inspection %s\n", entry.TempID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&propertyID, "property", "", "property id")
	cmd.Flags().StringVar(&inspectionType, "type", string(models.InspectionMoveIn), "MOVE_IN, MOVE_OUT or PERIODIC")
	cmd.Flags().StringVar(&notes, "notes", "", "inspection notes")
	cmd.Flags().StringSliceVar(&rooms, "rooms", nil, "room ids to inspect; defaults to every existing room")
	_ = cmd.MarkFlagRequired("property")

	return cmd
}

func newQueueItemCmd() *cobra.Command {
	var (
		inspectionID string
		itemID       string
		condition    string
		note         string
	)

	cmd := &cobra.Command{
		Use:   "item",
		Short: "Queue a condition change for a checklist item",
		RunE: withAgent(func(cmd *cobra.Command, args []string, a *agent) error {
			inspection, err := uuid.Parse(inspectionID)
			if err != nil {
				return fmt.Errorf("invalid --inspection: %w", err)
			}
			item, err := uuid.Parse(itemID)
			if err != nil {
				return fmt.Errorf("invalid --item: %w", err)
			}

			payload := offline.ItemPayload{Condition: models.Condition(strings.ToUpper(condition))}
			if cmd.Flags().Changed("note") {
				payload.Note = &note
			}

			entry, err := a.queue.EnqueueItemUpdate(cmd.Context(), inspection, item, payload)
			if err != nil {
				return fmt.Errorf("%w (accepted: %v)", err, models.Conditions())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "queued %s for item %s\n", entry.Condition, entry.ItemID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&inspectionID, "inspection", "", "inspection id")
	cmd.Flags().StringVar(&itemID, "item", "", "checklist item id")
	cmd.Flags().StringVar(&condition, "condition", "", "GOOD, FAIR, POOR, NOT_APPLICABLE or UNVERIFIED")
	cmd.Flags().StringVar(&note, "note", "", "item note")
	_ = cmd.MarkFlagRequired("inspection")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("condition")

	return cmd
}

func newQueuePhotoCmd() *cobra.Command {
	var (
		itemID  string
		file    string
		caption string
	)

	cmd := &cobra.Command{
		Use:   "photo",
		Short: "Queue a photo for a checklist item",
		RunE: withAgent(func(cmd *cobra.Command, args []string, a *agent) error {
			item, err := uuid.Parse(itemID)
			if err != nil {
				return fmt.Errorf("invalid --item: %w", err)
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			// Reject what the server would reject instead of retrying it forever.
			if _, err := utils.DetectPhotoType(data); err != nil {
				return err
			}

			entry, err := a.queue.EnqueuePhoto(cmd.Context(), item, data, caption)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "queued photo %d for item %s\n", entry.ID, entry.ItemID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&itemID, "item", "", "checklist item id")
	cmd.Flags().StringVar(&file, "file", "", "jpeg, png or webp file, up to 10MB")
	cmd.Flags().StringVar(&caption, "caption", "", "photo caption")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
