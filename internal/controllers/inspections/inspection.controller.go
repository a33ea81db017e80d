package inspectionController

import (
	"context"
	"time"
	"vistoria/internal/database"
	"vistoria/internal/events"
	. "vistoria/internal/models"
	"vistoria/internal/repositories"
	"vistoria/internal/services"
	"vistoria/internal/types"
	"vistoria/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const auditEntity = "inspection"

type ListInspectionsRequest struct {
	PropertyID *uuid.UUID       `json:"propertyId"`
	Status     InspectionStatus `json:"status" validate:"omitempty,oneof=IN_PROGRESS FINALIZED"`
	Type       InspectionType   `json:"type"   validate:"omitempty,oneof=MOVE_IN MOVE_OUT PERIODIC"`
	Page       int              `json:"page"   validate:"omitempty,min=1"`
	Limit      int              `json:"limit"  validate:"omitempty,min=1,max=100"`
}

type InspectionList struct {
	Data       []*Inspection `json:"data"`
	Pagination types.Page    `json:"pagination"`
}

type CreateInspectionRequest struct {
	PropertyID uuid.UUID      `json:"propertyId" validate:"required"`
	Type       InspectionType `json:"type"       validate:"required,oneof=MOVE_IN MOVE_OUT PERIODIC"`
	Notes      string         `json:"notes"`
	RoomIDs    []uuid.UUID    `json:"roomIds"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

type UpdateItemRequest struct {
	Condition Condition `json:"condition" validate:"required,oneof=GOOD FAIR POOR NOT_APPLICABLE UNVERIFIED"`
	Note      *string   `json:"note"`
}

type SignRequest struct {
	InspectorSignature *string `json:"inspectorSignature"`
	ClientSignature    *string `json:"clientSignature"`
	ClientName         *string `json:"clientName"`
}

type InspectionControllerInterface interface {
	List(ctx context.Context, actor types.Actor, req ListInspectionsRequest) (*InspectionList, error)
	Get(ctx context.Context, id uuid.UUID) (*Inspection, error)
	Create(ctx context.Context, actor types.Actor, req CreateInspectionRequest) (*Inspection, error)
	UpdateNotes(ctx context.Context, actor types.Actor, id uuid.UUID, req UpdateNotesRequest) (*Inspection, error)
	UpdateItem(
		ctx context.Context,
		actor types.Actor,
		inspectionID, itemID uuid.UUID,
		req UpdateItemRequest,
	) (*ChecklistItem, error)
	Progress(ctx context.Context, id uuid.UUID) (*types.Progress, error)
	Finalize(ctx context.Context, actor types.Actor, id uuid.UUID) (*Inspection, error)
	Sign(ctx context.Context, actor types.Actor, id uuid.UUID, req SignRequest) (*Inspection, error)
	Compare(ctx context.Context, entryID, exitID uuid.UUID) (*types.Comparison, error)
	ChecklistVocabulary() []ItemLabel
}

type InspectionController struct {
	inspectionRepo repositories.InspectionRepository
	itemRepo       repositories.ChecklistItemRepository
	propertyRepo   repositories.PropertyRepository
	auditRepo      repositories.AuditRepository
	transaction    *services.TransactionService
	eventBus       *events.EventBus
	db             database.DB
	now            func() time.Time
	log            logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	db database.DB,
) InspectionControllerInterface {
	return &InspectionController{
		inspectionRepo: repos.Inspection,
		itemRepo:       repos.ChecklistItem,
		propertyRepo:   repos.Property,
		auditRepo:      repos.Audit,
		transaction:    services.Transaction,
		eventBus:       eventBus,
		db:             db,
		now:            time.Now,
		log:            logger.New("inspectionController"),
	}
}

func (ic *InspectionController) ChecklistVocabulary() []ItemLabel {
	return append([]ItemLabel(nil), ChecklistVocabulary...)
}

func (ic *InspectionController) List(
	ctx context.Context,
	actor types.Actor,
	req ListInspectionsRequest,
) (*InspectionList, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	filter := repositories.InspectionFilter{
		PropertyID: req.PropertyID,
		Status:     req.Status,
		Type:       req.Type,
		Page:       req.Page,
		Limit:      req.Limit,
	}
	if !actor.IsAdmin() {
		filter.InspectorID = actor.UserID()
	}

	inspections, total, err := ic.inspectionRepo.List(ctx, ic.db.SQLWithContext(ctx), filter)
	if err != nil {
		return nil, err
	}

	page, limit := req.Page, req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	return &InspectionList{
		Data:       inspections,
		Pagination: types.NewPage(page, limit, total),
	}, nil
}

func (ic *InspectionController) Get(ctx context.Context, id uuid.UUID) (*Inspection, error) {
	return ic.inspectionRepo.GetDetailed(ctx, ic.db.SQLWithContext(ctx), id)
}

// Create snapshots the property's rooms into a fresh UNVERIFIED checklist. The
// inspection and its items are written in one transaction.
func (ic *InspectionController) Create(
	ctx context.Context,
	actor types.Actor,
	req CreateInspectionRequest,
) (*Inspection, error) {
	log := ic.log.Function("Create")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	var inspection *Inspection
	err := ic.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		property, err := ic.propertyRepo.GetByID(ctx, tx, req.PropertyID)
		if err != nil {
			return err
		}

		items, unknown := services.GenerateChecklist(property.Rooms, req.RoomIDs)
		if len(unknown) > 0 {
			log.Warn("ignoring rooms that do not belong to the property",
				"propertyID", property.ID, "unknownRooms", unknown)
		}

		inspection = &Inspection{
			PropertyID:  property.ID,
			InspectorID: actor.User.ID,
			Type:        req.Type,
			Status:      StatusInProgress,
			InspectedAt: ic.now(),
			Notes:       req.Notes,
			Version:     1,
			Items:       items,
		}
		if err := ic.inspectionRepo.Create(ctx, tx, inspection); err != nil {
			return err
		}

		return ic.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditCreate,
			Entity:   auditEntity,
			EntityID: inspection.ID.String(),
			UserID:   actor.UserID(),
			Data:     map[string]any{"type": req.Type, "propertyId": property.ID, "items": len(items)},
			IP:       actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}

	ic.invalidateMetrics("inspection created")

	return ic.Get(ctx, inspection.ID)
}

func (ic *InspectionController) UpdateNotes(
	ctx context.Context,
	actor types.Actor,
	id uuid.UUID,
	req UpdateNotesRequest,
) (*Inspection, error) {
	err := ic.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		inspection, err := ic.inspectionRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !inspection.Status.Editable() {
			return types.InvalidState("inspection already finalized, cannot edit")
		}

		updated, err := ic.inspectionRepo.UpdateNotes(ctx, tx, id, req.Notes)
		if err != nil {
			return err
		}
		if !updated {
			return types.InvalidState("inspection already finalized, cannot edit")
		}

		return ic.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditUpdate,
			Entity:   auditEntity,
			EntityID: id.String(),
			UserID:   actor.UserID(),
			Data:     map[string]any{"field": "notes"},
			IP:       actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}

	return ic.inspectionRepo.GetByID(ctx, ic.db.SQLWithContext(ctx), id)
}

// UpdateItem sets an item's condition and, when given, its note. Any condition may
// follow any other; only the parent inspection's status gates the write.
func (ic *InspectionController) UpdateItem(
	ctx context.Context,
	actor types.Actor,
	inspectionID, itemID uuid.UUID,
	req UpdateItemRequest,
) (*ChecklistItem, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	err := ic.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		item, err := ic.itemRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item.InspectionID != inspectionID {
			return types.NotFound("checklist item not found")
		}

		inspection, err := ic.inspectionRepo.GetByID(ctx, tx, inspectionID)
		if err != nil {
			return err
		}
		if !inspection.Status.Editable() {
			return types.InvalidState("inspection already finalized, cannot edit")
		}

		return ic.itemRepo.Update(ctx, tx, itemID, req.Condition, req.Note)
	})
	if err != nil {
		return nil, err
	}

	return ic.itemRepo.GetByID(ctx, ic.db.SQLWithContext(ctx), itemID)
}

func (ic *InspectionController) Progress(ctx context.Context, id uuid.UUID) (*types.Progress, error) {
	tx := ic.db.SQLWithContext(ctx)

	if _, err := ic.inspectionRepo.GetByID(ctx, tx, id); err != nil {
		return nil, err
	}

	items, err := ic.itemRepo.ListByInspection(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	return buildProgress(items), nil
}

// Finalize freezes the inspection once every item has been verified. The status
// write is conditional on IN_PROGRESS so concurrent callers cannot both succeed.
// Notifications are published after commit and never affect the result.
func (ic *InspectionController) Finalize(
	ctx context.Context,
	actor types.Actor,
	id uuid.UUID,
) (*Inspection, error) {
	log := ic.log.Function("Finalize")

	err := ic.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		inspection, err := ic.inspectionRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if inspection.IsFinalized() {
			return types.InvalidState("inspection already finalized")
		}

		unverified, err := ic.inspectionRepo.CountUnverified(ctx, tx, id)
		if err != nil {
			return log.Err("failed to count unverified items", err, "inspectionID", id)
		}
		if unverified > 0 {
			return types.UnverifiedItems(int(unverified))
		}

		finalized, err := ic.inspectionRepo.Finalize(ctx, tx, id, ic.now())
		if err != nil {
			return err
		}
		if !finalized {
			return types.InvalidState("inspection already finalized")
		}

		return ic.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditFinalize,
			Entity:   auditEntity,
			EntityID: id.String(),
			UserID:   actor.UserID(),
			IP:       actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}

	if ic.eventBus != nil {
		if err := ic.eventBus.PublishInspectionFinalized(id, actor.User.ID); err != nil {
			log.Er("failed to publish finalized event", err, "inspectionID", id)
		}
	}
	ic.invalidateMetrics("inspection finalized")

	return ic.inspectionRepo.GetByID(ctx, ic.db.SQLWithContext(ctx), id)
}

// Sign stores signature data in any status.
func (ic *InspectionController) Sign(
	ctx context.Context,
	actor types.Actor,
	id uuid.UUID,
	req SignRequest,
) (*Inspection, error) {
	updates := map[string]any{}
	if req.InspectorSignature != nil {
		updates["inspector_signature"] = *req.InspectorSignature
	}
	if req.ClientSignature != nil {
		updates["client_signature"] = *req.ClientSignature
	}
	if req.ClientName != nil {
		updates["client_name"] = *req.ClientName
	}

	err := ic.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := ic.inspectionRepo.GetByID(ctx, tx, id); err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := ic.inspectionRepo.Sign(ctx, tx, id, updates); err != nil {
				return err
			}
		}

		return ic.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditSign,
			Entity:   auditEntity,
			EntityID: id.String(),
			UserID:   actor.UserID(),
			IP:       actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}

	return ic.inspectionRepo.GetByID(ctx, ic.db.SQLWithContext(ctx), id)
}

func (ic *InspectionController) Compare(
	ctx context.Context,
	entryID, exitID uuid.UUID,
) (*types.Comparison, error) {
	tx := ic.db.SQLWithContext(ctx)

	entry, err := ic.inspectionRepo.GetDetailed(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}

	exit, err := ic.inspectionRepo.GetDetailed(ctx, tx, exitID)
	if err != nil {
		return nil, err
	}

	return compareInspections(entry, exit), nil
}

func (ic *InspectionController) invalidateMetrics(reason string) {
	if ic.eventBus == nil {
		return
	}
	if err := ic.eventBus.PublishMetricsInvalidated(reason); err != nil {
		ic.log.Function("invalidateMetrics").Warn("failed to publish metrics invalidation", "error", err)
	}
}
