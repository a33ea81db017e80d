package propertyController

import (
	"context"
	"strings"
	"vistoria/internal/database"
	. "vistoria/internal/models"
	"vistoria/internal/repositories"
	"vistoria/internal/services"
	"vistoria/internal/types"
	"vistoria/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	propertyEntity = "property"
	roomEntity     = "room"
)

type ListPropertiesRequest struct {
	Search string       `json:"search"`
	Type   PropertyType `json:"type"   validate:"omitempty,oneof=HOUSE APARTMENT COMMERCIAL LAND RURAL"`
	City   string       `json:"city"`
	Page   int          `json:"page"   validate:"omitempty,min=1"`
	Limit  int          `json:"limit"  validate:"omitempty,min=1,max=100"`
}

type PropertyList struct {
	Data       []*Property `json:"data"`
	Pagination types.Page  `json:"pagination"`
}

type CreatePropertyRequest struct {
	Type       PropertyType `json:"type"       validate:"required,oneof=HOUSE APARTMENT COMMERCIAL LAND RURAL"`
	Street     string       `json:"street"     validate:"required"`
	Number     string       `json:"number"`
	Complement string       `json:"complement"`
	District   string       `json:"district"   validate:"required"`
	City       string       `json:"city"       validate:"required"`
	State      string       `json:"state"      validate:"required,len=2"`
	PostalCode string       `json:"postalCode"`
	OwnerName  string       `json:"ownerName"`
	Phone      string       `json:"phone"`
	Notes      string       `json:"notes"`
	Rooms      []string     `json:"rooms"      validate:"omitempty,dive,required"`
}

type UpdatePropertyRequest struct {
	Type       *PropertyType `json:"type"       validate:"omitempty,oneof=HOUSE APARTMENT COMMERCIAL LAND RURAL"`
	Street     *string       `json:"street"     validate:"omitempty,min=1"`
	Number     *string       `json:"number"`
	Complement *string       `json:"complement"`
	District   *string       `json:"district"   validate:"omitempty,min=1"`
	City       *string       `json:"city"       validate:"omitempty,min=1"`
	State      *string       `json:"state"      validate:"omitempty,len=2"`
	PostalCode *string       `json:"postalCode"`
	OwnerName  *string       `json:"ownerName"`
	Phone      *string       `json:"phone"`
	Notes      *string       `json:"notes"`
}

type RoomRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=1"`
	Exists *bool   `json:"exists"`
	Order  *int    `json:"order"  validate:"omitempty,min=0"`
}

type PropertyControllerInterface interface {
	List(ctx context.Context, req ListPropertiesRequest) (*PropertyList, error)
	Get(ctx context.Context, id uuid.UUID) (*Property, error)
	DefaultRooms() []string
	Create(ctx context.Context, actor types.Actor, req CreatePropertyRequest) (*Property, error)
	Update(ctx context.Context, actor types.Actor, id uuid.UUID, req UpdatePropertyRequest) (*Property, error)
	Deactivate(ctx context.Context, actor types.Actor, id uuid.UUID) error
	AddRoom(ctx context.Context, actor types.Actor, propertyID uuid.UUID, req RoomRequest) (*Room, error)
	UpdateRoom(
		ctx context.Context,
		actor types.Actor,
		propertyID, roomID uuid.UUID,
		req RoomRequest,
	) (*Room, error)
	DeleteRoom(ctx context.Context, actor types.Actor, propertyID, roomID uuid.UUID) error
}

type PropertyController struct {
	propertyRepo repositories.PropertyRepository
	auditRepo    repositories.AuditRepository
	transaction  *services.TransactionService
	db           database.DB
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) PropertyControllerInterface {
	return &PropertyController{
		propertyRepo: repos.Property,
		auditRepo:    repos.Audit,
		transaction:  services.Transaction,
		db:           db,
		log:          logger.New("propertyController"),
	}
}

func (pc *PropertyController) DefaultRooms() []string {
	return append([]string(nil), DefaultRooms...)
}

func (pc *PropertyController) List(ctx context.Context, req ListPropertiesRequest) (*PropertyList, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	properties, total, err := pc.propertyRepo.List(ctx, pc.db.SQLWithContext(ctx), repositories.PropertyFilter{
		Search: req.Search,
		Type:   req.Type,
		City:   req.City,
		Page:   req.Page,
		Limit:  req.Limit,
	})
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

	return &PropertyList{Data: properties, Pagination: types.NewPage(page, limit, total)}, nil
}

func (pc *PropertyController) Get(ctx context.Context, id uuid.UUID) (*Property, error) {
	return pc.propertyRepo.GetByID(ctx, pc.db.SQLWithContext(ctx), id)
}

// Create registers a property with its rooms. Without a room list the default
// rooms are used; display order follows list position starting at 1.
func (pc *PropertyController) Create(
	ctx context.Context,
	actor types.Actor,
	req CreatePropertyRequest,
) (*Property, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	names := req.Rooms
	if len(names) == 0 {
		names = DefaultRooms
	}

	property := &Property{
		Type:       req.Type,
		Street:     strings.TrimSpace(req.Street),
		Number:     req.Number,
		Complement: req.Complement,
		District:   strings.TrimSpace(req.District),
		City:       strings.TrimSpace(req.City),
		State:      strings.ToUpper(req.State),
		PostalCode: req.PostalCode,
		OwnerName:  req.OwnerName,
		Phone:      req.Phone,
		Notes:      req.Notes,
		Active:     true,
		Rooms:      make([]Room, 0, len(names)),
	}
	for i, name := range names {
		property.Rooms = append(property.Rooms, Room{
			Name:         strings.TrimSpace(name),
			DisplayOrder: i + 1,
			Exists:       true,
		})
	}

	err := pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := pc.propertyRepo.Create(ctx, tx, property); err != nil {
			return err
		}

		return pc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditCreate,
			Entity:   propertyEntity,
			EntityID: property.ID.String(),
			UserID:   actor.UserID(),
			Data:     map[string]any{"street": property.Street, "rooms": len(property.Rooms)},
			IP:       actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}

	return property, nil
}

func (pc *PropertyController) Update(
	ctx context.Context,
	actor types.Actor,
	id uuid.UUID,
	req UpdatePropertyRequest,
) (*Property, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	updates := propertyUpdates(req)

	err := pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if len(updates) == 0 {
			_, err := pc.propertyRepo.GetByID(ctx, tx, id)
			return err
		}

		if err := pc.propertyRepo.Update(ctx, tx, id, updates); err != nil {
			return err
		}

		return pc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditUpdate,
			Entity:   propertyEntity,
			EntityID: id.String(),
			UserID:   actor.UserID(),
			Data:     updates,
			IP:       actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}

	return pc.Get(ctx, id)
}

func propertyUpdates(req UpdatePropertyRequest) map[string]any {
	updates := map[string]any{}
	set := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}

	if req.Type != nil {
		updates["type"] = *req.Type
	}
	set("street", req.Street)
	set("number", req.Number)
	set("complement", req.Complement)
	set("district", req.District)
	set("city", req.City)
	set("postal_code", req.PostalCode)
	set("owner_name", req.OwnerName)
	set("phone", req.Phone)
	set("notes", req.Notes)
	if req.State != nil {
		updates["state"] = strings.ToUpper(*req.State)
	}

	return updates
}

// Deactivate hides the property from listings; existing inspections keep their reference.
func (pc *PropertyController) Deactivate(ctx context.Context, actor types.Actor, id uuid.UUID) error {
	return pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := pc.propertyRepo.Deactivate(ctx, tx, id); err != nil {
			return err
		}

		return pc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditDeactivate,
			Entity:   propertyEntity,
			EntityID: id.String(),
			UserID:   actor.UserID(),
			IP:       actor.IP,
		})
	})
}

func (pc *PropertyController) activeProperty(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Property, error) {
	property, err := pc.propertyRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !property.Active {
		return nil, types.InvalidState("property is inactive")
	}
	return property, nil
}

func (pc *PropertyController) AddRoom(
	ctx context.Context,
	actor types.Actor,
	propertyID uuid.UUID,
	req RoomRequest,
) (*Room, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, types.Validation(map[string]string{"name": "required"})
	}

	room := &Room{
		PropertyID: propertyID,
		Name:       strings.TrimSpace(*req.Name),
		Exists:     true,
	}
	if req.Exists != nil {
		room.Exists = *req.Exists
	}

	err := pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := pc.activeProperty(ctx, tx, propertyID); err != nil {
			return err
		}

		if req.Order != nil {
			room.DisplayOrder = *req.Order
		} else {
			next, err := pc.propertyRepo.NextRoomOrder(ctx, tx, propertyID)
			if err != nil {
				return pc.log.Function("AddRoom").Err("failed to compute room order", err, "propertyID", propertyID)
			}
			room.DisplayOrder = next
		}

		if err := pc.propertyRepo.CreateRoom(ctx, tx, room); err != nil {
			return err
		}

		return pc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditCreate,
			Entity:   roomEntity,
			EntityID: room.ID.String(),
			UserID:   actor.UserID(),
			Data:     map[string]any{"propertyId": propertyID, "name": room.Name},
			IP:       actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

func (pc *PropertyController) UpdateRoom(
	ctx context.Context,
	actor types.Actor,
	propertyID, roomID uuid.UUID,
	req RoomRequest,
) (*Room, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Exists != nil {
		updates["exists"] = *req.Exists
	}
	if req.Order != nil {
		updates["display_order"] = *req.Order
	}

	var room *Room
	err := pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := pc.activeProperty(ctx, tx, propertyID); err != nil {
			return err
		}

		var err error
		room, err = pc.propertyRepo.GetRoom(ctx, tx, propertyID, roomID)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		if err := pc.propertyRepo.UpdateRoom(ctx, tx, room, updates); err != nil {
			return err
		}

		room, err = pc.propertyRepo.GetRoom(ctx, tx, propertyID, roomID)
		if err != nil {
			return err
		}

		return pc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditUpdate,
			Entity:   roomEntity,
			EntityID: roomID.String(),
			UserID:   actor.UserID(),
			Data:     updates,
			IP:       actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

// DeleteRoom removes a room that no checklist item references.
func (pc *PropertyController) DeleteRoom(
	ctx context.Context,
	actor types.Actor,
	propertyID, roomID uuid.UUID,
) error {
	return pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := pc.activeProperty(ctx, tx, propertyID); err != nil {
			return err
		}

		room, err := pc.propertyRepo.GetRoom(ctx, tx, propertyID, roomID)
		if err != nil {
			return err
		}

		inUse, err := pc.propertyRepo.RoomInUse(ctx, tx, roomID)
		if err != nil {
			return pc.log.Function("DeleteRoom").Err("failed to check room usage", err, "roomID", roomID)
		}
		if inUse {
			return types.InvalidState("room is referenced by inspections; mark it as not existing instead")
		}

		if err := pc.propertyRepo.DeleteRoom(ctx, tx, room); err != nil {
			return err
		}

		return pc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditDelete,
			Entity:   roomEntity,
			EntityID: roomID.String(),
			UserID:   actor.UserID(),
			Data:     map[string]any{"propertyId": propertyID, "name": room.Name},
			IP:       actor.IP,
		})
	})
}
