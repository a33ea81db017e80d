package uploadController

import (
	"context"
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

const photoEntity = "photo"

type PhotoUpload struct {
	Data    []byte
	Caption string
}

type UploadControllerInterface interface {
	UploadPhoto(ctx context.Context, actor types.Actor, itemID uuid.UUID, upload PhotoUpload) (*Photo, error)
	DeletePhoto(ctx context.Context, actor types.Actor, photoID uuid.UUID) error
}

type UploadController struct {
	itemRepo       repositories.ChecklistItemRepository
	inspectionRepo repositories.InspectionRepository
	photoRepo      repositories.PhotoRepository
	auditRepo      repositories.AuditRepository
	transaction    *services.TransactionService
	blob           services.BlobStore
	db             database.DB
	log            logger.Logger
}

func New(repos repositories.Repository, services services.Service, db database.DB) UploadControllerInterface {
	return &UploadController{
		itemRepo:       repos.ChecklistItem,
		inspectionRepo: repos.Inspection,
		photoRepo:      repos.Photo,
		auditRepo:      repos.Audit,
		transaction:    services.Transaction,
		blob:           services.Blob,
		db:             db,
		log:            logger.New("uploadController"),
	}
}

// editableItem loads an item and fails unless its inspection is still in progress.
func (uc *UploadController) editableItem(
	ctx context.Context,
	tx *gorm.DB,
	itemID uuid.UUID,
) (*ChecklistItem, error) {
	item, err := uc.itemRepo.GetByID(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	inspection, err := uc.inspectionRepo.GetByID(ctx, tx, item.InspectionID)
	if err != nil {
		return nil, err
	}
	if !inspection.Status.Editable() {
		return nil, types.InvalidState("inspection already finalized, cannot edit")
	}

	return item, nil
}

func (uc *UploadController) UploadPhoto(
	ctx context.Context,
	actor types.Actor,
	itemID uuid.UUID,
	upload PhotoUpload,
) (*Photo, error) {
	log := uc.log.Function("UploadPhoto")

	ext, err := utils.DetectPhotoType(upload.Data)
	if err != nil {
		return nil, err
	}

	var (
		photo  *Photo
		stored *services.StoredBlob
	)
	err = uc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := uc.editableItem(ctx, tx, itemID); err != nil {
			return err
		}

		blob, err := uc.blob.Store(ctx, upload.Data, uuid.NewString()+ext)
		if err != nil {
			return err
		}
		stored = &blob

		photo = &Photo{
			ChecklistItemID: itemID,
			URL:             stored.URL,
			StoragePath:     stored.Path,
			Caption:         upload.Caption,
		}
		if err := uc.photoRepo.Create(ctx, tx, photo); err != nil {
			return err
		}

		return uc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditCreate,
			Entity:   photoEntity,
			EntityID: photo.ID.String(),
			UserID:   actor.UserID(),
			Data:     map[string]any{"itemId": itemID, "size": len(upload.Data)},
			IP:       actor.IP,
		})
	})
	if err != nil {
		// The row was rolled back, so nothing will ever point at the stored blob.
		if stored != nil {
			if delErr := uc.blob.Delete(context.WithoutCancel(ctx), stored.Path); delErr != nil {
				log.Warn("failed to remove orphaned blob", "path", stored.Path, "error", delErr)
			}
		}
		return nil, err
	}

	return photo, nil
}

// DeletePhoto removes the stored blob before the record.
func (uc *UploadController) DeletePhoto(ctx context.Context, actor types.Actor, photoID uuid.UUID) error {
	return uc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		photo, err := uc.photoRepo.GetByID(ctx, tx, photoID)
		if err != nil {
			return err
		}

		if _, err := uc.editableItem(ctx, tx, photo.ChecklistItemID); err != nil {
			return err
		}

		target := photo.StoragePath
		if target == "" {
			target = photo.URL
		}
		if err := uc.blob.Delete(ctx, target); err != nil {
			return err
		}

		if err := uc.photoRepo.Delete(ctx, tx, photoID); err != nil {
			return err
		}

		return uc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditDelete,
			Entity:   photoEntity,
			EntityID: photoID.String(),
			UserID:   actor.UserID(),
			Data:     map[string]any{"itemId": photo.ChecklistItemID},
			IP:       actor.IP,
		})
	})
}
