package handlers

import (
	"vistoria/internal/app"
	inspectionController "vistoria/internal/controllers/inspections"
	"vistoria/internal/handlers/middleware"
	. "vistoria/internal/models"
	"vistoria/internal/types"

	"github.com/gofiber/fiber/v2"
)

type InspectionHandler struct {
	Handler
	inspectionController inspectionController.InspectionControllerInterface
}

func NewInspectionHandler(app *app.App, router fiber.Router) *InspectionHandler {
	return &InspectionHandler{
		inspectionController: app.Controllers.Inspection,
		Handler:              newHandler(app, router, "inspection_handler"),
	}
}

func (h *InspectionHandler) Register() {
	inspections := h.router.Group("/inspections", h.middleware.RequireAuth())
	inspections.Get("/", h.list)
	inspections.Get("/checklist-items", h.checklistItems)
	inspections.Get("/compare", h.compare)
	inspections.Get("/:id", h.get)
	inspections.Post("/", h.create)
	inspections.Put("/:id", h.updateNotes)
	inspections.Put("/:id/items/:itemId", h.updateItem)
	inspections.Get("/:id/progress", h.progress)
	inspections.Post("/:id/finalize", h.finalize)
	inspections.Post("/:id/sign", h.sign)
}

func (h *InspectionHandler) list(c *fiber.Ctx) error {
	propertyID, err := queryID(c, "propertyId")
	if err != nil {
		return h.respondError(c, err)
	}

	req := inspectionController.ListInspectionsRequest{
		PropertyID: propertyID,
		Status:     InspectionStatus(c.Query("status")),
		Type:       InspectionType(c.Query("type")),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 20),
	}

	list, err := h.inspectionController.List(c.UserContext(), middleware.GetActor(c), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(list)
}

func (h *InspectionHandler) checklistItems(c *fiber.Ctx) error {
	return c.JSON(h.inspectionController.ChecklistVocabulary())
}

func (h *InspectionHandler) compare(c *fiber.Ctx) error {
	entryID, err := queryID(c, "entry")
	if err != nil {
		return h.respondError(c, err)
	}
	exitID, err := queryID(c, "exit")
	if err != nil {
		return h.respondError(c, err)
	}
	if entryID == nil || exitID == nil {
		return h.respondError(c, types.ValidationMessage("entry and exit inspection ids are required"))
	}

	comparison, err := h.inspectionController.Compare(c.UserContext(), *entryID, *exitID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(comparison)
}

func (h *InspectionHandler) get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	inspection, err := h.inspectionController.Get(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(inspection)
}

func (h *InspectionHandler) create(c *fiber.Ctx) error {
	var req inspectionController.CreateInspectionRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	inspection, err := h.inspectionController.Create(c.UserContext(), middleware.GetActor(c), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inspection)
}

func (h *InspectionHandler) updateNotes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	var req inspectionController.UpdateNotesRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	inspection, err := h.inspectionController.UpdateNotes(c.UserContext(), middleware.GetActor(c), id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(inspection)
}

func (h *InspectionHandler) updateItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return h.respondError(c, err)
	}

	var req inspectionController.UpdateItemRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	item, err := h.inspectionController.UpdateItem(c.UserContext(), middleware.GetActor(c), id, itemID, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(item)
}

func (h *InspectionHandler) progress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	progress, err := h.inspectionController.Progress(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(progress)
}

func (h *InspectionHandler) finalize(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	inspection, err := h.inspectionController.Finalize(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(inspection)
}

func (h *InspectionHandler) sign(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	var req inspectionController.SignRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	inspection, err := h.inspectionController.Sign(c.UserContext(), middleware.GetActor(c), id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(inspection)
}
