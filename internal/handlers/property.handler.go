package handlers

import (
	"vistoria/internal/app"
	propertyController "vistoria/internal/controllers/properties"
	"vistoria/internal/handlers/middleware"
	. "vistoria/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PropertyHandler struct {
	Handler
	propertyController propertyController.PropertyControllerInterface
}

func NewPropertyHandler(app *app.App, router fiber.Router) *PropertyHandler {
	return &PropertyHandler{
		propertyController: app.Controllers.Property,
		Handler:            newHandler(app, router, "property_handler"),
	}
}

func (h *PropertyHandler) Register() {
	properties := h.router.Group("/properties", h.middleware.RequireAuth())
	properties.Get("/", h.list)
	properties.Get("/default-rooms", h.defaultRooms)
	properties.Get("/:id", h.get)
	properties.Post("/", h.create)
	properties.Put("/:id", h.update)
	properties.Delete("/:id", h.deactivate)

	properties.Post("/:id/rooms", h.addRoom)
	properties.Put("/:id/rooms/:roomId", h.updateRoom)
	properties.Delete("/:id/rooms/:roomId", h.deleteRoom)
}

func (h *PropertyHandler) list(c *fiber.Ctx) error {
	req := propertyController.ListPropertiesRequest{
		Search: c.Query("search"),
		Type:   PropertyType(c.Query("type")),
		City:   c.Query("city"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	}

	list, err := h.propertyController.List(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(list)
}

func (h *PropertyHandler) defaultRooms(c *fiber.Ctx) error {
	return c.JSON(h.propertyController.DefaultRooms())
}

func (h *PropertyHandler) get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	property, err := h.propertyController.Get(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(property)
}

func (h *PropertyHandler) create(c *fiber.Ctx) error {
	var req propertyController.CreatePropertyRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	property, err := h.propertyController.Create(c.UserContext(), middleware.GetActor(c), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(property)
}

func (h *PropertyHandler) update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	var req propertyController.UpdatePropertyRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	property, err := h.propertyController.Update(c.UserContext(), middleware.GetActor(c), id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(property)
}

func (h *PropertyHandler) deactivate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.propertyController.Deactivate(c.UserContext(), middleware.GetActor(c), id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Property deactivated"})
}

func (h *PropertyHandler) addRoom(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	var req propertyController.RoomRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	room, err := h.propertyController.AddRoom(c.UserContext(), middleware.GetActor(c), id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func (h *PropertyHandler) updateRoom(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	roomID, err := paramID(c, "roomId")
	if err != nil {
		return h.respondError(c, err)
	}

	var req propertyController.RoomRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	room, err := h.propertyController.UpdateRoom(c.UserContext(), middleware.GetActor(c), id, roomID, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(room)
}

func (h *PropertyHandler) deleteRoom(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	roomID, err := paramID(c, "roomId")
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.propertyController.DeleteRoom(c.UserContext(), middleware.GetActor(c), id, roomID); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
