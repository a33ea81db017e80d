package handlers

import (
	"vistoria/internal/app"
	settingsController "vistoria/internal/controllers/settings"
	"vistoria/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	Handler
	settingsController settingsController.SettingsControllerInterface
}

func NewSettingsHandler(app *app.App, router fiber.Router) *SettingsHandler {
	return &SettingsHandler{
		settingsController: app.Controllers.Settings,
		Handler:            newHandler(app, router, "settings_handler"),
	}
}

func (h *SettingsHandler) Register() {
	settings := h.router.Group("/settings", h.middleware.RequireAuth(), h.middleware.RequireAdmin())
	settings.Get("/", h.list)
	settings.Put("/batch", h.upsertBatch)
	settings.Put("/", h.upsert)
	settings.Get("/:category", h.list)
	settings.Delete("/:id", h.delete)
}

func (h *SettingsHandler) list(c *fiber.Ctx) error {
	settings, err := h.settingsController.List(c.UserContext(), c.Params("category"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) upsert(c *fiber.Ctx) error {
	var req settingsController.SettingRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	setting, err := h.settingsController.Upsert(c.UserContext(), middleware.GetActor(c), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(setting)
}

func (h *SettingsHandler) upsertBatch(c *fiber.Ctx) error {
	var req settingsController.BatchRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	settings, err := h.settingsController.UpsertBatch(c.UserContext(), middleware.GetActor(c), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.settingsController.Delete(c.UserContext(), middleware.GetActor(c), id); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
