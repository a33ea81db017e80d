package handlers

import (
	"vistoria/internal/app"
	adminController "vistoria/internal/controllers/admin"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app *app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler:         newHandler(app, router, "admin_handler"),
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAuth(), h.middleware.RequireAdmin())
	admin.Get("/metrics", h.metrics)
	admin.Post("/metrics/refresh", h.refreshMetrics)
	admin.Get("/inspections-per-month", h.inspectionsPerMonth)
}

func (h *AdminHandler) metrics(c *fiber.Ctx) error {
	metrics, err := h.adminController.Metrics(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(metrics)
}

func (h *AdminHandler) refreshMetrics(c *fiber.Ctx) error {
	metrics, err := h.adminController.RefreshMetrics(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(metrics)
}

func (h *AdminHandler) inspectionsPerMonth(c *fiber.Ctx) error {
	months, err := h.adminController.InspectionsPerMonth(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(months)
}
