package handlers

import (
	"vistoria/internal/app"
	reportController "vistoria/internal/controllers/reports"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	Handler
	reportController reportController.ReportControllerInterface
}

func NewReportHandler(app *app.App, router fiber.Router) *ReportHandler {
	return &ReportHandler{
		reportController: app.Controllers.Report,
		Handler:          newHandler(app, router, "report_handler"),
	}
}

func (h *ReportHandler) Register() {
	reports := h.router.Group("/reports", h.middleware.RequireAuth())
	reports.Get("/:inspectionId/html", h.inspectionHTML)
}

func (h *ReportHandler) inspectionHTML(c *fiber.Ctx) error {
	id, err := paramID(c, "inspectionId")
	if err != nil {
		return h.respondError(c, err)
	}

	html, err := h.reportController.InspectionHTML(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}
