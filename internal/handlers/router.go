package handlers

import (
	"errors"
	"vistoria/internal/app"
	"vistoria/internal/handlers/middleware"
	"vistoria/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func newHandler(app *app.App, router fiber.Router, file string) Handler {
	return Handler{
		middleware: app.Middleware,
		log:        logger.New("handlers").File(file),
		router:     router,
	}
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAuthHandler(app, api).Register()
	NewUserHandler(app, api).Register()
	NewPropertyHandler(app, api).Register()
	NewInspectionHandler(app, api).Register()
	NewUploadHandler(app, api).Register()
	NewReportHandler(app, api).Register()
	NewAdminHandler(app, api).Register()
	NewSettingsHandler(app, api).Register()

	return nil
}

// respondError maps the error kind to its HTTP status. Unknown errors are logged
// and reported as 500 without leaking their text.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	appErr, ok := types.AsAppError(err)
	if !ok {
		h.log.TraceFromContext(c.UserContext()).Function("respondError").
			Er("request failed", err, "path", c.Path(), "method", c.Method())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(appErr.Kind, types.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(appErr.Kind, types.ErrInvalidState), errors.Is(appErr.Kind, types.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(appErr.Kind, types.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(appErr.Kind, types.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(appErr.Kind, types.ErrTooLarge):
		status = fiber.StatusRequestEntityTooLarge
	}

	body := fiber.Map{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["details"] = appErr.Fields
	}
	if appErr.UnverifiedCount > 0 {
		body["unverifiedCount"] = appErr.UnverifiedCount
	}

	return c.Status(status).JSON(body)
}

func (h *Handler) parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return types.ValidationMessage("invalid request body")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, types.Validation(map[string]string{name: "uuid"})
	}
	return id, nil
}

func queryID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, types.Validation(map[string]string{name: "uuid"})
	}
	return &id, nil
}
