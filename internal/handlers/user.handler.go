package handlers

import (
	"vistoria/internal/app"
	userController "vistoria/internal/controllers/users"
	"vistoria/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app *app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		userController: app.Controllers.User,
		Handler:        newHandler(app, router, "user_handler"),
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth(), h.middleware.RequireAdmin())
	users.Get("/", h.list)
	users.Post("/", h.create)
	users.Patch("/:id", h.update)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	users, err := h.userController.List(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var req userController.CreateUserRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	user, err := h.userController.Create(c.UserContext(), middleware.GetActor(c), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	var req userController.UpdateUserRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	user, err := h.userController.Update(c.UserContext(), middleware.GetActor(c), id, req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(user)
}
