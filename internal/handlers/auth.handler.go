package handlers

import (
	"vistoria/internal/app"
	authController "vistoria/internal/controllers/auth"
	"vistoria/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app *app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler:        newHandler(app, router, "auth_handler"),
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")
	auth.Post("/login", h.login)
	auth.Post("/refresh", h.refresh)
	auth.Get("/me", h.middleware.RequireAuth(), h.me)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req authController.LoginRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	resp, err := h.authController.Login(c.UserContext(), c.IP(), req)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var req authController.RefreshRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	resp, err := h.authController.Refresh(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": middleware.GetUser(c).ToProfile()})
}
