package handlers

import (
	"io"
	"vistoria/internal/app"
	uploadController "vistoria/internal/controllers/uploads"
	"vistoria/internal/handlers/middleware"
	"vistoria/internal/types"
	"vistoria/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	Handler
	uploadController uploadController.UploadControllerInterface
}

func NewUploadHandler(app *app.App, router fiber.Router) *UploadHandler {
	return &UploadHandler{
		uploadController: app.Controllers.Upload,
		Handler:          newHandler(app, router, "upload_handler"),
	}
}

func (h *UploadHandler) Register() {
	upload := h.router.Group("/upload", h.middleware.RequireAuth())
	upload.Post("/photo/:itemId", h.uploadPhoto)
	upload.Delete("/photo/:id", h.deletePhoto)
}

func (h *UploadHandler) uploadPhoto(c *fiber.Ctx) error {
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return h.respondError(c, err)
	}

	header, err := c.FormFile("photo")
	if err != nil {
		return h.respondError(c, types.ValidationMessage("photo is required"))
	}
	if header.Size > utils.MAX_PHOTO_SIZE {
		return h.respondError(c, types.TooLarge("photo exceeds the 10MB limit"))
	}

	file, err := header.Open()
	if err != nil {
		return h.respondError(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, utils.MAX_PHOTO_SIZE+1))
	if err != nil {
		return h.respondError(c, err)
	}

	photo, err := h.uploadController.UploadPhoto(c.UserContext(), middleware.GetActor(c), itemID,
		uploadController.PhotoUpload{Data: data, Caption: c.FormValue("caption")})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(photo)
}

func (h *UploadHandler) deletePhoto(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.uploadController.DeletePhoto(c.UserContext(), middleware.GetActor(c), id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Photo deleted"})
}
