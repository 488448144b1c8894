package handlers

import (
	"log"

	"stickerboard/internal/middleware"
	"stickerboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StickerHandler handles HTTP requests for stickers.
type StickerHandler struct {
	service *services.StickerService
}

// NewStickerHandler creates a new StickerHandler.
func NewStickerHandler(service *services.StickerService) *StickerHandler {
	return &StickerHandler{
		service: service,
	}
}

// RegisterRoutes registers the sticker routes with the Fiber app.
func (h *StickerHandler) RegisterRoutes(router fiber.Router) {
	boardStickers := router.Group("/boards/:id/stickers", middleware.ResolveIdentity())
	boardStickers.Get("/", h.HandleListStickers)
	boardStickers.Post("/", h.HandleCreateSticker)

	stickerRoutes := router.Group("/stickers", middleware.ResolveIdentity())
	stickerRoutes.Patch("/:id", h.HandleUpdateSticker)
	stickerRoutes.Delete("/:id", h.HandleDeleteSticker)
}

// HandleListStickers retrieves all stickers on a board.
func (h *StickerHandler) HandleListStickers(c *fiber.Ctx) error {
	boardID, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID format",
		})
	}

	stickers, err := h.service.ListStickers(boardID, middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing stickers for board %s: %v", boardID, err)
		return errorJSON(c, err)
	}
	return c.JSON(stickers)
}

// HandleCreateSticker places a new sticker on a board.
func (h *StickerHandler) HandleCreateSticker(c *fiber.Ctx) error {
	boardID, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID format",
		})
	}

	var input services.StickerInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing sticker request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON",
		})
	}

	sticker, err := h.service.CreateSticker(boardID, middleware.UserID(c), input)
	if err != nil {
		log.Printf("Error creating sticker on board %s: %v", boardID, err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sticker)
}

// HandleUpdateSticker applies a partial update to a sticker.
func (h *StickerHandler) HandleUpdateSticker(c *fiber.Ctx) error {
	stickerID, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid sticker ID format",
		})
	}

	var input services.StickerInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing sticker request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON",
		})
	}

	sticker, err := h.service.UpdateSticker(stickerID, input)
	if err != nil {
		log.Printf("Error updating sticker %s: %v", stickerID, err)
		return errorJSON(c, err)
	}
	return c.JSON(sticker)
}

// HandleDeleteSticker removes a sticker.
func (h *StickerHandler) HandleDeleteSticker(c *fiber.Ctx) error {
	stickerID, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid sticker ID format",
		})
	}

	if err := h.service.DeleteSticker(stickerID); err != nil {
		log.Printf("Error deleting sticker %s: %v", stickerID, err)
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
