package handlers

import (
	"log"

	"stickerboard/internal/middleware"
	"stickerboard/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BoardHandler handles HTTP requests for boards, sharing and autosave.
type BoardHandler struct {
	boardService   *services.BoardService
	stickerService *services.StickerService
	validate       *validator.Validate
}

// NewBoardHandler creates a new BoardHandler. The sticker service backs the
// bulk autosave endpoint.
func NewBoardHandler(boardService *services.BoardService, stickerService *services.StickerService) *BoardHandler {
	return &BoardHandler{
		boardService:   boardService,
		stickerService: stickerService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the board routes with the Fiber app. Every board
// request goes through the identity resolver first.
func (h *BoardHandler) RegisterRoutes(router fiber.Router) {
	boardRoutes := router.Group("/boards", middleware.ResolveIdentity())
	boardRoutes.Get("/", h.HandleListBoards)
	boardRoutes.Post("/", h.HandleCreateBoard)
	boardRoutes.Post("/new", h.HandleCreateBoard) // legacy creation path
	boardRoutes.Get("/:id", h.HandleGetBoard)
	boardRoutes.Delete("/:id", h.HandleDeleteBoard)
	boardRoutes.Post("/:id/share", h.HandleShareBoard)
	boardRoutes.Post("/:id/autosave", h.HandleAutosave)
}

// CreateBoardRequest represents the request body for board creation.
type CreateBoardRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description"`
}

// ShareBoardRequest represents the request body for sharing a board. Legacy
// clients send userEmail instead of username.
type ShareBoardRequest struct {
	Username  string `json:"username"`
	UserEmail string `json:"userEmail"`
}

// AutosaveRequest represents the bulk board state sent by the canvas.
type AutosaveRequest struct {
	BoardState *BoardState `json:"boardState"`
}

// BoardState is the persisted portion of the canvas state.
type BoardState struct {
	Stickers []services.StickerInput `json:"stickers"`
}

// HandleListBoards returns every board the acting user is a member of.
func (h *BoardHandler) HandleListBoards(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID required",
		})
	}

	views, err := h.boardService.ListBoards(userID)
	if err != nil {
		log.Printf("Error listing boards for user %s: %v", userID, err)
		return errorJSON(c, err)
	}
	return c.JSON(views)
}

// HandleCreateBoard creates a board owned by the acting user.
func (h *BoardHandler) HandleCreateBoard(c *fiber.Ctx) error {
	var req CreateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create board request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	userID := middleware.UserID(c)
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID required",
		})
	}

	board, err := h.boardService.CreateBoard(req.Title, req.Description, userID)
	if err != nil {
		log.Printf("Error creating board for user %s: %v", userID, err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

// HandleGetBoard fetches a single board for the acting user.
func (h *BoardHandler) HandleGetBoard(c *fiber.Ctx) error {
	boardID, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID format",
		})
	}

	view, err := h.boardService.GetBoard(boardID, middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting board %s: %v", boardID, err)
		return errorJSON(c, err)
	}
	return c.JSON(view)
}

// HandleDeleteBoard deletes a board; only its owner may do so.
func (h *BoardHandler) HandleDeleteBoard(c *fiber.Ctx) error {
	boardID, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID format",
		})
	}

	if err := h.boardService.DeleteBoard(boardID, middleware.UserID(c)); err != nil {
		log.Printf("Error deleting board %s: %v", boardID, err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Board deleted successfully"})
}

// HandleShareBoard adds another user as a member of the board.
func (h *BoardHandler) HandleShareBoard(c *fiber.Ctx) error {
	boardID, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID format",
		})
	}

	var req ShareBoardRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing share request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON",
		})
	}

	if err := h.boardService.ShareBoard(boardID, middleware.UserID(c), req.Username, req.UserEmail); err != nil {
		log.Printf("Error sharing board %s: %v", boardID, err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Board shared successfully"})
}

// HandleAutosave persists the bulk board state sent by the canvas, replacing
// the board's sticker set.
func (h *BoardHandler) HandleAutosave(c *fiber.Ctx) error {
	boardID, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID format",
		})
	}

	var req AutosaveRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing autosave request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON",
		})
	}
	if req.BoardState == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "boardState is required",
		})
	}

	if err := h.stickerService.ReplaceBoardStickers(boardID, middleware.UserID(c), req.BoardState.Stickers); err != nil {
		log.Printf("Error autosaving board %s: %v", boardID, err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Board state saved successfully"})
}

// parseID validates an opaque path identifier.
func parseID(raw string) (string, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", err
	}
	return raw, nil
}
