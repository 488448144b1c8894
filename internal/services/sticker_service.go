package services

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"stickerboard/internal/apperrors"
	"stickerboard/internal/models"
	"stickerboard/internal/repositories"

	"github.com/google/uuid"
)

// Sticker field defaults.
const (
	DefaultStickerColor = "#FFFF99"
	DefaultStickerSize  = 100
)

// colorPattern is the accepted sticker color format: #RRGGBB hex.
var colorPattern = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)

// StickerInput carries sticker fields from a request; a nil field means "not
// supplied", so the same type serves creation (defaults applied) and partial
// updates (only supplied fields touched).
type StickerInput struct {
	Content *string `json:"content"`
	Color   *string `json:"color"`
	X       *int    `json:"x"`
	Y       *int    `json:"y"`
	Width   *int    `json:"width"`
	Height  *int    `json:"height"`
	ZIndex  *int    `json:"z_index"`
}

// StickerService handles business logic for stickers on boards.
type StickerService struct {
	stickerRepo repositories.StickerRepository
	boardRepo   repositories.BoardRepository
	userRepo    repositories.UserRepository
}

// NewStickerService creates a new StickerService.
func NewStickerService(stickerRepo repositories.StickerRepository, boardRepo repositories.BoardRepository, userRepo repositories.UserRepository) *StickerService {
	return &StickerService{
		stickerRepo: stickerRepo,
		boardRepo:   boardRepo,
		userRepo:    userRepo,
	}
}

// ListStickers retrieves all stickers on a board.
func (s *StickerService) ListStickers(boardID, userID string) ([]models.Sticker, error) {
	if err := s.checkBoardAccess(boardID, userID); err != nil {
		return nil, err
	}
	return s.stickerRepo.ListByBoard(boardID)
}

// CreateSticker places a new sticker on a board. Unsupplied fields take their
// defaults; supplied fields are validated.
func (s *StickerService) CreateSticker(boardID, userID string, input StickerInput) (*models.Sticker, error) {
	if err := s.checkBoardAccess(boardID, userID); err != nil {
		return nil, err
	}

	sticker, err := buildSticker(boardID, input)
	if err != nil {
		return nil, err
	}
	if err := s.stickerRepo.Create(sticker); err != nil {
		return nil, err
	}
	return sticker, nil
}

// UpdateSticker applies a partial update to a sticker. Only supplied fields
// are validated and written; the rest keep their current values.
func (s *StickerService) UpdateSticker(stickerID string, input StickerInput) (*models.Sticker, error) {
	sticker, err := s.stickerRepo.GetByID(stickerID)
	if err != nil {
		return nil, err
	}

	if input.Content != nil {
		if err := validateContent(*input.Content); err != nil {
			return nil, err
		}
		sticker.Content = *input.Content
	}
	if input.Color != nil {
		if err := validateColor(*input.Color); err != nil {
			return nil, err
		}
		sticker.Color = *input.Color
	}
	if input.Width != nil {
		if err := validateDimension("width", *input.Width); err != nil {
			return nil, err
		}
		sticker.Width = *input.Width
	}
	if input.Height != nil {
		if err := validateDimension("height", *input.Height); err != nil {
			return nil, err
		}
		sticker.Height = *input.Height
	}
	if input.X != nil {
		sticker.X = *input.X
	}
	if input.Y != nil {
		sticker.Y = *input.Y
	}
	if input.ZIndex != nil {
		sticker.ZIndex = *input.ZIndex
	}

	if err := s.stickerRepo.Update(sticker); err != nil {
		return nil, err
	}
	return sticker, nil
}

// DeleteSticker removes a sticker by its ID.
func (s *StickerService) DeleteSticker(stickerID string) error {
	return s.stickerRepo.Delete(stickerID)
}

// ReplaceBoardStickers swaps the full sticker set of a board with the given
// list, validating every entry first. Used by the bulk autosave endpoint.
func (s *StickerService) ReplaceBoardStickers(boardID, userID string, inputs []StickerInput) error {
	if err := s.checkBoardAccess(boardID, userID); err != nil {
		return err
	}

	stickers := make([]models.Sticker, 0, len(inputs))
	for _, input := range inputs {
		sticker, err := buildSticker(boardID, input)
		if err != nil {
			return err
		}
		stickers = append(stickers, *sticker)
	}
	return s.stickerRepo.ReplaceForBoard(boardID, stickers)
}

// checkBoardAccess verifies the board exists and, when an identity resolved,
// that the user is a member. Requests without an identity are allowed through;
// the resolver contract leaves that decision to the caller.
func (s *StickerService) checkBoardAccess(boardID, userID string) error {
	if _, err := s.boardRepo.GetByID(boardID); err != nil {
		return err
	}
	if userID == "" {
		return nil
	}
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return err
	}
	if _, err := s.boardRepo.GetMember(boardID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("access denied to board %s: %w", boardID, apperrors.ErrForbidden)
		}
		return err
	}
	return nil
}

// buildSticker validates the input and assembles a sticker with defaults for
// unsupplied fields.
func buildSticker(boardID string, input StickerInput) (*models.Sticker, error) {
	sticker := &models.Sticker{
		ID:      uuid.New().String(),
		BoardID: boardID,
		Color:   DefaultStickerColor,
		Width:   DefaultStickerSize,
		Height:  DefaultStickerSize,
	}

	if input.Content == nil {
		return nil, fmt.Errorf("content is required: %w", apperrors.ErrValidation)
	}
	if err := validateContent(*input.Content); err != nil {
		return nil, err
	}
	sticker.Content = *input.Content

	if input.Color != nil {
		if err := validateColor(*input.Color); err != nil {
			return nil, err
		}
		sticker.Color = *input.Color
	}
	if input.Width != nil {
		if err := validateDimension("width", *input.Width); err != nil {
			return nil, err
		}
		sticker.Width = *input.Width
	}
	if input.Height != nil {
		if err := validateDimension("height", *input.Height); err != nil {
			return nil, err
		}
		sticker.Height = *input.Height
	}
	if input.X != nil {
		sticker.X = *input.X
	}
	if input.Y != nil {
		sticker.Y = *input.Y
	}
	if input.ZIndex != nil {
		sticker.ZIndex = *input.ZIndex
	}

	return sticker, nil
}

func validateContent(content string) error {
	if content == "" {
		return fmt.Errorf("content must not be empty: %w", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(content) > 100 {
		return fmt.Errorf("content must be at most 100 characters: %w", apperrors.ErrValidation)
	}
	return nil
}

func validateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return fmt.Errorf("color must match #RRGGBB: %w", apperrors.ErrValidation)
	}
	return nil
}

func validateDimension(name string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive: %w", name, apperrors.ErrValidation)
	}
	return nil
}
