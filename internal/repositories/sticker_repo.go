package repositories

import "stickerboard/internal/models"

// StickerRepository defines the interface for sticker data access.
type StickerRepository interface {
	ListByBoard(boardID string) ([]models.Sticker, error)
	GetByID(id string) (*models.Sticker, error)
	Create(sticker *models.Sticker) error
	Update(sticker *models.Sticker) error
	Delete(id string) error
	// ReplaceForBoard swaps the full sticker set of a board atomically.
	ReplaceForBoard(boardID string, stickers []models.Sticker) error
}
