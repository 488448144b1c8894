package repositories

import (
	"errors"
	"fmt"

	"stickerboard/internal/apperrors"
	"stickerboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStickerRepository is a GORM implementation of StickerRepository.
type GORMStickerRepository struct {
	db *gorm.DB
}

// NewGORMStickerRepository creates a new instance of GORMStickerRepository.
func NewGORMStickerRepository(db *gorm.DB) *GORMStickerRepository {
	return &GORMStickerRepository{
		db: db,
	}
}

// ListByBoard retrieves all stickers placed on a board.
func (r *GORMStickerRepository) ListByBoard(boardID string) ([]models.Sticker, error) {
	var stickers []models.Sticker
	if err := r.db.Where("board_id = ?", boardID).Find(&stickers).Error; err != nil {
		return nil, fmt.Errorf("failed to list stickers for board %s: %w", boardID, err)
	}
	return stickers, nil
}

// GetByID retrieves a single sticker by its ID from the database.
func (r *GORMStickerRepository) GetByID(id string) (*models.Sticker, error) {
	var sticker models.Sticker
	if err := r.db.First(&sticker, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sticker with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sticker by ID %s: %w", id, err)
	}
	return &sticker, nil
}

// Create creates a new sticker in the database.
func (r *GORMStickerRepository) Create(sticker *models.Sticker) error {
	if sticker.ID == "" {
		sticker.ID = uuid.New().String()
	}
	if err := r.db.Create(sticker).Error; err != nil {
		return fmt.Errorf("failed to create sticker: %w", err)
	}
	return nil
}

// Update updates an existing sticker in the database.
func (r *GORMStickerRepository) Update(sticker *models.Sticker) error {
	res := r.db.Save(sticker)
	if res.Error != nil {
		return fmt.Errorf("failed to update sticker: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sticker with ID %s: %w", sticker.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes a sticker by its ID from the database.
func (r *GORMStickerRepository) Delete(id string) error {
	res := r.db.Delete(&models.Sticker{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete sticker: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sticker with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ReplaceForBoard removes every sticker on the board and inserts the given set
// in a single transaction.
func (r *GORMStickerRepository) ReplaceForBoard(boardID string, stickers []models.Sticker) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", boardID).Delete(&models.Sticker{}).Error; err != nil {
			return err
		}
		for i := range stickers {
			if stickers[i].ID == "" {
				stickers[i].ID = uuid.New().String()
			}
			stickers[i].BoardID = boardID
			if err := tx.Create(&stickers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace stickers for board %s: %w", boardID, err)
	}
	return nil
}
