package repositories

import (
	"errors"
	"fmt"

	"stickerboard/internal/apperrors"
	"stickerboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBoardRepository is a GORM implementation of BoardRepository.
type GORMBoardRepository struct {
	db *gorm.DB
}

// NewGORMBoardRepository creates a new instance of GORMBoardRepository.
func NewGORMBoardRepository(db *gorm.DB) *GORMBoardRepository {
	return &GORMBoardRepository{
		db: db,
	}
}

// Create inserts the board row and the owner's membership row in a single
// transaction. If either insert fails nothing is committed.
func (r *GORMBoardRepository) Create(board *models.Board, ownerID string) error {
	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		member := models.BoardMember{
			BoardID: board.ID,
			UserID:  ownerID,
			Role:    models.RoleOwner,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create board: %v: %w", err, apperrors.ErrConflict)
	}
	return nil
}

// GetByID retrieves a single board by its ID from the database.
func (r *GORMBoardRepository) GetByID(id string) (*models.Board, error) {
	var board models.Board
	if err := r.db.First(&board, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get board by ID %s: %w", id, err)
	}
	return &board, nil
}

// ListByUser retrieves every board the user holds a membership on.
func (r *GORMBoardRepository) ListByUser(userID string) ([]models.Board, error) {
	var boards []models.Board
	err := r.db.
		Joins("JOIN board_members ON board_members.board_id = boards.id AND board_members.deleted_at IS NULL").
		Where("board_members.user_id = ?", userID).
		Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list boards for user %s: %w", userID, err)
	}
	return boards, nil
}

// Delete removes a board and cascades to its memberships and stickers, all in
// one transaction.
func (r *GORMBoardRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Board{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("board with ID %s: %w", id, apperrors.ErrNotFound)
		}
		if err := tx.Where("board_id = ?", id).Delete(&models.BoardMember{}).Error; err != nil {
			return err
		}
		return tx.Where("board_id = ?", id).Delete(&models.Sticker{}).Error
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete board %s: %w", id, err)
	}
	return nil
}

// AddMember inserts a membership record for the user on the board.
func (r *GORMBoardRepository) AddMember(boardID, userID, role string) error {
	member := models.BoardMember{
		BoardID: boardID,
		UserID:  userID,
		Role:    role,
	}
	if err := r.db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s is already a member of board %s: %w", userID, boardID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to add member to board %s: %w", boardID, err)
	}
	return nil
}

// GetMember retrieves the membership of a user on a board, if any.
func (r *GORMBoardRepository) GetMember(boardID, userID string) (*models.BoardMember, error) {
	var member models.BoardMember
	err := r.db.First(&member, "board_id = ? AND user_id = ?", boardID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s has no membership on board %s: %w", userID, boardID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get membership for board %s: %w", boardID, err)
	}
	return &member, nil
}

// GetOwner retrieves the owner membership of a board. The earliest-created
// membership is the fallback for records predating the explicit role column.
func (r *GORMBoardRepository) GetOwner(boardID string) (*models.BoardMember, error) {
	var member models.BoardMember
	err := r.db.
		Where("board_id = ? AND role = ?", boardID, models.RoleOwner).
		Order("id ASC").
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.Where("board_id = ?", boardID).Order("id ASC").First(&member).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board %s has no members: %w", boardID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get owner for board %s: %w", boardID, err)
	}
	return &member, nil
}
