package repositories

import "stickerboard/internal/models"

// BoardRepository defines the interface for board and membership data access.
type BoardRepository interface {
	// Create inserts the board and the owner's membership atomically.
	Create(board *models.Board, ownerID string) error
	GetByID(id string) (*models.Board, error)
	ListByUser(userID string) ([]models.Board, error)
	// Delete removes the board, cascading to its memberships and stickers.
	Delete(id string) error
	AddMember(boardID, userID, role string) error
	GetMember(boardID, userID string) (*models.BoardMember, error)
	GetOwner(boardID string) (*models.BoardMember, error)
}
