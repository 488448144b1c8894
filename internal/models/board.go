package models

import "gorm.io/gorm"

// Board is a shared canvas owning a set of stickers and a membership list.
type Board struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string `json:"title" gorm:"type:varchar(100)" validate:"required,max=100"`
	Description string `json:"description"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Membership roles. The owner membership is always the first one inserted for a
// board (board creation writes it in the same transaction as the board row), and
// sharing only ever adds RoleMember, so "first member = owner" still holds.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// BoardMember links one user to one board. A (board, user) pair exists at most
// once. The auto-incremented id preserves membership insertion order.
type BoardMember struct {
	BoardID    string `json:"board_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_board_member"`
	UserID     string `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_board_member"`
	Role       string `json:"role" gorm:"type:varchar(16);not null;default:member"`
	gorm.Model        // ID is the insertion-order primary key
}

// BoardView is a board as reported to a particular user. OwnerID is set only
// when that user owns the board; Shared marks boards the user was invited to.
type BoardView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	OwnerID     *string `json:"ownerId"`
	Shared      bool    `json:"shared"`
}
