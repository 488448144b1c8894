package models

import "gorm.io/gorm"

// Sticker is a positioned, colored, sized text note belonging to exactly one board.
type Sticker struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	BoardID    string `json:"board_id" gorm:"type:varchar(36);index;not null"`
	Content    string `json:"content" gorm:"type:varchar(100)" validate:"required,max=100"`
	Color      string `json:"color" gorm:"type:varchar(7)"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width" validate:"gt=0"`
	Height     int    `json:"height" validate:"gt=0"`
	ZIndex     int    `json:"z_index"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
