package models

import "gorm.io/gorm"

// User represents a registered whiteboard user.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(150)" validate:"required,max=150"`
	Password   string `gorm:"type:varchar(255)" validate:"required"` // No json tag for security
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
