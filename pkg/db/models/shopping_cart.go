package models

import "time"

// ShoppingCart holds the pending items for a single user. One cart per user.
type ShoppingCart struct {
	ID        uint       `gorm:"column:cart_id;primaryKey"`
	UserID    uint       `gorm:"column:user_id;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
