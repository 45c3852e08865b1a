package models

import "time"

// WishlistItem marks a variant a user wants to keep an eye on.
type WishlistItem struct {
	ID        uint            `gorm:"column:wishlist_item_id;primaryKey"`
	UserID    uint            `gorm:"column:user_id;not null;index:idx_wishlist_user_variant,unique"`
	VariantID uint            `gorm:"column:variant_id;not null;index:idx_wishlist_user_variant,unique"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
