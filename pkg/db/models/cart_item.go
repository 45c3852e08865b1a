package models

import "time"

// CartItem is a variant plus quantity inside a shopping cart.
type CartItem struct {
	ID        uint            `gorm:"column:cart_item_id;primaryKey"`
	CartID    uint            `gorm:"column:cart_id;not null;index:idx_cart_variant,unique"`
	VariantID uint            `gorm:"column:variant_id;not null;index:idx_cart_variant,unique"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID"`
	Quantity  int             `gorm:"column:quantity;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
