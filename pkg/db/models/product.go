package models

import "time"

// Product represents a coffee listing with its sellable variants.
type Product struct {
	ID          uint             `gorm:"column:product_id;primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Description string           `gorm:"column:description;type:text;not null"`
	CategoryID  *uint            `gorm:"column:category_id"`
	Category    *Category        `gorm:"foreignKey:CategoryID"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
