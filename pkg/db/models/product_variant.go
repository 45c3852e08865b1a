package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant is the sellable unit of a product, for example a specific
// bag size and grind. Stock is decremented at checkout with a guarded update.
type ProductVariant struct {
	ID        uint            `gorm:"column:variant_id;primaryKey"`
	ProductID uint            `gorm:"column:product_id;not null;index"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock     int             `gorm:"column:stock;not null;default:0"`
	Images    []ProductImage  `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	Discounts []Discount      `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
