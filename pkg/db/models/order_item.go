package models

import "github.com/shopspring/decimal"

// OrderItem snapshots a purchased variant with its unit price at checkout time.
type OrderItem struct {
	ID        uint            `gorm:"column:order_item_id;primaryKey"`
	OrderID   uint            `gorm:"column:order_id;not null;index"`
	VariantID uint            `gorm:"column:variant_id;not null"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}
