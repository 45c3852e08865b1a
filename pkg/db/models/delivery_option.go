package models

import "github.com/shopspring/decimal"

// DeliveryOption is a shipping method with a flat fee.
type DeliveryOption struct {
	ID    uint            `gorm:"column:delivery_option_id;primaryKey"`
	Name  string          `gorm:"column:name;not null"`
	Price decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}
