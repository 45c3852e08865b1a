package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/everbean/roastery-backend/pkg/enums"
)

// Discount lowers a variant price during its active window.
type Discount struct {
	ID        uint               `gorm:"column:discount_id;primaryKey"`
	VariantID uint               `gorm:"column:variant_id;not null;index"`
	Type      enums.DiscountType `gorm:"column:discount_type;not null"`
	Value     decimal.Decimal    `gorm:"column:value;type:numeric(10,2);not null"`
	StartsAt  time.Time          `gorm:"column:starts_at;not null"`
	EndsAt    time.Time          `gorm:"column:ends_at;not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// ActiveAt reports whether the discount applies at the given instant.
func (d Discount) ActiveAt(t time.Time) bool {
	return !t.Before(d.StartsAt) && !t.After(d.EndsAt)
}

// Apply returns the discounted price, floored at zero.
func (d Discount) Apply(price decimal.Decimal) decimal.Decimal {
	var result decimal.Decimal
	switch d.Type {
	case enums.DiscountTypePercentage:
		factor := decimal.NewFromInt(100).Sub(d.Value).Div(decimal.NewFromInt(100))
		result = price.Mul(factor)
	case enums.DiscountTypeFixed:
		result = price.Sub(d.Value)
	default:
		return price
	}
	if result.IsNegative() {
		return decimal.Zero
	}
	return result.Round(2)
}
