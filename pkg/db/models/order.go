package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/everbean/roastery-backend/pkg/enums"
)

// Order is the purchase record created at checkout.
type Order struct {
	ID               uint              `gorm:"column:order_id;primaryKey"`
	UserID           uint              `gorm:"column:user_id;not null;index"`
	User             *User             `gorm:"foreignKey:UserID"`
	Status           enums.OrderStatus `gorm:"column:status;not null;default:processing"`
	Total            decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	DeliveryOptionID uint              `gorm:"column:delivery_option_id;not null"`
	DeliveryOption   *DeliveryOption   `gorm:"foreignKey:DeliveryOptionID"`
	Items            []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Address          *OrderAddress     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
