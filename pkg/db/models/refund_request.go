package models

import (
	"time"

	"github.com/everbean/roastery-backend/pkg/enums"
)

// RefundRequest is a user's request to refund a delivered order.
type RefundRequest struct {
	ID             uint               `gorm:"column:refund_id;primaryKey"`
	OrderID        uint               `gorm:"column:order_id;not null;uniqueIndex"`
	Order          *Order             `gorm:"foreignKey:OrderID"`
	UserID         uint               `gorm:"column:user_id;not null;index"`
	Reason         string             `gorm:"column:reason;type:text;not null"`
	Status         enums.RefundStatus `gorm:"column:status;not null;default:pending"`
	ResponseReason *string            `gorm:"column:response_reason;type:text"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
