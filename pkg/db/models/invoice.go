package models

import "time"

// Invoice stores the rendered PDF for an order.
type Invoice struct {
	ID        uint      `gorm:"column:invoice_id;primaryKey"`
	OrderID   uint      `gorm:"column:order_id;not null;uniqueIndex"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	PDF       []byte    `gorm:"column:pdf;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
