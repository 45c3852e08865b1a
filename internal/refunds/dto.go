package refunds

import "time"

// RefundDTO is the public shape of a refund request.
type RefundDTO struct {
	ID             uint      `json:"refund_id"`
	OrderID        uint      `json:"order_id"`
	UserID         uint      `json:"user_id"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	ResponseReason *string   `json:"response_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateInput carries the fields to open a refund request.
type CreateInput struct {
	OrderID uint   `json:"order_id" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
}

// RejectInput carries the admin's reason for rejecting.
type RejectInput struct {
	Reason string `json:"reason" validate:"required"`
}
