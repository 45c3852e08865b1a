package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemDTO is one purchased line of an order.
type ItemDTO struct {
	VariantID   uint            `json:"variant_id"`
	VariantName string          `json:"variant_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// AddressDTO is the shipping address of an order.
type AddressDTO struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// OrderDTO is an order grouped with its items and address.
type OrderDTO struct {
	ID           uint            `json:"order_id"`
	UserID       uint            `json:"user_id"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []ItemDTO       `json:"items"`
	Address      *AddressDTO     `json:"address,omitempty"`
	RefundStatus *string         `json:"refund_status,omitempty"`
}
