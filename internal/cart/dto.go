package cart

import "github.com/shopspring/decimal"

// ItemDTO is one cart line with its variant context.
type ItemDTO struct {
	ID             uint            `json:"cart_item_id"`
	VariantID      uint            `json:"variant_id"`
	ProductID      uint            `json:"product_id"`
	ProductName    string          `json:"product_name"`
	VariantName    string          `json:"variant_name"`
	Quantity       int             `json:"quantity"`
	Stock          int             `json:"stock"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
	ThumbnailURL   *string         `json:"thumbnail_url,omitempty"`
}

// CartDTO is the full cart for a user.
type CartDTO struct {
	Items    []ItemDTO       `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// SyncItem is one line of a client-side cart to merge on login.
type SyncItem struct {
	VariantID uint `json:"variant_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}
