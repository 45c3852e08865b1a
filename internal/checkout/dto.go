package checkout

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ItemInput is one cart line submitted at checkout. The storefront sends the
// unit price it displayed; it is persisted as the purchase snapshot after
// rounding to two decimals.
type ItemInput struct {
	VariantID uint            `json:"variantId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// AddressInput is the shipping address submitted at checkout.
type AddressInput struct {
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	PhoneNumber string `json:"phonenumber" validate:"required"`
	ZipCode     string `json:"zipcode" validate:"required"`
	Country     string `json:"country" validate:"required"`
}

// Input is the full checkout request body. All four top-level fields must be
// present. Payment details are opaque to the shop and only checked for
// presence; charging happens upstream.
type Input struct {
	Address    *AddressInput   `json:"address" validate:"required"`
	Payment    json.RawMessage `json:"payment" validate:"required"`
	CartItems  []ItemInput     `json:"cartItems" validate:"required,min=1,dive"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}
