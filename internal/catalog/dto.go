package catalog

import "github.com/shopspring/decimal"

// CategoryDTO is the public shape of a category.
type CategoryDTO struct {
	ID   uint   `json:"category_id"`
	Name string `json:"name"`
}

// VariantDTO is the public shape of a sellable variant.
type VariantDTO struct {
	ID             uint            `json:"variant_id"`
	ProductID      uint            `json:"product_id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Stock          int             `json:"stock"`
	Images         []string        `json:"images"`
}

// ProductSummaryDTO is a product row in listings and search results.
type ProductSummaryDTO struct {
	ID                uint             `json:"product_id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Category          *string          `json:"category,omitempty"`
	MinPrice          *decimal.Decimal `json:"min_price,omitempty"`
	MinEffectivePrice *decimal.Decimal `json:"min_effective_price,omitempty"`
	ThumbnailURL      *string          `json:"thumbnail_url,omitempty"`
}

// ProductDetailDTO is a product with all of its variants.
type ProductDetailDTO struct {
	ID          uint         `json:"product_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    *string      `json:"category,omitempty"`
	Variants    []VariantDTO `json:"variants"`
}

// ProductInput carries fields for creating or updating a product.
type ProductInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	CategoryID  *uint  `json:"category_id"`
}

// VariantInput carries fields for creating a variant.
type VariantInput struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"required"`
	Stock int             `json:"stock" validate:"gte=0"`
}

// DiscountInput carries fields for scheduling a discount on a variant.
type DiscountInput struct {
	Type     string          `json:"discount_type" validate:"required,oneof=percentage fixed"`
	Value    decimal.Decimal `json:"value" validate:"required"`
	StartsAt string          `json:"starts_at" validate:"required"`
	EndsAt   string          `json:"ends_at" validate:"required"`
}
