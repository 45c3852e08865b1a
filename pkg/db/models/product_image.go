package models

// ProductImage stores a hosted image URL for a variant.
type ProductImage struct {
	ID        uint   `gorm:"column:image_id;primaryKey"`
	VariantID uint   `gorm:"column:variant_id;not null;index"`
	URL       string `gorm:"column:url;not null"`
	Position  int    `gorm:"column:position;not null;default:0"`
}
