package models

// Category groups products for browsing.
type Category struct {
	ID   uint   `gorm:"column:category_id;primaryKey"`
	Name string `gorm:"column:name;not null;uniqueIndex"`
}
