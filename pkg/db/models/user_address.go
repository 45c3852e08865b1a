package models

import "time"

// UserAddress is a saved shipping address in a user's profile.
type UserAddress struct {
	ID         uint      `gorm:"column:address_id;primaryKey"`
	UserID     uint      `gorm:"column:user_id;not null;index"`
	Street     string    `gorm:"column:street;not null"`
	City       string    `gorm:"column:city;not null"`
	PostalCode string    `gorm:"column:postal_code;not null"`
	Country    string    `gorm:"column:country;not null"`
	Phone      string    `gorm:"column:phone"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
