package models

// OrderAddress is the shipping address captured with an order.
type OrderAddress struct {
	ID         uint   `gorm:"column:address_id;primaryKey"`
	OrderID    uint   `gorm:"column:order_id;not null;uniqueIndex"`
	FirstName  string `gorm:"column:first_name;not null"`
	LastName   string `gorm:"column:last_name;not null"`
	Street     string `gorm:"column:street;not null"`
	City       string `gorm:"column:city;not null"`
	PostalCode string `gorm:"column:postal_code;not null"`
	Country    string `gorm:"column:country;not null"`
	Phone      string `gorm:"column:phone"`
}
