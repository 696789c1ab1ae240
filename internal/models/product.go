package models

import "github.com/shopspring/decimal"

// Product is a row of the products table. Stock is never negative at rest.
type Product struct {
	Base
	Name        string          `gorm:"not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Category    string          `gorm:"not null;index" json:"category"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
}
