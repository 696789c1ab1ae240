package models

import "github.com/shopspring/decimal"

// Sale is a row of the sales table. CreatedAt is the sale timestamp.
// Total is unit price times quantity at the time of sale unless it was
// explicitly overridden.
type Sale struct {
	Base
	BuyerID   uint            `gorm:"index;not null" json:"buyer_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Total     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
}
