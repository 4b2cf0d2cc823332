package entity

import (
	"github.com/shopspring/decimal"
)

// RatesDocument is the upstream document the feed delivers on every change
type RatesDocument struct {
	PurchasePrice float64 `json:"purchase_price" bson:"purchase_price"`
	SalePrice     float64 `json:"sale_price" bson:"sale_price"`
}

// Buy returns the purchase price as a decimal
func (d RatesDocument) Buy() decimal.Decimal {
	return decimal.NewFromFloat(d.PurchasePrice)
}

// Sell returns the sale price as a decimal
func (d RatesDocument) Sell() decimal.Decimal {
	return decimal.NewFromFloat(d.SalePrice)
}
