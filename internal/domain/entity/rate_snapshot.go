package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshot is the last known pair of USD/PEN rates
type RateSnapshot struct {
	// BuyRate is the PEN paid per USD when the house buys dollars
	BuyRate decimal.Decimal `json:"buy_rate"`
	// SellRate is the PEN charged per USD when the house sells dollars
	SellRate decimal.Decimal `json:"sell_rate"`
	// LastUpdated is nil until the first update arrives
	LastUpdated *time.Time `json:"last_updated"`
}

// Ready reports whether both rates are known and positive
func (s RateSnapshot) Ready() bool {
	return s.BuyRate.IsPositive() && s.SellRate.IsPositive()
}
