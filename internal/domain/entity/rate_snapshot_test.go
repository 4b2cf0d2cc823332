package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateSnapshotReady(t *testing.T) {
	tests := []struct {
		name  string
		buy   string
		sell  string
		ready bool
	}{
		{"uninitialized", "0", "0", false},
		{"buy only", "3.5", "0", false},
		{"sell only", "0", "3.55", false},
		{"negative buy", "-1", "3.55", false},
		{"both positive", "3.5", "3.55", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := RateSnapshot{
				BuyRate:  decimal.RequireFromString(tt.buy),
				SellRate: decimal.RequireFromString(tt.sell),
			}
			assert.Equal(t, tt.ready, s.Ready())
		})
	}

	// Zero value snapshot is never ready
	assert.False(t, RateSnapshot{}.Ready())
}

func TestRatesDocumentDecimals(t *testing.T) {
	doc := RatesDocument{PurchasePrice: 3.55, SalePrice: 3.7}
	assert.Equal(t, "3.55", doc.Buy().String())
	assert.Equal(t, "3.7", doc.Sell().String())
}
