package service

import (
	"strings"
	"testing"
	"time"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func readyStore(t *testing.T, buy, sell string) *RateStore {
	t.Helper()
	store := NewRateStore(testLogger())
	store.SetRates(dec(buy), dec(sell))
	return store
}

func TestComputeReceiveAmount(t *testing.T) {
	rates := entity.RateSnapshot{BuyRate: dec("3.50"), SellRate: dec("3.55")}

	tests := []struct {
		name      string
		amount    string
		direction entity.Direction
		rates     entity.RateSnapshot
		expected  string
	}{
		{"dollars to soles", "100", entity.UsdToPen, rates, "350.00"},
		{"soles to dollars", "355", entity.PenToUsd, rates, "100.00"},
		{"rates not ready", "50", entity.UsdToPen, entity.RateSnapshot{}, "0.00"},
		{"rates not ready dividing", "50", entity.PenToUsd, entity.RateSnapshot{}, "0.00"},
		{"sell rate missing", "50", entity.PenToUsd, entity.RateSnapshot{BuyRate: dec("3.5")}, "0.00"},
		{"rounds half away from zero", "0.01", entity.UsdToPen, entity.RateSnapshot{BuyRate: dec("0.5"), SellRate: dec("1")}, "0.01"},
		{"rounds down", "10", entity.PenToUsd, entity.RateSnapshot{BuyRate: dec("3.5"), SellRate: dec("3")}, "3.33"},
		{"rounds up", "20", entity.PenToUsd, entity.RateSnapshot{BuyRate: dec("3.5"), SellRate: dec("3")}, "6.67"},
		{"negative amount is zero", "-10", entity.UsdToPen, rates, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeReceiveAmount(dec(tt.amount), tt.direction, tt.rates)
			assert.Equal(t, tt.expected, FormatAmount(got))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := map[string]string{
		"100":    "100",
		" 12.5 ": "12.5",
		"":       "0",
		"abc":    "0",
		"-5":     "0",
		"1e2":    "100",

		"999999999999999.99": "999999999999999.99",
		"1000000000000000":   "0",
		"1e5000000":          "0",
		"1e-5000000":         "0",

		"0." + strings.Repeat("1", 80): "0",
	}

	for raw, expected := range tests {
		assert.True(t, ParseAmount(raw).Equal(dec(expected)), "raw=%q", raw)
	}
}

func TestHugeAmountsAreCheap(t *testing.T) {
	c := NewConversion(readyStore(t, "3.5", "3.55"))

	done := make(chan string, 1)
	go func() {
		c.SetSendAmountText("1e5000000")
		done <- FormatAmount(c.ReceiveAmount())
	}()

	select {
	case got := <-done:
		assert.Equal(t, "0.00", got)
		assert.Equal(t, "1e5000000", c.RawSendAmount())
	case <-time.After(time.Second):
		t.Fatal("huge amount was not coerced")
	}

	c.SetSendAmount(decimal.New(1, 40))
	assert.True(t, c.SendAmount().IsZero())
}

func TestConversionDefaults(t *testing.T) {
	c := NewConversion(NewRateStore(testLogger()))

	assert.True(t, c.SendAmount().IsZero())
	assert.Equal(t, entity.UsdToPen, c.Direction())
	assert.Equal(t, "Dollars", c.SendLabel())
	assert.Equal(t, "$", c.SendPrefix())
	assert.Equal(t, "Soles", c.ReceiveLabel())
	assert.Equal(t, "S/", c.ReceivePrefix())
	assert.True(t, c.ReceiveAmount().IsZero())
}

func TestConversionScenarios(t *testing.T) {
	t.Run("A: dollars to soles", func(t *testing.T) {
		c := NewConversion(readyStore(t, "3.50", "3.55"))
		c.SetSendAmount(dec("100"))

		assert.Equal(t, "350.00", FormatAmount(c.ReceiveAmount()))
	})

	t.Run("B: soles to dollars", func(t *testing.T) {
		c := NewConversion(readyStore(t, "3.50", "3.55"))
		c.SetDirection(entity.PenToUsd)
		c.SetSendAmount(dec("355"))

		assert.Equal(t, "100.00", FormatAmount(c.ReceiveAmount()))
		assert.Equal(t, "Soles", c.SendLabel())
		assert.Equal(t, "S/", c.SendPrefix())
		assert.Equal(t, "Dollars", c.ReceiveLabel())
		assert.Equal(t, "$", c.ReceivePrefix())
	})

	t.Run("C: no rates yet", func(t *testing.T) {
		c := NewConversion(readyStore(t, "0", "0"))
		c.SetSendAmount(dec("50"))

		assert.True(t, c.ReceiveAmount().IsZero())
	})

	t.Run("D: rates arrive mid-session", func(t *testing.T) {
		store := NewRateStore(testLogger())
		c := NewConversion(store)
		c.SetSendAmount(dec("10"))
		assert.True(t, c.ReceiveAmount().IsZero())

		store.OnRateUpdate(dec("3.4"), dec("3.6"))

		assert.Equal(t, "34.00", FormatAmount(c.ReceiveAmount()))
	})
}

func TestConversionToggle(t *testing.T) {
	c := NewConversion(readyStore(t, "4", "5"))
	c.SetSendAmount(dec("20"))

	before := c.ReceiveAmount()
	assert.Equal(t, "80.00", FormatAmount(before))

	assert.Equal(t, entity.PenToUsd, c.ToggleDirection())
	assert.Equal(t, "4.00", FormatAmount(c.ReceiveAmount()))
	assert.True(t, c.SendAmount().Equal(dec("20")))

	assert.Equal(t, entity.UsdToPen, c.ToggleDirection())
	assert.True(t, c.ReceiveAmount().Equal(before))
	assert.True(t, c.SendAmount().Equal(dec("20")))
}

func TestConversionDirectionKeepsAmount(t *testing.T) {
	c := NewConversion(readyStore(t, "3.5", "3.55"))
	c.SetSendAmountText("123.45")

	c.SetDirection(entity.PenToUsd)
	assert.Equal(t, "123.45", c.RawSendAmount())
	assert.True(t, c.SendAmount().Equal(dec("123.45")))

	c.SetTab(entity.BuyTab)
	assert.Equal(t, entity.UsdToPen, c.Direction())
	assert.True(t, c.SendAmount().Equal(dec("123.45")))

	c.SetDirection(entity.Direction("bogus"))
	assert.Equal(t, entity.UsdToPen, c.Direction())
}

func TestConversionCoercesInput(t *testing.T) {
	c := NewConversion(readyStore(t, "3.5", "3.55"))

	c.SetSendAmountText("twelve")
	assert.Equal(t, "twelve", c.RawSendAmount())
	assert.True(t, c.SendAmount().IsZero())
	assert.True(t, c.ReceiveAmount().IsZero())

	c.SetSendAmount(dec("-3"))
	assert.True(t, c.SendAmount().IsZero())
	assert.Equal(t, "-3", c.RawSendAmount())
}

func TestConversionView(t *testing.T) {
	store := readyStore(t, "3.50", "3.55")
	c := NewConversion(store)
	c.SetSendAmountText("355")
	c.SetTab(entity.SellTab)

	view := c.View()
	assert.Equal(t, "355", view.RawSendAmount)
	assert.Equal(t, entity.PenToUsd, view.Direction)
	assert.Equal(t, entity.SellTab, view.Tab)
	assert.Equal(t, "100.00", FormatAmount(view.ReceiveAmount))
	assert.Equal(t, "Soles", view.SendLabel)
	assert.Equal(t, "$", view.ReceivePrefix)
	assert.True(t, view.Ready)
	assert.True(t, view.Rates.SellRate.Equal(dec("3.55")))
}

func TestReceiveAmountAlwaysTwoDecimals(t *testing.T) {
	store := readyStore(t, "3.517", "3.623")
	c := NewConversion(store)

	for _, amount := range []string{"0", "1", "7.77", "1000", "0.333"} {
		for _, d := range []entity.Direction{entity.UsdToPen, entity.PenToUsd} {
			c.SetDirection(d)
			c.SetSendAmountText(amount)
			got := c.ReceiveAmount()
			assert.True(t, got.Equal(got.Round(2)), "amount=%s direction=%s", amount, d)
			assert.Regexp(t, `^\d+\.\d{2}$`, FormatAmount(got))
		}
	}

	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
}
