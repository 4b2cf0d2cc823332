package service

import (
	"strings"
	"sync"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComputeReceiveAmount derives the amount received for sendAmount under direction.
// It returns zero until both rates are positive. Results are rounded half away
// from zero to two decimal places.
func ComputeReceiveAmount(sendAmount decimal.Decimal, direction entity.Direction, rates entity.RateSnapshot) decimal.Decimal {
	if !rates.Ready() {
		return decimal.Zero
	}
	if sendAmount.IsNegative() {
		sendAmount = decimal.Zero
	}

	if direction == entity.PenToUsd {
		return sendAmount.DivRound(rates.SellRate, 2)
	}
	return sendAmount.Mul(rates.BuyRate).Round(2)
}

const (
	// maxAmountText bounds the length of typed input
	maxAmountText = 64
	// maxAmountIntegerDigits bounds the integer part of a send amount
	maxAmountIntegerDigits = 15
	// minAmountExponent bounds the fractional precision of a send amount
	minAmountExponent = -maxAmountText
)

// ParseAmount coerces user input into an effective send amount.
// Empty, non-numeric, negative and out of range input all become zero.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxAmountText {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return effectiveAmount(amount)
}

// effectiveAmount zeroes negative amounts and those whose exponent would make
// rounding and rendering arbitrarily expensive
func effectiveAmount(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() || amount.IsZero() {
		return decimal.Zero
	}
	if amount.Exponent() < minAmountExponent {
		return decimal.Zero
	}
	if amount.NumDigits()+int(amount.Exponent()) > maxAmountIntegerDigits {
		return decimal.Zero
	}
	return amount
}

// FormatAmount renders an amount with exactly two decimals
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// ConversionView is a consistent read of everything the quote screen shows
type ConversionView struct {
	RawSendAmount string
	SendAmount    decimal.Decimal
	ReceiveAmount decimal.Decimal
	Direction     entity.Direction
	Tab           entity.Tab
	SendLabel     string
	SendPrefix    string
	ReceiveLabel  string
	ReceivePrefix string
	Rates         entity.RateSnapshot
	Ready         bool
}

// Conversion holds one user's send amount and direction and derives the rest
// from the shared rates on every read. It is safe for concurrent use.
type Conversion struct {
	mu         sync.RWMutex
	rates      RateSource
	rawAmount  string
	sendAmount decimal.Decimal
	direction  entity.Direction
}

// NewConversion starts at zero, sending dollars
func NewConversion(rates RateSource) *Conversion {
	return &Conversion{
		rates:      rates,
		rawAmount:  "0",
		sendAmount: decimal.Zero,
		direction:  entity.UsdToPen,
	}
}

// SetSendAmount stores amount; a negative or out of range amount is effectively zero
func (c *Conversion) SetSendAmount(amount decimal.Decimal) {
	effective := effectiveAmount(amount)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.rawAmount = amount.String()
	c.sendAmount = effective
}

// SetSendAmountText stores the raw user input and its effective value
func (c *Conversion) SetSendAmountText(raw string) {
	amount := ParseAmount(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.rawAmount = raw
	c.sendAmount = amount
}

// SendAmount returns the effective send amount
func (c *Conversion) SendAmount() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sendAmount
}

// RawSendAmount returns the send amount as last entered
func (c *Conversion) RawSendAmount() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rawAmount
}

// SetDirection selects the direction; anything but PenToUsd means UsdToPen.
// The send amount is kept.
func (c *Conversion) SetDirection(d entity.Direction) {
	if d != entity.PenToUsd {
		d = entity.UsdToPen
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.direction = d
}

// SetTab selects the direction bound to tab
func (c *Conversion) SetTab(tab entity.Tab) {
	c.SetDirection(tab.Direction())
}

// ToggleDirection swaps sent and received currencies, keeping the send amount
func (c *Conversion) ToggleDirection() entity.Direction {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.direction = c.direction.Toggle()
	return c.direction
}

// Direction returns the current direction
func (c *Conversion) Direction() entity.Direction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.direction
}

// ReceiveAmount derives the received amount from the current rates
func (c *Conversion) ReceiveAmount() decimal.Decimal {
	c.mu.RLock()
	amount, direction := c.sendAmount, c.direction
	c.mu.RUnlock()

	return ComputeReceiveAmount(amount, direction, c.rates.Current())
}

func (c *Conversion) SendLabel() string     { return c.Direction().SendLabel() }
func (c *Conversion) SendPrefix() string    { return c.Direction().SendPrefix() }
func (c *Conversion) ReceiveLabel() string  { return c.Direction().ReceiveLabel() }
func (c *Conversion) ReceivePrefix() string { return c.Direction().ReceivePrefix() }

// View reads all derived values against a single rates snapshot
func (c *Conversion) View() ConversionView {
	c.mu.RLock()
	raw, amount, direction := c.rawAmount, c.sendAmount, c.direction
	c.mu.RUnlock()

	rates := c.rates.Current()

	return ConversionView{
		RawSendAmount: raw,
		SendAmount:    amount,
		ReceiveAmount: ComputeReceiveAmount(amount, direction, rates),
		Direction:     direction,
		Tab:           direction.Tab(),
		SendLabel:     direction.SendLabel(),
		SendPrefix:    direction.SendPrefix(),
		ReceiveLabel:  direction.ReceiveLabel(),
		ReceivePrefix: direction.ReceivePrefix(),
		Rates:         rates,
		Ready:         rates.Ready(),
	}
}
