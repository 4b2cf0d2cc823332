package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDirection is returned when a direction name is not recognised
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrInvalidTab is returned when a tab name is not recognised
	ErrInvalidTab = errors.New("invalid tab")
)

// Direction selects which currency is sent and which is received
type Direction string

const (
	// UsdToPen sends dollars and receives soles (the house buys USD)
	UsdToPen Direction = "USD_TO_PEN"
	// PenToUsd sends soles and receives dollars (the house sells USD)
	PenToUsd Direction = "PEN_TO_USD"
)

// Tab is the quote screen tab bound to a direction
type Tab string

const (
	// BuyTab is the "dollar buy" tab, bound to UsdToPen
	BuyTab Tab = "buy"
	// SellTab is the "dollar sell" tab, bound to PenToUsd
	SellTab Tab = "sell"
)

const (
	dollarsLabel = "Dollars"
	solesLabel   = "Soles"
	dollarPrefix = "$"
	solPrefix    = "S/"
)

// ParseDirection parses a direction name, ignoring case and surrounding spaces
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case UsdToPen:
		return UsdToPen, nil
	case PenToUsd:
		return PenToUsd, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// ParseTab parses a tab name, ignoring case and surrounding spaces
func ParseTab(s string) (Tab, error) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case BuyTab:
		return BuyTab, nil
	case SellTab:
		return SellTab, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTab, s)
	}
}

// Direction returns the direction the tab is bound to
func (t Tab) Direction() Direction {
	if t == SellTab {
		return PenToUsd
	}
	return UsdToPen
}

// Toggle returns the opposite direction
func (d Direction) Toggle() Direction {
	if d == PenToUsd {
		return UsdToPen
	}
	return PenToUsd
}

// Tab returns the tab bound to the direction
func (d Direction) Tab() Tab {
	if d == PenToUsd {
		return SellTab
	}
	return BuyTab
}

func (d Direction) String() string {
	return string(d)
}

// SendLabel names the currency being sent
func (d Direction) SendLabel() string {
	if d == PenToUsd {
		return solesLabel
	}
	return dollarsLabel
}

// SendPrefix is the symbol shown before the sent amount
func (d Direction) SendPrefix() string {
	if d == PenToUsd {
		return solPrefix
	}
	return dollarPrefix
}

// ReceiveLabel names the currency being received
func (d Direction) ReceiveLabel() string {
	if d == PenToUsd {
		return dollarsLabel
	}
	return solesLabel
}

// ReceivePrefix is the symbol shown before the received amount
func (d Direction) ReceivePrefix() string {
	if d == PenToUsd {
		return dollarPrefix
	}
	return solPrefix
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
