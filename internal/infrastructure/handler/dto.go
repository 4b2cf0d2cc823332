package handler

import (
	"encoding/json"
	"time"

	"github.com/damon-houk/cambio-quoter/internal/application/service"
	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
)

// RatesResponse represents the current rates snapshot
type RatesResponse struct {
	BuyRate     string     `json:"buy_rate"`
	SellRate    string     `json:"sell_rate"`
	LastUpdated *time.Time `json:"last_updated"`
	Ready       bool       `json:"ready"`
}

// QuoteResponse represents everything the quote screen displays
type QuoteResponse struct {
	SessionID     string           `json:"session_id,omitempty"`
	RawSendAmount string           `json:"raw_send_amount"`
	SendAmount    string           `json:"send_amount"`
	ReceiveAmount string           `json:"receive_amount"`
	Direction     entity.Direction `json:"direction"`
	Tab           entity.Tab       `json:"tab"`
	SendLabel     string           `json:"send_label"`
	SendPrefix    string           `json:"send_prefix"`
	ReceiveLabel  string           `json:"receive_label"`
	ReceivePrefix string           `json:"receive_prefix"`
	Rates         RatesResponse    `json:"rates"`
}

// SetAmountRequest represents the body of PUT /sessions/{id}/amount.
// Amount is kept as the raw text the user typed.
type SetAmountRequest struct {
	Amount AmountText `json:"amount"`
}

// AmountText accepts an amount sent either as a JSON string or a JSON number.
// Any other JSON value decodes as empty text, which the engine treats as zero.
type AmountText string

// UnmarshalJSON implements json.Unmarshaler
func (a *AmountText) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*a = AmountText(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		*a = AmountText(number.String())
		return nil
	}

	*a = ""
	return nil
}

// SetDirectionRequest represents the body of PUT /sessions/{id}/direction.
// Exactly one of Direction or Tab is expected.
type SetDirectionRequest struct {
	Direction string `json:"direction,omitempty"`
	Tab       string `json:"tab,omitempty"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func newRatesResponse(s entity.RateSnapshot) RatesResponse {
	return RatesResponse{
		BuyRate:     s.BuyRate.String(),
		SellRate:    s.SellRate.String(),
		LastUpdated: s.LastUpdated,
		Ready:       s.Ready(),
	}
}

func newQuoteResponse(sessionID string, v service.ConversionView) QuoteResponse {
	return QuoteResponse{
		SessionID:     sessionID,
		RawSendAmount: v.RawSendAmount,
		SendAmount:    v.SendAmount.String(),
		ReceiveAmount: service.FormatAmount(v.ReceiveAmount),
		Direction:     v.Direction,
		Tab:           v.Tab,
		SendLabel:     v.SendLabel,
		SendPrefix:    v.SendPrefix,
		ReceiveLabel:  v.ReceiveLabel,
		ReceivePrefix: v.ReceivePrefix,
		Rates:         newRatesResponse(v.Rates),
	}
}
