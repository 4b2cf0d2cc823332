// Package service internal/application/service/conversion_service.go
package service

import (
	"context"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/middleware"
)

// ConversionService answers one-off quotes against the shared rates
type ConversionService struct {
	rates  RateSource
	logger logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(rates RateSource, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		rates:  rates,
		logger: log,
	}
}

// Rates returns the current rates snapshot
func (s *ConversionService) Rates() entity.RateSnapshot {
	return s.rates.Current()
}

// Quote converts rawAmount in direction without keeping any session state
func (s *ConversionService) Quote(ctx context.Context, rawAmount string, direction entity.Direction) ConversionView {
	requestID := middleware.GetRequestID(ctx)

	conversion := NewConversion(s.rates)
	conversion.SetDirection(direction)
	conversion.SetSendAmountText(rawAmount)
	view := conversion.View()

	if !view.Ready {
		s.logger.Warn("Quote requested before rates are ready", map[string]interface{}{
			"request_id": requestID,
			"direction":  view.Direction.String(),
		})
	}

	s.logger.Info("Quote computed", map[string]interface{}{
		"request_id":     requestID,
		"direction":      view.Direction.String(),
		"send_amount":    view.SendAmount.String(),
		"receive_amount": FormatAmount(view.ReceiveAmount),
		"buy_rate":       view.Rates.BuyRate.String(),
		"sell_rate":      view.Rates.SellRate.String(),
	})

	return view
}
