package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/domain/repository"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
)

// RateFeedService pipes the upstream rates document into a RateUpdater
type RateFeedService struct {
	feed    repository.RatesFeed
	updater RateUpdater
	logger  logger.Logger
}

// NewRateFeedService creates a new feed service
func NewRateFeedService(feed repository.RatesFeed, updater RateUpdater, log logger.Logger) *RateFeedService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateFeedService{
		feed:    feed,
		updater: updater,
		logger:  log,
	}
}

// Run blocks, applying every received document, until ctx is cancelled.
// Cancellation is not an error.
func (s *RateFeedService) Run(ctx context.Context) error {
	s.logger.Info("Rates feed subscription started", nil)

	err := s.feed.Watch(ctx, s.apply)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		s.logger.Error("Rates feed subscription failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("rates feed stopped: %w", err)
	}

	s.logger.Info("Rates feed subscription stopped", nil)
	return nil
}

func (s *RateFeedService) apply(doc entity.RatesDocument) {
	s.logger.Debug("Rates document received", map[string]interface{}{
		"purchase_price": doc.PurchasePrice,
		"sale_price":     doc.SalePrice,
	})

	s.updater.OnRateUpdate(doc.Buy(), doc.Sell())
}
