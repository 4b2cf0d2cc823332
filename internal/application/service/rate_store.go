// Package service internal/application/service/rate_store.go
package service

import (
	"sync"
	"time"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

// RateSource provides read access to the current rates
type RateSource interface {
	Current() entity.RateSnapshot
}

// RateUpdater is the ingestion entry point invoked by a rates feed
type RateUpdater interface {
	OnRateUpdate(buy, sell decimal.Decimal)
}

// RateStore holds the last known buy and sell rates for the session lifetime.
// It is safe for concurrent use.
type RateStore struct {
	mu       sync.RWMutex
	snapshot entity.RateSnapshot

	listenersMu sync.RWMutex
	listeners   map[int]func(entity.RateSnapshot)
	nextID      int

	now    func() time.Time
	logger logger.Logger
}

// NewRateStore creates an empty, not ready, rate store
func NewRateStore(log logger.Logger) *RateStore {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateStore{
		listeners: make(map[int]func(entity.RateSnapshot)),
		now:       time.Now,
		logger:    log,
	}
}

// SetRates overwrites both rates and stamps the update time.
// Values are accepted as-is.
func (s *RateStore) SetRates(buy, sell decimal.Decimal) {
	stamp := s.now()

	s.mu.Lock()
	s.snapshot = entity.RateSnapshot{
		BuyRate:     buy,
		SellRate:    sell,
		LastUpdated: &stamp,
	}
	snapshot := s.snapshot
	s.mu.Unlock()

	s.logger.Info("Rates updated", map[string]interface{}{
		"buy_rate":     buy.String(),
		"sell_rate":    sell.String(),
		"ready":        snapshot.Ready(),
		"last_updated": stamp.UTC().Format(time.RFC3339Nano),
	})

	s.notify(snapshot)
}

// OnRateUpdate is the feed ingestion entry point
func (s *RateStore) OnRateUpdate(buy, sell decimal.Decimal) {
	s.SetRates(buy, sell)
}

// Ready reports whether both rates are positive
func (s *RateStore) Ready() bool {
	return s.Current().Ready()
}

// Current returns a copy of the last known rates
func (s *RateStore) Current() entity.RateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot
}

// Subscribe registers fn to be called with the new snapshot after every update.
// The returned function removes the listener.
func (s *RateStore) Subscribe(fn func(entity.RateSnapshot)) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// LogReadiness logs every transition between ready and not ready until the
// returned function is called
func (s *RateStore) LogReadiness(log logger.Logger) func() {
	if log == nil {
		log = s.logger
	}

	var mu sync.Mutex
	ready := s.Ready()

	return s.Subscribe(func(snapshot entity.RateSnapshot) {
		mu.Lock()
		defer mu.Unlock()

		if snapshot.Ready() == ready {
			return
		}
		ready = snapshot.Ready()

		fields := map[string]interface{}{
			"buy_rate":  snapshot.BuyRate.String(),
			"sell_rate": snapshot.SellRate.String(),
		}
		if ready {
			log.Info("Rates are ready, quotes enabled", fields)
		} else {
			log.Warn("Rates are no longer ready, quotes return zero", fields)
		}
	})
}

func (s *RateStore) notify(snapshot entity.RateSnapshot) {
	s.listenersMu.RLock()
	listeners := make([]func(entity.RateSnapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
