package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/middleware"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("session not found")

// Session is one quote screen bound to the shared rates
type Session struct {
	ID         string
	CreatedAt  time.Time
	Conversion *Conversion
}

// SessionStore keeps sessions between requests
type SessionStore interface {
	Put(id string, session *Session)
	Get(id string) (*Session, bool)
	Delete(id string) bool
	CleanExpired() int
	Size() int
}

// SessionService manages per-user conversions
type SessionService struct {
	store  SessionStore
	rates  RateSource
	logger logger.Logger
}

// NewSessionService creates a new session service
func NewSessionService(store SessionStore, rates RateSource, log logger.Logger) *SessionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SessionService{
		store:  store,
		rates:  rates,
		logger: log,
	}
}

// Create starts a new session with a zero send amount, sending dollars
func (s *SessionService) Create(ctx context.Context) *Session {
	session := &Session{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now(),
		Conversion: NewConversion(s.rates),
	}
	s.store.Put(session.ID, session)

	s.logger.Info("Session created", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"session_id": session.ID,
		"sessions":   s.store.Size(),
	})

	return session
}

// Get looks up a session by ID
func (s *SessionService) Get(ctx context.Context, id string) (*Session, error) {
	session, ok := s.store.Get(id)
	if !ok {
		s.logger.Debug("Session lookup missed", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"session_id": id,
		})
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// View returns the current view of a session
func (s *SessionService) View(ctx context.Context, id string) (ConversionView, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return ConversionView{}, err
	}
	return session.Conversion.View(), nil
}

// SetAmount records raw user input as the send amount
func (s *SessionService) SetAmount(ctx context.Context, id, raw string) (ConversionView, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return ConversionView{}, err
	}

	session.Conversion.SetSendAmountText(raw)
	view := session.Conversion.View()

	s.logger.Debug("Send amount updated", map[string]interface{}{
		"request_id":     middleware.GetRequestID(ctx),
		"session_id":     id,
		"raw_amount":     raw,
		"send_amount":    view.SendAmount.String(),
		"receive_amount": FormatAmount(view.ReceiveAmount),
	})

	return view, nil
}

// SetDirection selects the direction of a session
func (s *SessionService) SetDirection(ctx context.Context, id string, direction entity.Direction) (ConversionView, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return ConversionView{}, err
	}

	session.Conversion.SetDirection(direction)
	s.logDirection(ctx, id, session.Conversion.Direction())

	return session.Conversion.View(), nil
}

// SetTab selects the direction bound to tab
func (s *SessionService) SetTab(ctx context.Context, id string, tab entity.Tab) (ConversionView, error) {
	return s.SetDirection(ctx, id, tab.Direction())
}

// Toggle swaps the direction of a session, keeping its send amount
func (s *SessionService) Toggle(ctx context.Context, id string) (ConversionView, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return ConversionView{}, err
	}

	s.logDirection(ctx, id, session.Conversion.ToggleDirection())

	return session.Conversion.View(), nil
}

// Delete ends a session
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if !s.store.Delete(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.logger.Info("Session deleted", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"session_id": id,
	})
	return nil
}

// SweepIdle drops sessions that have been idle longer than the store allows
func (s *SessionService) SweepIdle() int {
	removed := s.store.CleanExpired()
	if removed > 0 {
		s.logger.Info("Idle sessions removed", map[string]interface{}{
			"removed":   removed,
			"remaining": s.store.Size(),
		})
	}
	return removed
}

func (s *SessionService) logDirection(ctx context.Context, id string, direction entity.Direction) {
	s.logger.Debug("Direction changed", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"session_id": id,
		"direction":  direction.String(),
		"tab":        string(direction.Tab()),
	})
}
