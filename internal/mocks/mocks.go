// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockRatesFeed mocks the RatesFeed interface
type MockRatesFeed struct {
	mock.Mock
}

func (m *MockRatesFeed) Watch(ctx context.Context, onUpdate func(entity.RatesDocument)) error {
	args := m.Called(ctx, onUpdate)
	return args.Error(0)
}

// DeliverOnWatch makes Watch push docs to its callback before returning err
func (m *MockRatesFeed) DeliverOnWatch(err error, docs ...entity.RatesDocument) *mock.Call {
	return m.On("Watch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			onUpdate := args.Get(1).(func(entity.RatesDocument))
			for _, doc := range docs {
				onUpdate(doc)
			}
		}).
		Return(err)
}

// MockRatesPublisher mocks the RatesPublisher interface
type MockRatesPublisher struct {
	mock.Mock
}

func (m *MockRatesPublisher) Publish(ctx context.Context, doc entity.RatesDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRatesPublisher) Fetch(ctx context.Context) (*entity.RatesDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatesDocument), args.Error(1)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	m.Called(key, value)
	return m
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	m.Called(fields)
	return m
}

var _ logger.Logger = (*MockLogger)(nil)
