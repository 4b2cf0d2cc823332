package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/domain/repository"
	"github.com/damon-houk/cambio-quoter/internal/mocks"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeStore combines the mocked feed and publisher into a document store
type fakeStore struct {
	*mocks.MockRatesFeed
	*mocks.MockRatesPublisher
}

func (fakeStore) Close() error { return nil }

var _ repository.RatesDocumentStore = fakeStore{}

func newFakeStore() fakeStore {
	return fakeStore{new(mocks.MockRatesFeed), new(mocks.MockRatesPublisher)}
}

func TestRun(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		store := newFakeStore()
		store.MockRatesPublisher.On("Fetch", ctx).
			Return(&entity.RatesDocument{PurchasePrice: 3.5, SalePrice: 3.55}, nil).Once()

		var out bytes.Buffer
		assert.NoError(t, run(ctx, store, "get", nil, &out))
		assert.Contains(t, out.String(), "buy 3.500  sell 3.550")
		store.MockRatesPublisher.AssertExpectations(t)
	})

	t.Run("publish", func(t *testing.T) {
		store := newFakeStore()
		doc := entity.RatesDocument{PurchasePrice: 3.4, SalePrice: 3.6}
		store.MockRatesPublisher.On("Publish", ctx, doc).Return(nil).Once()

		var out bytes.Buffer
		assert.NoError(t, run(ctx, store, "publish", []string{"-buy", "3.4", "-sell", "3.6"}, &out))
		assert.Contains(t, out.String(), "published")
		assert.NotContains(t, out.String(), "warning")
		store.MockRatesPublisher.AssertExpectations(t)
	})

	t.Run("publish zero warns", func(t *testing.T) {
		store := newFakeStore()
		store.MockRatesPublisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

		var out bytes.Buffer
		assert.NoError(t, run(ctx, store, "publish", []string{"-buy", "3.4"}, &out))
		assert.Contains(t, out.String(), "warning")
	})

	t.Run("watch", func(t *testing.T) {
		store := newFakeStore()
		store.MockRatesFeed.DeliverOnWatch(context.Canceled,
			entity.RatesDocument{PurchasePrice: 3.4, SalePrice: 3.6},
		).Once()

		var out bytes.Buffer
		assert.NoError(t, run(ctx, store, "watch", nil, &out))
		assert.Contains(t, out.String(), "update")
		assert.Contains(t, out.String(), "buy 3.400  sell 3.600")
	})

	t.Run("unknown command", func(t *testing.T) {
		assert.Error(t, run(ctx, newFakeStore(), "delete", nil, &bytes.Buffer{}))
	})
}
