package service

import (
	"context"
	"errors"
	"testing"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/mocks"
	"github.com/stretchr/testify/assert"
)

func TestRateFeedServiceRun(t *testing.T) {
	t.Run("Documents reach the store in order", func(t *testing.T) {
		feed := new(mocks.MockRatesFeed)
		feed.DeliverOnWatch(context.Canceled,
			entity.RatesDocument{PurchasePrice: 3.4, SalePrice: 3.6},
			entity.RatesDocument{PurchasePrice: 3.5, SalePrice: 3.55},
		).Once()

		store := NewRateStore(testLogger())
		svc := NewRateFeedService(feed, store, testLogger())

		assert.NoError(t, svc.Run(context.Background()))

		snapshot := store.Current()
		assert.True(t, snapshot.BuyRate.Equal(dec("3.5")))
		assert.True(t, snapshot.SellRate.Equal(dec("3.55")))
		feed.AssertExpectations(t)
	})

	t.Run("Feed failure is returned", func(t *testing.T) {
		feed := new(mocks.MockRatesFeed)
		feed.DeliverOnWatch(errors.New("connection refused")).Once()

		svc := NewRateFeedService(feed, NewRateStore(testLogger()), testLogger())
		err := svc.Run(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rates feed stopped")
		feed.AssertExpectations(t)
	})

	t.Run("Scenario D through the feed", func(t *testing.T) {
		store := NewRateStore(testLogger())
		conversion := NewConversion(store)
		conversion.SetSendAmount(dec("10"))

		feed := new(mocks.MockRatesFeed)
		feed.DeliverOnWatch(nil, entity.RatesDocument{PurchasePrice: 3.4, SalePrice: 3.6}).Once()

		assert.NoError(t, NewRateFeedService(feed, store, nil).Run(context.Background()))
		assert.Equal(t, "34.00", FormatAmount(conversion.ReceiveAmount()))
	})
}
