package db

import (
	"context"
	"io"
	"testing"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/config"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRatesDocumentStore(t *testing.T) {
	ctx := context.Background()
	log := logger.NewJSONLogger(io.Discard, logger.InfoLevel)

	t.Run("badger in memory", func(t *testing.T) {
		cfg := &config.Config{
			FeedDriver:      config.DriverBadger,
			BadgerInMemory:  true,
			RatesCollection: "rates",
			RatesDocID:      "doc",
		}

		store, err := OpenRatesDocumentStore(ctx, cfg, log)
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.Publish(ctx, entity.RatesDocument{PurchasePrice: 3.5, SalePrice: 3.55}))
		doc, err := store.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3.55, doc.SalePrice)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenRatesDocumentStore(ctx, &config.Config{FeedDriver: "firestore"}, log)
		assert.Error(t, err)
	})
}
