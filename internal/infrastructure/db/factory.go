package db

import (
	"context"
	"fmt"

	"github.com/damon-houk/cambio-quoter/internal/domain/repository"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/config"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
)

// OpenRatesDocumentStore opens the rates document store selected by cfg.FeedDriver
func OpenRatesDocumentStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.RatesDocumentStore, error) {
	switch cfg.FeedDriver {
	case config.DriverBadger:
		badgerDB, err := OpenBadger(cfg.BadgerPath, cfg.BadgerInMemory)
		if err != nil {
			return nil, err
		}
		return NewBadgerRatesStore(badgerDB, cfg.RatesCollection, cfg.RatesDocID, log), nil

	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return NewMongoRatesStore(client, cfg.MongoDatabase, cfg.RatesCollection, cfg.RatesDocID, log), nil

	default:
		return nil, fmt.Errorf("unknown feed driver %q", cfg.FeedDriver)
	}
}
