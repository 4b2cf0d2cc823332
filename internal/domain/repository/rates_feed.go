// Package repository internal/domain/repository/rates_feed.go
package repository

import (
	"context"
	"errors"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
)

// ErrRatesDocumentNotFound is returned when the rates document does not exist yet
var ErrRatesDocumentNotFound = errors.New("rates document not found")

// RatesFeed defines a push subscription to the upstream rates document
type RatesFeed interface {
	// Watch delivers the current document, then every change, until ctx is done.
	// A missing document delivers nothing until it is first written.
	Watch(ctx context.Context, onUpdate func(entity.RatesDocument)) error
}

// RatesPublisher defines write access to the upstream rates document
type RatesPublisher interface {
	// Publish replaces the rates document
	Publish(ctx context.Context, doc entity.RatesDocument) error

	// Fetch reads the current rates document
	Fetch(ctx context.Context) (*entity.RatesDocument, error)
}

// RatesDocumentStore is a feed that can also be written to
type RatesDocumentStore interface {
	RatesFeed
	RatesPublisher
	Close() error
}
