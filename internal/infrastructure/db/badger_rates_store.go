package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/domain/repository"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/pb"
	"github.com/google/uuid"
)

// markerInterval is how often Watch rewrites its marker until the
// subscription reports it
const markerInterval = 10 * time.Millisecond

// OpenBadger opens a badger database at path, or in memory when inMemory is set
func OpenBadger(path string, inMemory bool) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable Badger's default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return db, nil
}

// BadgerRatesStore keeps the rates document under a single badger key and
// pushes changes through badger's key subscription
type BadgerRatesStore struct {
	db     *badger.DB
	key    []byte
	logger logger.Logger
}

// NewBadgerRatesStore creates a rates store for collection/docID
func NewBadgerRatesStore(db *badger.DB, collection, docID string, log logger.Logger) *BadgerRatesStore {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &BadgerRatesStore{
		db:  db,
		key: []byte(collection + "/" + docID),
		logger: log.WithFields(map[string]interface{}{
			"feed_driver": "badger",
			"document":    collection + "/" + docID,
		}),
	}
}

// Publish replaces the rates document
func (s *BadgerRatesStore) Publish(ctx context.Context, doc entity.RatesDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal rates document: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, data)
	})
	if err != nil {
		return fmt.Errorf("failed to store rates document: %w", err)
	}

	return nil
}

// Fetch reads the current rates document
func (s *BadgerRatesStore) Fetch(ctx context.Context) (*entity.RatesDocument, error) {
	var doc entity.RatesDocument

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", repository.ErrRatesDocumentNotFound, s.key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rates document: %w", err)
	}

	return &doc, nil
}

// Watch delivers the stored document and then every write to it until ctx is
// done. The initial read happens only once the subscription is live.
// Deliveries are serialized and never go back to an older version.
func (s *BadgerRatesStore) Watch(ctx context.Context, onUpdate func(entity.RatesDocument)) error {
	var (
		mu          sync.Mutex
		lastVersion uint64
	)

	deliver := func(value []byte, version uint64) {
		mu.Lock()
		defer mu.Unlock()

		if version <= lastVersion {
			return
		}
		lastVersion = version

		var doc entity.RatesDocument
		if err := json.Unmarshal(value, &doc); err != nil {
			s.logger.Warn("Skipping undecodable rates document", map[string]interface{}{
				"version": version,
				"error":   err.Error(),
			})
			return
		}
		onUpdate(doc)
	}

	// The marker shares the watched prefix; seeing it proves the subscription
	// is registered, so the initial read below cannot miss a write.
	marker := []byte(string(s.key) + "#watch-" + uuid.NewString())
	registered := make(chan struct{})
	var once sync.Once

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	subErr := make(chan error, 1)
	go func() {
		subErr <- s.db.Subscribe(subCtx, func(list *badger.KVList) error {
			for _, kv := range list.Kv {
				switch {
				case bytes.Equal(kv.Key, s.key):
					deliver(kv.Value, kv.Version)
				case bytes.Equal(kv.Key, marker):
					once.Do(func() { close(registered) })
				}
			}
			return nil
		}, []pb.Match{{Prefix: s.key}})
	}()

	ticker := time.NewTicker(markerInterval)
	defer ticker.Stop()
	for waiting := true; waiting; {
		if err := s.setMarker(marker); err != nil {
			return err
		}

		select {
		case <-registered:
			waiting = false
		case err := <-subErr:
			return err
		case <-ticker.C:
		}
	}
	s.clearMarker(marker)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		version := item.Version()
		return item.Value(func(val []byte) error {
			deliver(val, version)
			return nil
		})
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		s.logger.Warn("Rates document does not exist yet", nil)
	case err != nil:
		s.logger.Error("Failed to read initial rates document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return <-subErr
}

func (s *BadgerRatesStore) setMarker(marker []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(marker, []byte{})
	})
	if err != nil {
		return fmt.Errorf("failed to register rates subscription: %w", err)
	}
	return nil
}

func (s *BadgerRatesStore) clearMarker(marker []byte) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(marker)
	})
	if err != nil {
		s.logger.Warn("Failed to remove subscription marker", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Close closes the underlying database
func (s *BadgerRatesStore) Close() error {
	return s.db.Close()
}

var _ repository.RatesDocumentStore = (*BadgerRatesStore)(nil)
