package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/domain/repository"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 10 * time.Second

// ConnectMongo connects to uri and verifies the connection with a ping
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// MongoRatesStore keeps the rates document in a MongoDB collection and pushes
// changes through a change stream. Change streams need a replica set.
type MongoRatesStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	docID      string
	logger     logger.Logger
}

// rateChangeEvent is the subset of a change stream event that is used
type rateChangeEvent struct {
	OperationType string                `bson:"operationType"`
	FullDocument  *entity.RatesDocument `bson:"fullDocument"`
}

// NewMongoRatesStore creates a rates store for database.collection/docID
func NewMongoRatesStore(client *mongo.Client, database, collection, docID string, log logger.Logger) *MongoRatesStore {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &MongoRatesStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		docID:      docID,
		logger: log.WithFields(map[string]interface{}{
			"feed_driver": "mongo",
			"document":    database + "." + collection + "/" + docID,
		}),
	}
}

// Publish replaces the rates document, creating it if needed
func (s *MongoRatesStore) Publish(ctx context.Context, doc entity.RatesDocument) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": s.docID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store rates document: %w", err)
	}
	return nil
}

// Fetch reads the current rates document
func (s *MongoRatesStore) Fetch(ctx context.Context) (*entity.RatesDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var doc entity.RatesDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": s.docID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", repository.ErrRatesDocumentNotFound, s.docID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rates document: %w", err)
	}

	return &doc, nil
}

// Watch delivers the stored document and then every change to it until ctx
// is done. The stream is opened before the first read so no write is missed.
func (s *MongoRatesStore) Watch(ctx context.Context, onUpdate func(entity.RatesDocument)) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: s.docID}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := s.collection.Watch(ctx, pipeline, opts)
	if err != nil {
		return fmt.Errorf("failed to open change stream: %w", err)
	}
	defer stream.Close(context.Background())

	doc, err := s.Fetch(ctx)
	switch {
	case errors.Is(err, repository.ErrRatesDocumentNotFound):
		s.logger.Warn("Rates document does not exist yet", nil)
	case err != nil:
		s.logger.Error("Failed to read initial rates document", map[string]interface{}{
			"error": err.Error(),
		})
	default:
		onUpdate(*doc)
	}

	for stream.Next(ctx) {
		var event rateChangeEvent
		if err := stream.Decode(&event); err != nil {
			s.logger.Warn("Skipping undecodable change event", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		if event.FullDocument == nil {
			s.logger.Debug("Change event without document", map[string]interface{}{
				"operation_type": event.OperationType,
			})
			continue
		}
		onUpdate(*event.FullDocument)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("change stream failed: %w", err)
	}
	return nil
}

// Close disconnects the client
func (s *MongoRatesStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	return s.client.Disconnect(ctx)
}

var _ repository.RatesDocumentStore = (*MongoRatesStore)(nil)
