package repository

import (
	"context"
	"fmt"
	"time"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/infrastructure/repository/entity"
	"shopify-mirror/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventsCollection holds the activity log
const EventsCollection = "events"

// MongoEventRepository implements EventRepository using MongoDB
type MongoEventRepository struct {
	eventsCollection *mongo.Collection
}

// NewMongoEventRepository creates a new MongoDB event repository
func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{
		eventsCollection: db.Collection(EventsCollection),
	}
}

var _ ports.EventRepository = (*MongoEventRepository)(nil)

// EnsureIndexes creates the tenant/time index used by ListEvents
func (r *MongoEventRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	if _, err := r.eventsCollection.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create event index: %w", err)
	}
	return nil
}

// LogEvent appends an event, filling in the id and timestamp when missing
func (r *MongoEventRepository) LogEvent(ctx context.Context, event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	doc := entity.MongoEventDocFromDomain(event)
	if _, err := r.eventsCollection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to log event: %w", err)
	}

	return nil
}

// ListEvents retrieves the newest events of a tenant. A non-positive limit returns them all.
func (r *MongoEventRepository) ListEvents(ctx context.Context, tenantID int64, limit int) ([]*domain.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.eventsCollection.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*domain.Event, 0)
	for cursor.Next(ctx) {
		var doc entity.MongoEventDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return events, nil
}
