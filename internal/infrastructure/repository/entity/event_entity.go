package entity

import (
	"time"

	"shopify-mirror/internal/domain"
)

// MongoEventDoc represents an activity event in MongoDB
type MongoEventDoc struct {
	ID        string                 `bson:"_id"`
	TenantID  int64                  `bson:"tenantId"`
	Type      string                 `bson:"eventType"`
	Data      map[string]interface{} `bson:"eventData,omitempty"`
	CreatedAt time.Time              `bson:"createdAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoEventDoc) ToDomain() *domain.Event {
	data := d.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	return &domain.Event{
		ID:        d.ID,
		TenantID:  d.TenantID,
		Type:      d.Type,
		Data:      data,
		CreatedAt: d.CreatedAt,
	}
}

// MongoEventDocFromDomain converts a domain entity to a MongoDB document
func MongoEventDocFromDomain(event *domain.Event) *MongoEventDoc {
	return &MongoEventDoc{
		ID:        event.ID,
		TenantID:  event.TenantID,
		Type:      event.Type,
		Data:      event.Data,
		CreatedAt: event.CreatedAt,
	}
}
