package application

import (
	"context"
	"fmt"
	"time"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultEventLimit is the number of events returned when the caller gives none
const DefaultEventLimit = 50

// MaxEventLimit caps a single activity page
const MaxEventLimit = 500

// ActivityRecorder appends sync and create outcomes to the activity log,
// publishes them to live subscribers and keeps the per-entity sync status.
// Failures here are logged and never surface to the caller.
type ActivityRecorder struct {
	events    ports.EventRepository
	statuses  ports.SyncStatusStore
	publisher ports.EventPublisher
	metrics   ports.MetricsRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewActivityRecorder creates a new activity recorder. Any dependency may be nil.
func NewActivityRecorder(
	events ports.EventRepository,
	statuses ports.SyncStatusStore,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	logger zerolog.Logger,
) *ActivityRecorder {
	return &ActivityRecorder{
		events:    events,
		statuses:  statuses,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RecordSync records the outcome of a sync run
func (a *ActivityRecorder) RecordSync(ctx context.Context, tenantID int64, entity string, count int, syncErr error) {
	if a == nil {
		return
	}

	now := a.now()
	status := &domain.SyncStatus{
		TenantID:     tenantID,
		Entity:       entity,
		Status:       domain.SyncStatusOK,
		Count:        count,
		LastSyncedAt: now,
	}
	event := &domain.Event{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Type:      domain.SyncEventType(entity),
		Data:      map[string]interface{}{"entity": entity, "count": count},
		CreatedAt: now,
	}
	if syncErr != nil {
		status.Status = domain.SyncStatusFailed
		status.Error = syncErr.Error()
		event.Type = domain.EventSyncFailed
		event.Data["error"] = syncErr.Error()
	}

	if a.metrics != nil {
		a.metrics.RecordSyncRun(entity, count, syncErr)
	}
	if a.statuses != nil {
		if err := a.statuses.SaveStatus(ctx, status); err != nil {
			a.logger.Warn().Err(err).Int64("tenantId", tenantID).Str("entity", entity).Msg("Failed to save sync status")
		}
	}
	a.emit(ctx, event)
}

// RecordCreate records a proxied create. mirrorErr is the error of the local upsert, if any.
func (a *ActivityRecorder) RecordCreate(ctx context.Context, tenantID int64, entity string, shopifyID int64, mirrorErr error) {
	if a == nil {
		return
	}

	eventType := domain.EventCustomerCreated
	if entity == domain.EntityOrders {
		eventType = domain.EventOrderCreated
	}

	data := map[string]interface{}{
		"entity":   entity,
		"mirrored": mirrorErr == nil,
	}
	if shopifyID != 0 {
		data["shopify_id"] = shopifyID
	}
	if mirrorErr != nil {
		data["error"] = mirrorErr.Error()
		if a.metrics != nil {
			a.metrics.RecordMirrorWriteFailure(entity)
		}
	}

	a.emit(ctx, &domain.Event{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Type:      eventType,
		Data:      data,
		CreatedAt: a.now(),
	})
}

func (a *ActivityRecorder) emit(ctx context.Context, event *domain.Event) {
	if a.events != nil {
		if err := a.events.LogEvent(ctx, event); err != nil {
			a.logger.Warn().Err(err).Str("eventType", event.Type).Int64("tenantId", event.TenantID).Msg("Failed to log event")
		}
	}
	if a.publisher != nil {
		a.publisher.Publish(event)
	}
}

// ListEvents returns the newest activity of a tenant
func (a *ActivityRecorder) ListEvents(ctx context.Context, tenantID int64, limit int) ([]*domain.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if limit > MaxEventLimit {
		limit = MaxEventLimit
	}
	if a.events == nil {
		return []*domain.Event{}, nil
	}

	events, err := a.events.ListEvents(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// SyncStatuses returns the last sync outcome per entity for a tenant
func (a *ActivityRecorder) SyncStatuses(ctx context.Context, tenantID int64) ([]*domain.SyncStatus, error) {
	if a.statuses == nil {
		return []*domain.SyncStatus{}, nil
	}

	statuses, err := a.statuses.ListStatuses(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync statuses: %w", err)
	}
	if statuses == nil {
		statuses = []*domain.SyncStatus{}
	}
	return statuses, nil
}
