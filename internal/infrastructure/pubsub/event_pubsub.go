package pubsub

import (
	"context"
	"sync"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBufferSize is the per-subscriber channel capacity
const DefaultBufferSize = 16

// Subscription is one live listener on the activity stream
type Subscription struct {
	ID     string
	Filter *EventFilter
	Events chan *domain.Event
	Done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// EventFilter restricts which events a subscription receives
type EventFilter struct {
	TenantID int64    // zero matches every tenant
	Types    []string // empty matches every type
}

// EventPubSub fans activity events out to subscribers
type EventPubSub struct {
	mu         sync.RWMutex
	subs       map[string]*Subscription
	bufferSize int
	logger     zerolog.Logger
}

// NewEventPubSub creates a new event pub/sub
func NewEventPubSub(logger zerolog.Logger) *EventPubSub {
	return &EventPubSub{
		subs:       make(map[string]*Subscription),
		bufferSize: DefaultBufferSize,
		logger:     logger,
	}
}

var _ ports.EventPublisher = (*EventPubSub)(nil)

// Subscribe registers a listener that lives until ctx is cancelled or Unsubscribe is called
func (ps *EventPubSub) Subscribe(ctx context.Context, filter *EventFilter) *Subscription {
	subCtx, cancel := context.WithCancel(ctx)

	sub := &Subscription{
		ID:     uuid.NewString(),
		Filter: filter,
		Events: make(chan *domain.Event, ps.bufferSize),
		Done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	ps.mu.Lock()
	ps.subs[sub.ID] = sub
	ps.mu.Unlock()

	ps.logger.Info().
		Str("subscriptionId", sub.ID).
		Interface("filter", filter).
		Msg("Event subscription created")

	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(sub.ID)
	}()

	return sub
}

// Unsubscribe closes and removes a subscription. Unknown ids are ignored.
func (ps *EventPubSub) Unsubscribe(id string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	sub, exists := ps.subs[id]
	if !exists {
		return
	}

	close(sub.Events)
	close(sub.Done)
	sub.cancel()
	delete(ps.subs, id)

	ps.logger.Info().
		Str("subscriptionId", id).
		Msg("Event subscription removed")
}

// Publish delivers the event to every matching subscriber without blocking.
// Subscribers with a full buffer miss the event.
func (ps *EventPubSub) Publish(event *domain.Event) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	delivered := 0
	for _, sub := range ps.subs {
		if !matchesFilter(event, sub.Filter) {
			continue
		}
		select {
		case sub.Events <- event:
			delivered++
		case <-sub.ctx.Done():
		default:
			ps.logger.Warn().
				Str("subscriptionId", sub.ID).
				Str("eventType", event.Type).
				Msg("Subscriber buffer full, dropping event")
		}
	}

	if delivered > 0 {
		ps.logger.Debug().
			Str("eventType", event.Type).
			Int64("tenantId", event.TenantID).
			Int("subscribers", delivered).
			Msg("Published event to subscribers")
	}
}

// Subscribers returns the number of active subscriptions
func (ps *EventPubSub) Subscribers() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subs)
}

func matchesFilter(event *domain.Event, filter *EventFilter) bool {
	if filter == nil {
		return true
	}

	if filter.TenantID != 0 && event.TenantID != filter.TenantID {
		return false
	}

	if len(filter.Types) > 0 {
		for _, t := range filter.Types {
			if event.Type == t {
				return true
			}
		}
		return false
	}

	return true
}
