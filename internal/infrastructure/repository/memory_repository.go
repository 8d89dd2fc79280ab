package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/google/uuid"
)

// DefaultMemoryEventCapacity bounds the in-memory activity log
const DefaultMemoryEventCapacity = 1000

// MemoryEventRepository keeps the newest events in process memory.
// Used when no MongoDB is configured.
type MemoryEventRepository struct {
	mu       sync.RWMutex
	events   []*domain.Event
	capacity int
}

// NewMemoryEventRepository creates an in-memory event log holding at most capacity events
func NewMemoryEventRepository(capacity int) *MemoryEventRepository {
	if capacity <= 0 {
		capacity = DefaultMemoryEventCapacity
	}
	return &MemoryEventRepository{capacity: capacity}
}

var _ ports.EventRepository = (*MemoryEventRepository)(nil)

// LogEvent appends an event and evicts the oldest one past capacity
func (r *MemoryEventRepository) LogEvent(ctx context.Context, event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	if len(r.events) > r.capacity {
		r.events = r.events[len(r.events)-r.capacity:]
	}

	return nil
}

// ListEvents returns the newest events of a tenant. A non-positive limit returns them all.
func (r *MemoryEventRepository) ListEvents(ctx context.Context, tenantID int64, limit int) ([]*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*domain.Event, 0)
	for i := len(r.events) - 1; i >= 0 && (limit <= 0 || len(events) < limit); i-- {
		if r.events[i].TenantID == tenantID {
			events = append(events, r.events[i])
		}
	}

	return events, nil
}

// MemorySyncStatusRepository keeps sync statuses in process memory.
// Used when no Redis is configured.
type MemorySyncStatusRepository struct {
	mu       sync.RWMutex
	statuses map[int64]map[string]domain.SyncStatus
}

// NewMemorySyncStatusRepository creates an empty in-memory status store
func NewMemorySyncStatusRepository() *MemorySyncStatusRepository {
	return &MemorySyncStatusRepository{
		statuses: make(map[int64]map[string]domain.SyncStatus),
	}
}

var _ ports.SyncStatusStore = (*MemorySyncStatusRepository)(nil)

// SaveStatus replaces the stored status of the entity
func (r *MemorySyncStatusRepository) SaveStatus(ctx context.Context, status *domain.SyncStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byEntity, ok := r.statuses[status.TenantID]
	if !ok {
		byEntity = make(map[string]domain.SyncStatus)
		r.statuses[status.TenantID] = byEntity
	}
	byEntity[status.Entity] = *status

	return nil
}

// ListStatuses returns copies of the tenant's statuses sorted by entity
func (r *MemorySyncStatusRepository) ListStatuses(ctx context.Context, tenantID int64) ([]*domain.SyncStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]*domain.SyncStatus, 0, len(r.statuses[tenantID]))
	for _, status := range r.statuses[tenantID] {
		s := status
		statuses = append(statuses, &s)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Entity < statuses[j].Entity
	})

	return statuses, nil
}
