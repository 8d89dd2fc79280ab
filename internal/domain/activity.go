package domain

import "time"

// Entity names used by sync runs and activity events
const (
	EntityProducts  = "products"
	EntityCustomers = "customers"
	EntityOrders    = "orders"
)

// Event types recorded in the activity log
const (
	EventProductsSynced  = "products.synced"
	EventCustomersSynced = "customers.synced"
	EventOrdersSynced    = "orders.synced"
	EventSyncFailed      = "sync.failed"
	EventCustomerCreated = "customer.created"
	EventOrderCreated    = "order.created"
)

// Sync status values
const (
	SyncStatusOK     = "ok"
	SyncStatusFailed = "failed"
)

// Event is one entry of the tenant activity log
type Event struct {
	ID        string                 `json:"id"`
	TenantID  int64                  `json:"tenant_id"`
	Type      string                 `json:"event_type"`
	Data      map[string]interface{} `json:"event_data"`
	CreatedAt time.Time              `json:"created_at"`
}

// SyncStatus describes the last sync run of one entity type for a tenant
type SyncStatus struct {
	TenantID     int64     `json:"tenant_id"`
	Entity       string    `json:"entity"`
	Status       string    `json:"status"`
	Count        int       `json:"count"`
	Error        string    `json:"error,omitempty"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// SyncEventType returns the event type for a successful sync of entity
func SyncEventType(entity string) string {
	switch entity {
	case EntityProducts:
		return EventProductsSynced
	case EntityCustomers:
		return EventCustomersSynced
	case EntityOrders:
		return EventOrdersSynced
	default:
		return entity + ".synced"
	}
}
