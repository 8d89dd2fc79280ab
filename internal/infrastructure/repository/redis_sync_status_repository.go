package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/redis/go-redis/v9"
)

const syncStatusKeyPrefix = "shopify-mirror:sync:"

// RedisSyncStatusRepository implements SyncStatusStore with one Redis hash per tenant
type RedisSyncStatusRepository struct {
	client *redis.Client
}

// NewRedisSyncStatusRepository creates a new Redis sync status repository
func NewRedisSyncStatusRepository(client *redis.Client) *RedisSyncStatusRepository {
	return &RedisSyncStatusRepository{client: client}
}

var _ ports.SyncStatusStore = (*RedisSyncStatusRepository)(nil)

func syncStatusKey(tenantID int64) string {
	return fmt.Sprintf("%s%d", syncStatusKeyPrefix, tenantID)
}

// SaveStatus stores the status under its entity field, replacing the previous run
func (r *RedisSyncStatusRepository) SaveStatus(ctx context.Context, status *domain.SyncStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode sync status: %w", err)
	}

	if err := r.client.HSet(ctx, syncStatusKey(status.TenantID), status.Entity, payload).Err(); err != nil {
		return fmt.Errorf("failed to save sync status: %w", err)
	}

	return nil
}

// ListStatuses retrieves the last status of every entity synced for the tenant, sorted by entity
func (r *RedisSyncStatusRepository) ListStatuses(ctx context.Context, tenantID int64) ([]*domain.SyncStatus, error) {
	fields, err := r.client.HGetAll(ctx, syncStatusKey(tenantID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sync statuses: %w", err)
	}

	statuses := make([]*domain.SyncStatus, 0, len(fields))
	for entity, raw := range fields {
		var status domain.SyncStatus
		if err := json.Unmarshal([]byte(raw), &status); err != nil {
			return nil, fmt.Errorf("failed to decode sync status %s: %w", entity, err)
		}
		statuses = append(statuses, &status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Entity < statuses[j].Entity
	})

	return statuses, nil
}
