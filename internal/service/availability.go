package service

import (
	"context"
	"errors"
	"fmt"

	"shop-service/internal/models"
	"shop-service/internal/redisclient"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// AvailabilityCache keeps item availability in Redis for cheap catalog
// reads. The database stays authoritative: order placement checks stock
// inside its own transaction, and the cache is refreshed after the fact.
type AvailabilityCache struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewAvailabilityCache creates a new availability cache
func NewAvailabilityCache(store *store.Store, redis *redisclient.Client) *AvailabilityCache {
	return &AvailabilityCache{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// SyncAll loads every item's availability into Redis
func (ac *AvailabilityCache) SyncAll(ctx context.Context) error {
	items, err := ac.store.GetItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	availability := make(map[string]int, len(items))
	for _, item := range items {
		availability[item.UUID] = item.Availability
	}

	if err := ac.redis.SetAvailabilityBatch(ctx, availability); err != nil {
		return fmt.Errorf("failed to seed availability cache: %w", err)
	}

	ac.logger.Info("Availability cache synced", zap.Int("items", len(items)))
	return nil
}

// SyncItems refreshes the cached availability of the given items
func (ac *AvailabilityCache) SyncItems(ctx context.Context, itemUUIDs []string) error {
	if len(itemUUIDs) == 0 {
		return nil
	}

	items, err := ac.store.GetItemsByUUIDs(ctx, itemUUIDs)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	availability := make(map[string]int, len(items))
	for _, item := range items {
		availability[item.UUID] = item.Availability
	}

	return ac.redis.SetAvailabilityBatch(ctx, availability)
}

// Get returns an item's availability, preferring the cache and falling
// back to the value read from the database row.
func (ac *AvailabilityCache) Get(ctx context.Context, item *models.Item) int {
	cached, err := ac.redis.GetAvailability(ctx, item.UUID)
	if err != nil {
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			ac.logger.Warn("Availability cache read failed",
				zap.String("item_uuid", item.UUID),
				zap.Error(err))
		}
		util.AvailabilityCacheMisses.Inc()
		return item.Availability
	}

	util.AvailabilityCacheHits.Inc()
	return cached
}
