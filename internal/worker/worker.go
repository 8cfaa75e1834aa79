package worker

import (
	"context"
	"log"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/service"
)

// CacheWorker keeps the Redis availability cache in step with the
// database by consuming order events and re-reading the touched items.
type CacheWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	cache        *service.AvailabilityCache
}

// NewCacheWorker creates a new cache worker
func NewCacheWorker(consumer *broker.Consumer, cache *service.AvailabilityCache) *CacheWorker {
	eventHandler := broker.NewEventHandler()

	w := &CacheWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		cache:        cache,
	}

	eventHandler.OnOrderChanged(w.refreshItems)
	return w
}

// Start starts the worker
func (w *CacheWorker) Start(ctx context.Context) error {
	log.Println("Starting availability cache worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CacheWorker) Stop() error {
	log.Println("Stopping availability cache worker...")
	return w.consumer.Close()
}

func (w *CacheWorker) refreshItems(ctx context.Context, items []models.OrderEventLine) error {
	uuids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ItemUUID] {
			seen[item.ItemUUID] = true
			uuids = append(uuids, item.ItemUUID)
		}
	}
	return w.cache.SyncItems(ctx, uuids)
}
