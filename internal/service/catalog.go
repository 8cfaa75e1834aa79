package service

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves read-only item catalog queries.
type CatalogService struct {
	store  *store.Store
	cache  *AvailabilityCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, cache *AvailabilityCache) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ListItems returns the whole catalog with cached availability applied
func (s *CatalogService) ListItems(ctx context.Context) ([]models.Item, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListItems")
	defer span.End()

	items, err := s.store.GetItems(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Availability = s.cache.Get(ctx, &items[i])
	}
	return items, nil
}

// GetItem returns one item by uuid with cached availability applied
func (s *CatalogService) GetItem(ctx context.Context, itemUUID string) (*models.Item, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetItem")
	defer span.End()

	item, err := s.store.GetItemByUUID(ctx, itemUUID)
	if err != nil {
		return nil, err
	}

	item.Availability = s.cache.Get(ctx, item)
	return item, nil
}
