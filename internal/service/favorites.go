package service

import (
	"context"
	"errors"
	"fmt"

	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FavoriteService handles the user's item bookmarks.
type FavoriteService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(store *store.Store) *FavoriteService {
	return &FavoriteService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// List returns the user's favorites with their items embedded
func (s *FavoriteService) List(ctx context.Context, user *models.User) ([]models.FavoriteView, error) {
	ctx, span := util.StartSpan(ctx, "FavoriteService.List")
	defer span.End()

	favorites, err := s.store.GetFavoritesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]int64, len(favorites))
	for i, favorite := range favorites {
		itemIDs[i] = favorite.ItemID
	}

	items, err := s.store.GetItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	itemsByID := make(map[int64]models.Item, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	views := make([]models.FavoriteView, 0, len(favorites))
	for _, favorite := range favorites {
		views = append(views, models.FavoriteView{
			UUID:      favorite.UUID,
			UserUUID:  user.UUID,
			Item:      itemsByID[favorite.ItemID],
			CreatedAt: favorite.CreatedAt,
		})
	}
	return views, nil
}

// Add bookmarks an item for the user. Adding an item that is already a
// favorite is not an error: the existing favorite is returned with
// created=false, and no second row is written.
func (s *FavoriteService) Add(ctx context.Context, user *models.User, itemUUID string) (*models.FavoriteView, bool, error) {
	ctx, span := util.StartSpan(ctx, "FavoriteService.Add")
	defer span.End()

	item, err := s.store.GetItemByUUID(ctx, itemUUID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.store.GetFavoriteByUserAndItem(ctx, user.ID, item.ID)
	if err == nil {
		util.FavoritesDuplicateTotal.Inc()
		view := favoriteView(existing, user, item)
		return &view, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	favorite := &models.Favorite{
		UUID:   uuid.NewString(),
		UserID: user.ID,
		ItemID: item.ID,
	}
	if err := s.store.CreateFavorite(ctx, favorite); err != nil {
		return nil, false, fmt.Errorf("failed to create favorite: %w", err)
	}

	util.FavoritesAddedTotal.Inc()
	s.logger.Info("Favorite added",
		zap.String("favorite_uuid", favorite.UUID),
		zap.String("item_uuid", item.UUID),
		zap.String("user_uuid", user.UUID))

	view := favoriteView(favorite, user, item)
	return &view, true, nil
}

// Remove deletes the user's favorite. A favorite belonging to another
// user reports ErrNotFound, indistinguishable from a missing one.
func (s *FavoriteService) Remove(ctx context.Context, user *models.User, favoriteUUID string) error {
	ctx, span := util.StartSpan(ctx, "FavoriteService.Remove")
	defer span.End()

	favorite, err := s.store.GetFavoriteByUUID(ctx, favoriteUUID)
	if err != nil {
		return err
	}

	if favorite.UserID != user.ID {
		return store.ErrNotFound
	}

	if err := s.store.DeleteFavorite(ctx, favorite.ID); err != nil {
		return err
	}

	util.FavoritesDeletedTotal.Inc()
	return nil
}

func favoriteView(favorite *models.Favorite, user *models.User, item *models.Item) models.FavoriteView {
	return models.FavoriteView{
		UUID:      favorite.UUID,
		UserUUID:  user.UUID,
		Item:      *item,
		CreatedAt: favorite.CreatedAt,
	}
}
