package store

import (
	"context"
	"database/sql"

	"shop-service/internal/models"
)

// GetFavoritesByUserID retrieves all favorites of a user
func (s *Store) GetFavoritesByUserID(ctx context.Context, userID int64) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.SelectContext(ctx, &favorites,
		"SELECT * FROM favorites WHERE user_id = $1 ORDER BY created_at", userID)
	return favorites, err
}

// GetFavoriteByUserAndItem retrieves the favorite for a (user, item) pair
func (s *Store) GetFavoriteByUserAndItem(ctx context.Context, userID, itemID int64) (*models.Favorite, error) {
	var favorite models.Favorite
	err := s.db.GetContext(ctx, &favorite,
		"SELECT * FROM favorites WHERE user_id = $1 AND item_id = $2", userID, itemID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

// GetFavoriteByUUID retrieves a favorite by uuid
func (s *Store) GetFavoriteByUUID(ctx context.Context, uuid string) (*models.Favorite, error) {
	if !isUUID(uuid) {
		return nil, ErrNotFound
	}

	var favorite models.Favorite
	err := s.db.GetContext(ctx, &favorite,
		"SELECT * FROM favorites WHERE uuid = $1", uuid)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

// CreateFavorite inserts a new favorite
func (s *Store) CreateFavorite(ctx context.Context, favorite *models.Favorite) error {
	query := `
		INSERT INTO favorites (uuid, user_id, item_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, favorite, query,
		favorite.UUID, favorite.UserID, favorite.ItemID)
}

// DeleteFavorite removes a favorite by internal id
func (s *Store) DeleteFavorite(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM favorites WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
