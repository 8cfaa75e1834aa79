package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shop-service/internal/models"

	guuid "github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientAvailability is returned when a requested quantity
	// exceeds an item's stock. The surrounding transaction is rolled back.
	ErrInsufficientAvailability = errors.New("insufficient availability")
)

type Store struct {
	db *sqlx.DB
}

// isUUID reports whether s parses as a uuid. The uuid columns reject
// malformed text with a type error rather than an empty result, so
// lookups treat such input as absent before querying.
func isUUID(s string) bool {
	_, err := guuid.Parse(s)
	return err == nil
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by internal id
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves multiple users by internal ids
func (s *Store) GetUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM users WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var users []models.User
	err = s.db.SelectContext(ctx, &users, query, args...)
	return users, err
}

// GetItems retrieves the whole catalog
func (s *Store) GetItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.SelectContext(ctx, &items, "SELECT * FROM items ORDER BY id")
	return items, err
}

// GetItemByUUID retrieves an item by uuid
func (s *Store) GetItemByUUID(ctx context.Context, uuid string) (*models.Item, error) {
	if !isUUID(uuid) {
		return nil, ErrNotFound
	}

	var item models.Item
	err := s.db.GetContext(ctx, &item, "SELECT * FROM items WHERE uuid = $1", uuid)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemsByUUIDs retrieves multiple items by uuid
func (s *Store) GetItemsByUUIDs(ctx context.Context, uuids []string) ([]models.Item, error) {
	valid := make([]string, 0, len(uuids))
	for _, u := range uuids {
		if isUUID(u) {
			valid = append(valid, u)
		}
	}
	if len(valid) == 0 {
		return []models.Item{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM items WHERE uuid IN (?)", valid)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var items []models.Item
	err = s.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// GetItemsByIDs retrieves multiple items by internal id
func (s *Store) GetItemsByIDs(ctx context.Context, ids []int64) ([]models.Item, error) {
	if len(ids) == 0 {
		return []models.Item{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM items WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var items []models.Item
	err = s.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// GetAddressByUUID retrieves an address by uuid
func (s *Store) GetAddressByUUID(ctx context.Context, uuid string) (*models.Address, error) {
	if !isUUID(uuid) {
		return nil, ErrNotFound
	}

	var addr models.Address
	err := s.db.GetContext(ctx, &addr, "SELECT * FROM addresses WHERE uuid = $1", uuid)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// GetAddressByID retrieves an address by internal id
func (s *Store) GetAddressByID(ctx context.Context, id int64) (*models.Address, error) {
	var addr models.Address
	err := s.db.GetContext(ctx, &addr, "SELECT * FROM addresses WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// GetAddressesByUserID retrieves a user's addresses
func (s *Store) GetAddressesByUserID(ctx context.Context, userID int64) ([]models.Address, error) {
	var addrs []models.Address
	err := s.db.SelectContext(ctx, &addrs,
		"SELECT * FROM addresses WHERE user_id = $1 ORDER BY created_at", userID)
	return addrs, err
}

// CreateAddress inserts a new address
func (s *Store) CreateAddress(ctx context.Context, addr *models.Address) error {
	query := `
		INSERT INTO addresses (uuid, user_id, country, city, post_code, address, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, addr, query,
		addr.UUID, addr.UserID, addr.Country, addr.City, addr.PostCode, addr.Address, addr.Phone)
}

// UpdateAddress persists changes to an existing address
func (s *Store) UpdateAddress(ctx context.Context, addr *models.Address) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE addresses
		SET country = $1, city = $2, post_code = $3, address = $4, phone = $5, updated_at = NOW()
		WHERE id = $6`,
		addr.Country, addr.City, addr.PostCode, addr.Address, addr.Phone, addr.ID)
	return err
}

// DeleteAddress removes a user's address by uuid. Missing or foreign
// rows both report ErrNotFound.
func (s *Store) DeleteAddress(ctx context.Context, userID int64, uuid string) error {
	if !isUUID(uuid) {
		return ErrNotFound
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM addresses WHERE user_id = $1 AND uuid = $2", userID, uuid)
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
