package service

import (
	"context"
	"fmt"

	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddressService manages a user's address book. Every operation is
// scoped to the calling user; another user's address reports
// store.ErrNotFound.
type AddressService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAddressService creates a new address service
func NewAddressService(store *store.Store) *AddressService {
	return &AddressService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// AddressInput carries the writable address fields.
type AddressInput struct {
	Country  string
	City     string
	PostCode string
	Address  string
	Phone    string
}

// List returns the user's addresses
func (s *AddressService) List(ctx context.Context, user *models.User) ([]models.AddressView, error) {
	ctx, span := util.StartSpan(ctx, "AddressService.List")
	defer span.End()

	addrs, err := s.store.GetAddressesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	views := make([]models.AddressView, 0, len(addrs))
	for i := range addrs {
		views = append(views, addrs[i].View(user))
	}
	return views, nil
}

// Create adds an address to the user's address book
func (s *AddressService) Create(ctx context.Context, user *models.User, input AddressInput) (*models.AddressView, error) {
	ctx, span := util.StartSpan(ctx, "AddressService.Create")
	defer span.End()

	addr := &models.Address{
		UUID:     uuid.NewString(),
		UserID:   user.ID,
		Country:  input.Country,
		City:     input.City,
		PostCode: input.PostCode,
		Address:  input.Address,
		Phone:    input.Phone,
	}
	if err := s.store.CreateAddress(ctx, addr); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	s.logger.Info("Address created",
		zap.String("address_uuid", addr.UUID),
		zap.String("user_uuid", user.UUID))

	view := addr.View(user)
	return &view, nil
}

// Get returns one of the user's addresses by uuid
func (s *AddressService) Get(ctx context.Context, user *models.User, addressUUID string) (*models.AddressView, error) {
	ctx, span := util.StartSpan(ctx, "AddressService.Get")
	defer span.End()

	addr, err := s.ownedAddress(ctx, user, addressUUID)
	if err != nil {
		return nil, err
	}

	view := addr.View(user)
	return &view, nil
}

// Update patches the provided fields of one of the user's addresses.
// Nil fields are left untouched.
func (s *AddressService) Update(ctx context.Context, user *models.User, addressUUID string, patch AddressPatch) (*models.AddressView, error) {
	ctx, span := util.StartSpan(ctx, "AddressService.Update")
	defer span.End()

	addr, err := s.ownedAddress(ctx, user, addressUUID)
	if err != nil {
		return nil, err
	}

	patch.apply(addr)
	if err := s.store.UpdateAddress(ctx, addr); err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	view := addr.View(user)
	return &view, nil
}

// Delete removes one of the user's addresses
func (s *AddressService) Delete(ctx context.Context, user *models.User, addressUUID string) error {
	ctx, span := util.StartSpan(ctx, "AddressService.Delete")
	defer span.End()

	return s.store.DeleteAddress(ctx, user.ID, addressUUID)
}

// AddressPatch carries optional address field updates.
type AddressPatch struct {
	Country  *string
	City     *string
	PostCode *string
	Address  *string
	Phone    *string
}

func (p AddressPatch) apply(addr *models.Address) {
	if p.Country != nil {
		addr.Country = *p.Country
	}
	if p.City != nil {
		addr.City = *p.City
	}
	if p.PostCode != nil {
		addr.PostCode = *p.PostCode
	}
	if p.Address != nil {
		addr.Address = *p.Address
	}
	if p.Phone != nil {
		addr.Phone = *p.Phone
	}
}

func (s *AddressService) ownedAddress(ctx context.Context, user *models.User, addressUUID string) (*models.Address, error) {
	addr, err := s.store.GetAddressByUUID(ctx, addressUUID)
	if err != nil {
		return nil, err
	}
	if addr.UserID != user.ID {
		return nil, store.ErrNotFound
	}
	return addr, nil
}
