package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnknownItems is returned when a request references an item uuid
	// that is not in the catalog. One unknown item invalidates the whole
	// request.
	ErrUnknownItems = errors.New("one or more items do not exist")
	// ErrUnknownAddress is returned when the delivery address does not
	// resolve.
	ErrUnknownAddress = errors.New("delivery address does not exist")
	// ErrNotOwner is returned when a non-admin caller tries to mutate
	// another user's order.
	ErrNotOwner = errors.New("order belongs to another user")
)

// OrderService handles order placement, replacement and deletion.
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// OrderItemRequest is one requested (item, quantity) pair.
type OrderItemRequest struct {
	ItemUUID string `json:"item_uuid" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// OrderRequest is the payload of order creation and replacement.
type OrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	DeliveryAddress string             `json:"delivery_address"`
	OrderID         string             `json:"order_id,omitempty"`
}

// List returns every order in the system with its items.
func (s *OrderService) List(ctx context.Context) ([]models.OrderView, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, orders)
}

// Get returns one order with its items
func (s *OrderService) Get(ctx context.Context, orderUUID string) (*models.OrderView, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Get")
	defer span.End()

	order, err := s.store.GetOrderByUUID(ctx, orderUUID)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create places an order for the user. The order row and all its lines
// are written in one transaction; an unknown item, an unknown address or
// an availability shortfall leaves nothing behind.
func (s *OrderService) Create(ctx context.Context, user *models.User, req OrderRequest) (*models.OrderView, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	address, err := s.store.GetAddressByUUID(ctx, req.DeliveryAddress)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.OrdersRejectedTotal.WithLabelValues("unknown_address").Inc()
			return nil, ErrUnknownAddress
		}
		return nil, err
	}

	lines, eventLines, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UUID:      uuid.NewString(),
		UserID:    user.ID,
		AddressID: address.ID,
	}
	if err := s.store.CreateOrder(ctx, order, lines); err != nil {
		if errors.Is(err, store.ErrInsufficientAvailability) {
			util.OrdersRejectedTotal.WithLabelValues("insufficient_availability").Inc()
		}
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_uuid", order.UUID),
		zap.String("user_uuid", user.UUID),
		zap.Float64("total_price", order.TotalPrice))

	event := &models.OrderCreatedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderCreated),
		OrderUUID:  order.UUID,
		UserUUID:   user.UUID,
		TotalPrice: order.TotalPrice,
		Items:      eventLines,
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return s.assembleView(ctx, order, user, address)
}

// Replace swaps an order's delivery address and item set. Only the
// order's owner or an admin may do this; the old lines are fully removed
// and the new set inserted under the same availability rules as Create.
func (s *OrderService) Replace(ctx context.Context, user *models.User, orderUUID string, req OrderRequest) (*models.OrderView, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Replace")
	defer span.End()

	order, err := s.store.GetOrderByUUID(ctx, orderUUID)
	if err != nil {
		return nil, err
	}

	address, err := s.store.GetAddressByUUID(ctx, req.DeliveryAddress)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.OrdersRejectedTotal.WithLabelValues("unknown_address").Inc()
			return nil, ErrUnknownAddress
		}
		return nil, err
	}

	if order.UserID != user.ID && !user.Admin {
		util.OrdersRejectedTotal.WithLabelValues("not_owner").Inc()
		return nil, ErrNotOwner
	}

	lines, eventLines, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceOrder(ctx, order, address.ID, lines); err != nil {
		if errors.Is(err, store.ErrInsufficientAvailability) {
			util.OrdersRejectedTotal.WithLabelValues("insufficient_availability").Inc()
		}
		return nil, err
	}

	util.OrdersUpdatedTotal.Inc()
	s.logger.Info("Order updated",
		zap.String("order_uuid", order.UUID),
		zap.String("user_uuid", user.UUID))

	owner, err := s.store.GetUserByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	event := &models.OrderUpdatedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderUpdated),
		OrderUUID:  order.UUID,
		UserUUID:   owner.UUID,
		TotalPrice: order.TotalPrice,
		Items:      eventLines,
	}
	if err := s.eventPublisher.PublishOrderUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderUpdated event", zap.Error(err))
	}

	return s.assembleView(ctx, order, owner, address)
}

// Delete removes an order and all its lines. Only the order's owner or
// an admin may do this.
func (s *OrderService) Delete(ctx context.Context, user *models.User, orderUUID string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.Delete")
	defer span.End()

	order, err := s.store.GetOrderByUUID(ctx, orderUUID)
	if err != nil {
		return err
	}

	if order.UserID != user.ID && !user.Admin {
		util.OrdersRejectedTotal.WithLabelValues("not_owner").Inc()
		return ErrNotOwner
	}

	oldLines, err := s.store.GetOrderLines(ctx, []int64{order.ID})
	if err != nil {
		return err
	}

	if err := s.store.DeleteOrder(ctx, order.ID); err != nil {
		return err
	}

	util.OrdersDeletedTotal.Inc()
	s.logger.Info("Order deleted",
		zap.String("order_uuid", order.UUID),
		zap.String("user_uuid", user.UUID))

	owner, err := s.store.GetUserByID(ctx, order.UserID)
	if err != nil {
		return err
	}

	eventLines := make([]models.OrderEventLine, 0, len(oldLines))
	for _, line := range oldLines {
		eventLines = append(eventLines, models.OrderEventLine{
			ItemUUID: line.ItemUUID,
			Quantity: line.Quantity,
		})
	}

	event := &models.OrderDeletedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderDeleted),
		OrderUUID: order.UUID,
		UserUUID:  owner.UUID,
		Items:     eventLines,
	}
	if err := s.eventPublisher.PublishOrderDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderDeleted event", zap.Error(err))
	}

	return nil
}

// resolveLines maps requested item uuids to catalog rows. A single
// unresolved uuid fails the whole set with ErrUnknownItems.
func (s *OrderService) resolveLines(ctx context.Context, items []OrderItemRequest) ([]store.LineInput, []models.OrderEventLine, error) {
	uuids := make([]string, len(items))
	for i, item := range items {
		uuids[i] = item.ItemUUID
	}

	resolved, err := s.store.GetItemsByUUIDs(ctx, uuids)
	if err != nil {
		return nil, nil, err
	}
	if len(resolved) != len(items) {
		util.OrdersRejectedTotal.WithLabelValues("unknown_items").Inc()
		return nil, nil, ErrUnknownItems
	}

	byUUID := make(map[string]*models.Item, len(resolved))
	for i := range resolved {
		byUUID[resolved[i].UUID] = &resolved[i]
	}

	lines := make([]store.LineInput, 0, len(items))
	eventLines := make([]models.OrderEventLine, 0, len(items))
	for _, item := range items {
		catalogItem, ok := byUUID[item.ItemUUID]
		if !ok {
			util.OrdersRejectedTotal.WithLabelValues("unknown_items").Inc()
			return nil, nil, ErrUnknownItems
		}
		lines = append(lines, store.LineInput{
			ItemID:   catalogItem.ID,
			Quantity: item.Quantity,
		})
		eventLines = append(eventLines, models.OrderEventLine{
			ItemUUID: item.ItemUUID,
			Quantity: item.Quantity,
		})
	}

	return lines, eventLines, nil
}

// buildViews hydrates orders with their lines, owners and addresses
func (s *OrderService) buildViews(ctx context.Context, orders []models.Order) ([]models.OrderView, error) {
	orderIDs := make([]int64, len(orders))
	userIDs := make([]int64, 0, len(orders))
	for i, order := range orders {
		orderIDs[i] = order.ID
		userIDs = append(userIDs, order.UserID)
	}

	lines, err := s.store.GetOrderLines(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	linesByOrder := make(map[int64][]models.OrderLine)
	for _, line := range lines {
		linesByOrder[line.OrderID] = append(linesByOrder[line.OrderID], line)
	}

	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[int64]*models.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, order := range orders {
		owner, ok := usersByID[order.UserID]
		if !ok {
			return nil, fmt.Errorf("order %s references missing user %d", order.UUID, order.UserID)
		}

		address, err := s.store.GetAddressByID(ctx, order.AddressID)
		if err != nil {
			return nil, fmt.Errorf("order %s references missing address %d: %w", order.UUID, order.AddressID, err)
		}

		views = append(views, models.OrderView{
			UUID:            order.UUID,
			Date:            order.CreatedAt,
			TotalPrice:      order.TotalPrice,
			DeliveryAddress: address.View(owner),
			UserUUID:        owner.UUID,
			Items:           linesByOrder[order.ID],
		})
	}
	return views, nil
}

// assembleView builds a single order view from rows already in hand,
// reading back the freshly written lines.
func (s *OrderService) assembleView(ctx context.Context, order *models.Order, owner *models.User, address *models.Address) (*models.OrderView, error) {
	lines, err := s.store.GetOrderLines(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}

	return &models.OrderView{
		UUID:            order.UUID,
		Date:            order.CreatedAt,
		TotalPrice:      order.TotalPrice,
		DeliveryAddress: address.View(owner),
		UserUUID:        owner.UUID,
		Items:           lines,
	}, nil
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
