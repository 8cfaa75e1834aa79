package models

import "time"

// Event types
const (
	EventTypeOrderCreated = "ORDER_CREATED"
	EventTypeOrderUpdated = "ORDER_UPDATED"
	EventTypeOrderDeleted = "ORDER_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderEventLine carries the item data consumers need to react to an
// order mutation, notably which items changed availability.
type OrderEventLine struct {
	ItemUUID string `json:"item_uuid"`
	Quantity int    `json:"quantity"`
}

// OrderCreatedEvent published when an order is placed
type OrderCreatedEvent struct {
	BaseEvent
	OrderUUID  string           `json:"order_uuid"`
	UserUUID   string           `json:"user_uuid"`
	TotalPrice float64          `json:"total_price"`
	Items      []OrderEventLine `json:"items"`
}

// OrderUpdatedEvent published when an order's item set or address is replaced
type OrderUpdatedEvent struct {
	BaseEvent
	OrderUUID  string           `json:"order_uuid"`
	UserUUID   string           `json:"user_uuid"`
	TotalPrice float64          `json:"total_price"`
	Items      []OrderEventLine `json:"items"`
}

// OrderDeletedEvent published when an order is removed
type OrderDeletedEvent struct {
	BaseEvent
	OrderUUID string           `json:"order_uuid"`
	UserUUID  string           `json:"user_uuid"`
	Items     []OrderEventLine `json:"items"`
}
