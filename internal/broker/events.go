package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"shop-service/internal/models"
	"shop-service/internal/util"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing order domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	util.OrderEventsPublishedTotal.WithLabelValues(models.EventTypeOrderCreated).Inc()
	return ep.producer.PublishEvent(ctx, event.OrderUUID, event)
}

// PublishOrderUpdated publishes an OrderUpdated event
func (ep *EventPublisher) PublishOrderUpdated(ctx context.Context, event *models.OrderUpdatedEvent) error {
	util.OrderEventsPublishedTotal.WithLabelValues(models.EventTypeOrderUpdated).Inc()
	return ep.producer.PublishEvent(ctx, event.OrderUUID, event)
}

// PublishOrderDeleted publishes an OrderDeleted event
func (ep *EventPublisher) PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	util.OrderEventsPublishedTotal.WithLabelValues(models.EventTypeOrderDeleted).Inc()
	return ep.producer.PublishEvent(ctx, event.OrderUUID, event)
}

// EventHandler routes incoming order events
type EventHandler struct {
	onOrderChanged func(context.Context, []models.OrderEventLine) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderChanged registers a handler invoked with the affected item lines
// of every order mutation event
func (eh *EventHandler) OnOrderChanged(handler func(context.Context, []models.OrderEventLine) error) {
	eh.onOrderChanged = handler
}

// HandleMessage routes messages to the registered handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderCreated:
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderCreated event: %w", err)
		}
		return eh.orderChanged(ctx, event.Items)

	case models.EventTypeOrderUpdated:
		var event models.OrderUpdatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderUpdated event: %w", err)
		}
		return eh.orderChanged(ctx, event.Items)

	case models.EventTypeOrderDeleted:
		var event models.OrderDeletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderDeleted event: %w", err)
		}
		return eh.orderChanged(ctx, event.Items)

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}

func (eh *EventHandler) orderChanged(ctx context.Context, items []models.OrderEventLine) error {
	if eh.onOrderChanged == nil {
		return nil
	}
	return eh.onOrderChanged(ctx, items)
}
