package services

import (
	"context"
	"encoding/json"
	"time"

	"products/internal/models"

	"github.com/google/uuid"
)

// Routing keys of the events published after successful writes.
const (
	EventProductAdded      = "product.added"
	EventProductQtyUpdated = "product.qty_updated"
)

// EventPublisher delivers an encoded event under a routing key.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// ProductEvent is the JSON body of a product event.
type ProductEvent struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	ProductID  int64           `json:"product_id"`
	Product    *models.Product `json:"product,omitempty"`
	Qty        *int            `json:"qty,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func newProductEvent(eventType string, productID int64) ProductEvent {
	return ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
}

// publish sends the event if a publisher is configured. Failures are logged
// and swallowed: the write already happened.
func (s *ProductService) publish(ctx context.Context, event ProductEvent) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.log.Warn().Err(err).Str("event", event.Type).Msg("failed to encode product event")
		return
	}
	if err := s.publisher.Publish(ctx, event.Type, body); err != nil {
		s.log.Warn().Err(err).
			Str("event", event.Type).
			Int64("product_id", event.ProductID).
			Msg("failed to publish product event")
		return
	}
	s.log.Debug().Str("event", event.Type).Str("event_id", event.ID).Msg("published product event")
}
