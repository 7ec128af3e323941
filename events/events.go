// Package events fans order lifecycle changes out to listeners after the
// owning transaction has committed.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/glowhub/models"
)

type Type string

const (
	OrderPlaced      Type = "order.placed"
	PaymentRecorded  Type = "order.payment_recorded"
	ShipmentCreated  Type = "order.shipment_created"
	OrderStatusMoved Type = "order.status_changed"
)

type OrderEvent struct {
	ID      string             `json:"id"`
	Type    Type               `json:"type"`
	OrderID uint               `json:"order_id"`
	Status  models.OrderStatus `json:"status"`
	At      time.Time          `json:"at"`
	Data    map[string]any     `json:"data,omitempty"`
}

func New(t Type, orderID uint, status models.OrderStatus, at time.Time, data map[string]any) OrderEvent {
	return OrderEvent{
		ID:      uuid.NewString(),
		Type:    t,
		OrderID: orderID,
		Status:  status,
		At:      at,
		Data:    data,
	}
}

// Notifier receives committed order events.
type Notifier interface {
	Notify(ctx context.Context, ev OrderEvent) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, OrderEvent) error { return nil }

// Fanout delivers to every notifier and logs failures. Delivery is best
// effort: the state change has already been committed.
type Fanout struct {
	Targets []Notifier
	Log     *zap.Logger
}

func (f Fanout) Notify(ctx context.Context, ev OrderEvent) error {
	for _, n := range f.Targets {
		if err := n.Notify(ctx, ev); err != nil && f.Log != nil {
			f.Log.Warn("order event delivery failed",
				zap.String("event_id", ev.ID),
				zap.String("type", string(ev.Type)),
				zap.Uint("order_id", ev.OrderID),
				zap.Error(err))
		}
	}
	return nil
}

// Recorder keeps events in memory; tests use it to observe emissions.
type Recorder struct {
	mu     sync.Mutex
	Events []OrderEvent
}

func (r *Recorder) Notify(_ context.Context, ev OrderEvent) error {
	r.mu.Lock()
	r.Events = append(r.Events, ev)
	r.mu.Unlock()
	return nil
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, 0, len(r.Events))
	for _, ev := range r.Events {
		out = append(out, ev.Type)
	}
	return out
}
