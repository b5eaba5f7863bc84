// Package notify delivers user notifications for order and coupon events.
// Delivery is best effort: a failing sink is logged and never fails the
// operation that produced the event.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/digimall/pkg/logger"
)

type EventType string

const (
	OrderCreated    EventType = "order_created"
	OrderPaid       EventType = "order_paid"
	OrderShipped    EventType = "order_shipped"
	OrderDelivered  EventType = "order_delivered"
	OrderCancelled  EventType = "order_cancelled"
	RefundRequested EventType = "refund_requested"
	RefundSuccess   EventType = "refund_success"
	CouponReceived  EventType = "coupon_received"
)

var titles = map[EventType]string{
	OrderCreated:    "Order created",
	OrderPaid:       "Payment received",
	OrderShipped:    "Order shipped",
	OrderDelivered:  "Order delivered",
	OrderCancelled:  "Order cancelled",
	RefundRequested: "Refund requested",
	RefundSuccess:   "Refund completed",
	CouponReceived:  "Coupon received",
}

type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload,omitempty"`
	Channels  []Channel      `json:"channels,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Delivers reports whether e goes out on c. An event with no channels is
// in-app only.
func (e Event) Delivers(c Channel) bool {
	if len(e.Channels) == 0 {
		return c == ChannelInApp
	}
	return slices.Contains(e.Channels, c)
}

func NewEvent(typ EventType, userID string, payload map[string]any) Event {
	title, ok := titles[typ]
	if !ok {
		title = string(typ)
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		UserID:    userID,
		Title:     title,
		Content:   content(typ, payload),
		Payload:   payload,
		Channels:  defaultChannels(typ),
		CreatedAt: time.Now().UTC(),
	}
}

func content(typ EventType, p map[string]any) string {
	orderNo := p["order_no"]
	switch typ {
	case OrderCreated:
		return fmt.Sprintf("Order %v was created. Amount due: %v.", orderNo, p["amount"])
	case OrderPaid:
		return fmt.Sprintf("We received %v for order %v.", p["amount"], orderNo)
	case OrderShipped:
		return fmt.Sprintf("Order %v was handed to %v, tracking number %v.", orderNo, p["company"], p["tracking_number"])
	case OrderDelivered:
		return fmt.Sprintf("Order %v was delivered.", orderNo)
	case OrderCancelled:
		return fmt.Sprintf("Order %v was cancelled.", orderNo)
	case RefundRequested:
		return fmt.Sprintf("A refund of %v for order %v is being processed.", p["amount"], orderNo)
	case RefundSuccess:
		return fmt.Sprintf("The refund of %v for order %v is complete.", p["amount"], orderNo)
	case CouponReceived:
		return fmt.Sprintf("You received the coupon %v.", p["coupon_name"])
	}
	return ""
}

type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// Notifier turns domain events into notifications and hands them to a sink.
// When settings are set, channels the user switched off are dropped and an
// event left with no channel is not emitted at all.
type Notifier struct {
	sink     Sink
	settings *SettingsStore
	log      *slog.Logger
}

func NewNotifier(sink Sink, settings *SettingsStore, log *slog.Logger) *Notifier {
	return &Notifier{sink: sink, settings: settings, log: logger.OrNop(log)}
}

// Notify never fails. Sink errors are logged.
func (n *Notifier) Notify(ctx context.Context, typ EventType, userID string, payload map[string]any) {
	if n == nil || n.sink == nil {
		return
	}
	e := NewEvent(typ, userID, payload)
	if n.settings != nil {
		e.Channels = n.settings.Get(ctx, userID).filter(e.Channels)
		if len(e.Channels) == 0 {
			n.log.DebugContext(ctx, "notification muted",
				slog.String("type", string(typ)),
				slog.String("user_id", userID),
			)
			return
		}
	}
	if err := n.sink.Emit(ctx, e); err != nil {
		n.log.WarnContext(ctx, "notification dropped",
			slog.String("type", string(typ)),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
