package notify

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dwikikusuma/digimall/pkg/apperr"
	"github.com/dwikikusuma/digimall/pkg/logger"
)

type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: logger.OrNop(log)}
}

func (s *LogSink) Emit(ctx context.Context, e Event) error {
	s.log.InfoContext(ctx, "notification",
		slog.String("id", e.ID),
		slog.String("type", string(e.Type)),
		slog.String("user_id", e.UserID),
		slog.String("title", e.Title),
		slog.String("content", e.Content),
		slog.Any("channels", e.Channels),
	)
	return nil
}

var ErrNotificationNotFound = apperr.NotFound("NOTIFICATION_NOT_FOUND", "notification not found")

type Notification struct {
	Event
	Read   bool
	ReadAt *time.Time
}

// InboxSink keeps the in-app notification list per user.
type InboxSink struct {
	mu     sync.RWMutex
	byUser map[string][]Notification
	now    func() time.Time
}

func NewInboxSink() *InboxSink {
	return &InboxSink{
		byUser: make(map[string][]Notification),
		now:    time.Now,
	}
}

// Emit stores events that go out on the in-app channel.
func (s *InboxSink) Emit(_ context.Context, e Event) error {
	if !e.Delivers(ChannelInApp) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[e.UserID] = append(s.byUser[e.UserID], Notification{Event: e})
	return nil
}

type Filter struct {
	Type       EventType
	UnreadOnly bool
}

// List returns the newest notifications first.
func (s *InboxSink) List(_ context.Context, userID string, f Filter) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0, len(s.byUser[userID]))
	for _, n := range s.byUser[userID] {
		if f.UnreadOnly && n.Read {
			continue
		}
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *InboxSink) UnreadCount(_ context.Context, userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, item := range s.byUser[userID] {
		if !item.Read {
			n++
		}
	}
	return n
}

func (s *InboxSink) MarkRead(_ context.Context, userID, id string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.byUser[userID]
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if !items[i].Read {
			now := s.now().UTC()
			items[i].Read = true
			items[i].ReadAt = &now
		}
		return items[i], nil
	}
	return Notification{}, ErrNotificationNotFound
}

// MarkAllRead marks every unread notification of the user and returns how
// many changed.
func (s *InboxSink) MarkAllRead(_ context.Context, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	n := 0
	items := s.byUser[userID]
	for i := range items {
		if items[i].Read {
			continue
		}
		items[i].Read = true
		items[i].ReadAt = &now
		n++
	}
	return n
}

func (s *InboxSink) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.byUser[userID]
	for i := range items {
		if items[i].ID == id {
			s.byUser[userID] = slices.Delete(items, i, i+1)
			return nil
		}
	}
	return ErrNotificationNotFound
}

// Multi emits to every sink and joins their errors.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
