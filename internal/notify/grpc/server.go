package grpc

import (
	"context"

	notifyv1 "github.com/dwikikusuma/digimall/api/notify/v1"
	"github.com/dwikikusuma/digimall/internal/notify"
	"github.com/dwikikusuma/digimall/pkg/apperr"
)

type Server struct {
	inbox    *notify.InboxSink
	settings *notify.SettingsStore
}

func NewServer(inbox *notify.InboxSink, settings *notify.SettingsStore) *Server {
	return &Server{inbox: inbox, settings: settings}
}

func (s *Server) List(ctx context.Context, req *notifyv1.ListRequest) (*notifyv1.ListResponse, error) {
	if req.UserID == "" {
		return nil, apperr.Invalid("user_id", "is required")
	}
	list := s.inbox.List(ctx, req.UserID, notify.Filter{
		Type:       notify.EventType(req.Type),
		UnreadOnly: req.UnreadOnly,
	})
	out := make([]notifyv1.Notification, 0, len(list))
	for _, n := range list {
		out = append(out, toWire(n))
	}
	return &notifyv1.ListResponse{
		Notifications: out,
		UnreadCount:   s.inbox.UnreadCount(ctx, req.UserID),
	}, nil
}

func (s *Server) MarkRead(ctx context.Context, req *notifyv1.MarkReadRequest) (*notifyv1.NotificationResponse, error) {
	n, err := s.inbox.MarkRead(ctx, req.UserID, req.ID)
	if err != nil {
		return nil, err
	}
	return &notifyv1.NotificationResponse{Notification: toWire(n)}, nil
}

func (s *Server) MarkAllRead(ctx context.Context, req *notifyv1.UserRequest) (*notifyv1.MarkAllReadResponse, error) {
	if req.UserID == "" {
		return nil, apperr.Invalid("user_id", "is required")
	}
	return &notifyv1.MarkAllReadResponse{Updated: s.inbox.MarkAllRead(ctx, req.UserID)}, nil
}

func (s *Server) Delete(ctx context.Context, req *notifyv1.DeleteRequest) (*notifyv1.Empty, error) {
	if err := s.inbox.Delete(ctx, req.UserID, req.ID); err != nil {
		return nil, err
	}
	return &notifyv1.Empty{}, nil
}

func (s *Server) GetSettings(ctx context.Context, req *notifyv1.UserRequest) (*notifyv1.SettingsResponse, error) {
	if req.UserID == "" {
		return nil, apperr.Invalid("user_id", "is required")
	}
	return settingsResponse(s.settings.Get(ctx, req.UserID)), nil
}

func (s *Server) UpdateSettings(ctx context.Context, req *notifyv1.UpdateSettingsRequest) (*notifyv1.SettingsResponse, error) {
	updated, err := s.settings.Update(ctx, req.UserID, req.Channels)
	if err != nil {
		return nil, err
	}
	return settingsResponse(updated), nil
}

func settingsResponse(st notify.Settings) *notifyv1.SettingsResponse {
	out := make(map[string]bool, len(st))
	for c, on := range st {
		out[string(c)] = on
	}
	return &notifyv1.SettingsResponse{Channels: out}
}

func toWire(n notify.Notification) notifyv1.Notification {
	return notifyv1.Notification{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Content:   n.Content,
		Payload:   n.Payload,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
