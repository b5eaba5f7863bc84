// Package notifyv1 describes the NotificationService wire contract.
package notifyv1

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/dwikikusuma/digimall/pkg/rpc"
)

const ServiceName = "digimall.notify.v1.NotificationService"

type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload,omitempty"`
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type ListRequest struct {
	UserID     string `json:"user_id"`
	Type       string `json:"type,omitempty"`
	UnreadOnly bool   `json:"unread_only,omitempty"`
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

type MarkReadRequest struct {
	UserID string `json:"user_id"`
	ID     string `json:"id"`
}

type NotificationResponse struct {
	Notification Notification `json:"notification"`
}

type UserRequest struct {
	UserID string `json:"user_id"`
}

type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

type DeleteRequest struct {
	UserID string `json:"user_id"`
	ID     string `json:"id"`
}

type Empty struct{}

// SettingsResponse maps channel names (in_app, sms, email, push) to on/off.
type SettingsResponse struct {
	Channels map[string]bool `json:"channels"`
}

type UpdateSettingsRequest struct {
	UserID   string          `json:"user_id"`
	Channels map[string]bool `json:"channels"`
}

type NotificationServiceServer interface {
	List(context.Context, *ListRequest) (*ListResponse, error)
	MarkRead(context.Context, *MarkReadRequest) (*NotificationResponse, error)
	MarkAllRead(context.Context, *UserRequest) (*MarkAllReadResponse, error)
	Delete(context.Context, *DeleteRequest) (*Empty, error)
	GetSettings(context.Context, *UserRequest) (*SettingsResponse, error)
	UpdateSettings(context.Context, *UpdateSettingsRequest) (*SettingsResponse, error)
}

func RegisterNotificationServiceServer(s grpc.ServiceRegistrar, srv NotificationServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*NotificationServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			rpc.Unary(ServiceName, "List", NotificationServiceServer.List),
			rpc.Unary(ServiceName, "MarkRead", NotificationServiceServer.MarkRead),
			rpc.Unary(ServiceName, "MarkAllRead", NotificationServiceServer.MarkAllRead),
			rpc.Unary(ServiceName, "Delete", NotificationServiceServer.Delete),
			rpc.Unary(ServiceName, "GetSettings", NotificationServiceServer.GetSettings),
			rpc.Unary(ServiceName, "UpdateSettings", NotificationServiceServer.UpdateSettings),
		},
		Metadata: "digimall/notify/v1",
	}, srv)
}

type NotificationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNotificationServiceClient(cc grpc.ClientConnInterface) *NotificationServiceClient {
	return &NotificationServiceClient{cc: cc}
}

func (c *NotificationServiceClient) List(ctx context.Context, in *ListRequest) (*ListResponse, error) {
	return rpc.Invoke[ListResponse](ctx, c.cc, ServiceName, "List", in)
}

func (c *NotificationServiceClient) MarkRead(ctx context.Context, in *MarkReadRequest) (*NotificationResponse, error) {
	return rpc.Invoke[NotificationResponse](ctx, c.cc, ServiceName, "MarkRead", in)
}

func (c *NotificationServiceClient) MarkAllRead(ctx context.Context, in *UserRequest) (*MarkAllReadResponse, error) {
	return rpc.Invoke[MarkAllReadResponse](ctx, c.cc, ServiceName, "MarkAllRead", in)
}

func (c *NotificationServiceClient) Delete(ctx context.Context, in *DeleteRequest) (*Empty, error) {
	return rpc.Invoke[Empty](ctx, c.cc, ServiceName, "Delete", in)
}

func (c *NotificationServiceClient) GetSettings(ctx context.Context, in *UserRequest) (*SettingsResponse, error) {
	return rpc.Invoke[SettingsResponse](ctx, c.cc, ServiceName, "GetSettings", in)
}

func (c *NotificationServiceClient) UpdateSettings(ctx context.Context, in *UpdateSettingsRequest) (*SettingsResponse, error) {
	return rpc.Invoke[SettingsResponse](ctx, c.cc, ServiceName, "UpdateSettings", in)
}
