// Package cartv1 describes the CartService wire contract.
package cartv1

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/dwikikusuma/digimall/pkg/rpc"
)

const ServiceName = "digimall.cart.v1.CartService"

type CartLine struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Specs     map[string]string `json:"specs,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type Cart struct {
	UserID        string     `json:"user_id"`
	Lines         []CartLine `json:"lines"`
	TotalQuantity int        `json:"total_quantity"`
}

type GetCartRequest struct {
	UserID string `json:"user_id"`
}

type CartResponse struct {
	Cart Cart `json:"cart"`
}

type AddItemRequest struct {
	UserID    string            `json:"user_id"`
	ProductID string            `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Specs     map[string]string `json:"specs,omitempty"`
}

type LineResponse struct {
	Line CartLine `json:"line"`
}

type UpdateQuantityRequest struct {
	UserID   string `json:"user_id"`
	LineID   string `json:"line_id"`
	Quantity int    `json:"quantity"`
}

type RemoveItemRequest struct {
	UserID string `json:"user_id"`
	LineID string `json:"line_id"`
}

type ClearRequest struct {
	UserID string `json:"user_id"`
}

type Empty struct{}

type CartServiceServer interface {
	GetCart(context.Context, *GetCartRequest) (*CartResponse, error)
	AddItem(context.Context, *AddItemRequest) (*LineResponse, error)
	UpdateQuantity(context.Context, *UpdateQuantityRequest) (*LineResponse, error)
	RemoveItem(context.Context, *RemoveItemRequest) (*Empty, error)
	Clear(context.Context, *ClearRequest) (*Empty, error)
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*CartServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			rpc.Unary(ServiceName, "GetCart", CartServiceServer.GetCart),
			rpc.Unary(ServiceName, "AddItem", CartServiceServer.AddItem),
			rpc.Unary(ServiceName, "UpdateQuantity", CartServiceServer.UpdateQuantity),
			rpc.Unary(ServiceName, "RemoveItem", CartServiceServer.RemoveItem),
			rpc.Unary(ServiceName, "Clear", CartServiceServer.Clear),
		},
		Metadata: "digimall/cart/v1",
	}, srv)
}

type CartServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCartServiceClient(cc grpc.ClientConnInterface) *CartServiceClient {
	return &CartServiceClient{cc: cc}
}

func (c *CartServiceClient) GetCart(ctx context.Context, in *GetCartRequest) (*CartResponse, error) {
	return rpc.Invoke[CartResponse](ctx, c.cc, ServiceName, "GetCart", in)
}

func (c *CartServiceClient) AddItem(ctx context.Context, in *AddItemRequest) (*LineResponse, error) {
	return rpc.Invoke[LineResponse](ctx, c.cc, ServiceName, "AddItem", in)
}

func (c *CartServiceClient) UpdateQuantity(ctx context.Context, in *UpdateQuantityRequest) (*LineResponse, error) {
	return rpc.Invoke[LineResponse](ctx, c.cc, ServiceName, "UpdateQuantity", in)
}

func (c *CartServiceClient) RemoveItem(ctx context.Context, in *RemoveItemRequest) (*Empty, error) {
	return rpc.Invoke[Empty](ctx, c.cc, ServiceName, "RemoveItem", in)
}

func (c *CartServiceClient) Clear(ctx context.Context, in *ClearRequest) (*Empty, error) {
	return rpc.Invoke[Empty](ctx, c.cc, ServiceName, "Clear", in)
}
