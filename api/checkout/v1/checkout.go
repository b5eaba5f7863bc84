// Package checkoutv1 describes the CheckoutService wire contract.
package checkoutv1

import (
	"context"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/dwikikusuma/digimall/pkg/rpc"
)

const ServiceName = "digimall.checkout.v1.CheckoutService"

type PreviewRequest struct {
	UserID       string   `json:"user_id"`
	CartLineIDs  []string `json:"cart_line_ids"`
	UserCouponID string   `json:"user_coupon_id,omitempty"`
}

type DraftLine struct {
	CartLineID  string            `json:"cart_line_id"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Quantity    int               `json:"quantity"`
	Specs       map[string]string `json:"specs,omitempty"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
}

type PreviewResponse struct {
	Lines          []DraftLine     `json:"lines"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	PayAmount      decimal.Decimal `json:"pay_amount"`
}

type CheckoutServiceServer interface {
	Preview(context.Context, *PreviewRequest) (*PreviewResponse, error)
}

func RegisterCheckoutServiceServer(s grpc.ServiceRegistrar, srv CheckoutServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*CheckoutServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			rpc.Unary(ServiceName, "Preview", CheckoutServiceServer.Preview),
		},
		Metadata: "digimall/checkout/v1",
	}, srv)
}

type CheckoutServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCheckoutServiceClient(cc grpc.ClientConnInterface) *CheckoutServiceClient {
	return &CheckoutServiceClient{cc: cc}
}

func (c *CheckoutServiceClient) Preview(ctx context.Context, in *PreviewRequest) (*PreviewResponse, error) {
	return rpc.Invoke[PreviewResponse](ctx, c.cc, ServiceName, "Preview", in)
}
