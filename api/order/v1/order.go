// Package orderv1 describes the OrderService wire contract.
package orderv1

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/dwikikusuma/digimall/pkg/rpc"
)

const ServiceName = "digimall.order.v1.OrderService"

type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Province   string `json:"province"`
	City       string `json:"city"`
	District   string `json:"district"`
	Detail     string `json:"detail"`
	PostalCode string `json:"postal_code,omitempty"`
}

type LineItem struct {
	ID           string            `json:"id"`
	ProductID    string            `json:"product_id"`
	ProductName  string            `json:"product_name"`
	ProductPrice decimal.Decimal   `json:"product_price"`
	Quantity     int               `json:"quantity"`
	Specs        map[string]string `json:"specs,omitempty"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
}

type Order struct {
	ID              string          `json:"id"`
	OrderNo         string          `json:"order_no"`
	UserID          string          `json:"user_id"`
	Items           []LineItem      `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	PayAmount       decimal.Decimal `json:"pay_amount"`
	UserCouponID    string          `json:"user_coupon_id,omitempty"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentID       string          `json:"payment_id,omitempty"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	ShippingAddress Address         `json:"shipping_address"`
	Remark          string          `json:"remark,omitempty"`
	ShippingCompany string          `json:"shipping_company,omitempty"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`
	RefundReason    string          `json:"refund_reason,omitempty"`
	RefundStatus    string          `json:"refund_status,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	RefundedAt      *time.Time      `json:"refunded_at,omitempty"`
}

type OrderResponse struct {
	Order Order `json:"order"`
}

type CreateOrderRequest struct {
	UserID          string   `json:"user_id"`
	CartLineIDs     []string `json:"cart_line_ids"`
	ShippingAddress Address  `json:"shipping_address"`
	PaymentMethod   string   `json:"payment_method"`
	Remark          string   `json:"remark,omitempty"`
	UserCouponID    string   `json:"user_coupon_id,omitempty"`
}

// OrderRef addresses one order. An empty UserID is only accepted from
// internal callers and skips the ownership check.
type OrderRef struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id,omitempty"`
}

type ListOrdersRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status,omitempty"`
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	Pages  int     `json:"pages"`
}

type Payment struct {
	PaymentID    string          `json:"payment_id"`
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	QRCode       string          `json:"qr_code,omitempty"`
	RedirectURL  string          `json:"redirect_url,omitempty"`
	ClientSecret string          `json:"client_secret,omitempty"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

type PaymentResponse struct {
	Payment Payment `json:"payment"`
}

type PaymentCallbackRequest struct {
	Method string            `json:"method"`
	Fields map[string]string `json:"fields"`
}

type ShipRequest struct {
	OrderID     string `json:"order_id"`
	CompanyCode string `json:"company_code"`
}

type Trace struct {
	Time        time.Time `json:"time"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
}

type Tracking struct {
	TrackingNumber    string    `json:"tracking_number"`
	CompanyCode       string    `json:"company_code"`
	CompanyName       string    `json:"company_name"`
	Status            string    `json:"status"`
	CurrentLocation   string    `json:"current_location"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	Traces            []Trace   `json:"traces"`
}

type TrackingResponse struct {
	Tracking Tracking `json:"tracking"`
}

type LogisticsUpdateRequest struct {
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
}

type RefundRequest struct {
	OrderID string          `json:"order_id"`
	UserID  string          `json:"user_id,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
}

type TransitionRequest struct {
	OrderID       string          `json:"order_id"`
	Event         string          `json:"event"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CompanyCode   string          `json:"company_code,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason,omitempty"`
}

type ListOptionsRequest struct{}

type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ListOptionsResponse struct {
	Options []Option `json:"options"`
}

type OrderServiceServer interface {
	CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error)
	GetOrder(context.Context, *OrderRef) (*OrderResponse, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	Cancel(context.Context, *OrderRef) (*OrderResponse, error)
	StartPayment(context.Context, *OrderRef) (*PaymentResponse, error)
	SyncPayment(context.Context, *OrderRef) (*OrderResponse, error)
	PaymentCallback(context.Context, *PaymentCallbackRequest) (*OrderResponse, error)
	Ship(context.Context, *ShipRequest) (*OrderResponse, error)
	Track(context.Context, *OrderRef) (*TrackingResponse, error)
	LogisticsUpdate(context.Context, *LogisticsUpdateRequest) (*OrderResponse, error)
	RequestRefund(context.Context, *RefundRequest) (*OrderResponse, error)
	Transition(context.Context, *TransitionRequest) (*OrderResponse, error)
	ListPaymentMethods(context.Context, *ListOptionsRequest) (*ListOptionsResponse, error)
	ListCarriers(context.Context, *ListOptionsRequest) (*ListOptionsResponse, error)
}

func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*OrderServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			rpc.Unary(ServiceName, "CreateOrder", OrderServiceServer.CreateOrder),
			rpc.Unary(ServiceName, "GetOrder", OrderServiceServer.GetOrder),
			rpc.Unary(ServiceName, "ListOrders", OrderServiceServer.ListOrders),
			rpc.Unary(ServiceName, "Cancel", OrderServiceServer.Cancel),
			rpc.Unary(ServiceName, "StartPayment", OrderServiceServer.StartPayment),
			rpc.Unary(ServiceName, "SyncPayment", OrderServiceServer.SyncPayment),
			rpc.Unary(ServiceName, "PaymentCallback", OrderServiceServer.PaymentCallback),
			rpc.Unary(ServiceName, "Ship", OrderServiceServer.Ship),
			rpc.Unary(ServiceName, "Track", OrderServiceServer.Track),
			rpc.Unary(ServiceName, "LogisticsUpdate", OrderServiceServer.LogisticsUpdate),
			rpc.Unary(ServiceName, "RequestRefund", OrderServiceServer.RequestRefund),
			rpc.Unary(ServiceName, "Transition", OrderServiceServer.Transition),
			rpc.Unary(ServiceName, "ListPaymentMethods", OrderServiceServer.ListPaymentMethods),
			rpc.Unary(ServiceName, "ListCarriers", OrderServiceServer.ListCarriers),
		},
		Metadata: "digimall/order/v1",
	}, srv)
}

type OrderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderServiceClient(cc grpc.ClientConnInterface) *OrderServiceClient {
	return &OrderServiceClient{cc: cc}
}

func (c *OrderServiceClient) CreateOrder(ctx context.Context, in *CreateOrderRequest) (*OrderResponse, error) {
	return rpc.Invoke[OrderResponse](ctx, c.cc, ServiceName, "CreateOrder", in)
}

func (c *OrderServiceClient) GetOrder(ctx context.Context, in *OrderRef) (*OrderResponse, error) {
	return rpc.Invoke[OrderResponse](ctx, c.cc, ServiceName, "GetOrder", in)
}

func (c *OrderServiceClient) ListOrders(ctx context.Context, in *ListOrdersRequest) (*ListOrdersResponse, error) {
	return rpc.Invoke[ListOrdersResponse](ctx, c.cc, ServiceName, "ListOrders", in)
}

func (c *OrderServiceClient) Cancel(ctx context.Context, in *OrderRef) (*OrderResponse, error) {
	return rpc.Invoke[OrderResponse](ctx, c.cc, ServiceName, "Cancel", in)
}

func (c *OrderServiceClient) StartPayment(ctx context.Context, in *OrderRef) (*PaymentResponse, error) {
	return rpc.Invoke[PaymentResponse](ctx, c.cc, ServiceName, "StartPayment", in)
}

func (c *OrderServiceClient) SyncPayment(ctx context.Context, in *OrderRef) (*OrderResponse, error) {
	return rpc.Invoke[OrderResponse](ctx, c.cc, ServiceName, "SyncPayment", in)
}

func (c *OrderServiceClient) PaymentCallback(ctx context.Context, in *PaymentCallbackRequest) (*OrderResponse, error) {
	return rpc.Invoke[OrderResponse](ctx, c.cc, ServiceName, "PaymentCallback", in)
}

func (c *OrderServiceClient) Ship(ctx context.Context, in *ShipRequest) (*OrderResponse, error) {
	return rpc.Invoke[OrderResponse](ctx, c.cc, ServiceName, "Ship", in)
}

func (c *OrderServiceClient) Track(ctx context.Context, in *OrderRef) (*TrackingResponse, error) {
	return rpc.Invoke[TrackingResponse](ctx, c.cc, ServiceName, "Track", in)
}

func (c *OrderServiceClient) LogisticsUpdate(ctx context.Context, in *LogisticsUpdateRequest) (*OrderResponse, error) {
	return rpc.Invoke[OrderResponse](ctx, c.cc, ServiceName, "LogisticsUpdate", in)
}

func (c *OrderServiceClient) RequestRefund(ctx context.Context, in *RefundRequest) (*OrderResponse, error) {
	return rpc.Invoke[OrderResponse](ctx, c.cc, ServiceName, "RequestRefund", in)
}

func (c *OrderServiceClient) Transition(ctx context.Context, in *TransitionRequest) (*OrderResponse, error) {
	return rpc.Invoke[OrderResponse](ctx, c.cc, ServiceName, "Transition", in)
}

func (c *OrderServiceClient) ListPaymentMethods(ctx context.Context, in *ListOptionsRequest) (*ListOptionsResponse, error) {
	return rpc.Invoke[ListOptionsResponse](ctx, c.cc, ServiceName, "ListPaymentMethods", in)
}

func (c *OrderServiceClient) ListCarriers(ctx context.Context, in *ListOptionsRequest) (*ListOptionsResponse, error) {
	return rpc.Invoke[ListOptionsResponse](ctx, c.cc, ServiceName, "ListCarriers", in)
}
