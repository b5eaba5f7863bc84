// Package couponv1 describes the CouponService wire contract.
package couponv1

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/dwikikusuma/digimall/pkg/rpc"
)

const ServiceName = "digimall.coupon.v1.CouponService"

type Coupon struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	MaxDiscount decimal.Decimal `json:"max_discount"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	TotalCount  int             `json:"total_count"`
	UsedCount   int             `json:"used_count"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
}

type UserCoupon struct {
	ID         string     `json:"id"`
	CouponID   string     `json:"coupon_id"`
	Status     string     `json:"status"`
	ReceivedAt time.Time  `json:"received_at"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	OrderID    string     `json:"order_id,omitempty"`
	Coupon     Coupon     `json:"coupon"`
}

type CreateCouponRequest struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	MaxDiscount decimal.Decimal `json:"max_discount"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	TotalCount  int             `json:"total_count"`
	Description string          `json:"description,omitempty"`
}

type CouponResponse struct {
	Coupon Coupon `json:"coupon"`
}

type ListAvailableRequest struct{}

type ListCouponsResponse struct {
	Coupons []Coupon `json:"coupons"`
}

type ClaimRequest struct {
	UserID   string `json:"user_id"`
	CouponID string `json:"coupon_id"`
}

type UserCouponResponse struct {
	UserCoupon UserCoupon `json:"user_coupon"`
}

type ListUserCouponsRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status,omitempty"`
}

type ListUserCouponsResponse struct {
	UserCoupons []UserCoupon `json:"user_coupons"`
}

type CouponServiceServer interface {
	CreateCoupon(context.Context, *CreateCouponRequest) (*CouponResponse, error)
	ListAvailable(context.Context, *ListAvailableRequest) (*ListCouponsResponse, error)
	Claim(context.Context, *ClaimRequest) (*UserCouponResponse, error)
	ListUserCoupons(context.Context, *ListUserCouponsRequest) (*ListUserCouponsResponse, error)
}

func RegisterCouponServiceServer(s grpc.ServiceRegistrar, srv CouponServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*CouponServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			rpc.Unary(ServiceName, "CreateCoupon", CouponServiceServer.CreateCoupon),
			rpc.Unary(ServiceName, "ListAvailable", CouponServiceServer.ListAvailable),
			rpc.Unary(ServiceName, "Claim", CouponServiceServer.Claim),
			rpc.Unary(ServiceName, "ListUserCoupons", CouponServiceServer.ListUserCoupons),
		},
		Metadata: "digimall/coupon/v1",
	}, srv)
}

type CouponServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCouponServiceClient(cc grpc.ClientConnInterface) *CouponServiceClient {
	return &CouponServiceClient{cc: cc}
}

func (c *CouponServiceClient) CreateCoupon(ctx context.Context, in *CreateCouponRequest) (*CouponResponse, error) {
	return rpc.Invoke[CouponResponse](ctx, c.cc, ServiceName, "CreateCoupon", in)
}

func (c *CouponServiceClient) ListAvailable(ctx context.Context, in *ListAvailableRequest) (*ListCouponsResponse, error) {
	return rpc.Invoke[ListCouponsResponse](ctx, c.cc, ServiceName, "ListAvailable", in)
}

func (c *CouponServiceClient) Claim(ctx context.Context, in *ClaimRequest) (*UserCouponResponse, error) {
	return rpc.Invoke[UserCouponResponse](ctx, c.cc, ServiceName, "Claim", in)
}

func (c *CouponServiceClient) ListUserCoupons(ctx context.Context, in *ListUserCouponsRequest) (*ListUserCouponsResponse, error) {
	return rpc.Invoke[ListUserCouponsResponse](ctx, c.cc, ServiceName, "ListUserCoupons", in)
}
