package grpc

import (
	"context"

	couponv1 "github.com/dwikikusuma/digimall/api/coupon/v1"
	"github.com/dwikikusuma/digimall/internal/coupon/app"
	"github.com/dwikikusuma/digimall/internal/coupon/domain"
)

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateCoupon(ctx context.Context, req *couponv1.CreateCouponRequest) (*couponv1.CouponResponse, error) {
	c, err := s.svc.CreateCoupon(ctx, app.NewCoupon{
		Name:        req.Name,
		Type:        domain.Type(req.Type),
		Value:       req.Value,
		MinAmount:   req.MinAmount,
		MaxDiscount: req.MaxDiscount,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		TotalCount:  req.TotalCount,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	return &couponv1.CouponResponse{Coupon: couponToWire(c)}, nil
}

func (s *Server) ListAvailable(ctx context.Context, _ *couponv1.ListAvailableRequest) (*couponv1.ListCouponsResponse, error) {
	coupons, err := s.svc.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]couponv1.Coupon, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, couponToWire(c))
	}
	return &couponv1.ListCouponsResponse{Coupons: out}, nil
}

func (s *Server) Claim(ctx context.Context, req *couponv1.ClaimRequest) (*couponv1.UserCouponResponse, error) {
	claimed, err := s.svc.Claim(ctx, req.UserID, req.CouponID)
	if err != nil {
		return nil, err
	}
	return &couponv1.UserCouponResponse{UserCoupon: claimedToWire(claimed)}, nil
}

func (s *Server) ListUserCoupons(ctx context.Context, req *couponv1.ListUserCouponsRequest) (*couponv1.ListUserCouponsResponse, error) {
	claims, err := s.svc.ListUserCoupons(ctx, req.UserID, domain.UserCouponStatus(req.Status))
	if err != nil {
		return nil, err
	}
	out := make([]couponv1.UserCoupon, 0, len(claims))
	for _, c := range claims {
		out = append(out, claimedToWire(c))
	}
	return &couponv1.ListUserCouponsResponse{UserCoupons: out}, nil
}

func couponToWire(c domain.Coupon) couponv1.Coupon {
	return couponv1.Coupon{
		ID:          c.ID,
		Name:        c.Name,
		Type:        string(c.Type),
		Value:       c.Value,
		MinAmount:   c.MinAmount,
		MaxDiscount: c.MaxDiscount,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		TotalCount:  c.TotalCount,
		UsedCount:   c.UsedCount,
		Status:      string(c.Status),
		Description: c.Description,
	}
}

func claimedToWire(c domain.Claimed) couponv1.UserCoupon {
	return couponv1.UserCoupon{
		ID:         c.UserCoupon.ID,
		CouponID:   c.UserCoupon.CouponID,
		Status:     string(c.UserCoupon.Status),
		ReceivedAt: c.UserCoupon.ReceivedAt,
		UsedAt:     c.UserCoupon.UsedAt,
		OrderID:    c.UserCoupon.OrderID,
		Coupon:     couponToWire(c.Coupon),
	}
}
