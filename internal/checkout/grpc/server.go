package grpc

import (
	"context"

	checkoutv1 "github.com/dwikikusuma/digimall/api/checkout/v1"
	"github.com/dwikikusuma/digimall/internal/checkout/domain"
	couponapp "github.com/dwikikusuma/digimall/internal/coupon/app"
)

type Resolver interface {
	Resolve(ctx context.Context, userID string, cartLineIDs []string) (domain.OrderDraft, error)
}

type CouponApplier interface {
	Apply(ctx context.Context, draft domain.OrderDraft, userCouponID string) (couponapp.DiscountedDraft, error)
}

type Server struct {
	resolver Resolver
	coupons  CouponApplier
}

func NewServer(resolver Resolver, coupons CouponApplier) *Server {
	return &Server{resolver: resolver, coupons: coupons}
}

// Preview prices the selected cart lines the way CreateOrder would, without
// reserving anything.
func (s *Server) Preview(ctx context.Context, req *checkoutv1.PreviewRequest) (*checkoutv1.PreviewResponse, error) {
	draft, err := s.resolver.Resolve(ctx, req.UserID, req.CartLineIDs)
	if err != nil {
		return nil, err
	}

	resp := &checkoutv1.PreviewResponse{
		Lines:       make([]checkoutv1.DraftLine, 0, len(draft.Lines)),
		TotalAmount: draft.Total,
		PayAmount:   draft.Total,
	}
	for _, ln := range draft.Lines {
		resp.Lines = append(resp.Lines, checkoutv1.DraftLine{
			CartLineID:  ln.CartLineID,
			ProductID:   ln.ProductID,
			ProductName: ln.ProductName,
			UnitPrice:   ln.UnitPrice,
			Quantity:    ln.Quantity,
			Specs:       ln.Specs,
			Subtotal:    ln.Subtotal,
		})
	}

	if req.UserCouponID != "" {
		d, err := s.coupons.Apply(ctx, draft, req.UserCouponID)
		if err != nil {
			return nil, err
		}
		resp.DiscountAmount = d.Discount
		resp.PayAmount = d.Payable
	}
	return resp, nil
}
