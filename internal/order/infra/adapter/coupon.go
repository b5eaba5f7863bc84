package adapter

import (
	"context"

	checkoutdomain "github.com/dwikikusuma/digimall/internal/checkout/domain"
	couponapp "github.com/dwikikusuma/digimall/internal/coupon/app"
	orderapp "github.com/dwikikusuma/digimall/internal/order/app"
)

type CouponEvaluator struct {
	svc *couponapp.Service
}

func NewCouponEvaluator(svc *couponapp.Service) *CouponEvaluator {
	return &CouponEvaluator{svc: svc}
}

func (a *CouponEvaluator) Apply(ctx context.Context, draft checkoutdomain.OrderDraft, userCouponID string) (orderapp.Discount, error) {
	d, err := a.svc.Apply(ctx, draft, userCouponID)
	if err != nil {
		return orderapp.Discount{}, err
	}
	return orderapp.Discount{Amount: d.Discount, Payable: d.Payable}, nil
}

func (a *CouponEvaluator) Redeem(ctx context.Context, userCouponID, orderID string) error {
	return a.svc.Redeem(ctx, userCouponID, orderID)
}

func (a *CouponEvaluator) Restore(ctx context.Context, userCouponID string) error {
	return a.svc.Restore(ctx, userCouponID)
}
