package app

import (
	"context"
	"time"

	"github.com/dwikikusuma/digimall/internal/coupon/domain"
	"github.com/dwikikusuma/digimall/internal/notify"
)

type CouponRepo interface {
	CreateCoupon(ctx context.Context, c domain.Coupon) (domain.Coupon, error)
	GetCoupon(ctx context.Context, id string) (domain.Coupon, error)
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)

	// CreateUserCoupon fails with ErrAlreadyClaimed when the user already
	// holds a claim on the same coupon.
	CreateUserCoupon(ctx context.Context, uc domain.UserCoupon) (domain.UserCoupon, error)
	GetUserCoupon(ctx context.Context, id string) (domain.UserCoupon, error)
	ListUserCoupons(ctx context.Context, userID string) ([]domain.UserCoupon, error)
	ExpireUserCoupons(ctx context.Context, ids []string) error

	// Redeem marks an unused claim as used by orderID and increments the
	// coupon's used count in one step.
	Redeem(ctx context.Context, userCouponID, orderID string, at time.Time) error
	// Restore undoes Redeem. Restoring an unused claim is a no-op.
	Restore(ctx context.Context, userCouponID string) error
}

type Notifier interface {
	Notify(ctx context.Context, typ notify.EventType, userID string, payload map[string]any)
}
