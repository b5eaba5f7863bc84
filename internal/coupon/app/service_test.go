package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkoutdomain "github.com/dwikikusuma/digimall/internal/checkout/domain"
	"github.com/dwikikusuma/digimall/internal/coupon/app"
	"github.com/dwikikusuma/digimall/internal/coupon/domain"
	"github.com/dwikikusuma/digimall/internal/coupon/infra/memory"
	"github.com/dwikikusuma/digimall/internal/notify"
)

type recordingNotifier struct {
	types []notify.EventType
}

func (r *recordingNotifier) Notify(ctx context.Context, typ notify.EventType, userID string, payload map[string]any) {
	r.types = append(r.types, typ)
}

var july = time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *app.Service
	notifier *recordingNotifier
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{notifier: &recordingNotifier{}, now: july}
	f.svc = app.NewService(memory.NewCouponRepo(), f.notifier, nil, func() time.Time { return f.now })
	return f
}

func (f *fixture) coupon(t *testing.T, typ domain.Type, value, minAmount, maxDiscount string, total int) domain.Coupon {
	t.Helper()
	c, err := f.svc.CreateCoupon(context.Background(), app.NewCoupon{
		Name:        "promo",
		Type:        typ,
		Value:       decimal.RequireFromString(value),
		MinAmount:   decimal.RequireFromString(minAmount),
		MaxDiscount: decimal.RequireFromString(maxDiscount),
		StartTime:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		TotalCount:  total,
	})
	require.NoError(t, err)
	return c
}

func draft(userID, total string) checkoutdomain.OrderDraft {
	return checkoutdomain.OrderDraft{UserID: userID, Total: decimal.RequireFromString(total)}
}

func TestClaimOncePerUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.coupon(t, domain.TypePercentage, "0.9", "100", "50", 10)

	claimed, err := f.svc.Claim(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserCouponUnused, claimed.Status)
	assert.Equal(t, []notify.EventType{notify.CouponReceived}, f.notifier.types)

	_, err = f.svc.Claim(ctx, "u1", c.ID)
	assert.ErrorIs(t, err, app.ErrAlreadyClaimed)

	_, err = f.svc.Claim(ctx, "u2", c.ID)
	assert.NoError(t, err)
}

func TestClaimOutsideWindow(t *testing.T) {
	f := newFixture(t)
	c := f.coupon(t, domain.TypeFixedAmount, "50", "299", "50", 10)

	f.now = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.Claim(context.Background(), "u1", c.ID)
	assert.ErrorIs(t, err, app.ErrCouponNotActive)
}

func TestApplyPercentage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.coupon(t, domain.TypePercentage, "0.9", "100", "50", 10)
	claimed, err := f.svc.Claim(ctx, "u1", c.ID)
	require.NoError(t, err)

	got, err := f.svc.Apply(ctx, draft("u1", "200.00"), claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.Discount.StringFixed(2))
	assert.Equal(t, "180.00", got.Payable.StringFixed(2))

	got, err = f.svc.Apply(ctx, draft("u1", "1000.00"), claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, "950.00", got.Payable.StringFixed(2))

	_, err = f.svc.Apply(ctx, draft("u1", "99.99"), claimed.ID)
	assert.ErrorIs(t, err, app.ErrMinSpendNotMet)

	_, err = f.svc.Apply(ctx, draft("u2", "200.00"), claimed.ID)
	assert.ErrorIs(t, err, app.ErrCouponNotFound)
}

func TestRedeemAndRestore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.coupon(t, domain.TypeFixedAmount, "50", "0", "0", 1)
	a, err := f.svc.Claim(ctx, "u1", c.ID)
	require.NoError(t, err)
	b, err := f.svc.Claim(ctx, "u2", c.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Redeem(ctx, a.ID, "order-1"))
	assert.ErrorIs(t, f.svc.Redeem(ctx, a.ID, "order-2"), app.ErrAlreadyUsed)

	_, err = f.svc.Apply(ctx, draft("u1", "100"), a.ID)
	assert.ErrorIs(t, err, app.ErrAlreadyUsed)

	_, err = f.svc.Apply(ctx, draft("u2", "100"), b.ID)
	assert.ErrorIs(t, err, app.ErrCouponExhausted)
	assert.ErrorIs(t, f.svc.Redeem(ctx, b.ID, "order-3"), app.ErrCouponExhausted)

	require.NoError(t, f.svc.Restore(ctx, a.ID))
	require.NoError(t, f.svc.Restore(ctx, a.ID))
	require.NoError(t, f.svc.Redeem(ctx, b.ID, "order-3"))
}

func TestListUserCouponsExpiresLazily(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.coupon(t, domain.TypeFixedAmount, "10", "0", "0", 5)
	claimed, err := f.svc.Claim(ctx, "u1", c.ID)
	require.NoError(t, err)

	f.now = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	list, err := f.svc.ListUserCoupons(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.UserCouponExpired, list[0].Status)

	unused, err := f.svc.ListUserCoupons(ctx, "u1", domain.UserCouponUnused)
	require.NoError(t, err)
	assert.Empty(t, unused)

	f.now = july
	_, err = f.svc.Apply(ctx, draft("u1", "100"), claimed.ID)
	assert.ErrorIs(t, err, app.ErrCouponNotActive)
}

func TestListAvailableSkipsExhausted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	open := f.coupon(t, domain.TypeFixedAmount, "10", "0", "0", 5)
	full := f.coupon(t, domain.TypeFixedAmount, "10", "0", "0", 1)
	claimed, err := f.svc.Claim(ctx, "u1", full.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Redeem(ctx, claimed.ID, "o1"))

	list, err := f.svc.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)
}

func TestCreateCouponValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateCoupon(context.Background(), app.NewCoupon{
		Type:  domain.TypePercentage,
		Value: decimal.RequireFromString("1.5"),
	})
	require.Error(t, err)
}
