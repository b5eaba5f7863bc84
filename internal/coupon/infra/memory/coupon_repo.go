package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/digimall/internal/coupon/app"
	"github.com/dwikikusuma/digimall/internal/coupon/domain"
)

type CouponRepo struct {
	mu          sync.Mutex
	coupons     map[string]domain.Coupon
	userCoupons map[string]domain.UserCoupon
	now         func() time.Time
}

func NewCouponRepo() *CouponRepo {
	return &CouponRepo{
		coupons:     make(map[string]domain.Coupon),
		userCoupons: make(map[string]domain.UserCoupon),
		now:         time.Now,
	}
}

func (r *CouponRepo) CreateCoupon(_ context.Context, c domain.Coupon) (domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now().UTC()
	}
	r.coupons[c.ID] = c
	return c, nil
}

func (r *CouponRepo) GetCoupon(_ context.Context, id string) (domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[id]
	if !ok {
		return domain.Coupon{}, app.ErrCouponNotFound
	}
	return c, nil
}

func (r *CouponRepo) ListCoupons(_ context.Context) ([]domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *CouponRepo) CreateUserCoupon(_ context.Context, uc domain.UserCoupon) (domain.UserCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.userCoupons {
		if existing.UserID == uc.UserID && existing.CouponID == uc.CouponID {
			return domain.UserCoupon{}, app.ErrAlreadyClaimed
		}
	}
	if uc.ID == "" {
		uc.ID = uuid.NewString()
	}
	r.userCoupons[uc.ID] = uc
	return uc, nil
}

func (r *CouponRepo) GetUserCoupon(_ context.Context, id string) (domain.UserCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uc, ok := r.userCoupons[id]
	if !ok {
		return domain.UserCoupon{}, app.ErrCouponNotFound
	}
	return uc, nil
}

func (r *CouponRepo) ListUserCoupons(_ context.Context, userID string) ([]domain.UserCoupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.UserCoupon
	for _, uc := range r.userCoupons {
		if uc.UserID == userID {
			out = append(out, uc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return out, nil
}

func (r *CouponRepo) ExpireUserCoupons(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		uc, ok := r.userCoupons[id]
		if ok && uc.Status == domain.UserCouponUnused {
			uc.Status = domain.UserCouponExpired
			r.userCoupons[id] = uc
		}
	}
	return nil
}

func (r *CouponRepo) Redeem(_ context.Context, userCouponID, orderID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	uc, ok := r.userCoupons[userCouponID]
	if !ok {
		return app.ErrCouponNotFound
	}
	if uc.Status != domain.UserCouponUnused {
		return app.ErrAlreadyUsed
	}
	c, ok := r.coupons[uc.CouponID]
	if !ok {
		return app.ErrCouponNotFound
	}
	if c.Exhausted() {
		return app.ErrCouponExhausted
	}

	c.UsedCount++
	uc.Status = domain.UserCouponUsed
	uc.UsedAt = &at
	uc.OrderID = orderID
	r.coupons[c.ID] = c
	r.userCoupons[uc.ID] = uc
	return nil
}

func (r *CouponRepo) Restore(_ context.Context, userCouponID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	uc, ok := r.userCoupons[userCouponID]
	if !ok {
		return app.ErrCouponNotFound
	}
	if uc.Status != domain.UserCouponUsed {
		return nil
	}
	if c, ok := r.coupons[uc.CouponID]; ok && c.UsedCount > 0 {
		c.UsedCount--
		r.coupons[c.ID] = c
	}
	uc.Status = domain.UserCouponUnused
	uc.UsedAt = nil
	uc.OrderID = ""
	r.userCoupons[uc.ID] = uc
	return nil
}
