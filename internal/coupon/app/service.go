package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	checkoutdomain "github.com/dwikikusuma/digimall/internal/checkout/domain"
	"github.com/dwikikusuma/digimall/internal/coupon/domain"
	"github.com/dwikikusuma/digimall/internal/notify"
	"github.com/dwikikusuma/digimall/pkg/apperr"
	"github.com/dwikikusuma/digimall/pkg/logger"
)

var (
	ErrCouponNotFound  = apperr.NotFound("COUPON_NOT_FOUND", "coupon not found")
	ErrAlreadyClaimed  = apperr.Conflict("COUPON_ALREADY_CLAIMED", "coupon already claimed")
	ErrAlreadyUsed     = apperr.Conflict("COUPON_ALREADY_USED", "coupon already used")
	ErrCouponNotActive = apperr.Conflict("COUPON_NOT_ACTIVE", "coupon is not active")
	ErrCouponExhausted = apperr.Conflict("COUPON_EXHAUSTED", "coupon has run out")
	ErrMinSpendNotMet  = apperr.New(apperr.KindValidation, "MIN_SPEND_NOT_MET", "order total is below the coupon minimum")
)

// DiscountedDraft is an order draft with one coupon applied.
type DiscountedDraft struct {
	Draft        checkoutdomain.OrderDraft
	UserCouponID string
	CouponID     string
	Discount     decimal.Decimal
	Payable      decimal.Decimal
}

type Service struct {
	repo     CouponRepo
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo CouponRepo, notifier Notifier, log *slog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      logger.OrNop(log),
		now:      now,
	}
}

type NewCoupon struct {
	Name        string
	Type        domain.Type
	Value       decimal.Decimal
	MinAmount   decimal.Decimal
	MaxDiscount decimal.Decimal
	StartTime   time.Time
	EndTime     time.Time
	TotalCount  int
	Description string
}

func (s *Service) CreateCoupon(ctx context.Context, in NewCoupon) (domain.Coupon, error) {
	var v apperr.Validator
	v.Required(strings.TrimSpace(in.Name), "name")
	v.Check(in.Type.Valid(), "type", "must be percentage or fixed_amount")
	v.Check(in.Value.IsPositive(), "value", "must be > 0")
	if in.Type == domain.TypePercentage {
		v.Check(in.Value.LessThan(decimal.NewFromInt(1)), "value", "must be below 1 for percentage coupons")
	}
	v.Check(!in.MinAmount.IsNegative(), "min_amount", "must be >= 0")
	v.Check(!in.MaxDiscount.IsNegative(), "max_discount", "must be >= 0")
	v.Check(in.EndTime.After(in.StartTime), "end_time", "must be after start_time")
	v.Check(in.TotalCount >= 1, "total_count", "must be >= 1")
	if err := v.Err(); err != nil {
		return domain.Coupon{}, err
	}

	return s.repo.CreateCoupon(ctx, domain.Coupon{
		Name:        strings.TrimSpace(in.Name),
		Type:        in.Type,
		Value:       in.Value,
		MinAmount:   in.MinAmount,
		MaxDiscount: in.MaxDiscount,
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		TotalCount:  in.TotalCount,
		Status:      domain.StatusActive,
		Description: in.Description,
	})
}

// ListAvailable returns the coupons a user could claim right now.
func (s *Service) ListAvailable(ctx context.Context) ([]domain.Coupon, error) {
	all, err := s.repo.ListCoupons(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]domain.Coupon, 0, len(all))
	for _, c := range all {
		if c.ActiveAt(now) && !c.Exhausted() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) Claim(ctx context.Context, userID, couponID string) (domain.Claimed, error) {
	var v apperr.Validator
	v.Required(strings.TrimSpace(userID), "user_id")
	v.Required(strings.TrimSpace(couponID), "coupon_id")
	if err := v.Err(); err != nil {
		return domain.Claimed{}, err
	}

	c, err := s.repo.GetCoupon(ctx, couponID)
	if err != nil {
		return domain.Claimed{}, err
	}
	now := s.now()
	if !c.ActiveAt(now) {
		return domain.Claimed{}, ErrCouponNotActive
	}
	if c.Exhausted() {
		return domain.Claimed{}, ErrCouponExhausted
	}

	uc, err := s.repo.CreateUserCoupon(ctx, domain.UserCoupon{
		UserID:     userID,
		CouponID:   c.ID,
		Status:     domain.UserCouponUnused,
		ReceivedAt: now.UTC(),
	})
	if err != nil {
		return domain.Claimed{}, err
	}

	s.log.InfoContext(ctx, "coupon claimed", slog.String("user_id", userID), slog.String("coupon_id", c.ID))
	if s.notifier != nil {
		s.notifier.Notify(ctx, notify.CouponReceived, userID, map[string]any{
			"coupon_id":   c.ID,
			"coupon_name": c.Name,
		})
	}
	return domain.Claimed{UserCoupon: uc, Coupon: c}, nil
}

// ListUserCoupons returns a user's claims. Unused claims whose coupon has
// ended are marked expired on the way out.
func (s *Service) ListUserCoupons(ctx context.Context, userID string, status domain.UserCouponStatus) ([]domain.Claimed, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Invalid("user_id", "is required")
	}

	ucs, err := s.repo.ListUserCoupons(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var expired []string
	out := make([]domain.Claimed, 0, len(ucs))
	for _, uc := range ucs {
		c, err := s.repo.GetCoupon(ctx, uc.CouponID)
		if err != nil {
			return nil, err
		}
		if uc.Status == domain.UserCouponUnused && c.Expired(now) {
			uc.Status = domain.UserCouponExpired
			expired = append(expired, uc.ID)
		}
		if status != "" && uc.Status != status {
			continue
		}
		out = append(out, domain.Claimed{UserCoupon: uc, Coupon: c})
	}

	if len(expired) > 0 {
		if err := s.repo.ExpireUserCoupons(ctx, expired); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Apply evaluates a user's claimed coupon against draft without consuming it.
func (s *Service) Apply(ctx context.Context, draft checkoutdomain.OrderDraft, userCouponID string) (DiscountedDraft, error) {
	uc, err := s.repo.GetUserCoupon(ctx, userCouponID)
	if err != nil {
		return DiscountedDraft{}, err
	}
	if uc.UserID != draft.UserID {
		return DiscountedDraft{}, ErrCouponNotFound
	}
	switch uc.Status {
	case domain.UserCouponUsed:
		return DiscountedDraft{}, ErrAlreadyUsed
	case domain.UserCouponExpired:
		return DiscountedDraft{}, ErrCouponNotActive
	}

	c, err := s.repo.GetCoupon(ctx, uc.CouponID)
	if err != nil {
		return DiscountedDraft{}, err
	}
	if !c.ActiveAt(s.now()) {
		return DiscountedDraft{}, ErrCouponNotActive
	}
	if c.Exhausted() {
		return DiscountedDraft{}, ErrCouponExhausted
	}
	if draft.Total.LessThan(c.MinAmount) {
		return DiscountedDraft{}, ErrMinSpendNotMet.WithMessage("order total %s is below the minimum %s",
			draft.Total.StringFixed(2), c.MinAmount.StringFixed(2))
	}

	discount := c.Discount(draft.Total)
	payable := draft.Total.Sub(discount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}

	return DiscountedDraft{
		Draft:        draft,
		UserCouponID: uc.ID,
		CouponID:     c.ID,
		Discount:     discount,
		Payable:      payable.Round(2),
	}, nil
}

func (s *Service) Redeem(ctx context.Context, userCouponID, orderID string) error {
	return s.repo.Redeem(ctx, userCouponID, orderID, s.now().UTC())
}

func (s *Service) Restore(ctx context.Context, userCouponID string) error {
	return s.repo.Restore(ctx, userCouponID)
}
