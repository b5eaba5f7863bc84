package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	// TypePercentage coupons carry the fraction the shopper pays, so 0.9
	// means ten percent off.
	TypePercentage  Type = "percentage"
	TypeFixedAmount Type = "fixed_amount"
)

func (t Type) Valid() bool { return t == TypePercentage || t == TypeFixedAmount }

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Coupon struct {
	ID          string
	Name        string
	Type        Type
	Value       decimal.Decimal
	MinAmount   decimal.Decimal
	MaxDiscount decimal.Decimal // zero means no cap
	StartTime   time.Time
	EndTime     time.Time
	TotalCount  int
	UsedCount   int
	Status      Status
	Description string
	CreatedAt   time.Time
}

// ActiveAt reports whether the coupon may be claimed or used at now.
func (c Coupon) ActiveAt(now time.Time) bool {
	return c.Status == StatusActive && !now.Before(c.StartTime) && !now.After(c.EndTime)
}

func (c Coupon) Exhausted() bool { return c.UsedCount >= c.TotalCount }

func (c Coupon) Expired(now time.Time) bool { return now.After(c.EndTime) }

// Discount is the amount taken off total, never more than total itself.
func (c Coupon) Discount(total decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch c.Type {
	case TypePercentage:
		d = total.Mul(decimal.NewFromInt(1).Sub(c.Value))
	case TypeFixedAmount:
		d = c.Value
	}
	if c.MaxDiscount.IsPositive() && d.GreaterThan(c.MaxDiscount) {
		d = c.MaxDiscount
	}
	if d.IsNegative() {
		d = decimal.Zero
	}
	if d.GreaterThan(total) {
		d = total
	}
	return d.Round(2)
}

type UserCouponStatus string

const (
	UserCouponUnused  UserCouponStatus = "unused"
	UserCouponUsed    UserCouponStatus = "used"
	UserCouponExpired UserCouponStatus = "expired"
)

type UserCoupon struct {
	ID         string
	UserID     string
	CouponID   string
	Status     UserCouponStatus
	ReceivedAt time.Time
	UsedAt     *time.Time
	OrderID    string
}

// Claimed pairs a user's claim with the coupon it points at.
type Claimed struct {
	UserCoupon
	Coupon Coupon
}
