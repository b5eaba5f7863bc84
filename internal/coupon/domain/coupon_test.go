package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPercentageDiscountIsCapped(t *testing.T) {
	c := Coupon{Type: TypePercentage, Value: d("0.9"), MaxDiscount: d("50")}

	assert.Equal(t, "20.00", c.Discount(d("200")).StringFixed(2))
	assert.Equal(t, "50.00", c.Discount(d("1000")).StringFixed(2))
}

func TestFixedDiscountNeverExceedsTotal(t *testing.T) {
	c := Coupon{Type: TypeFixedAmount, Value: d("50")}

	assert.Equal(t, "50.00", c.Discount(d("299")).StringFixed(2))
	assert.Equal(t, "30.00", c.Discount(d("30")).StringFixed(2))
}

func TestUncappedWhenMaxDiscountZero(t *testing.T) {
	c := Coupon{Type: TypePercentage, Value: d("0.5")}
	assert.Equal(t, "500.00", c.Discount(d("1000")).StringFixed(2))
}

func TestActiveWindow(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	c := Coupon{Status: StatusActive, StartTime: start, EndTime: start.AddDate(0, 1, 0), TotalCount: 1}

	assert.True(t, c.ActiveAt(start))
	assert.False(t, c.ActiveAt(start.Add(-time.Second)))
	assert.False(t, c.ActiveAt(start.AddDate(0, 2, 0)))
	assert.True(t, c.Expired(start.AddDate(0, 2, 0)))

	c.Status = StatusInactive
	assert.False(t, c.ActiveAt(start))

	c.UsedCount = 1
	assert.True(t, c.Exhausted())
}
