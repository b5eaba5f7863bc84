package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/dwikikusuma/digimall/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/digimall/internal/catalog/domain"
	catalogmemory "github.com/dwikikusuma/digimall/internal/catalog/infra/memory"
	couponapp "github.com/dwikikusuma/digimall/internal/coupon/app"
	couponmemory "github.com/dwikikusuma/digimall/internal/coupon/infra/memory"
	"github.com/dwikikusuma/digimall/pkg/logger"
)

const sample = `
products:
  - name: Phone
    price: "999.90"
    stock: 3
  - name: Empty shelf
    price: "10"
    stock: 0
coupons:
  - name: Ten off
    type: fixed_amount
    value: "10"
    min_amount: "50"
    valid_days: 7
    total_count: 5
`

func targets() Targets {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return Targets{
		Catalog: catalogapp.NewService(catalogmemory.NewProductRepo()),
		Coupons: couponapp.NewService(couponmemory.NewCouponRepo(), nil, logger.Nop(), func() time.Time { return now }),
		Now:     func() time.Time { return now },
		Log:     logger.Nop(),
	}
}

func TestApplySeedsProductsAndCoupons(t *testing.T) {
	f, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	tg := targets()
	ctx := context.Background()

	require.NoError(t, Apply(ctx, f, tg))

	products, _, err := tg.Catalog.ListProducts(ctx, "", 10, "")
	require.NoError(t, err)
	require.Len(t, products, 2)
	byName := map[string]catalogdomain.Product{}
	for _, p := range products {
		byName[p.Name] = p
	}
	assert.Equal(t, "999.90", byName["Phone"].Price.StringFixed(2))
	assert.Equal(t, catalogdomain.ProductOutOfStock, byName["Empty shelf"].Status)

	coupons, err := tg.Coupons.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, 7*24*time.Hour, coupons[0].EndTime.Sub(coupons[0].StartTime))
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("products:\n  - name: x\n    colour: red\n"))
	assert.Error(t, err)
}

func TestApplyReportsBadEntry(t *testing.T) {
	f := File{Products: []Product{{Name: "Bad", Price: "abc"}}}
	err := Apply(context.Background(), f, targets())
	assert.ErrorContains(t, err, "products[0]")
}

func TestDemoSeedFileLoads(t *testing.T) {
	f, err := Load("../../seed/catalog.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, f.Products)
	require.NoError(t, Apply(context.Background(), f, targets()))
}
