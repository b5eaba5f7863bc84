package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/dwikikusuma/digimall/internal/notify"
	"github.com/dwikikusuma/digimall/pkg/config"
	"github.com/dwikikusuma/digimall/pkg/logger"
)

func memoryConfig() config.Config {
	return config.Config{
		StoreDriver:         "memory",
		NotifySink:          "log",
		GatewayTimeout:      time.Second,
		CheckoutConcurrency: 2,
	}
}

func TestNewMemoryShop(t *testing.T) {
	shop, err := New(context.Background(), memoryConfig(), logger.Nop(), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shop.Close() })

	assert.NotNil(t, shop.Catalog)
	assert.NotNil(t, shop.Orders)
	assert.NotNil(t, shop.Inbox)
	assert.NotNil(t, shop.Settings)
}

func TestNewRejectsUnknownDrivers(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = "cassandra"
	_, err := New(context.Background(), cfg, logger.Nop(), Options{})
	assert.ErrorContains(t, err, "unknown store driver")

	cfg = memoryConfig()
	cfg.NotifySink = "carrier-pigeon"
	_, err = New(context.Background(), cfg, logger.Nop(), Options{})
	assert.ErrorContains(t, err, "unknown notification sink")
}

func TestSeedDemoCatalog(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	shop, err := New(context.Background(), memoryConfig(), logger.Nop(), Options{
		Sink: notify.NewLogSink(logger.Nop()),
		Now:  func() time.Time { return now },
	})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, shop.Seed(ctx, "../../seed/catalog.yaml", logger.Nop()))

	products, _, err := shop.Catalog.ListProducts(ctx, "", 100, "")
	require.NoError(t, err)
	assert.Len(t, products, 8)

	coupons, err := shop.Coupons.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Len(t, coupons, 3)
}

func TestRegisterAllServices(t *testing.T) {
	shop, err := New(context.Background(), memoryConfig(), logger.Nop(), Options{})
	require.NoError(t, err)

	srv := grpc.NewServer()
	shop.Register(srv)

	info := srv.GetServiceInfo()
	assert.Len(t, info, 6)
	assert.Contains(t, info, "digimall.order.v1.OrderService")
}
