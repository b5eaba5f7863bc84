// Package server assembles the shop: stores, services, notification sinks
// and the gRPC registrations.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"

	cartv1 "github.com/dwikikusuma/digimall/api/cart/v1"
	catalogv1 "github.com/dwikikusuma/digimall/api/catalog/v1"
	checkoutv1 "github.com/dwikikusuma/digimall/api/checkout/v1"
	couponv1 "github.com/dwikikusuma/digimall/api/coupon/v1"
	notifyv1 "github.com/dwikikusuma/digimall/api/notify/v1"
	orderv1 "github.com/dwikikusuma/digimall/api/order/v1"

	cartapp "github.com/dwikikusuma/digimall/internal/cart/app"
	cartgrpc "github.com/dwikikusuma/digimall/internal/cart/grpc"
	cartadapter "github.com/dwikikusuma/digimall/internal/cart/infra/adapter"
	cartmemory "github.com/dwikikusuma/digimall/internal/cart/infra/memory"
	cartpg "github.com/dwikikusuma/digimall/internal/cart/infra/postgres"

	catalogapp "github.com/dwikikusuma/digimall/internal/catalog/app"
	cgrpc "github.com/dwikikusuma/digimall/internal/catalog/grpc"
	cmemory "github.com/dwikikusuma/digimall/internal/catalog/infra/memory"
	cpg "github.com/dwikikusuma/digimall/internal/catalog/infra/postgres"

	checkoutapp "github.com/dwikikusuma/digimall/internal/checkout/app"
	checkoutgrpc "github.com/dwikikusuma/digimall/internal/checkout/grpc"
	checkoutadapter "github.com/dwikikusuma/digimall/internal/checkout/infra/adapter"

	couponapp "github.com/dwikikusuma/digimall/internal/coupon/app"
	coupongrpc "github.com/dwikikusuma/digimall/internal/coupon/grpc"
	couponmemory "github.com/dwikikusuma/digimall/internal/coupon/infra/memory"
	couponpg "github.com/dwikikusuma/digimall/internal/coupon/infra/postgres"

	"github.com/dwikikusuma/digimall/internal/inventory"
	"github.com/dwikikusuma/digimall/internal/logistics"
	"github.com/dwikikusuma/digimall/internal/notify"
	notifygrpc "github.com/dwikikusuma/digimall/internal/notify/grpc"

	orderapp "github.com/dwikikusuma/digimall/internal/order/app"
	ordergrpc "github.com/dwikikusuma/digimall/internal/order/grpc"
	orderadapter "github.com/dwikikusuma/digimall/internal/order/infra/adapter"
	ordermemory "github.com/dwikikusuma/digimall/internal/order/infra/memory"
	orderpg "github.com/dwikikusuma/digimall/internal/order/infra/postgres"

	"github.com/dwikikusuma/digimall/internal/payment"
	"github.com/dwikikusuma/digimall/internal/seed"
	"github.com/dwikikusuma/digimall/pkg/config"
	"github.com/dwikikusuma/digimall/pkg/postgres"
)

type productStore interface {
	catalogapp.ProductRepo
	inventory.StockStore
}

type stores struct {
	products productStore
	carts    cartapp.CartRepo
	coupons  couponapp.CouponRepo
	orders   orderapp.OrderRepo
}

func memoryStores() stores {
	return stores{
		products: cmemory.NewProductRepo(),
		carts:    cartmemory.NewCartRepo(),
		coupons:  couponmemory.NewCouponRepo(),
		orders:   ordermemory.NewOrderRepo(),
	}
}

func postgresStores(db *sql.DB) stores {
	return stores{
		products: cpg.NewProductRepo(db),
		carts:    cartpg.NewCartRepo(db),
		coupons:  couponpg.NewCouponRepo(db),
		orders:   orderpg.NewOrderRepo(db),
	}
}

// Shop holds every service of one running instance.
type Shop struct {
	Catalog  *catalogapp.Service
	Cart     *cartapp.Service
	Checkout *checkoutapp.Service
	Coupons  *couponapp.Service
	Orders   *orderapp.Service
	Inbox    *notify.InboxSink
	Settings *notify.SettingsStore
	Payments *payment.MockGateway
	Carrier  *logistics.MockProvider

	now     func() time.Time
	closers []func() error
}

// Options overrides pieces of the configured wiring, mostly for tests.
type Options struct {
	// Sink replaces the configured notification sink. The inbox is always
	// attached.
	Sink notify.Sink
	Now  func() time.Time
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts Options) (*Shop, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	shop := &Shop{now: now}

	var st stores
	switch cfg.StoreDriver {
	case "", "memory":
		st = memoryStores()
	case "postgres":
		db, err := postgres.Open(postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Pass:     cfg.Postgres.Pass,
			DB:       cfg.Postgres.DB,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.MaxConns,
		})
		if err != nil {
			return nil, err
		}
		shop.closers = append(shop.closers, db.Close)
		if err := postgres.Migrate(ctx, db); err != nil {
			shop.Close()
			return nil, err
		}
		st = postgresStores(db)
	default:
		return nil, fmt.Errorf("server: unknown store driver %q", cfg.StoreDriver)
	}

	shop.Inbox = notify.NewInboxSink()
	sink := opts.Sink
	if sink == nil {
		var err error
		sink, err = shop.configuredSink(cfg, log)
		if err != nil {
			shop.Close()
			return nil, err
		}
	}
	shop.Settings = notify.NewSettingsStore()
	notifier := notify.NewNotifier(notify.Multi{shop.Inbox, sink}, shop.Settings, log)

	// Catalog
	shop.Catalog = catalogapp.NewService(st.products)
	ledger := inventory.NewLedger(st.products, log)

	// Cart
	shop.Cart = cartapp.NewService(st.carts, cartadapter.NewCatalogServiceReader(shop.Catalog))

	// Checkout (adapters)
	cartReader := checkoutadapter.NewCartServiceReader(shop.Cart)
	catalogReader := checkoutadapter.NewCatalogServiceReader(shop.Catalog)
	shop.Checkout = checkoutapp.NewService(cartReader, catalogReader, cfg.CheckoutConcurrency)

	// Coupons
	shop.Coupons = couponapp.NewService(st.coupons, notifier, log, now)

	// Payment and logistics doubles
	shop.Payments = payment.NewMockGateway(now)
	shop.Carrier = logistics.NewMockProvider(now)

	// Orders
	shop.Orders = orderapp.NewService(orderapp.Deps{
		Repo:           st.orders,
		Resolver:       shop.Checkout,
		Coupons:        orderadapter.NewCouponEvaluator(shop.Coupons),
		Ledger:         orderadapter.NewLedger(ledger),
		Cart:           orderadapter.NewCartStore(shop.Cart),
		Payments:       orderadapter.NewPaymentGateway(shop.Payments),
		Logistics:      orderadapter.NewLogisticsProvider(shop.Carrier),
		Notifier:       notifier,
		Log:            log,
		Now:            now,
		GatewayTimeout: cfg.GatewayTimeout,
	})

	return shop, nil
}

func (s *Shop) configuredSink(cfg config.Config, log *slog.Logger) (notify.Sink, error) {
	switch cfg.NotifySink {
	case "", "log":
		return notify.NewLogSink(log), nil
	case "kafka":
		ks := notify.NewKafkaSink(notify.NewKafkaWriter(cfg.KafkaBrokers))
		s.closers = append(s.closers, ks.Close)
		return notify.Multi{notify.NewLogSink(log), ks}, nil
	}
	return nil, fmt.Errorf("server: unknown notification sink %q", cfg.NotifySink)
}

// Seed loads the demo catalog and coupons from a YAML file.
func (s *Shop) Seed(ctx context.Context, path string, log *slog.Logger) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}
	return seed.Apply(ctx, f, seed.Targets{Catalog: s.Catalog, Coupons: s.Coupons, Now: s.now, Log: log})
}

func (s *Shop) Register(r grpc.ServiceRegistrar) {
	catalogv1.RegisterCatalogServiceServer(r, cgrpc.NewServer(s.Catalog))
	cartv1.RegisterCartServiceServer(r, cartgrpc.NewServer(s.Cart))
	checkoutv1.RegisterCheckoutServiceServer(r, checkoutgrpc.NewServer(s.Checkout, s.Coupons))
	couponv1.RegisterCouponServiceServer(r, coupongrpc.NewServer(s.Coupons))
	orderv1.RegisterOrderServiceServer(r, ordergrpc.NewServer(s.Orders))
	notifyv1.RegisterNotificationServiceServer(r, notifygrpc.NewServer(s.Inbox, s.Settings))
}

func (s *Shop) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
