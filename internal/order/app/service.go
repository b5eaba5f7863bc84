package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	checkoutapp "github.com/dwikikusuma/digimall/internal/checkout/app"
	checkoutdomain "github.com/dwikikusuma/digimall/internal/checkout/domain"
	"github.com/dwikikusuma/digimall/internal/notify"
	"github.com/dwikikusuma/digimall/internal/order/domain"
	"github.com/dwikikusuma/digimall/pkg/apperr"
	"github.com/dwikikusuma/digimall/pkg/logger"
)

const (
	defaultGatewayTimeout = 5 * time.Second
	defaultPage           = 1
	defaultLimit          = 10
	maxLimit              = 100
	maxRemarkLength       = 200
)

var (
	ErrOrderNotFound    = apperr.NotFound("ORDER_NOT_FOUND", "order not found")
	ErrCartLineNotFound = apperr.NotFound("CART_LINE_NOT_FOUND", "cart line not found")
	ErrVersionConflict  = apperr.Conflict("ORDER_VERSION_CONFLICT", "order was modified concurrently")
	ErrNoPayment        = apperr.Conflict("PAYMENT_NOT_STARTED", "order has no payment")
	ErrNotShipped       = apperr.Conflict("ORDER_NOT_SHIPPED", "order has no shipment")
)

type Deps struct {
	Repo      OrderRepo
	Resolver  DraftResolver
	Coupons   CouponEvaluator
	Ledger    InventoryLedger
	Cart      CartStore
	Payments  PaymentGateway
	Logistics LogisticsProvider
	Notifier  Notifier
	Log       *slog.Logger
	Now       func() time.Time
	// GatewayTimeout bounds every payment and logistics call.
	GatewayTimeout time.Duration
}

type Service struct {
	repo      OrderRepo
	resolver  DraftResolver
	coupons   CouponEvaluator
	ledger    InventoryLedger
	cart      CartStore
	payments  PaymentGateway
	logistics LogisticsProvider
	notifier  Notifier
	log       *slog.Logger
	now       func() time.Time
	timeout   time.Duration
	locks     *keyedMutex
}

func NewService(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.GatewayTimeout <= 0 {
		d.GatewayTimeout = defaultGatewayTimeout
	}
	return &Service{
		repo:      d.Repo,
		resolver:  d.Resolver,
		coupons:   d.Coupons,
		ledger:    d.Ledger,
		cart:      d.Cart,
		payments:  d.Payments,
		logistics: d.Logistics,
		notifier:  d.Notifier,
		log:       logger.OrNop(d.Log),
		now:       d.Now,
		timeout:   d.GatewayTimeout,
		locks:     newKeyedMutex(),
	}
}

type CreateOrderInput struct {
	UserID          string
	CartLineIDs     []string
	ShippingAddress domain.Address
	PaymentMethod   string
	Remark          string
	UserCouponID    string
}

func (s *Service) validateCreate(in CreateOrderInput) error {
	var v apperr.Validator
	v.Required(strings.TrimSpace(in.UserID), "user_id")
	v.Check(len(in.CartLineIDs) > 0, "cart_line_ids", "at least one cart line is required")
	v.Check(s.payments.Supports(in.PaymentMethod), "payment_method", "is not supported")
	v.Check(utf8.RuneCountInString(in.Remark) <= maxRemarkLength, "remark", fmt.Sprintf("must be at most %d characters", maxRemarkLength))
	in.ShippingAddress.Validate(&v)
	return v.Err()
}

// CreateOrder turns the selected cart lines into a pending order. Stock is
// reserved, the coupon redeemed and the cart lines consumed before the order
// is stored; if any step fails the earlier ones are undone in reverse order.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if err := s.validateCreate(in); err != nil {
		return domain.Order{}, err
	}

	draft, err := s.resolver.Resolve(ctx, in.UserID, in.CartLineIDs)
	if errors.Is(err, checkoutapp.ErrEmptySelection) {
		return domain.Order{}, ErrCartLineNotFound.WithMessage("none of the selected cart lines exist")
	}
	if err != nil {
		return domain.Order{}, err
	}

	discount := Discount{Amount: decimal.Zero, Payable: draft.Total}
	if in.UserCouponID != "" {
		discount, err = s.coupons.Apply(ctx, draft, in.UserCouponID)
		if err != nil {
			return domain.Order{}, err
		}
	}

	o := s.newOrder(in, draft, discount)

	var undo compensations
	fail := func(err error) (domain.Order, error) {
		undo.run(ctx, s.log, o.ID)
		return domain.Order{}, err
	}

	stock := stockLines(o.Items)
	if err := s.ledger.ReserveAll(ctx, stock); err != nil {
		return domain.Order{}, err
	}
	undo.add("release stock", func(ctx context.Context) error { return s.ledger.ReleaseAll(ctx, stock) })

	if o.UserCouponID != "" {
		if err := s.coupons.Redeem(ctx, o.UserCouponID, o.ID); err != nil {
			return fail(err)
		}
		undo.add("restore coupon", func(ctx context.Context) error { return s.coupons.Restore(ctx, o.UserCouponID) })
	}

	consumed, err := s.cart.ConsumeLines(ctx, o.UserID, draft.CartLineIDs())
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			err = ErrCartLineNotFound.Wrap(err)
		}
		return fail(err)
	}
	undo.add("restore cart lines", func(ctx context.Context) error { return s.cart.RestoreLines(ctx, consumed) })

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return fail(err)
	}

	s.log.InfoContext(ctx, "order created",
		slog.String("order_id", created.ID),
		slog.String("order_no", created.OrderNo),
		slog.String("user_id", created.UserID),
		slog.String("pay_amount", created.PayAmount.StringFixed(2)),
	)
	s.notify(ctx, notify.OrderCreated, created, map[string]any{"amount": created.PayAmount.StringFixed(2)})
	return created, nil
}

func (s *Service) newOrder(in CreateOrderInput, draft checkoutdomain.OrderDraft, discount Discount) domain.Order {
	now := s.now().UTC()
	items := make([]domain.LineItem, 0, len(draft.Lines))
	for _, ln := range draft.Lines {
		items = append(items, domain.LineItem{
			ID:           uuid.NewString(),
			ProductID:    ln.ProductID,
			ProductName:  ln.ProductName,
			ProductPrice: ln.UnitPrice,
			Quantity:     ln.Quantity,
			Specs:        ln.Specs,
			Subtotal:     ln.Subtotal,
		})
	}

	return domain.Order{
		ID:              uuid.NewString(),
		OrderNo:         NewOrderNo(now),
		UserID:          in.UserID,
		Items:           items,
		TotalAmount:     draft.Total,
		DiscountAmount:  discount.Amount,
		PayAmount:       discount.Payable,
		UserCouponID:    in.UserCouponID,
		Status:          domain.StatusPending,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   domain.PaymentPending,
		ShippingAddress: in.ShippingAddress,
		Remark:          strings.TrimSpace(in.Remark),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewOrderNo builds ORD + date + ULID. The ULID makes the number unique
// without a counter.
func NewOrderNo(now time.Time) string {
	return "ORD" + now.Format("20060102") + ulid.Make().String()
}

func stockLines(items []domain.LineItem) []StockLine {
	out := make([]StockLine, 0, len(items))
	for _, it := range items {
		out = append(out, StockLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// GetOrder returns the order if it belongs to userID. An empty userID skips
// the ownership check and is reserved for internal callers.
func (s *Service) GetOrder(ctx context.Context, orderID, userID string) (domain.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return domain.Order{}, apperr.Invalid("order_id", "is required")
	}
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if userID != "" && o.UserID != userID {
		return domain.Order{}, ErrOrderNotFound
	}
	return o, nil
}

type ListOrdersInput struct {
	UserID string
	Status domain.Status
	Page   int
	Limit  int
}

type Page struct {
	Orders []domain.Order
	Total  int
	Page   int
	Limit  int
	Pages  int
}

func (s *Service) ListOrders(ctx context.Context, in ListOrdersInput) (Page, error) {
	var v apperr.Validator
	v.Required(strings.TrimSpace(in.UserID), "user_id")
	if in.Status != "" {
		v.Check(in.Status.Valid(), "status", "is not a known order status")
	}
	if err := v.Err(); err != nil {
		return Page{}, err
	}

	page, limit := in.Page, in.Limit
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page-1 > math.MaxInt/limit {
		return Page{}, apperr.Invalid("page", "must be <= %d", math.MaxInt/limit)
	}

	orders, total, err := s.repo.List(ctx, ListFilter{
		UserID: in.UserID,
		Status: in.Status,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return Page{}, err
	}

	return Page{
		Orders: orders,
		Total:  total,
		Page:   page,
		Limit:  limit,
		Pages:  (total + limit - 1) / limit,
	}, nil
}

func (s *Service) notify(ctx context.Context, typ notify.EventType, o domain.Order, extra map[string]any) {
	if s.notifier == nil {
		return
	}
	payload := map[string]any{
		"order_id": o.ID,
		"order_no": o.OrderNo,
	}
	for k, v := range extra {
		payload[k] = v
	}
	s.notifier.Notify(ctx, typ, o.UserID, payload)
}

type compensation struct {
	name string
	fn   func(ctx context.Context) error
}

type compensations []compensation

func (c *compensations) add(name string, fn func(ctx context.Context) error) {
	*c = append(*c, compensation{name: name, fn: fn})
}

// run undoes completed steps newest first. It ignores cancellation of ctx
// so a client that disconnects mid-create does not leave stock held.
func (c compensations) run(ctx context.Context, log *slog.Logger, orderID string) {
	ctx = context.WithoutCancel(ctx)
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].fn(ctx); err != nil {
			log.ErrorContext(ctx, "compensation failed",
				slog.String("order_id", orderID),
				slog.String("step", c[i].name),
				slog.String("error", err.Error()),
			)
		}
	}
}
