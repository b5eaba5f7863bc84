package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	checkoutdomain "github.com/dwikikusuma/digimall/internal/checkout/domain"
	"github.com/dwikikusuma/digimall/internal/notify"
	"github.com/dwikikusuma/digimall/internal/order/domain"
)

type ListFilter struct {
	UserID string
	Status domain.Status
	Offset int
	Limit  int
}

type OrderRepo interface {
	// Create stores the order and its line items together.
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	GetByPaymentID(ctx context.Context, paymentID string) (domain.Order, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (domain.Order, error)
	// List returns one page, newest first, and the total matching count.
	List(ctx context.Context, f ListFilter) ([]domain.Order, int, error)
	// Update writes o if the stored version equals o.Version and returns
	// the stored order with the bumped version. Line items are not touched.
	Update(ctx context.Context, o domain.Order) (domain.Order, error)
}

type DraftResolver interface {
	Resolve(ctx context.Context, userID string, cartLineIDs []string) (checkoutdomain.OrderDraft, error)
}

type Discount struct {
	Amount  decimal.Decimal
	Payable decimal.Decimal
}

type CouponEvaluator interface {
	Apply(ctx context.Context, draft checkoutdomain.OrderDraft, userCouponID string) (Discount, error)
	Redeem(ctx context.Context, userCouponID, orderID string) error
	Restore(ctx context.Context, userCouponID string) error
}

type StockLine struct {
	ProductID string
	Quantity  int
}

type InventoryLedger interface {
	ReserveAll(ctx context.Context, lines []StockLine) error
	ReleaseAll(ctx context.Context, lines []StockLine) error
}

// ConsumedLines is what CartStore needs to put consumed lines back.
type ConsumedLines struct {
	UserID string
	Lines  []ConsumedLine
}

type ConsumedLine struct {
	ID        string
	ProductID string
	Quantity  int
	Specs     map[string]string
}

type CartStore interface {
	ConsumeLines(ctx context.Context, userID string, lineIDs []string) (ConsumedLines, error)
	RestoreLines(ctx context.Context, consumed ConsumedLines) error
}

type PaymentInfo struct {
	PaymentID    string
	Method       string
	Amount       decimal.Decimal
	QRCode       string
	RedirectURL  string
	ClientSecret string
	ExpiresAt    time.Time
}

// PaymentResult is the gateway's view of a payment: pending, paid, failed
// or cancelled.
type PaymentResult struct {
	PaymentID     string
	Status        string
	TransactionID string
	PaidAt        *time.Time
}

type RefundInfo struct {
	RefundID string
	Status   string
}

type PaymentGateway interface {
	Supports(method string) bool
	CreatePayment(ctx context.Context, o domain.Order) (PaymentInfo, error)
	QueryStatus(ctx context.Context, paymentID string) (PaymentResult, error)
	Refund(ctx context.Context, paymentID string, amount decimal.Decimal, reason string) (RefundInfo, error)
	ParseCallback(method string, fields map[string]string) (PaymentResult, error)
}

type TrackingTrace struct {
	Time        time.Time
	Status      string
	Description string
	Location    string
}

type TrackingInfo struct {
	TrackingNumber    string
	CompanyCode       string
	CompanyName       string
	Status            string
	CurrentLocation   string
	EstimatedDelivery time.Time
	Traces            []TrackingTrace
}

type LogisticsProvider interface {
	CreateShipment(ctx context.Context, o domain.Order, companyCode string) (TrackingInfo, error)
	Track(ctx context.Context, trackingNumber, companyCode string) (TrackingInfo, error)
}

type Notifier interface {
	Notify(ctx context.Context, typ notify.EventType, userID string, payload map[string]any)
}
