package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	currency      = "CNY"
	walletTimeout = 15 * time.Minute
	cardTimeout   = 30 * time.Minute
)

type MockGateway struct {
	mu       sync.Mutex
	payments map[string]*Payment
	refunds  map[string]Refund
	now      func() time.Time

	latency     time.Duration
	unavailable error
}

func NewMockGateway(now func() time.Time) *MockGateway {
	if now == nil {
		now = time.Now
	}
	return &MockGateway{
		payments: make(map[string]*Payment),
		refunds:  make(map[string]Refund),
		now:      now,
	}
}

// SetLatency delays every call by d, honouring context cancellation.
func (g *MockGateway) SetLatency(d time.Duration) {
	g.mu.Lock()
	g.latency = d
	g.mu.Unlock()
}

// SetUnavailable makes every call fail with err until it is reset with nil.
func (g *MockGateway) SetUnavailable(err error) {
	g.mu.Lock()
	g.unavailable = err
	g.mu.Unlock()
}

func (g *MockGateway) wait(ctx context.Context) error {
	g.mu.Lock()
	latency, down := g.latency, g.unavailable
	g.mu.Unlock()

	if latency > 0 {
		t := time.NewTimer(latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return down
}

func (g *MockGateway) CreatePayment(ctx context.Context, req Request) (Payment, error) {
	if err := g.wait(ctx); err != nil {
		return Payment{}, err
	}
	if !Supported(req.Method) {
		return Payment{}, ErrUnsupportedMethod.WithMessage("payment method %q is not supported", req.Method)
	}

	now := g.now().UTC()
	p := Payment{
		Method:    req.Method,
		OrderID:   req.OrderID,
		Amount:    req.Amount,
		Currency:  currency,
		Status:    StatusPending,
		CreatedAt: now,
	}

	switch req.Method {
	case WechatPay:
		p.ID = newID("WX", now)
		p.QRCode = "weixin://wxpay/bizpayurl?pr=" + newID("QR", now)
		p.ExpiresAt = now.Add(walletTimeout)
	case Alipay:
		p.ID = newID("ALI", now)
		p.RedirectURL = "https://openapi.alipay.com/gateway.do?method=alipay.trade.page.pay&app_id=demo&out_trade_no=" + req.OrderNo
		p.ExpiresAt = now.Add(walletTimeout)
	case CreditCard:
		p.ID = newID("CC", now)
		p.ClientSecret = "pi_" + randomHex(16)
		p.ExpiresAt = now.Add(cardTimeout)
	}

	g.mu.Lock()
	g.payments[p.ID] = &p
	g.mu.Unlock()

	return p, nil
}

func (g *MockGateway) QueryStatus(ctx context.Context, paymentID string) (Result, error) {
	if err := g.wait(ctx); err != nil {
		return Result{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.payments[paymentID]
	if !ok {
		return Result{}, ErrPaymentNotFound
	}
	return Result{PaymentID: p.ID, Status: p.Status, TransactionID: p.TransactionID, PaidAt: p.PaidAt}, nil
}

// Complete settles a pending payment and returns its transaction id. It
// stands in for the shopper finishing checkout on the vendor side.
func (g *MockGateway) Complete(paymentID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.payments[paymentID]
	if !ok {
		return "", ErrPaymentNotFound
	}
	if p.Status == StatusPaid {
		return p.TransactionID, nil
	}
	now := g.now().UTC()
	p.Status = StatusPaid
	p.PaidAt = &now
	p.TransactionID = newID("TXN", now)
	return p.TransactionID, nil
}

func (g *MockGateway) Fail(paymentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.payments[paymentID]
	if !ok {
		return ErrPaymentNotFound
	}
	if p.Status == StatusPending {
		p.Status = StatusFailed
	}
	return nil
}

func (g *MockGateway) Refund(ctx context.Context, paymentID string, amount decimal.Decimal, reason string) (Refund, error) {
	if err := g.wait(ctx); err != nil {
		return Refund{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.payments[paymentID]
	if !ok {
		return Refund{}, ErrPaymentNotFound
	}
	if p.Status != StatusPaid {
		return Refund{}, ErrNotRefundable.WithMessage("payment %s is %s", p.ID, p.Status)
	}
	if !amount.IsPositive() || p.Refunded.Add(amount).GreaterThan(p.Amount) {
		return Refund{}, ErrNotRefundable.WithMessage("refund %s exceeds the refundable amount", amount.StringFixed(2))
	}

	now := g.now().UTC()
	r := Refund{
		ID:        newID("REF", now),
		PaymentID: p.ID,
		Amount:    amount,
		Reason:    reason,
		Status:    "processing",
		CreatedAt: now,
	}
	p.Refunded = p.Refunded.Add(amount)
	g.refunds[r.ID] = r
	return r, nil
}

// ParseCallback normalizes a vendor notification. Signatures are not
// checked by the mock.
func (g *MockGateway) ParseCallback(method Method, fields map[string]string) (Result, error) {
	var (
		res     Result
		success bool
	)
	switch method {
	case WechatPay:
		res.PaymentID = fields["out_trade_no"]
		res.TransactionID = fields["transaction_id"]
		success = fields["result_code"] == "SUCCESS"
	case Alipay:
		res.PaymentID = fields["out_trade_no"]
		res.TransactionID = fields["trade_no"]
		success = fields["trade_status"] == "TRADE_SUCCESS"
	case CreditCard:
		res.PaymentID = fields["payment_intent_id"]
		res.TransactionID = fields["charge_id"]
		success = fields["status"] == "succeeded"
	default:
		return Result{}, ErrUnsupportedMethod.WithMessage("payment method %q is not supported", method)
	}

	if res.PaymentID == "" {
		return Result{}, ErrBadCallback.WithMessage("%s callback has no payment id", method)
	}
	if !success {
		res.Status = StatusFailed
		return res, nil
	}
	if res.TransactionID == "" {
		return Result{}, ErrBadCallback.WithMessage("%s callback has no transaction id", method)
	}

	now := g.now().UTC()
	res.Status = StatusPaid
	res.PaidAt = &now

	g.mu.Lock()
	if p, ok := g.payments[res.PaymentID]; ok && p.Method == method && p.Status != StatusPaid {
		p.Status = StatusPaid
		p.PaidAt = &now
		p.TransactionID = res.TransactionID
	}
	g.mu.Unlock()

	return res, nil
}

func newID(prefix string, now time.Time) string {
	return strings.ToUpper(fmt.Sprintf("%s%s%s", prefix, strconv.FormatInt(now.UnixMilli(), 10), randomHex(3)))
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
