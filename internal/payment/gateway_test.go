package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2024, 7, 10, 8, 0, 0, 0, time.UTC)

func newGateway() *MockGateway {
	return NewMockGateway(func() time.Time { return fixed })
}

func TestCreatePaymentPerMethod(t *testing.T) {
	ctx := context.Background()
	g := newGateway()
	amount := decimal.RequireFromString("99.90")

	wx, err := g.CreatePayment(ctx, Request{OrderID: "o1", OrderNo: "ORD1", Amount: amount, Method: WechatPay})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(wx.ID, "WX"))
	assert.True(t, strings.HasPrefix(wx.QRCode, "weixin://wxpay/bizpayurl?pr=QR"))
	assert.Equal(t, fixed.Add(15*time.Minute), wx.ExpiresAt)

	ali, err := g.CreatePayment(ctx, Request{OrderID: "o1", OrderNo: "ORD1", Amount: amount, Method: Alipay})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ali.ID, "ALI"))
	assert.Contains(t, ali.RedirectURL, "out_trade_no=ORD1")

	cc, err := g.CreatePayment(ctx, Request{OrderID: "o1", Amount: amount, Method: CreditCard})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cc.ID, "CC"))
	assert.True(t, strings.HasPrefix(cc.ClientSecret, "pi_"))
	assert.Equal(t, fixed.Add(30*time.Minute), cc.ExpiresAt)

	_, err = g.CreatePayment(ctx, Request{Method: "cash"})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestQueryIsDeterministic(t *testing.T) {
	ctx := context.Background()
	g := newGateway()
	p, err := g.CreatePayment(ctx, Request{OrderID: "o1", Amount: decimal.NewFromInt(10), Method: WechatPay})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := g.QueryStatus(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, res.Status)
	}

	txn, err := g.Complete(p.ID)
	require.NoError(t, err)
	again, err := g.Complete(p.ID)
	require.NoError(t, err)
	assert.Equal(t, txn, again)

	res, err := g.QueryStatus(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, res.Status)
	assert.Equal(t, txn, res.TransactionID)
}

func TestParseCallback(t *testing.T) {
	g := newGateway()

	res, err := g.ParseCallback(WechatPay, map[string]string{"out_trade_no": "WX1", "result_code": "SUCCESS", "transaction_id": "T1"})
	require.NoError(t, err)
	assert.Equal(t, Result{PaymentID: "WX1", Status: StatusPaid, TransactionID: "T1", PaidAt: res.PaidAt}, res)

	res, err = g.ParseCallback(Alipay, map[string]string{"out_trade_no": "ALI1", "trade_status": "TRADE_CLOSED"})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)

	res, err = g.ParseCallback(CreditCard, map[string]string{"payment_intent_id": "CC1", "status": "succeeded", "charge_id": "ch_1"})
	require.NoError(t, err)
	assert.Equal(t, "ch_1", res.TransactionID)

	_, err = g.ParseCallback(CreditCard, map[string]string{"status": "succeeded"})
	assert.ErrorIs(t, err, ErrBadCallback)
}

func TestRefundRules(t *testing.T) {
	ctx := context.Background()
	g := newGateway()
	p, err := g.CreatePayment(ctx, Request{OrderID: "o1", Amount: decimal.NewFromInt(100), Method: Alipay})
	require.NoError(t, err)

	_, err = g.Refund(ctx, p.ID, decimal.NewFromInt(10), "changed mind")
	assert.ErrorIs(t, err, ErrNotRefundable)

	_, err = g.Complete(p.ID)
	require.NoError(t, err)

	r, err := g.Refund(ctx, p.ID, decimal.NewFromInt(60), "damaged")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r.ID, "REF"))
	assert.Equal(t, "processing", r.Status)

	_, err = g.Refund(ctx, p.ID, decimal.NewFromInt(50), "again")
	assert.ErrorIs(t, err, ErrNotRefundable)
}

func TestLatencyHonoursDeadline(t *testing.T) {
	g := newGateway()
	g.SetLatency(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.CreatePayment(ctx, Request{Method: WechatPay})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	down := errors.New("maintenance")
	g.SetLatency(0)
	g.SetUnavailable(down)
	_, err = g.QueryStatus(context.Background(), "x")
	assert.ErrorIs(t, err, down)
}

func TestSupportedMethods(t *testing.T) {
	got := SupportedMethods()
	require.Len(t, got, 3)
	assert.True(t, Supported(CreditCard))
	assert.False(t, Supported("cash"))
}
