// Package payment is an in-process stand-in for the wallet and card
// gateways. It keeps every payment in memory and only changes status when
// told to, so callers get the same answer on every query.
package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/digimall/pkg/apperr"
)

type Method string

const (
	WechatPay  Method = "wechat_pay"
	Alipay     Method = "alipay"
	CreditCard Method = "credit_card"
)

type MethodInfo struct {
	Method  Method
	Name    string
	Enabled bool
}

var methods = []MethodInfo{
	{Method: WechatPay, Name: "WeChat Pay", Enabled: true},
	{Method: Alipay, Name: "Alipay", Enabled: true},
	{Method: CreditCard, Name: "Credit card", Enabled: true},
}

// SupportedMethods lists the enabled payment methods.
func SupportedMethods() []MethodInfo {
	out := make([]MethodInfo, 0, len(methods))
	for _, m := range methods {
		if m.Enabled {
			out = append(out, m)
		}
	}
	return out
}

func Supported(m Method) bool {
	for _, info := range SupportedMethods() {
		if info.Method == m {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrUnsupportedMethod = apperr.New(apperr.KindValidation, "UNSUPPORTED_PAYMENT_METHOD", "payment method is not supported")
	ErrPaymentNotFound   = apperr.NotFound("PAYMENT_NOT_FOUND", "payment not found")
	ErrNotRefundable     = apperr.Conflict("PAYMENT_NOT_REFUNDABLE", "payment cannot be refunded")
	ErrBadCallback       = apperr.New(apperr.KindValidation, "INVALID_PAYMENT_CALLBACK", "payment callback is malformed")
)

type Request struct {
	OrderID string
	OrderNo string
	Amount  decimal.Decimal
	Method  Method
}

type Payment struct {
	ID            string
	Method        Method
	OrderID       string
	Amount        decimal.Decimal
	Currency      string
	Status        Status
	QRCode        string
	RedirectURL   string
	ClientSecret  string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	PaidAt        *time.Time
	TransactionID string
	Refunded      decimal.Decimal
}

// Result is the normalized outcome of a status query or vendor callback.
type Result struct {
	PaymentID     string
	Status        Status
	TransactionID string
	PaidAt        *time.Time
}

type Refund struct {
	ID        string
	PaymentID string
	Amount    decimal.Decimal
	Reason    string
	Status    string
	CreatedAt time.Time
}
