package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	orderapp "github.com/dwikikusuma/digimall/internal/order/app"
	"github.com/dwikikusuma/digimall/internal/order/domain"
	"github.com/dwikikusuma/digimall/internal/payment"
)

type PaymentGateway struct {
	gw *payment.MockGateway
}

func NewPaymentGateway(gw *payment.MockGateway) *PaymentGateway {
	return &PaymentGateway{gw: gw}
}

func (a *PaymentGateway) Supports(method string) bool {
	return payment.Supported(payment.Method(method))
}

func (a *PaymentGateway) CreatePayment(ctx context.Context, o domain.Order) (orderapp.PaymentInfo, error) {
	p, err := a.gw.CreatePayment(ctx, payment.Request{
		OrderID: o.ID,
		OrderNo: o.OrderNo,
		Amount:  o.PayAmount,
		Method:  payment.Method(o.PaymentMethod),
	})
	if err != nil {
		return orderapp.PaymentInfo{}, err
	}
	return orderapp.PaymentInfo{
		PaymentID:    p.ID,
		Method:       string(p.Method),
		Amount:       p.Amount,
		QRCode:       p.QRCode,
		RedirectURL:  p.RedirectURL,
		ClientSecret: p.ClientSecret,
		ExpiresAt:    p.ExpiresAt,
	}, nil
}

func (a *PaymentGateway) QueryStatus(ctx context.Context, paymentID string) (orderapp.PaymentResult, error) {
	res, err := a.gw.QueryStatus(ctx, paymentID)
	if err != nil {
		return orderapp.PaymentResult{}, err
	}
	return toResult(res), nil
}

func (a *PaymentGateway) Refund(ctx context.Context, paymentID string, amount decimal.Decimal, reason string) (orderapp.RefundInfo, error) {
	r, err := a.gw.Refund(ctx, paymentID, amount, reason)
	if err != nil {
		return orderapp.RefundInfo{}, err
	}
	return orderapp.RefundInfo{RefundID: r.ID, Status: r.Status}, nil
}

func (a *PaymentGateway) ParseCallback(method string, fields map[string]string) (orderapp.PaymentResult, error) {
	res, err := a.gw.ParseCallback(payment.Method(method), fields)
	if err != nil {
		return orderapp.PaymentResult{}, err
	}
	return toResult(res), nil
}

func toResult(r payment.Result) orderapp.PaymentResult {
	return orderapp.PaymentResult{
		PaymentID:     r.PaymentID,
		Status:        string(r.Status),
		TransactionID: r.TransactionID,
		PaidAt:        r.PaidAt,
	}
}
