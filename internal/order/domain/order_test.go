package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/digimall/pkg/apperr"
)

var at = time.Date(2024, 7, 10, 8, 0, 0, 0, time.UTC)

func TestHappyPath(t *testing.T) {
	o := Order{Status: StatusPending, PaymentStatus: PaymentPending}

	changed, err := o.MarkPaid("TXN1", at)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, o.Ship("sf", "SF123", at))
	require.NoError(t, o.Deliver(at))
	require.NoError(t, o.RequestRefund(decimal.NewFromInt(5), "broken", "REF1"))
	require.NoError(t, o.ConfirmRefund(at))

	assert.Equal(t, StatusRefunded, o.Status)
	assert.Equal(t, PaymentRefunded, o.PaymentStatus)
	assert.Equal(t, RefundCompleted, o.RefundStatus)
	assert.Equal(t, "sf", o.ShippingCompany)
}

func TestMarkPaidIsIdempotentPerTransaction(t *testing.T) {
	o := Order{Status: StatusPending}

	_, err := o.MarkPaid("TXN1", at)
	require.NoError(t, err)
	paidAt := o.PaidAt

	changed, err := o.MarkPaid("TXN1", at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, paidAt, o.PaidAt)

	_, err = o.MarkPaid("TXN2", at)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGuardsRejectSkippedStates(t *testing.T) {
	pending := Order{Status: StatusPending}
	err := pending.Ship("sf", "SF1", at)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
	assert.Equal(t, StatusPending, pending.Status)

	paid := Order{Status: StatusPaid}
	assert.ErrorIs(t, paid.Deliver(at), ErrInvalidTransition)
	assert.ErrorIs(t, paid.Cancel(at), ErrInvalidTransition)

	cancelled := Order{Status: StatusCancelled}
	_, err = cancelled.MarkPaid("TXN", at)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, cancelled.RequestRefund(decimal.NewFromInt(1), "", "R"), ErrInvalidTransition)
}

func TestPaymentFailureKeepsOrderPending(t *testing.T) {
	o := Order{Status: StatusPending, PaymentStatus: PaymentPending}

	changed, err := o.MarkPaymentFailed()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusPending, o.Status)

	changed, err = o.MarkPaymentFailed()
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = o.MarkPaid("TXN1", at)
	require.NoError(t, err)
}

func TestAddressValidation(t *testing.T) {
	var v apperr.Validator
	Address{Name: "Zhang San", Phone: "12345"}.Validate(&v)

	fields := apperr.FieldsOf(v.Err())
	assert.Contains(t, fields, "shipping_address.phone")
	assert.Contains(t, fields, "shipping_address.city")
	assert.NotContains(t, fields, "shipping_address.name")

	var ok apperr.Validator
	Address{Name: "Zhang San", Phone: "13800138000", Province: "Guangdong", City: "Shenzhen", District: "Nanshan", Detail: "Tech Park 1"}.Validate(&ok)
	assert.NoError(t, ok.Err())
}
