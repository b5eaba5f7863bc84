package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/digimall/pkg/apperr"
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusPaid             Status = "paid"
	StatusShipped          Status = "shipped"
	StatusDelivered        Status = "delivered"
	StatusCancelled        Status = "cancelled"
	StatusRefundProcessing Status = "refund_processing"
	StatusRefunded         Status = "refunded"
)

// transitions lists, for each status, the statuses it may move to. A status
// missing from the map is terminal.
var transitions = map[Status][]Status{
	StatusPending:          {StatusPaid, StatusCancelled},
	StatusPaid:             {StatusShipped, StatusRefundProcessing},
	StatusShipped:          {StatusDelivered, StatusRefundProcessing},
	StatusDelivered:        {StatusRefundProcessing},
	StatusRefundProcessing: {StatusRefunded},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered,
		StatusCancelled, StatusRefundProcessing, StatusRefunded:
		return true
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunding PaymentStatus = "refunding"
	PaymentRefunded  PaymentStatus = "refunded"
)

type RefundStatus string

const (
	RefundProcessing RefundStatus = "processing"
	RefundCompleted  RefundStatus = "completed"
)

var ErrInvalidTransition = apperr.InvalidTransition("INVALID_TRANSITION", "order cannot make this transition")

func invalidTransition(from, to Status) error {
	return ErrInvalidTransition.WithMessage("order cannot move from %s to %s", from, to)
}

var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Province   string `json:"province"`
	City       string `json:"city"`
	District   string `json:"district"`
	Detail     string `json:"detail"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Validate records problems under shipping_address.<field>.
func (a Address) Validate(v *apperr.Validator) {
	const p = "shipping_address."
	v.Required(strings.TrimSpace(a.Name), p+"name")
	v.Check(phonePattern.MatchString(a.Phone), p+"phone", "must be an 11 digit mobile number")
	v.Required(strings.TrimSpace(a.Province), p+"province")
	v.Required(strings.TrimSpace(a.City), p+"city")
	v.Required(strings.TrimSpace(a.District), p+"district")
	v.Required(strings.TrimSpace(a.Detail), p+"detail")
}

func (a Address) Full() string {
	return a.Province + a.City + a.District + a.Detail
}

// LineItem is fixed when the order is placed and never changes afterwards.
type LineItem struct {
	ID           string
	ProductID    string
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int
	Specs        map[string]string
	Subtotal     decimal.Decimal
}

type Order struct {
	ID              string
	OrderNo         string
	UserID          string
	Items           []LineItem
	TotalAmount     decimal.Decimal
	DiscountAmount  decimal.Decimal
	PayAmount       decimal.Decimal
	UserCouponID    string
	Status          Status
	PaymentMethod   string
	PaymentStatus   PaymentStatus
	PaymentID       string
	TransactionID   string
	ShippingAddress Address
	Remark          string
	ShippingCompany string
	TrackingNumber  string
	RefundAmount    decimal.Decimal
	RefundReason    string
	RefundID        string
	RefundStatus    RefundStatus
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	RefundedAt      *time.Time
}

func (o *Order) moveTo(next Status) error {
	if !o.Status.CanTransitionTo(next) {
		return invalidTransition(o.Status, next)
	}
	o.Status = next
	return nil
}

// MarkPaid records a successful payment. Seeing the same transaction id
// again is a no-op and reports changed=false.
func (o *Order) MarkPaid(transactionID string, at time.Time) (bool, error) {
	if o.TransactionID != "" && o.TransactionID == transactionID {
		return false, nil
	}
	if err := o.moveTo(StatusPaid); err != nil {
		return false, err
	}
	o.PaymentStatus = PaymentPaid
	o.TransactionID = transactionID
	o.PaidAt = &at
	return true, nil
}

// AttachPayment records the payment started for a pending order. Starting a
// new payment replaces an earlier one that failed or expired.
func (o *Order) AttachPayment(paymentID string) error {
	if o.Status != StatusPending {
		return ErrInvalidTransition.WithMessage("cannot start payment for a %s order", o.Status)
	}
	o.PaymentID = paymentID
	o.PaymentStatus = PaymentPending
	return nil
}

// MarkPaymentFailed leaves the order pending so the shopper can retry.
func (o *Order) MarkPaymentFailed() (bool, error) {
	if o.Status != StatusPending {
		return false, ErrInvalidTransition.WithMessage("payment of a %s order cannot fail", o.Status)
	}
	if o.PaymentStatus == PaymentFailed {
		return false, nil
	}
	o.PaymentStatus = PaymentFailed
	return true, nil
}

func (o *Order) Ship(companyCode, trackingNumber string, at time.Time) error {
	if err := o.moveTo(StatusShipped); err != nil {
		return err
	}
	o.ShippingCompany = companyCode
	o.TrackingNumber = trackingNumber
	o.ShippedAt = &at
	return nil
}

func (o *Order) Deliver(at time.Time) error {
	if err := o.moveTo(StatusDelivered); err != nil {
		return err
	}
	o.DeliveredAt = &at
	return nil
}

func (o *Order) Cancel(at time.Time) error {
	if err := o.moveTo(StatusCancelled); err != nil {
		return err
	}
	o.CancelledAt = &at
	return nil
}

func (o *Order) RequestRefund(amount decimal.Decimal, reason, refundID string) error {
	if err := o.moveTo(StatusRefundProcessing); err != nil {
		return err
	}
	o.PaymentStatus = PaymentRefunding
	o.RefundAmount = amount
	o.RefundReason = reason
	o.RefundID = refundID
	o.RefundStatus = RefundProcessing
	return nil
}

func (o *Order) ConfirmRefund(at time.Time) error {
	if err := o.moveTo(StatusRefunded); err != nil {
		return err
	}
	o.PaymentStatus = PaymentRefunded
	o.RefundStatus = RefundCompleted
	o.RefundedAt = &at
	return nil
}

func (o Order) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
