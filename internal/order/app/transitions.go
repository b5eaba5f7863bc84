package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/digimall/internal/notify"
	"github.com/dwikikusuma/digimall/internal/order/domain"
	"github.com/dwikikusuma/digimall/pkg/apperr"
)

// update loads the order under its lock, lets fn change it and stores the
// result when fn reports a change.
func (s *Service) update(ctx context.Context, orderID, userID string, fn func(o *domain.Order) (bool, error)) (domain.Order, bool, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	o, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return domain.Order{}, false, err
	}
	changed, err := fn(&o)
	if err != nil {
		return domain.Order{}, false, err
	}
	if !changed {
		return o, false, nil
	}
	o.UpdatedAt = s.now().UTC()
	saved, err := s.repo.Update(ctx, o)
	if err != nil {
		return domain.Order{}, false, err
	}
	return saved, true, nil
}

// external runs a payment or logistics call under the gateway timeout.
// Business errors from the provider pass through; anything else, deadlines
// included, becomes GATEWAY_UNAVAILABLE.
func (s *Service) external(ctx context.Context, provider string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindNotFound, apperr.KindConflict, apperr.KindGatewayUnavailable:
		return err
	}
	return apperr.GatewayUnavailable(provider, err)
}

func (s *Service) MarkPaid(ctx context.Context, orderID, transactionID string) (domain.Order, error) {
	if strings.TrimSpace(transactionID) == "" {
		return domain.Order{}, apperr.Invalid("transaction_id", "is required")
	}
	o, changed, err := s.update(ctx, orderID, "", func(o *domain.Order) (bool, error) {
		return o.MarkPaid(transactionID, s.now().UTC())
	})
	if err != nil {
		return domain.Order{}, err
	}
	if changed {
		s.log.InfoContext(ctx, "order paid",
			slog.String("order_id", o.ID),
			slog.String("transaction_id", transactionID),
		)
		s.notify(ctx, notify.OrderPaid, o, map[string]any{"amount": o.PayAmount.StringFixed(2)})
	}
	return o, nil
}

// StartPayment opens a payment with the gateway for a pending order.
func (s *Service) StartPayment(ctx context.Context, orderID, userID string) (PaymentInfo, error) {
	var info PaymentInfo
	_, _, err := s.update(ctx, orderID, userID, func(o *domain.Order) (bool, error) {
		if o.Status != domain.StatusPending {
			return false, domain.ErrInvalidTransition.WithMessage("cannot start payment for a %s order", o.Status)
		}
		err := s.external(ctx, "payment gateway", func(ctx context.Context) error {
			var err error
			info, err = s.payments.CreatePayment(ctx, *o)
			return err
		})
		if err != nil {
			return false, err
		}
		return true, o.AttachPayment(info.PaymentID)
	})
	if err != nil {
		return PaymentInfo{}, err
	}
	return info, nil
}

// SyncPaymentStatus asks the gateway about the order's payment and applies
// the answer.
func (s *Service) SyncPaymentStatus(ctx context.Context, orderID, userID string) (domain.Order, error) {
	o, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.PaymentID == "" {
		return domain.Order{}, ErrNoPayment
	}

	var res PaymentResult
	err = s.external(ctx, "payment gateway", func(ctx context.Context) error {
		var err error
		res, err = s.payments.QueryStatus(ctx, o.PaymentID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return s.applyPaymentResult(ctx, o, res)
}

// HandlePaymentCallback normalizes a vendor notification and applies it to
// the order that owns the payment.
func (s *Service) HandlePaymentCallback(ctx context.Context, method string, fields map[string]string) (domain.Order, error) {
	res, err := s.payments.ParseCallback(method, fields)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := s.repo.GetByPaymentID(ctx, res.PaymentID)
	if err != nil {
		return domain.Order{}, err
	}
	if method != string(o.PaymentMethod) {
		return domain.Order{}, apperr.Invalid("method", "order %s was not paid with %s", o.OrderNo, method)
	}
	return s.applyPaymentResult(ctx, o, res)
}

func (s *Service) applyPaymentResult(ctx context.Context, o domain.Order, res PaymentResult) (domain.Order, error) {
	switch res.Status {
	case "paid":
		return s.MarkPaid(ctx, o.ID, res.TransactionID)
	case "failed", "cancelled":
		failed, changed, err := s.update(ctx, o.ID, "", func(o *domain.Order) (bool, error) {
			return o.MarkPaymentFailed()
		})
		if err != nil {
			return domain.Order{}, err
		}
		if changed {
			s.log.WarnContext(ctx, "payment failed",
				slog.String("order_id", failed.ID),
				slog.String("payment_id", res.PaymentID),
			)
		}
		return failed, nil
	}
	return o, nil
}

// Ship hands a paid order to the carrier. The company code is stored with
// the tracking number so later lookups never have to guess the carrier.
func (s *Service) Ship(ctx context.Context, orderID, companyCode string) (domain.Order, error) {
	if strings.TrimSpace(companyCode) == "" {
		return domain.Order{}, apperr.Invalid("company_code", "is required")
	}
	var carrier string
	o, _, err := s.update(ctx, orderID, "", func(o *domain.Order) (bool, error) {
		if !o.Status.CanTransitionTo(domain.StatusShipped) {
			return false, domain.ErrInvalidTransition.WithMessage("order cannot move from %s to %s", o.Status, domain.StatusShipped)
		}
		var info TrackingInfo
		err := s.external(ctx, "logistics provider", func(ctx context.Context) error {
			var err error
			info, err = s.logistics.CreateShipment(ctx, *o, companyCode)
			return err
		})
		if err != nil {
			return false, err
		}
		carrier = info.CompanyName
		return true, o.Ship(info.CompanyCode, info.TrackingNumber, s.now().UTC())
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.InfoContext(ctx, "order shipped",
		slog.String("order_id", o.ID),
		slog.String("company", o.ShippingCompany),
		slog.String("tracking_number", o.TrackingNumber),
	)
	s.notify(ctx, notify.OrderShipped, o, map[string]any{
		"company":         carrier,
		"company_code":    o.ShippingCompany,
		"tracking_number": o.TrackingNumber,
	})
	return o, nil
}

func (s *Service) Track(ctx context.Context, orderID, userID string) (TrackingInfo, error) {
	o, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return TrackingInfo{}, err
	}
	if o.TrackingNumber == "" {
		return TrackingInfo{}, ErrNotShipped
	}

	var info TrackingInfo
	err = s.external(ctx, "logistics provider", func(ctx context.Context) error {
		var err error
		info, err = s.logistics.Track(ctx, o.TrackingNumber, o.ShippingCompany)
		return err
	})
	return info, err
}

// HandleLogisticsUpdate reacts to a carrier status push. Only delivery moves
// the order; other statuses are informational.
func (s *Service) HandleLogisticsUpdate(ctx context.Context, trackingNumber, status string) (domain.Order, error) {
	o, err := s.repo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return domain.Order{}, err
	}
	if status != "delivered" {
		s.log.DebugContext(ctx, "logistics update",
			slog.String("order_id", o.ID),
			slog.String("status", status),
		)
		return o, nil
	}
	return s.MarkDelivered(ctx, o.ID)
}

func (s *Service) MarkDelivered(ctx context.Context, orderID string) (domain.Order, error) {
	o, _, err := s.update(ctx, orderID, "", func(o *domain.Order) (bool, error) {
		return true, o.Deliver(s.now().UTC())
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.log.InfoContext(ctx, "order delivered", slog.String("order_id", o.ID))
	s.notify(ctx, notify.OrderDelivered, o, nil)
	return o, nil
}

// Cancel cancels a pending order, returning its stock and coupon. If the
// order cannot be stored afterwards, stock and coupon are taken again.
func (s *Service) Cancel(ctx context.Context, orderID, userID string) (domain.Order, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	o, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := o.Cancel(s.now().UTC()); err != nil {
		return domain.Order{}, err
	}
	o.UpdatedAt = *o.CancelledAt

	var undo compensations
	stock := stockLines(o.Items)
	if err := s.ledger.ReleaseAll(ctx, stock); err != nil {
		return domain.Order{}, err
	}
	undo.add("reserve stock", func(ctx context.Context) error { return s.ledger.ReserveAll(ctx, stock) })

	if o.UserCouponID != "" {
		if err := s.coupons.Restore(ctx, o.UserCouponID); err != nil {
			undo.run(ctx, s.log, o.ID)
			return domain.Order{}, err
		}
		undo.add("redeem coupon", func(ctx context.Context) error { return s.coupons.Redeem(ctx, o.UserCouponID, o.ID) })
	}

	saved, err := s.repo.Update(ctx, o)
	if err != nil {
		undo.run(ctx, s.log, o.ID)
		return domain.Order{}, err
	}

	s.log.InfoContext(ctx, "order cancelled", slog.String("order_id", saved.ID))
	s.notify(ctx, notify.OrderCancelled, saved, nil)
	return saved, nil
}

func (s *Service) RequestRefund(ctx context.Context, orderID, userID string, amount decimal.Decimal, reason string) (domain.Order, error) {
	var v apperr.Validator
	v.Check(amount.IsPositive(), "amount", "must be > 0")
	v.Required(strings.TrimSpace(reason), "reason")
	if err := v.Err(); err != nil {
		return domain.Order{}, err
	}
	amount = amount.Round(2)

	o, _, err := s.update(ctx, orderID, userID, func(o *domain.Order) (bool, error) {
		if !o.Status.CanTransitionTo(domain.StatusRefundProcessing) {
			return false, domain.ErrInvalidTransition.WithMessage("a %s order cannot be refunded", o.Status)
		}
		if amount.GreaterThan(o.PayAmount) {
			return false, apperr.Invalid("amount", "must not exceed the paid amount %s", o.PayAmount.StringFixed(2))
		}
		if o.PaymentID == "" {
			return false, ErrNoPayment
		}
		var info RefundInfo
		err := s.external(ctx, "payment gateway", func(ctx context.Context) error {
			var err error
			info, err = s.payments.Refund(ctx, o.PaymentID, amount, reason)
			return err
		})
		if err != nil {
			return false, err
		}
		return true, o.RequestRefund(amount, strings.TrimSpace(reason), info.RefundID)
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.InfoContext(ctx, "refund requested",
		slog.String("order_id", o.ID),
		slog.String("refund_id", o.RefundID),
		slog.String("amount", amount.StringFixed(2)),
	)
	s.notify(ctx, notify.RefundRequested, o, map[string]any{"amount": amount.StringFixed(2)})
	return o, nil
}

func (s *Service) ConfirmRefund(ctx context.Context, orderID string) (domain.Order, error) {
	o, _, err := s.update(ctx, orderID, "", func(o *domain.Order) (bool, error) {
		return true, o.ConfirmRefund(s.now().UTC())
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.log.InfoContext(ctx, "refund completed", slog.String("order_id", o.ID))
	s.notify(ctx, notify.RefundSuccess, o, map[string]any{"amount": o.RefundAmount.StringFixed(2)})
	return o, nil
}

type EventKind string

const (
	EventPaid      EventKind = "paid"
	EventShipped   EventKind = "shipped"
	EventDelivered EventKind = "delivered"
	EventCancelled EventKind = "cancelled"
	EventRefund    EventKind = "refund"
	EventRefunded  EventKind = "refunded"
)

type Event struct {
	Kind          EventKind
	TransactionID string
	CompanyCode   string
	Amount        decimal.Decimal
	Reason        string
}

// Transition dispatches an external event to the matching operation.
// Events arrive from trusted callers, so no ownership check is made.
func (s *Service) Transition(ctx context.Context, orderID string, ev Event) (domain.Order, error) {
	switch ev.Kind {
	case EventPaid:
		return s.MarkPaid(ctx, orderID, ev.TransactionID)
	case EventShipped:
		return s.Ship(ctx, orderID, ev.CompanyCode)
	case EventDelivered:
		return s.MarkDelivered(ctx, orderID)
	case EventCancelled:
		return s.Cancel(ctx, orderID, "")
	case EventRefund:
		return s.RequestRefund(ctx, orderID, "", ev.Amount, ev.Reason)
	case EventRefunded:
		return s.ConfirmRefund(ctx, orderID)
	}
	return domain.Order{}, apperr.Invalid("event", "unknown event %q", ev.Kind)
}
