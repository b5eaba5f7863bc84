package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dwikikusuma/digimall/internal/order/app"
	"github.com/dwikikusuma/digimall/internal/order/domain"
	"github.com/dwikikusuma/digimall/pkg/postgres"
)

const orderColumns = `id, order_no, user_id, total_amount, discount_amount, pay_amount, user_coupon_id,
	status, payment_method, payment_status, payment_id, transaction_id, shipping_address, remark,
	shipping_company, tracking_number, refund_amount, refund_reason, refund_id, refund_status,
	version, created_at, updated_at, paid_at, shipped_at, delivered_at, cancelled_at, refunded_at`

const itemColumns = `id, order_id, product_id, product_name, product_price, quantity, specs, subtotal`

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o                                             domain.Order
		status, payStatus, refundStatus               string
		address                                       []byte
		paid, shipped, delivered, cancelled, refunded pq.NullTime
	)
	err := row.Scan(&o.ID, &o.OrderNo, &o.UserID, &o.TotalAmount, &o.DiscountAmount, &o.PayAmount, &o.UserCouponID,
		&status, &o.PaymentMethod, &payStatus, &o.PaymentID, &o.TransactionID, &address, &o.Remark,
		&o.ShippingCompany, &o.TrackingNumber, &o.RefundAmount, &o.RefundReason, &o.RefundID, &refundStatus,
		&o.Version, &o.CreatedAt, &o.UpdatedAt, &paid, &shipped, &delivered, &cancelled, &refunded)
	if err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return domain.Order{}, fmt.Errorf("decode shipping address: %w", err)
	}
	o.Status = domain.Status(status)
	o.PaymentStatus = domain.PaymentStatus(payStatus)
	o.RefundStatus = domain.RefundStatus(refundStatus)
	o.PaidAt = timePtr(paid)
	o.ShippedAt = timePtr(shipped)
	o.DeliveredAt = timePtr(delivered)
	o.CancelledAt = timePtr(cancelled)
	o.RefundedAt = timePtr(refunded)
	return o, nil
}

func timePtr(t pq.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (r *OrderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return domain.Order{}, err
	}
	o.Version = 1

	err = postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (`+orderColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`,
			o.ID, o.OrderNo, o.UserID, o.TotalAmount, o.DiscountAmount, o.PayAmount, o.UserCouponID,
			string(o.Status), o.PaymentMethod, string(o.PaymentStatus), o.PaymentID, o.TransactionID, address, o.Remark,
			o.ShippingCompany, o.TrackingNumber, o.RefundAmount, o.RefundReason, o.RefundID, string(o.RefundStatus),
			o.Version, o.CreatedAt, o.UpdatedAt, o.PaidAt, o.ShippedAt, o.DeliveredAt, o.CancelledAt, o.RefundedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i, it := range o.Items {
			if _, err := uuid.Parse(it.ProductID); err != nil {
				return fmt.Errorf("item %d: invalid product UUID: %w", i, err)
			}
			specs, err := json.Marshal(specsOrEmpty(it.Specs))
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (id, order_id, position, product_id, product_name, product_price, quantity, specs, subtotal)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				it.ID, o.ID, i, it.ProductID, it.ProductName, it.ProductPrice, it.Quantity, specs, it.Subtotal)
			if err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func specsOrEmpty(s map[string]string) map[string]string {
	if s == nil {
		return map[string]string{}
	}
	return s
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Order{}, app.ErrOrderNotFound
	}
	return r.getBy(ctx, "id", id)
}

func (r *OrderRepo) GetByPaymentID(ctx context.Context, paymentID string) (domain.Order, error) {
	if paymentID == "" {
		return domain.Order{}, app.ErrOrderNotFound
	}
	return r.getBy(ctx, "payment_id", paymentID)
}

func (r *OrderRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (domain.Order, error) {
	if trackingNumber == "" {
		return domain.Order{}, app.ErrOrderNotFound
	}
	return r.getBy(ctx, "tracking_number", trackingNumber)
}

// getBy is only called with fixed column names.
func (r *OrderRepo) getBy(ctx context.Context, column, value string) (domain.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+column+` = $1 LIMIT 1`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, app.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	items, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orderIDs []string) (map[string][]domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`,
		pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.LineItem, len(orderIDs))
	for rows.Next() {
		var (
			it      domain.LineItem
			orderID string
			specs   []byte
		)
		if err := rows.Scan(&it.ID, &orderID, &it.ProductID, &it.ProductName, &it.ProductPrice, &it.Quantity, &specs, &it.Subtotal); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(specs, &it.Specs); err != nil {
			return nil, err
		}
		if len(it.Specs) == 0 {
			it.Specs = nil
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

func (r *OrderRepo) List(ctx context.Context, f app.ListFilter) ([]domain.Order, int, error) {
	where := []string{"user_id = $1"}
	args := []any{f.UserID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM orders WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, max(f.Offset, 0))
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT `+orderColumns+` FROM orders WHERE %s ORDER BY created_at DESC, order_no DESC LIMIT $%d OFFSET $%d`,
			cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, f.Limit)
	ids := make([]string, 0, f.Limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return orders, total, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, total, nil
}

// Update writes the mutable order columns. Line items are fixed at creation.
func (r *OrderRepo) Update(ctx context.Context, o domain.Order) (domain.Order, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET
			status = $2, payment_status = $3, payment_id = $4, transaction_id = $5,
			shipping_company = $6, tracking_number = $7,
			refund_amount = $8, refund_reason = $9, refund_id = $10, refund_status = $11,
			updated_at = $12, paid_at = $13, shipped_at = $14, delivered_at = $15,
			cancelled_at = $16, refunded_at = $17,
			version = version + 1
		WHERE id = $1 AND version = $18`,
		o.ID, string(o.Status), string(o.PaymentStatus), o.PaymentID, o.TransactionID,
		o.ShippingCompany, o.TrackingNumber,
		o.RefundAmount, o.RefundReason, o.RefundID, string(o.RefundStatus),
		o.UpdatedAt, o.PaidAt, o.ShippedAt, o.DeliveredAt,
		o.CancelledAt, o.RefundedAt,
		o.Version)
	if err != nil {
		return domain.Order{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, err
	}
	if n == 0 {
		if _, err := r.Get(ctx, o.ID); err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, app.ErrVersionConflict
	}
	o.Version++
	return o, nil
}
