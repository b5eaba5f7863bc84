package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dwikikusuma/digimall/internal/coupon/app"
	"github.com/dwikikusuma/digimall/internal/coupon/domain"
	"github.com/dwikikusuma/digimall/pkg/postgres"
)

const (
	couponColumns     = `id, name, type, value, min_amount, max_discount, start_time, end_time, total_count, used_count, status, description, created_at`
	userCouponColumns = `id, user_id, coupon_id, status, received_at, used_at, order_id`
)

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row rowScanner) (domain.Coupon, error) {
	var (
		c           domain.Coupon
		typ, status string
	)
	err := row.Scan(&c.ID, &c.Name, &typ, &c.Value, &c.MinAmount, &c.MaxDiscount, &c.StartTime, &c.EndTime,
		&c.TotalCount, &c.UsedCount, &status, &c.Description, &c.CreatedAt)
	if err != nil {
		return domain.Coupon{}, err
	}
	c.Type = domain.Type(typ)
	c.Status = domain.Status(status)
	return c, nil
}

func scanUserCoupon(row rowScanner) (domain.UserCoupon, error) {
	var (
		uc     domain.UserCoupon
		status string
		usedAt pq.NullTime
	)
	if err := row.Scan(&uc.ID, &uc.UserID, &uc.CouponID, &status, &uc.ReceivedAt, &usedAt, &uc.OrderID); err != nil {
		return domain.UserCoupon{}, err
	}
	uc.Status = domain.UserCouponStatus(status)
	if usedAt.Valid {
		t := usedAt.Time
		uc.UsedAt = &t
	}
	return uc, nil
}

func (r *CouponRepo) CreateCoupon(ctx context.Context, c domain.Coupon) (domain.Coupon, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (id, name, type, value, min_amount, max_discount, start_time, end_time, total_count, used_count, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+couponColumns,
		c.ID, c.Name, string(c.Type), c.Value, c.MinAmount, c.MaxDiscount, c.StartTime, c.EndTime,
		c.TotalCount, c.UsedCount, string(c.Status), c.Description)
	return scanCoupon(row)
}

func (r *CouponRepo) GetCoupon(ctx context.Context, id string) (domain.Coupon, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Coupon{}, app.ErrCouponNotFound
	}
	c, err := scanCoupon(r.db.QueryRowContext(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coupon{}, app.ErrCouponNotFound
	}
	return c, err
}

func (r *CouponRepo) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CouponRepo) CreateUserCoupon(ctx context.Context, uc domain.UserCoupon) (domain.UserCoupon, error) {
	if uc.ID == "" {
		uc.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO user_coupons (id, user_id, coupon_id, status, received_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userCouponColumns,
		uc.ID, uc.UserID, uc.CouponID, string(uc.Status), uc.ReceivedAt)
	created, err := scanUserCoupon(row)
	if postgres.IsUniqueViolation(err) {
		return domain.UserCoupon{}, app.ErrAlreadyClaimed
	}
	return created, err
}

func (r *CouponRepo) GetUserCoupon(ctx context.Context, id string) (domain.UserCoupon, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.UserCoupon{}, app.ErrCouponNotFound
	}
	uc, err := scanUserCoupon(r.db.QueryRowContext(ctx, `SELECT `+userCouponColumns+` FROM user_coupons WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserCoupon{}, app.ErrCouponNotFound
	}
	return uc, err
}

func (r *CouponRepo) ListUserCoupons(ctx context.Context, userID string) ([]domain.UserCoupon, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userCouponColumns+` FROM user_coupons WHERE user_id = $1 ORDER BY received_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserCoupon
	for rows.Next() {
		uc, err := scanUserCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

func (r *CouponRepo) ExpireUserCoupons(ctx context.Context, ids []string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_coupons SET status = 'expired' WHERE id = ANY($1::uuid[]) AND status = 'unused'`,
		pq.Array(ids))
	return err
}

// Redeem flips the claim and bumps used_count in one transaction. The
// conditional updates make two concurrent redemptions of the last unit
// resolve to one winner.
func (r *CouponRepo) Redeem(ctx context.Context, userCouponID, orderID string, at time.Time) error {
	if _, err := uuid.Parse(userCouponID); err != nil {
		return app.ErrCouponNotFound
	}

	return postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var couponID string
		err := tx.QueryRowContext(ctx, `
			UPDATE user_coupons SET status = 'used', used_at = $2, order_id = $3
			WHERE id = $1 AND status = 'unused'
			RETURNING coupon_id`,
			userCouponID, at, orderID).Scan(&couponID)
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM user_coupons WHERE id = $1)`, userCouponID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return app.ErrCouponNotFound
			}
			return app.ErrAlreadyUsed
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE coupons SET used_count = used_count + 1 WHERE id = $1 AND used_count < total_count`, couponID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return app.ErrCouponExhausted
		}
		return nil
	})
}

func (r *CouponRepo) Restore(ctx context.Context, userCouponID string) error {
	if _, err := uuid.Parse(userCouponID); err != nil {
		return app.ErrCouponNotFound
	}

	return postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var couponID string
		err := tx.QueryRowContext(ctx, `
			UPDATE user_coupons SET status = 'unused', used_at = NULL, order_id = ''
			WHERE id = $1 AND status = 'used'
			RETURNING coupon_id`, userCouponID).Scan(&couponID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE coupons SET used_count = GREATEST(used_count - 1, 0) WHERE id = $1`, couponID)
		return err
	})
}
