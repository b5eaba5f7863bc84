package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dwikikusuma/digimall/internal/cart/app"
	"github.com/dwikikusuma/digimall/internal/cart/domain"
	"github.com/dwikikusuma/digimall/pkg/postgres"
)

const lineColumns = `id, user_id, product_id, quantity, specs, created_at, updated_at`

type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLine(row rowScanner) (domain.CartLine, error) {
	var (
		ln    domain.CartLine
		specs []byte
	)
	if err := row.Scan(&ln.ID, &ln.UserID, &ln.ProductID, &ln.Quantity, &specs, &ln.CreatedAt, &ln.UpdatedAt); err != nil {
		return domain.CartLine{}, err
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &ln.Specs); err != nil {
			return domain.CartLine{}, err
		}
	}
	if len(ln.Specs) == 0 {
		ln.Specs = nil
	}
	return ln, nil
}

func collectLines(rows *sql.Rows) ([]domain.CartLine, error) {
	defer rows.Close()

	var out []domain.CartLine
	for rows.Next() {
		ln, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ln)
	}
	return out, rows.Err()
}

func specsJSON(s domain.Specs) ([]byte, error) {
	if s == nil {
		s = domain.Specs{}
	}
	return json.Marshal(s)
}

func (r *CartRepo) ListLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lineColumns+` FROM cart_items WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	return collectLines(rows)
}

func (r *CartRepo) GetLine(ctx context.Context, userID, lineID string) (domain.CartLine, error) {
	if _, err := uuid.Parse(lineID); err != nil {
		return domain.CartLine{}, app.ErrLineNotFound
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+lineColumns+` FROM cart_items WHERE user_id = $1 AND id = $2`, userID, lineID)
	ln, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CartLine{}, app.ErrLineNotFound
	}
	return ln, err
}

func (r *CartRepo) AddLine(ctx context.Context, line domain.CartLine) (domain.CartLine, error) {
	return upsertLine(ctx, r.db, line)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// upsertLine relies on the (user_id, product_id, specs_key) unique key so
// concurrent adds of the same line increment instead of duplicating.
func upsertLine(ctx context.Context, q queryer, line domain.CartLine) (domain.CartLine, error) {
	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	specs, err := specsJSON(line.Specs)
	if err != nil {
		return domain.CartLine{}, err
	}

	row := q.QueryRowContext(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity, specs, specs_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id, specs_key)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING `+lineColumns,
		line.ID, line.UserID, line.ProductID, line.Quantity, specs, line.Specs.Key())

	return scanLine(row)
}

func (r *CartRepo) SetQuantity(ctx context.Context, userID, lineID string, qty int) (domain.CartLine, error) {
	if _, err := uuid.Parse(lineID); err != nil {
		return domain.CartLine{}, app.ErrLineNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE cart_items SET quantity = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+lineColumns,
		userID, lineID, qty)
	ln, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CartLine{}, app.ErrLineNotFound
	}
	return ln, err
}

func (r *CartRepo) RemoveLine(ctx context.Context, userID, lineID string) error {
	if _, err := uuid.Parse(lineID); err != nil {
		return app.ErrLineNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = $2`, userID, lineID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return app.ErrLineNotFound
	}
	return nil
}

// ConsumeLines deletes inside a transaction and rolls back unless every
// requested line was deleted.
func (r *CartRepo) ConsumeLines(ctx context.Context, userID string, lineIDs []string) ([]domain.CartLine, error) {
	for _, id := range lineIDs {
		if _, err := uuid.Parse(id); err != nil {
			return nil, app.ErrLineNotFound.WithMessage("cart line %s not found", id)
		}
	}

	var consumed []domain.CartLine
	err := postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2::uuid[]) RETURNING `+lineColumns,
			userID, pq.Array(lineIDs))
		if err != nil {
			return err
		}
		lines, err := collectLines(rows)
		if err != nil {
			return err
		}
		if len(lines) != len(uniqueIDs(lineIDs)) {
			return app.ErrLineNotFound
		}
		consumed = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consumed, nil
}

func (r *CartRepo) RestoreLines(ctx context.Context, lines []domain.CartLine) error {
	return postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, ln := range lines {
			if _, err := upsertLine(ctx, tx, ln); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func uniqueIDs(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
