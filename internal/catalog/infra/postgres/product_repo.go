package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dwikikusuma/digimall/internal/catalog/app"
	"github.com/dwikikusuma/digimall/internal/catalog/domain"
	"github.com/dwikikusuma/digimall/pkg/apperr"
	"github.com/dwikikusuma/digimall/pkg/postgres"
)

const productColumns = `id, name, description, price, stock, sold_count, status, version, created_at, updated_at`

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p      domain.Product
		status string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.SoldCount,
		&status, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	p.Status = domain.ProductStatus(status)
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, name, description, price, stock, sold_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.SoldCount, string(p.Status))

	return scanProduct(row)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	var cur uuid.NullUUID
	if strings.TrimSpace(cursor) != "" {
		uid, err := uuid.Parse(strings.TrimSpace(cursor))
		if err != nil {
			return nil, "", apperr.Invalid("cursor", "is not a valid product id")
		}
		cur = uuid.NullUUID{UUID: uid, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		  AND ($2::uuid IS NULL OR id > $2::uuid)
		ORDER BY id
		LIMIT $3`,
		strings.TrimSpace(query), cur, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := make([]domain.Product, 0, limit)
	var nextCursor string

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, p)
		nextCursor = p.ID
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	if len(out) < limit {
		nextCursor = ""
	}

	return out, nextCursor, nil
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4,
		    status = CASE WHEN $5 = 'active' AND stock = 0 THEN 'out_of_stock' ELSE $5 END,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $6
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Price, string(p.Status), p.Version)

	updated, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, p.ID); getErr != nil {
			return domain.Product{}, getErr
		}
		return domain.Product{}, app.ErrVersionConflict
	}
	if err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

// Apply runs every adjustment in one transaction. Each UPDATE is guarded by
// stock + delta >= 0, so a concurrent reservation that already took the
// stock makes this one match zero rows and the whole batch rolls back.
// Rows are touched in id order to keep lock acquisition consistent.
func (r *ProductRepo) Apply(ctx context.Context, adjs []domain.StockAdjustment) error {
	merged := domain.MergeAdjustments(adjs)
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })

	return postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, a := range merged {
			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock = stock + $2,
				    sold_count = GREATEST(sold_count + $3, 0),
				    status = CASE
				        WHEN status = 'active' AND stock + $2 = 0 THEN 'out_of_stock'
				        WHEN status = 'out_of_stock' AND stock + $2 > 0 THEN 'active'
				        ELSE status END,
				    version = version + 1,
				    updated_at = now()
				WHERE id = $1 AND stock + $2 >= 0`,
				a.ProductID, a.Stock, a.Sold)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 1 {
				continue
			}

			var available int
			err = tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, a.ProductID).Scan(&available)
			if errors.Is(err, sql.ErrNoRows) {
				return app.ErrNotFound.WithMessage("product %s not found", a.ProductID)
			}
			if err != nil {
				return err
			}
			return apperr.InsufficientStock(a.ProductID, -a.Stock, available)
		}
		return nil
	})
}
