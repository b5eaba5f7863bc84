// Package inventory owns stock movement. Every change to a product's stock
// or sold count goes through a Ledger so that multi-line reservations are
// applied as one batch.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/digimall/internal/catalog/domain"
	"github.com/dwikikusuma/digimall/pkg/apperr"
	"github.com/dwikikusuma/digimall/pkg/logger"
)

// StockStore applies a batch of adjustments atomically: either every
// adjustment is written or none is.
type StockStore interface {
	Apply(ctx context.Context, adjs []domain.StockAdjustment) error
}

type Line struct {
	ProductID string
	Quantity  int
}

type Ledger struct {
	store StockStore
	log   *slog.Logger
}

func NewLedger(store StockStore, log *slog.Logger) *Ledger {
	return &Ledger{store: store, log: logger.OrNop(log)}
}

func (l *Ledger) Reserve(ctx context.Context, productID string, qty int) error {
	return l.ReserveAll(ctx, []Line{{ProductID: productID, Quantity: qty}})
}

// ReserveAll takes stock for every line or for none of them. Lines naming the
// same product are summed before the stock check.
func (l *Ledger) ReserveAll(ctx context.Context, lines []Line) error {
	adjs, err := toAdjustments(lines, func(qty int) domain.StockAdjustment {
		return domain.StockAdjustment{Stock: -qty, Sold: qty}
	})
	if err != nil {
		return err
	}
	if err := l.store.Apply(ctx, adjs); err != nil {
		return err
	}
	l.log.DebugContext(ctx, "stock reserved", slog.Int("lines", len(lines)))
	return nil
}

func (l *Ledger) Release(ctx context.Context, productID string, qty int) error {
	return l.ReleaseAll(ctx, []Line{{ProductID: productID, Quantity: qty}})
}

// ReleaseAll is the inverse of ReserveAll.
func (l *Ledger) ReleaseAll(ctx context.Context, lines []Line) error {
	adjs, err := toAdjustments(lines, func(qty int) domain.StockAdjustment {
		return domain.StockAdjustment{Stock: qty, Sold: -qty}
	})
	if err != nil {
		return err
	}
	if err := l.store.Apply(ctx, adjs); err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	l.log.DebugContext(ctx, "stock released", slog.Int("lines", len(lines)))
	return nil
}

// RecordSale bumps sold count for a sale that did not go through a
// reservation. Stock is left alone.
func (l *Ledger) RecordSale(ctx context.Context, productID string, qty int) error {
	adjs, err := toAdjustments([]Line{{ProductID: productID, Quantity: qty}}, func(qty int) domain.StockAdjustment {
		return domain.StockAdjustment{Sold: qty}
	})
	if err != nil {
		return err
	}
	return l.store.Apply(ctx, adjs)
}

func toAdjustments(lines []Line, build func(qty int) domain.StockAdjustment) ([]domain.StockAdjustment, error) {
	var v apperr.Validator
	v.Check(len(lines) > 0, "lines", "at least one line is required")
	for i, ln := range lines {
		v.Check(strings.TrimSpace(ln.ProductID) != "", fmt.Sprintf("lines[%d].product_id", i), "is required")
		v.Check(ln.Quantity >= 1, fmt.Sprintf("lines[%d].quantity", i), "must be >= 1")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	adjs := make([]domain.StockAdjustment, 0, len(lines))
	for _, ln := range lines {
		a := build(ln.Quantity)
		a.ProductID = ln.ProductID
		adjs = append(adjs, a)
	}
	return adjs, nil
}
