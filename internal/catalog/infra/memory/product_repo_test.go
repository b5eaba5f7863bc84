package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/digimall/internal/catalog/app"
	"github.com/dwikikusuma/digimall/internal/catalog/domain"
	"github.com/dwikikusuma/digimall/pkg/apperr"
)

func seed(t *testing.T, r *ProductRepo, name string, stock int) domain.Product {
	t.Helper()
	p, err := r.Create(context.Background(), domain.Product{
		Name:   name,
		Price:  decimal.NewFromInt(10),
		Stock:  stock,
		Status: domain.ProductActive,
	})
	require.NoError(t, err)
	return p
}

func TestApplyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepo()
	a := seed(t, r, "a", 5)
	b := seed(t, r, "b", 1)

	err := r.Apply(ctx, []domain.StockAdjustment{
		{ProductID: a.ID, Stock: -2, Sold: 2},
		{ProductID: b.ID, Stock: -2, Sold: 2},
	})
	require.True(t, errors.Is(err, apperr.ErrInsufficientStock))

	gotA, _ := r.Get(ctx, a.ID)
	gotB, _ := r.Get(ctx, b.ID)
	assert.Equal(t, 5, gotA.Stock)
	assert.Equal(t, 1, gotB.Stock)
}

func TestApplyUnknownProduct(t *testing.T) {
	r := NewProductRepo()
	err := r.Apply(context.Background(), []domain.StockAdjustment{{ProductID: "nope", Stock: -1}})
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestUpdateChecksVersion(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepo()
	p := seed(t, r, "a", 5)

	p.Name = "renamed"
	updated, err := r.Update(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	_, err = r.Update(ctx, p)
	assert.ErrorIs(t, err, app.ErrVersionConflict)
}

func TestListPaginates(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepo()
	for _, n := range []string{"phone", "laptop", "phone case"} {
		seed(t, r, n, 1)
	}

	page, cursor, err := r.List(ctx, "phone", 1, "")
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.NotEmpty(t, cursor)

	rest, next, err := r.List(ctx, "phone", 10, cursor)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.Empty(t, next)
	assert.NotEqual(t, page[0].ID, rest[0].ID)
}
