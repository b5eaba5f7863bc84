package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/digimall/internal/catalog/domain"
	"github.com/dwikikusuma/digimall/internal/catalog/infra/memory"
	"github.com/dwikikusuma/digimall/internal/inventory"
	"github.com/dwikikusuma/digimall/pkg/apperr"
)

func newLedger(t *testing.T, stocks ...int) (*inventory.Ledger, *memory.ProductRepo, []string) {
	t.Helper()
	repo := memory.NewProductRepo()
	ids := make([]string, 0, len(stocks))
	for _, s := range stocks {
		p, err := repo.Create(context.Background(), domain.Product{
			Name:   "p",
			Price:  decimal.NewFromInt(10),
			Stock:  s,
			Status: domain.ProductActive,
		})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return inventory.NewLedger(repo, nil), repo, ids
}

func stockOf(t *testing.T, repo *memory.ProductRepo, id string) domain.Product {
	t.Helper()
	p, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	return p
}

func TestReserveDecrementsStockAndBumpsSold(t *testing.T) {
	ledger, repo, ids := newLedger(t, 5)

	require.NoError(t, ledger.Reserve(context.Background(), ids[0], 3))

	p := stockOf(t, repo, ids[0])
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, 3, p.SoldCount)
}

func TestReserveMoreThanStockLeavesStockUnchanged(t *testing.T) {
	ledger, repo, ids := newLedger(t, 2)

	err := ledger.Reserve(context.Background(), ids[0], 3)

	var stock *apperr.InsufficientStockError
	require.True(t, errors.As(err, &stock))
	assert.Equal(t, ids[0], stock.ProductID)
	assert.Equal(t, 2, stock.Available)
	assert.Equal(t, 2, stockOf(t, repo, ids[0]).Stock)
}

func TestReserveAllIsAllOrNothing(t *testing.T) {
	ledger, repo, ids := newLedger(t, 5, 1)

	err := ledger.ReserveAll(context.Background(), []inventory.Line{
		{ProductID: ids[0], Quantity: 2},
		{ProductID: ids[1], Quantity: 2},
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	assert.Equal(t, 5, stockOf(t, repo, ids[0]).Stock)
	assert.Equal(t, 1, stockOf(t, repo, ids[1]).Stock)
}

func TestReserveAllMergesDuplicateProducts(t *testing.T) {
	ledger, repo, ids := newLedger(t, 3)

	err := ledger.ReserveAll(context.Background(), []inventory.Line{
		{ProductID: ids[0], Quantity: 2},
		{ProductID: ids[0], Quantity: 2},
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 3, stockOf(t, repo, ids[0]).Stock)
}

func TestReleaseRestoresExactly(t *testing.T) {
	ctx := context.Background()
	ledger, repo, ids := newLedger(t, 3)

	require.NoError(t, ledger.Reserve(ctx, ids[0], 3))
	assert.Equal(t, domain.ProductOutOfStock, stockOf(t, repo, ids[0]).Status)

	require.NoError(t, ledger.Release(ctx, ids[0], 3))
	p := stockOf(t, repo, ids[0])
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, 0, p.SoldCount)
	assert.Equal(t, domain.ProductActive, p.Status)
}

func TestRecordSaleLeavesStock(t *testing.T) {
	ledger, repo, ids := newLedger(t, 4)

	require.NoError(t, ledger.RecordSale(context.Background(), ids[0], 2))

	p := stockOf(t, repo, ids[0])
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, 2, p.SoldCount)
}

func TestReserveRejectsBadQuantity(t *testing.T) {
	ledger, _, ids := newLedger(t, 4)

	err := ledger.Reserve(context.Background(), ids[0], 0)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, apperr.FieldsOf(err), "lines[0].quantity")
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	ledger, repo, ids := newLedger(t, 5)

	const workers = 20
	var g errgroup.Group
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			results <- ledger.Reserve(context.Background(), ids[0], 1)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 0, stockOf(t, repo, ids[0]).Stock)
}
