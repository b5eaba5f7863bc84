package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/digimall/internal/cart/app"
	"github.com/dwikikusuma/digimall/internal/cart/domain"
	"github.com/dwikikusuma/digimall/internal/cart/infra/memory"
	"github.com/dwikikusuma/digimall/pkg/apperr"
)

type fakeCatalog map[string]app.Product

func (f fakeCatalog) GetProduct(ctx context.Context, productID string) (app.Product, error) {
	p, ok := f[productID]
	if !ok {
		return app.Product{}, apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
	}
	return p, nil
}

func newService() *app.Service {
	catalog := fakeCatalog{
		"phone":   {ID: "phone", Stock: 10, Listed: true},
		"retired": {ID: "retired", Stock: 10, Listed: false},
	}
	return app.NewService(memory.NewCartRepo(), catalog)
}

func TestAddItemMergesSameSpecs(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	first, err := svc.AddItem(ctx, "u1", app.AddItemInput{ProductID: "phone", Quantity: 1, Specs: domain.Specs{"color": "black"}})
	require.NoError(t, err)
	second, err := svc.AddItem(ctx, "u1", app.AddItemInput{ProductID: "phone", Quantity: 2, Specs: domain.Specs{"color": "black"}})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", app.AddItemInput{ProductID: "phone", Quantity: 1, Specs: domain.Specs{"color": "white"}})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
	assert.Equal(t, 4, cart.TotalQuantity)
}

func TestAddItemChecksProduct(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.AddItem(ctx, "u1", app.AddItemInput{ProductID: "phone", Quantity: 11})
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	_, err = svc.AddItem(ctx, "u1", app.AddItemInput{ProductID: "retired", Quantity: 1})
	assert.ErrorIs(t, err, app.ErrProductUnavailable)

	_, err = svc.AddItem(ctx, "u1", app.AddItemInput{ProductID: "ghost", Quantity: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.AddItem(ctx, "", app.AddItemInput{Quantity: 0})
	fields := apperr.FieldsOf(err)
	assert.Contains(t, fields, "user_id")
	assert.Contains(t, fields, "product_id")
	assert.Contains(t, fields, "quantity")
}

func TestUpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	line, err := svc.AddItem(ctx, "u1", app.AddItemInput{ProductID: "phone", Quantity: 1})
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(ctx, "u1", line.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = svc.UpdateQuantity(ctx, "u2", line.ID, 5)
	assert.ErrorIs(t, err, app.ErrLineNotFound)

	require.NoError(t, svc.RemoveItem(ctx, "u1", line.ID))
	assert.ErrorIs(t, svc.RemoveItem(ctx, "u1", line.ID), app.ErrLineNotFound)
}

func TestConsumeLinesIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	a, err := svc.AddItem(ctx, "u1", app.AddItemInput{ProductID: "phone", Quantity: 1, Specs: domain.Specs{"color": "a"}})
	require.NoError(t, err)
	b, err := svc.AddItem(ctx, "u1", app.AddItemInput{ProductID: "phone", Quantity: 1, Specs: domain.Specs{"color": "b"}})
	require.NoError(t, err)

	_, err = svc.ConsumeLines(ctx, "u1", []string{a.ID, "missing"})
	require.ErrorIs(t, err, app.ErrLineNotFound)

	cart, _ := svc.GetCart(ctx, "u1")
	assert.Len(t, cart.Lines, 2)

	consumed, err := svc.ConsumeLines(ctx, "u1", []string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, consumed, 2)

	require.NoError(t, svc.RestoreLines(ctx, consumed))
	cart, _ = svc.GetCart(ctx, "u1")
	assert.Len(t, cart.Lines, 2)
}
