package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/digimall/internal/catalog/domain"
	"github.com/dwikikusuma/digimall/pkg/apperr"
)

type fakeRepo struct {
	stored  domain.Product
	updated *domain.Product
}

func (f *fakeRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = "p-1"
	return p, nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	if id != f.stored.ID {
		return domain.Product{}, ErrNotFound
	}
	return f.stored, nil
}

func (f *fakeRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	return make([]domain.Product, 0, limit), "", nil
}

func (f *fakeRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	f.updated = &p
	return p, nil
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), NewProduct{Name: "   ", Price: decimal.NewFromInt(1)})
		require.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Contains(t, apperr.FieldsOf(err), "name")
	})

	t.Run("negative price -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), NewProduct{Name: "Keyboard", Price: decimal.NewFromInt(-1)})
		assert.Contains(t, apperr.FieldsOf(err), "price")
	})

	t.Run("negative stock -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), NewProduct{Name: "Keyboard", Stock: -1})
		assert.Contains(t, apperr.FieldsOf(err), "stock")
	})

	t.Run("out_of_stock cannot be requested", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), NewProduct{Name: "Keyboard", Status: domain.ProductOutOfStock})
		assert.Contains(t, apperr.FieldsOf(err), "status")
	})
}

func TestCreateProductDefaults(t *testing.T) {
	svc := NewService(&fakeRepo{})

	p, err := svc.CreateProduct(context.Background(), NewProduct{
		Name:  " Keyboard ",
		Price: decimal.RequireFromString("19.999"),
		Stock: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", p.Name)
	assert.Equal(t, domain.ProductOutOfStock, p.Status)
	assert.Equal(t, "19.999", p.Price.String())
}

func TestPriceKeepsPrecision(t *testing.T) {
	svc := NewService(&fakeRepo{})

	p, err := svc.CreateProduct(context.Background(), NewProduct{Name: "Cable", Price: decimal.RequireFromString("0.335"), Stock: 1})
	require.NoError(t, err)
	assert.Equal(t, "0.335", p.Price.String())

	_, err = svc.CreateProduct(context.Background(), NewProduct{Name: "Cable", Price: decimal.RequireFromString("0.00001"), Stock: 1})
	assert.Contains(t, apperr.FieldsOf(err), "price")
}

func TestListProductsClampsLimit(t *testing.T) {
	svc := NewService(&fakeRepo{})

	out, _, err := svc.ListProducts(context.Background(), "", 1000, "")
	require.NoError(t, err)
	assert.Equal(t, 100, cap(out))

	out, _, err = svc.ListProducts(context.Background(), "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, 20, cap(out))
}

func TestUpdateProduct(t *testing.T) {
	repo := &fakeRepo{stored: domain.Product{ID: "p-1", Name: "old", Stock: 0, Status: domain.ProductInactive}}
	svc := NewService(repo)

	active := domain.ProductActive
	name := "new"
	got, err := svc.UpdateProduct(context.Background(), "p-1", domain.ProductPatch{Name: &name, Status: &active})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, domain.ProductOutOfStock, got.Status)

	_, err = svc.UpdateProduct(context.Background(), "p-1", domain.ProductPatch{})
	assert.Contains(t, apperr.FieldsOf(err), "patch")

	_, err = svc.UpdateProduct(context.Background(), "missing", domain.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}
