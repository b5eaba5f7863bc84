package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/digimall/internal/cart/app"
	catalogapp "github.com/dwikikusuma/digimall/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/digimall/internal/catalog/domain"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (cartapp.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		return cartapp.Product{}, err
	}

	return cartapp.Product{
		ID:     p.ID,
		Stock:  p.Stock,
		Listed: p.Status != catalogdomain.ProductInactive,
	}, nil
}
