package app

import (
	"context"

	"github.com/dwikikusuma/digimall/internal/catalog/domain"
)

type ProductRepo interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error)
	// Update writes p if the stored version still equals p.Version and
	// returns the stored product with the bumped version.
	Update(ctx context.Context, p domain.Product) (domain.Product, error)
}
