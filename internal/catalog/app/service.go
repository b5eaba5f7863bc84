package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/digimall/internal/catalog/domain"
	"github.com/dwikikusuma/digimall/pkg/apperr"
)

// maxPriceScale is the number of decimal places a price may carry.
const maxPriceScale = 4

var (
	ErrNotFound        = apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
	ErrVersionConflict = apperr.Conflict("PRODUCT_VERSION_CONFLICT", "product was modified concurrently")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Status      domain.ProductStatus
}

func (s *Service) CreateProduct(ctx context.Context, in NewProduct) (domain.Product, error) {
	name := strings.TrimSpace(in.Name)

	var v apperr.Validator
	v.Required(name, "name")
	checkPrice(&v, in.Price)
	v.Check(in.Stock >= 0, "stock", "must be >= 0")
	if in.Status != "" {
		v.Check(in.Status == domain.ProductActive || in.Status == domain.ProductInactive, "status", "must be active or inactive")
	}
	if err := v.Err(); err != nil {
		return domain.Product{}, err
	}

	status := in.Status
	if status == "" {
		status = domain.ProductActive
	}
	if status == domain.ProductActive && in.Stock == 0 {
		status = domain.ProductOutOfStock
	}

	p := domain.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Status:      status,
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, apperr.Invalid("id", "is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, limit, cursor)
}

// UpdateProduct applies an allow-listed patch. A product cannot be set to
// out_of_stock by hand; asking for active with no stock yields out_of_stock.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	var v apperr.Validator
	v.Required(strings.TrimSpace(id), "id")
	v.Check(!patch.Empty(), "patch", "at least one field is required")
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
		v.Required(trimmed, "name")
	}
	if patch.Price != nil {
		checkPrice(&v, *patch.Price)
	}
	if patch.Status != nil {
		v.Check(*patch.Status == domain.ProductActive || *patch.Status == domain.ProductInactive, "status", "must be active or inactive")
	}
	if err := v.Err(); err != nil {
		return domain.Product{}, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	next := patch.Apply(current)
	if next.Status == domain.ProductActive && next.Stock == 0 {
		next.Status = domain.ProductOutOfStock
	}
	return s.repo.Update(ctx, next)
}

// checkPrice keeps prices at full precision. Totals are rounded once, at
// checkout.
func checkPrice(v *apperr.Validator, price decimal.Decimal) {
	switch {
	case price.IsNegative():
		v.Add("price", "must be >= 0")
	case !price.Equal(price.Truncate(maxPriceScale)):
		v.Add("price", fmt.Sprintf("must have at most %d decimal places", maxPriceScale))
	}
}
