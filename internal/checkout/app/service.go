package app

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/digimall/internal/checkout/domain"
	"github.com/dwikikusuma/digimall/pkg/apperr"
)

type CartReader interface {
	ListLines(ctx context.Context, userID string) ([]CartLine, error)
}

type CartLine struct {
	ID        string
	ProductID string
	Quantity  int
	Specs     map[string]string
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Stock    int
	Inactive bool
}

var (
	ErrEmptySelection   = apperr.New(apperr.KindValidation, "EMPTY_SELECTION", "no cart lines selected")
	ErrCartLineNotFound = apperr.NotFound("CART_LINE_NOT_FOUND", "cart line not found")
	ErrProductMissing   = apperr.NotFound("PRODUCT_NOT_FOUND", "product no longer exists")
)

type Service struct {
	Cart    CartReader
	Catalog CatalogReader

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		maxConcurrent: maxConcurrent,
	}
}

// Resolve prices the selected cart lines against live products and checks
// stock. Lines come back in the order the ids were given.
func (s *Service) Resolve(ctx context.Context, userID string, cartLineIDs []string) (domain.OrderDraft, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.OrderDraft{}, apperr.Invalid("user_id", "is required")
	}

	ids := dedupe(cartLineIDs)
	if len(ids) == 0 {
		return domain.OrderDraft{}, ErrEmptySelection
	}

	all, err := s.Cart.ListLines(ctx, userID)
	if err != nil {
		return domain.OrderDraft{}, err
	}
	byID := make(map[string]CartLine, len(all))
	for _, ln := range all {
		byID[ln.ID] = ln
	}

	selected := make([]CartLine, 0, len(ids))
	var missing []string
	for _, id := range ids {
		ln, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		selected = append(selected, ln)
	}
	if len(selected) == 0 {
		return domain.OrderDraft{}, ErrEmptySelection
	}
	if len(missing) > 0 {
		return domain.OrderDraft{}, ErrCartLineNotFound.WithMessage("cart line %s not found", missing[0])
	}

	lines := make([]domain.DraftLine, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range selected {
		g.Go(func() error {
			it := selected[idx]
			if it.Quantity <= 0 {
				return apperr.Invalid("quantity", "must be >= 1 for cart line %s", it.ID)
			}

			product, err := s.Catalog.GetProduct(gctx, it.ProductID)
			if apperr.IsKind(err, apperr.KindNotFound) {
				return ErrProductMissing.WithMessage("product %s no longer exists", it.ProductID)
			}
			if err != nil {
				return err
			}

			available := product.Stock
			if product.Inactive {
				available = 0
			}
			if available < it.Quantity {
				return apperr.InsufficientStock(product.ID, it.Quantity, available)
			}

			lines[idx] = domain.DraftLine{
				CartLineID:  it.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    it.Quantity,
				Specs:       it.Specs,
				Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.OrderDraft{}, err
	}

	return domain.OrderDraft{
		UserID: userID,
		Lines:  lines,
		Total:  domain.Total(lines),
	}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
