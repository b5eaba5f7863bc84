package app

import (
	"context"
	"strings"

	"github.com/dwikikusuma/digimall/internal/cart/domain"
	"github.com/dwikikusuma/digimall/pkg/apperr"
)

var (
	ErrLineNotFound       = apperr.NotFound("CART_LINE_NOT_FOUND", "cart line not found")
	ErrProductUnavailable = apperr.Conflict("PRODUCT_UNAVAILABLE", "product is not available for sale")
)

type Service struct {
	repo    CartRepo
	catalog ProductReader
}

func NewService(repo CartRepo, catalog ProductReader) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
	}
}

type AddItemInput struct {
	ProductID string
	Quantity  int
	Specs     domain.Specs
}

func (s *Service) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Cart{}, apperr.Invalid("user_id", "is required")
	}
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.NewCart(userID, lines), nil
}

// AddItem puts qty units in the cart. Adding a product and spec combination
// that is already there increments that line.
func (s *Service) AddItem(ctx context.Context, userID string, in AddItemInput) (domain.CartLine, error) {
	var v apperr.Validator
	v.Required(strings.TrimSpace(userID), "user_id")
	v.Required(strings.TrimSpace(in.ProductID), "product_id")
	v.Check(in.Quantity >= 1, "quantity", "must be >= 1")
	if err := v.Err(); err != nil {
		return domain.CartLine{}, err
	}

	if err := s.checkStock(ctx, in.ProductID, in.Quantity); err != nil {
		return domain.CartLine{}, err
	}

	return s.repo.AddLine(ctx, domain.CartLine{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Specs:     in.Specs.Clone(),
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, lineID string, qty int) (domain.CartLine, error) {
	var v apperr.Validator
	v.Required(strings.TrimSpace(userID), "user_id")
	v.Required(strings.TrimSpace(lineID), "line_id")
	v.Check(qty >= 1, "quantity", "must be >= 1")
	if err := v.Err(); err != nil {
		return domain.CartLine{}, err
	}

	line, err := s.repo.GetLine(ctx, userID, lineID)
	if err != nil {
		return domain.CartLine{}, err
	}
	if err := s.checkStock(ctx, line.ProductID, qty); err != nil {
		return domain.CartLine{}, err
	}

	return s.repo.SetQuantity(ctx, userID, lineID, qty)
}

func (s *Service) RemoveItem(ctx context.Context, userID, lineID string) error {
	var v apperr.Validator
	v.Required(strings.TrimSpace(userID), "user_id")
	v.Required(strings.TrimSpace(lineID), "line_id")
	if err := v.Err(); err != nil {
		return err
	}
	return s.repo.RemoveLine(ctx, userID, lineID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Invalid("user_id", "is required")
	}
	return s.repo.Clear(ctx, userID)
}

// ConsumeLines removes lines that became part of an order.
func (s *Service) ConsumeLines(ctx context.Context, userID string, lineIDs []string) ([]domain.CartLine, error) {
	if len(lineIDs) == 0 {
		return nil, apperr.Invalid("cart_line_ids", "at least one id is required")
	}
	return s.repo.ConsumeLines(ctx, userID, lineIDs)
}

// RestoreLines puts consumed lines back after a failed order.
func (s *Service) RestoreLines(ctx context.Context, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	return s.repo.RestoreLines(ctx, lines)
}

func (s *Service) checkStock(ctx context.Context, productID string, qty int) error {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !p.Listed {
		return ErrProductUnavailable
	}
	if p.Stock < qty {
		return apperr.InsufficientStock(productID, qty, p.Stock)
	}
	return nil
}
