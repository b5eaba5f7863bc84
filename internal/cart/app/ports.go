package app

import (
	"context"

	"github.com/dwikikusuma/digimall/internal/cart/domain"
)

type CartRepo interface {
	ListLines(ctx context.Context, userID string) ([]domain.CartLine, error)
	GetLine(ctx context.Context, userID, lineID string) (domain.CartLine, error)
	// AddLine inserts line, or increments the quantity of the existing line
	// with the same product and specs.
	AddLine(ctx context.Context, line domain.CartLine) (domain.CartLine, error)
	SetQuantity(ctx context.Context, userID, lineID string, qty int) (domain.CartLine, error)
	RemoveLine(ctx context.Context, userID, lineID string) error
	// ConsumeLines deletes every listed line and returns them, or deletes
	// nothing and fails with ErrLineNotFound if any is missing.
	ConsumeLines(ctx context.Context, userID string, lineIDs []string) ([]domain.CartLine, error)
	RestoreLines(ctx context.Context, lines []domain.CartLine) error
	Clear(ctx context.Context, userID string) error
}

type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID    string
	Stock int
	// Listed is false for products taken off sale.
	Listed bool
}
