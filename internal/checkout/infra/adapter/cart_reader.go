package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/digimall/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/digimall/internal/checkout/app"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) ListLines(ctx context.Context, userID string) ([]checkoutapp.CartLine, error) {
	cart, err := r.svc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]checkoutapp.CartLine, 0, len(cart.Lines))
	for _, ln := range cart.Lines {
		lines = append(lines, checkoutapp.CartLine{
			ID:        ln.ID,
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			Specs:     ln.Specs,
		})
	}
	return lines, nil
}
