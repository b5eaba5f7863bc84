package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/digimall/internal/cart/app"
	cartdomain "github.com/dwikikusuma/digimall/internal/cart/domain"
	orderapp "github.com/dwikikusuma/digimall/internal/order/app"
)

type CartStore struct {
	svc *cartapp.Service
}

func NewCartStore(svc *cartapp.Service) *CartStore {
	return &CartStore{svc: svc}
}

func (a *CartStore) ConsumeLines(ctx context.Context, userID string, lineIDs []string) (orderapp.ConsumedLines, error) {
	lines, err := a.svc.ConsumeLines(ctx, userID, lineIDs)
	if err != nil {
		return orderapp.ConsumedLines{}, err
	}

	out := orderapp.ConsumedLines{UserID: userID, Lines: make([]orderapp.ConsumedLine, 0, len(lines))}
	for _, ln := range lines {
		out.Lines = append(out.Lines, orderapp.ConsumedLine{
			ID:        ln.ID,
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			Specs:     ln.Specs,
		})
	}
	return out, nil
}

func (a *CartStore) RestoreLines(ctx context.Context, consumed orderapp.ConsumedLines) error {
	lines := make([]cartdomain.CartLine, 0, len(consumed.Lines))
	for _, ln := range consumed.Lines {
		lines = append(lines, cartdomain.CartLine{
			ID:        ln.ID,
			UserID:    consumed.UserID,
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			Specs:     ln.Specs,
		})
	}
	return a.svc.RestoreLines(ctx, lines)
}
