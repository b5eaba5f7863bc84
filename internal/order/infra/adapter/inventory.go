package adapter

import (
	"context"

	"github.com/dwikikusuma/digimall/internal/inventory"
	orderapp "github.com/dwikikusuma/digimall/internal/order/app"
)

type Ledger struct {
	ledger *inventory.Ledger
}

func NewLedger(l *inventory.Ledger) *Ledger {
	return &Ledger{ledger: l}
}

func (a *Ledger) ReserveAll(ctx context.Context, lines []orderapp.StockLine) error {
	return a.ledger.ReserveAll(ctx, toLedgerLines(lines))
}

func (a *Ledger) ReleaseAll(ctx context.Context, lines []orderapp.StockLine) error {
	return a.ledger.ReleaseAll(ctx, toLedgerLines(lines))
}

func toLedgerLines(lines []orderapp.StockLine) []inventory.Line {
	out := make([]inventory.Line, 0, len(lines))
	for _, ln := range lines {
		out = append(out, inventory.Line{ProductID: ln.ProductID, Quantity: ln.Quantity})
	}
	return out
}
