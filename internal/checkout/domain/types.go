package domain

import "github.com/shopspring/decimal"

// DraftLine is a priced cart line. UnitPrice and ProductName are copied
// from the live product at resolve time.
type DraftLine struct {
	CartLineID  string
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Specs       map[string]string
	Subtotal    decimal.Decimal
}

// OrderDraft is what an order would contain if committed now. Nothing has
// been reserved or removed from the cart yet.
type OrderDraft struct {
	UserID string
	Lines  []DraftLine
	Total  decimal.Decimal
}

func (d OrderDraft) CartLineIDs() []string {
	ids := make([]string, 0, len(d.Lines))
	for _, ln := range d.Lines {
		ids = append(ids, ln.CartLineID)
	}
	return ids
}

// Total sums unrounded subtotals and rounds once, to two places.
func Total(lines []DraftLine) decimal.Decimal {
	sum := decimal.Zero
	for _, ln := range lines {
		sum = sum.Add(ln.Subtotal)
	}
	return sum.Round(2)
}
