package domain

import "github.com/dwikikusuma/digimall/pkg/apperr"

// StockAdjustment is one signed change to a product's counters. A
// reservation is {Stock: -n, Sold: +n}; a release is the inverse.
type StockAdjustment struct {
	ProductID string
	Stock     int
	Sold      int
}

// Adjust applies a to p. It fails without touching p when stock would go
// negative. Sold count is floored at zero.
//
// Status follows stock: an active product that runs dry becomes
// out_of_stock, and an out_of_stock product that is restocked becomes active
// again. Inactive products keep their status.
func (p Product) Adjust(a StockAdjustment) (Product, error) {
	newStock := p.Stock + a.Stock
	if newStock < 0 {
		return p, apperr.InsufficientStock(p.ID, -a.Stock, p.Stock)
	}
	newSold := p.SoldCount + a.Sold
	if newSold < 0 {
		newSold = 0
	}

	p.Stock = newStock
	p.SoldCount = newSold
	switch {
	case p.Stock == 0 && p.Status == ProductActive:
		p.Status = ProductOutOfStock
	case p.Stock > 0 && p.Status == ProductOutOfStock:
		p.Status = ProductActive
	}
	return p, nil
}

// MergeAdjustments folds adjustments for the same product together,
// preserving first-seen order.
func MergeAdjustments(adjs []StockAdjustment) []StockAdjustment {
	idx := make(map[string]int, len(adjs))
	out := make([]StockAdjustment, 0, len(adjs))
	for _, a := range adjs {
		if i, ok := idx[a.ProductID]; ok {
			out[i].Stock += a.Stock
			out[i].Sold += a.Sold
			continue
		}
		idx[a.ProductID] = len(out)
		out = append(out, a)
	}
	return out
}
