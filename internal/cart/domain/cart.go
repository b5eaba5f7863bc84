package domain

import (
	"sort"
	"strings"
	"time"
)

// Specs are the attribute choices a shopper made for a line, such as
// color or storage size.
type Specs map[string]string

// Key is a canonical form of s. Two spec sets with the same pairs produce the
// same key regardless of map order, so it can back a uniqueness constraint.
func (s Specs) Key() string {
	if len(s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s[k])
	}
	return b.String()
}

func (s Specs) Clone() Specs {
	if s == nil {
		return nil
	}
	out := make(Specs, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type CartLine struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
	Specs     Specs
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Same reports whether l and other describe the same product and spec choice.
func (l CartLine) Same(other CartLine) bool {
	return l.UserID == other.UserID &&
		l.ProductID == other.ProductID &&
		l.Specs.Key() == other.Specs.Key()
}

type Cart struct {
	UserID        string
	Lines         []CartLine
	TotalQuantity int
}

func NewCart(userID string, lines []CartLine) Cart {
	total := 0
	for _, ln := range lines {
		total += ln.Quantity
	}
	return Cart{UserID: userID, Lines: lines, TotalQuantity: total}
}
