package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecsKeyIsOrderIndependent(t *testing.T) {
	a := Specs{"color": "black", "storage": "256GB"}
	b := Specs{"storage": "256GB", "color": "black"}

	assert.Equal(t, "color=black;storage=256GB", a.Key())
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "", Specs(nil).Key())
}

func TestCartLineSame(t *testing.T) {
	a := CartLine{UserID: "u", ProductID: "p", Specs: Specs{"color": "red"}}

	assert.True(t, a.Same(CartLine{UserID: "u", ProductID: "p", Specs: Specs{"color": "red"}}))
	assert.False(t, a.Same(CartLine{UserID: "u", ProductID: "p", Specs: Specs{"color": "blue"}}))
	assert.False(t, a.Same(CartLine{UserID: "u", ProductID: "p"}))
}

func TestNewCartTotals(t *testing.T) {
	c := NewCart("u", []CartLine{{Quantity: 2}, {Quantity: 3}})
	assert.Equal(t, 5, c.TotalQuantity)
}
