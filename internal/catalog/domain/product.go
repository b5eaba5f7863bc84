package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductInactive   ProductStatus = "inactive"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductActive, ProductInactive, ProductOutOfStock:
		return true
	}
	return false
}

type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	SoldCount   int
	Status      ProductStatus
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Purchasable reports whether qty units can be sold right now.
func (p Product) Purchasable(qty int) bool {
	return p.Status != ProductInactive && p.Stock >= qty
}

// ProductPatch lists the fields an operator may change after creation.
// Stock and sold count are not here: they only move through the ledger.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Status      *ProductStatus
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Status == nil
}

// Apply returns a copy of prod with the patch applied.
func (p ProductPatch) Apply(prod Product) Product {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Status != nil {
		prod.Status = *p.Status
	}
	return prod
}
