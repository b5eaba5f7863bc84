// Package seed loads the demo catalog and coupons from a YAML file.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	catalogapp "github.com/dwikikusuma/digimall/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/digimall/internal/catalog/domain"
	couponapp "github.com/dwikikusuma/digimall/internal/coupon/app"
	coupondomain "github.com/dwikikusuma/digimall/internal/coupon/domain"
)

type File struct {
	Products []Product `yaml:"products"`
	Coupons  []Coupon  `yaml:"coupons"`
}

type Product struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Status      string `yaml:"status"`
}

// Coupon validity is relative to the time the seed is applied.
type Coupon struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Value       string `yaml:"value"`
	MinAmount   string `yaml:"min_amount"`
	MaxDiscount string `yaml:"max_discount"`
	ValidDays   int    `yaml:"valid_days"`
	TotalCount  int    `yaml:"total_count"`
	Description string `yaml:"description"`
}

func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (File, error) {
	var out File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return File{}, fmt.Errorf("decode seed: %w", err)
	}
	return out, nil
}

type Targets struct {
	Catalog *catalogapp.Service
	Coupons *couponapp.Service
	Now     func() time.Time
	Log     *slog.Logger
}

// Apply creates every product and coupon in f. It stops at the first entry
// the services reject.
func Apply(ctx context.Context, f File, t Targets) error {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	for i, p := range f.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("products[%d]: price %q: %w", i, p.Price, err)
		}
		if _, err := t.Catalog.CreateProduct(ctx, catalogapp.NewProduct{
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
			Stock:       p.Stock,
			Status:      catalogdomain.ProductStatus(p.Status),
		}); err != nil {
			return fmt.Errorf("products[%d]: %w", i, err)
		}
	}

	start := now().UTC()
	for i, c := range f.Coupons {
		in, err := c.toInput(start)
		if err != nil {
			return fmt.Errorf("coupons[%d]: %w", i, err)
		}
		if _, err := t.Coupons.CreateCoupon(ctx, in); err != nil {
			return fmt.Errorf("coupons[%d]: %w", i, err)
		}
	}

	if t.Log != nil {
		t.Log.InfoContext(ctx, "seed applied",
			slog.Int("products", len(f.Products)),
			slog.Int("coupons", len(f.Coupons)),
		)
	}
	return nil
}

func (c Coupon) toInput(start time.Time) (couponapp.NewCoupon, error) {
	value, err := parseAmount(c.Value)
	if err != nil {
		return couponapp.NewCoupon{}, fmt.Errorf("value: %w", err)
	}
	minAmount, err := parseAmount(c.MinAmount)
	if err != nil {
		return couponapp.NewCoupon{}, fmt.Errorf("min_amount: %w", err)
	}
	maxDiscount, err := parseAmount(c.MaxDiscount)
	if err != nil {
		return couponapp.NewCoupon{}, fmt.Errorf("max_discount: %w", err)
	}
	days := c.ValidDays
	if days <= 0 {
		days = 30
	}
	return couponapp.NewCoupon{
		Name:        c.Name,
		Type:        coupondomain.Type(c.Type),
		Value:       value,
		MinAmount:   minAmount,
		MaxDiscount: maxDiscount,
		StartTime:   start,
		EndTime:     start.AddDate(0, 0, days),
		TotalCount:  c.TotalCount,
		Description: c.Description,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
