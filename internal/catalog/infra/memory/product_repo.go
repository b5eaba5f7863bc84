package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/digimall/internal/catalog/app"
	"github.com/dwikikusuma/digimall/internal/catalog/domain"
)

// ProductRepo keeps products in a map guarded by a single mutex. Apply holds
// that mutex for the whole batch, which is what makes multi-line
// reservations all-or-nothing.
type ProductRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Product
	now  func() time.Time
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{
		byID: make(map[string]domain.Product),
		now:  time.Now,
	}
}

func (r *ProductRepo) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := r.now().UTC()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	r.byID[p.ID] = p
	return p, nil
}

func (r *ProductRepo) Get(_ context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) List(_ context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	cursor = strings.TrimSpace(cursor)

	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.Product, 0, limit)
	var nextCursor string
	for _, id := range ids {
		if cursor != "" && id <= cursor {
			continue
		}
		p := r.byID[id]
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
		nextCursor = id
		if len(out) == limit {
			break
		}
	}

	if len(out) < limit {
		nextCursor = ""
	}
	return out, nextCursor, nil
}

func (r *ProductRepo) Update(_ context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	if cur.Version != p.Version {
		return domain.Product{}, app.ErrVersionConflict
	}
	// stock and sold count only move through Apply.
	p.Stock = cur.Stock
	p.SoldCount = cur.SoldCount
	p.CreatedAt = cur.CreatedAt
	p.Version = cur.Version + 1
	p.UpdatedAt = r.now().UTC()
	r.byID[p.ID] = p
	return p, nil
}

// Apply validates every adjustment against current stock and then writes
// them all, or writes none.
func (r *ProductRepo) Apply(ctx context.Context, adjs []domain.StockAdjustment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	merged := domain.MergeAdjustments(adjs)
	next := make([]domain.Product, 0, len(merged))
	for _, a := range merged {
		p, ok := r.byID[a.ProductID]
		if !ok {
			return app.ErrNotFound.WithMessage("product %s not found", a.ProductID)
		}
		adjusted, err := p.Adjust(a)
		if err != nil {
			return err
		}
		next = append(next, adjusted)
	}

	now := r.now().UTC()
	for _, p := range next {
		p.Version++
		p.UpdatedAt = now
		r.byID[p.ID] = p
	}
	return nil
}
