package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/dwikikusuma/digimall/internal/order/app"
	"github.com/dwikikusuma/digimall/internal/order/domain"
)

type OrderRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Order
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{byID: make(map[string]domain.Order)}
}

func (r *OrderRepo) Create(_ context.Context, o domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.Version = 1
	o.Items = cloneItems(o.Items)
	r.byID[o.ID] = o
	return cloneOrder(o), nil
}

func (r *OrderRepo) Get(_ context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return domain.Order{}, app.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) GetByPaymentID(_ context.Context, paymentID string) (domain.Order, error) {
	return r.find(func(o domain.Order) bool { return paymentID != "" && o.PaymentID == paymentID })
}

func (r *OrderRepo) GetByTrackingNumber(_ context.Context, trackingNumber string) (domain.Order, error) {
	return r.find(func(o domain.Order) bool { return trackingNumber != "" && o.TrackingNumber == trackingNumber })
}

func (r *OrderRepo) find(match func(domain.Order) bool) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.byID {
		if match(o) {
			return cloneOrder(o), nil
		}
	}
	return domain.Order{}, app.ErrOrderNotFound
}

func (r *OrderRepo) List(_ context.Context, f app.ListFilter) ([]domain.Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Order, 0)
	for _, o := range r.byID {
		if o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].OrderNo > matched[j].OrderNo
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	offset := max(f.Offset, 0)
	if offset >= total {
		return []domain.Order{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Limit < total-offset {
		end = offset + f.Limit
	}
	return matched[offset:end], total, nil
}

func (r *OrderRepo) Update(_ context.Context, o domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[o.ID]
	if !ok {
		return domain.Order{}, app.ErrOrderNotFound
	}
	if cur.Version != o.Version {
		return domain.Order{}, app.ErrVersionConflict
	}

	o.Items = cur.Items
	o.CreatedAt = cur.CreatedAt
	o.Version = cur.Version + 1
	r.byID[o.ID] = o
	return cloneOrder(o), nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = cloneItems(o.Items)
	return o
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].Specs = maps.Clone(out[i].Specs)
	}
	return out
}
