package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/digimall/internal/order/app"
	"github.com/dwikikusuma/digimall/internal/order/domain"
)

func storeOrder(t *testing.T, r *OrderRepo, id string, at time.Time) domain.Order {
	t.Helper()
	o, err := r.Create(context.Background(), domain.Order{
		ID:        id,
		OrderNo:   "ORD-" + id,
		UserID:    "u1",
		Status:    domain.StatusPending,
		CreatedAt: at,
		Items: []domain.LineItem{
			{ID: id + "-1", ProductID: "p-1", Quantity: 1, Specs: map[string]string{"color": "black"}},
		},
	})
	require.NoError(t, err)
	return o
}

func TestReturnedLineItemsAreCopies(t *testing.T) {
	ctx := context.Background()
	r := NewOrderRepo()
	created := storeOrder(t, r, "o-1", time.Now())

	created.Items[0].Quantity = 99
	created.Items[0].Specs["color"] = "white"

	got, err := r.Get(ctx, "o-1")
	require.NoError(t, err)
	got.Items[0].Specs["color"] = "red"

	listed, _, err := r.List(ctx, app.ListFilter{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Items[0].Quantity = 7

	again, err := r.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
	assert.Equal(t, "black", again.Items[0].Specs["color"])
}

func TestListOffsetBounds(t *testing.T) {
	ctx := context.Background()
	r := NewOrderRepo()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"o-1", "o-2", "o-3"} {
		storeOrder(t, r, id, base.Add(time.Duration(i)*time.Minute))
	}

	got, total, err := r.List(ctx, app.ListFilter{UserID: "u1", Offset: -20, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, got, 2)
	assert.Equal(t, "o-3", got[0].ID)

	got, _, err = r.List(ctx, app.ListFilter{UserID: "u1", Offset: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o-1", got[0].ID)

	got, _, err = r.List(ctx, app.ListFilter{UserID: "u1", Offset: 1 << 40, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}
