package logistics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 7, 10, 8, 0, 0, 0, time.UTC)

func TestCreateShipment(t *testing.T) {
	p := NewMockProvider(func() time.Time { return now })

	s, err := p.CreateShipment(context.Background(), ShipmentRequest{OrderID: "o1"}, "ems")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s.TrackingNumber, "EA"))
	assert.Len(t, s.TrackingNumber, len("EA")+8+6)
	assert.Equal(t, "China Post EMS", s.CompanyName)
	assert.Equal(t, now.AddDate(0, 0, 3), s.EstimatedDelivery)
	assert.Equal(t, StatusCollected, s.Status)
	require.Len(t, s.Traces, 1)

	_, err = p.CreateShipment(context.Background(), ShipmentRequest{}, "ups")
	assert.ErrorIs(t, err, ErrUnsupportedCarrier)
}

func TestTrackUsesStoredCarrier(t *testing.T) {
	ctx := context.Background()
	p := NewMockProvider(nil)
	s, err := p.CreateShipment(ctx, ShipmentRequest{OrderID: "o1"}, "jd")
	require.NoError(t, err)

	_, err = p.Track(ctx, s.TrackingNumber, "sf")
	assert.ErrorIs(t, err, ErrShipmentNotFound)

	_, err = p.Update(s.TrackingNumber, StatusInTransit, "", "Guangzhou hub")
	require.NoError(t, err)
	_, err = p.Update(s.TrackingNumber, StatusDelivered, "Signed by recipient", "Destination")
	require.NoError(t, err)

	got, err := p.Track(ctx, s.TrackingNumber, "jd")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, got.Status)
	require.Len(t, got.Traces, 3)
	assert.Equal(t, StatusDelivered, got.Traces[0].Status)
	assert.Equal(t, "In transit", got.Traces[1].Description)

	_, err = p.Update(s.TrackingNumber, "lost", "", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCarrierRegistry(t *testing.T) {
	assert.Len(t, Carriers(), 8)
	c, ok := LookupCarrier("yunda")
	require.True(t, ok)
	assert.Equal(t, "YD", c.Prefix)
	assert.True(t, StatusReturned.HasException())
	assert.False(t, StatusDelivered.HasException())
}
