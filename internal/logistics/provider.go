package logistics

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"
)

const warehouse = "Shenzhen Nanshan warehouse"

type MockProvider struct {
	mu        sync.Mutex
	shipments map[string]*Shipment
	now       func() time.Time

	unavailable error
}

func NewMockProvider(now func() time.Time) *MockProvider {
	if now == nil {
		now = time.Now
	}
	return &MockProvider{
		shipments: make(map[string]*Shipment),
		now:       now,
	}
}

// SetUnavailable makes every call fail with err until it is reset with nil.
func (p *MockProvider) SetUnavailable(err error) {
	p.mu.Lock()
	p.unavailable = err
	p.mu.Unlock()
}

func (p *MockProvider) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unavailable
}

func (p *MockProvider) CreateShipment(ctx context.Context, req ShipmentRequest, companyCode string) (Shipment, error) {
	if err := p.check(ctx); err != nil {
		return Shipment{}, err
	}
	carrier, ok := LookupCarrier(companyCode)
	if !ok {
		return Shipment{}, ErrUnsupportedCarrier.WithMessage("shipping company %q is not supported", companyCode)
	}

	now := p.now().UTC()
	s := &Shipment{
		TrackingNumber:    trackingNumber(carrier, now),
		CompanyCode:       carrier.Code,
		CompanyName:       carrier.Name,
		OrderID:           req.OrderID,
		Receiver:          req.Receiver,
		Status:            StatusCollected,
		CurrentLocation:   warehouse,
		EstimatedDelivery: now.AddDate(0, 0, carrier.DeliveryDays),
		CreatedAt:         now,
		UpdatedAt:         now,
		Traces: []Trace{{
			Time:        now,
			Status:      StatusCollected,
			Description: "Parcel collected from the warehouse",
			Location:    warehouse,
		}},
	}

	p.mu.Lock()
	p.shipments[s.TrackingNumber] = s
	p.mu.Unlock()

	return clone(s), nil
}

// Track looks a shipment up by tracking number and the carrier it was booked
// with. The carrier is never guessed from the tracking number.
func (p *MockProvider) Track(ctx context.Context, trackingNumber, companyCode string) (Shipment, error) {
	if err := p.check(ctx); err != nil {
		return Shipment{}, err
	}
	if _, ok := LookupCarrier(companyCode); !ok {
		return Shipment{}, ErrUnsupportedCarrier.WithMessage("shipping company %q is not supported", companyCode)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.shipments[trackingNumber]
	if !ok || s.CompanyCode != companyCode {
		return Shipment{}, ErrShipmentNotFound
	}
	return clone(s), nil
}

// Update records a carrier scan. It is how tests and the callback endpoint
// move a parcel along.
func (p *MockProvider) Update(trackingNumber string, status Status, description, location string) (Shipment, error) {
	if !status.Valid() {
		return Shipment{}, ErrInvalidStatus.WithMessage("unknown logistics status %q", status)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.shipments[trackingNumber]
	if !ok {
		return Shipment{}, ErrShipmentNotFound
	}
	if description == "" {
		description = status.Description()
	}
	now := p.now().UTC()
	s.Status = status
	s.CurrentLocation = location
	s.UpdatedAt = now
	s.Traces = append([]Trace{{Time: now, Status: status, Description: description, Location: location}}, s.Traces...)
	return clone(s), nil
}

func trackingNumber(c Carrier, now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return c.Prefix + ts + strings.ToUpper(hex.EncodeToString(b))
}

func clone(s *Shipment) Shipment {
	out := *s
	out.Traces = append([]Trace(nil), s.Traces...)
	return out
}
