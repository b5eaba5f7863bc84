package adapter

import (
	"context"

	"github.com/dwikikusuma/digimall/internal/logistics"
	orderapp "github.com/dwikikusuma/digimall/internal/order/app"
	"github.com/dwikikusuma/digimall/internal/order/domain"
)

type LogisticsProvider struct {
	p *logistics.MockProvider
}

func NewLogisticsProvider(p *logistics.MockProvider) *LogisticsProvider {
	return &LogisticsProvider{p: p}
}

func (a *LogisticsProvider) CreateShipment(ctx context.Context, o domain.Order, companyCode string) (orderapp.TrackingInfo, error) {
	s, err := a.p.CreateShipment(ctx, logistics.ShipmentRequest{
		OrderID: o.ID,
		Receiver: logistics.Receiver{
			Name:    o.ShippingAddress.Name,
			Phone:   o.ShippingAddress.Phone,
			Address: o.ShippingAddress.Full(),
		},
	}, companyCode)
	if err != nil {
		return orderapp.TrackingInfo{}, err
	}
	return toTracking(s), nil
}

func (a *LogisticsProvider) Track(ctx context.Context, trackingNumber, companyCode string) (orderapp.TrackingInfo, error) {
	s, err := a.p.Track(ctx, trackingNumber, companyCode)
	if err != nil {
		return orderapp.TrackingInfo{}, err
	}
	return toTracking(s), nil
}

func toTracking(s logistics.Shipment) orderapp.TrackingInfo {
	traces := make([]orderapp.TrackingTrace, 0, len(s.Traces))
	for _, t := range s.Traces {
		traces = append(traces, orderapp.TrackingTrace{
			Time:        t.Time,
			Status:      string(t.Status),
			Description: t.Description,
			Location:    t.Location,
		})
	}
	return orderapp.TrackingInfo{
		TrackingNumber:    s.TrackingNumber,
		CompanyCode:       s.CompanyCode,
		CompanyName:       s.CompanyName,
		Status:            string(s.Status),
		CurrentLocation:   s.CurrentLocation,
		EstimatedDelivery: s.EstimatedDelivery,
		Traces:            traces,
	}
}
