// Package logistics simulates the carrier network used to ship orders.
package logistics

import (
	"time"

	"github.com/dwikikusuma/digimall/pkg/apperr"
)

type Carrier struct {
	Code         string
	Name         string
	Prefix       string
	DeliveryDays int
	Enabled      bool
}

var carriers = []Carrier{
	{Code: "sf", Name: "SF Express", Prefix: "SF", DeliveryDays: 1, Enabled: true},
	{Code: "ems", Name: "China Post EMS", Prefix: "EA", DeliveryDays: 3, Enabled: true},
	{Code: "sto", Name: "STO Express", Prefix: "STO", DeliveryDays: 2, Enabled: true},
	{Code: "yt", Name: "YTO Express", Prefix: "YT", DeliveryDays: 2, Enabled: true},
	{Code: "zto", Name: "ZTO Express", Prefix: "ZTO", DeliveryDays: 2, Enabled: true},
	{Code: "yunda", Name: "Yunda Express", Prefix: "YD", DeliveryDays: 2, Enabled: true},
	{Code: "jd", Name: "JD Logistics", Prefix: "JD", DeliveryDays: 1, Enabled: true},
	{Code: "db", Name: "Deppon Express", Prefix: "DB", DeliveryDays: 2, Enabled: true},
}

// Carriers lists the enabled carriers.
func Carriers() []Carrier {
	out := make([]Carrier, 0, len(carriers))
	for _, c := range carriers {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

func LookupCarrier(code string) (Carrier, bool) {
	for _, c := range carriers {
		if c.Code == code && c.Enabled {
			return c, true
		}
	}
	return Carrier{}, false
}

type Status string

const (
	StatusCollected      Status = "collected"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusException      Status = "exception"
	StatusReturned       Status = "returned"
)

var statusText = map[Status]string{
	StatusCollected:      "Collected",
	StatusInTransit:      "In transit",
	StatusOutForDelivery: "Out for delivery",
	StatusDelivered:      "Delivered",
	StatusException:      "Exception",
	StatusReturned:       "Returned",
}

func (s Status) Valid() bool {
	_, ok := statusText[s]
	return ok
}

func (s Status) Description() string {
	if d, ok := statusText[s]; ok {
		return d
	}
	return "Unknown"
}

func (s Status) HasException() bool { return s == StatusException || s == StatusReturned }

var (
	ErrUnsupportedCarrier = apperr.New(apperr.KindValidation, "UNSUPPORTED_CARRIER", "shipping company is not supported")
	ErrShipmentNotFound   = apperr.NotFound("SHIPMENT_NOT_FOUND", "shipment not found")
	ErrInvalidStatus      = apperr.New(apperr.KindValidation, "INVALID_LOGISTICS_STATUS", "unknown logistics status")
)

type Trace struct {
	Time        time.Time
	Status      Status
	Description string
	Location    string
}

type Receiver struct {
	Name    string
	Phone   string
	Address string
}

type ShipmentRequest struct {
	OrderID  string
	Receiver Receiver
}

type Shipment struct {
	TrackingNumber    string
	CompanyCode       string
	CompanyName       string
	OrderID           string
	Receiver          Receiver
	Status            Status
	CurrentLocation   string
	EstimatedDelivery time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	// Traces are newest first.
	Traces []Trace
}
