package grpc

import (
	"context"

	orderv1 "github.com/dwikikusuma/digimall/api/order/v1"
	"github.com/dwikikusuma/digimall/internal/logistics"
	"github.com/dwikikusuma/digimall/internal/order/app"
	"github.com/dwikikusuma/digimall/internal/order/domain"
	"github.com/dwikikusuma/digimall/internal/payment"
)

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateOrder(ctx context.Context, req *orderv1.CreateOrderRequest) (*orderv1.OrderResponse, error) {
	order, err := s.svc.CreateOrder(ctx, app.CreateOrderInput{
		UserID:          req.UserID,
		CartLineIDs:     req.CartLineIDs,
		ShippingAddress: domain.Address(req.ShippingAddress),
		PaymentMethod:   req.PaymentMethod,
		Remark:          req.Remark,
		UserCouponID:    req.UserCouponID,
	})
	return orderResponse(order, err)
}

func (s *Server) GetOrder(ctx context.Context, req *orderv1.OrderRef) (*orderv1.OrderResponse, error) {
	return orderResponse(s.svc.GetOrder(ctx, req.OrderID, req.UserID))
}

func (s *Server) ListOrders(ctx context.Context, req *orderv1.ListOrdersRequest) (*orderv1.ListOrdersResponse, error) {
	page, err := s.svc.ListOrders(ctx, app.ListOrdersInput{
		UserID: req.UserID,
		Status: domain.Status(req.Status),
		Page:   req.Page,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]orderv1.Order, 0, len(page.Orders))
	for _, o := range page.Orders {
		out = append(out, toWire(o))
	}
	return &orderv1.ListOrdersResponse{
		Orders: out,
		Total:  page.Total,
		Page:   page.Page,
		Limit:  page.Limit,
		Pages:  page.Pages,
	}, nil
}

func (s *Server) Cancel(ctx context.Context, req *orderv1.OrderRef) (*orderv1.OrderResponse, error) {
	return orderResponse(s.svc.Cancel(ctx, req.OrderID, req.UserID))
}

func (s *Server) StartPayment(ctx context.Context, req *orderv1.OrderRef) (*orderv1.PaymentResponse, error) {
	info, err := s.svc.StartPayment(ctx, req.OrderID, req.UserID)
	if err != nil {
		return nil, err
	}
	return &orderv1.PaymentResponse{Payment: orderv1.Payment{
		PaymentID:    info.PaymentID,
		Method:       info.Method,
		Amount:       info.Amount,
		QRCode:       info.QRCode,
		RedirectURL:  info.RedirectURL,
		ClientSecret: info.ClientSecret,
		ExpiresAt:    info.ExpiresAt,
	}}, nil
}

func (s *Server) SyncPayment(ctx context.Context, req *orderv1.OrderRef) (*orderv1.OrderResponse, error) {
	return orderResponse(s.svc.SyncPaymentStatus(ctx, req.OrderID, req.UserID))
}

func (s *Server) PaymentCallback(ctx context.Context, req *orderv1.PaymentCallbackRequest) (*orderv1.OrderResponse, error) {
	return orderResponse(s.svc.HandlePaymentCallback(ctx, req.Method, req.Fields))
}

func (s *Server) Ship(ctx context.Context, req *orderv1.ShipRequest) (*orderv1.OrderResponse, error) {
	return orderResponse(s.svc.Ship(ctx, req.OrderID, req.CompanyCode))
}

func (s *Server) Track(ctx context.Context, req *orderv1.OrderRef) (*orderv1.TrackingResponse, error) {
	info, err := s.svc.Track(ctx, req.OrderID, req.UserID)
	if err != nil {
		return nil, err
	}

	traces := make([]orderv1.Trace, 0, len(info.Traces))
	for _, t := range info.Traces {
		traces = append(traces, orderv1.Trace(t))
	}
	return &orderv1.TrackingResponse{Tracking: orderv1.Tracking{
		TrackingNumber:    info.TrackingNumber,
		CompanyCode:       info.CompanyCode,
		CompanyName:       info.CompanyName,
		Status:            info.Status,
		CurrentLocation:   info.CurrentLocation,
		EstimatedDelivery: info.EstimatedDelivery,
		Traces:            traces,
	}}, nil
}

func (s *Server) LogisticsUpdate(ctx context.Context, req *orderv1.LogisticsUpdateRequest) (*orderv1.OrderResponse, error) {
	return orderResponse(s.svc.HandleLogisticsUpdate(ctx, req.TrackingNumber, req.Status))
}

func (s *Server) RequestRefund(ctx context.Context, req *orderv1.RefundRequest) (*orderv1.OrderResponse, error) {
	return orderResponse(s.svc.RequestRefund(ctx, req.OrderID, req.UserID, req.Amount, req.Reason))
}

func (s *Server) Transition(ctx context.Context, req *orderv1.TransitionRequest) (*orderv1.OrderResponse, error) {
	return orderResponse(s.svc.Transition(ctx, req.OrderID, app.Event{
		Kind:          app.EventKind(req.Event),
		TransactionID: req.TransactionID,
		CompanyCode:   req.CompanyCode,
		Amount:        req.Amount,
		Reason:        req.Reason,
	}))
}

func (s *Server) ListPaymentMethods(context.Context, *orderv1.ListOptionsRequest) (*orderv1.ListOptionsResponse, error) {
	methods := payment.SupportedMethods()
	out := make([]orderv1.Option, 0, len(methods))
	for _, m := range methods {
		out = append(out, orderv1.Option{Code: string(m.Method), Name: m.Name})
	}
	return &orderv1.ListOptionsResponse{Options: out}, nil
}

func (s *Server) ListCarriers(context.Context, *orderv1.ListOptionsRequest) (*orderv1.ListOptionsResponse, error) {
	carriers := logistics.Carriers()
	out := make([]orderv1.Option, 0, len(carriers))
	for _, c := range carriers {
		out = append(out, orderv1.Option{Code: c.Code, Name: c.Name})
	}
	return &orderv1.ListOptionsResponse{Options: out}, nil
}

func orderResponse(o domain.Order, err error) (*orderv1.OrderResponse, error) {
	if err != nil {
		return nil, err
	}
	return &orderv1.OrderResponse{Order: toWire(o)}, nil
}

func toWire(o domain.Order) orderv1.Order {
	items := make([]orderv1.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderv1.LineItem(it))
	}
	return orderv1.Order{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		UserID:          o.UserID,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		DiscountAmount:  o.DiscountAmount,
		PayAmount:       o.PayAmount,
		UserCouponID:    o.UserCouponID,
		Status:          string(o.Status),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   string(o.PaymentStatus),
		PaymentID:       o.PaymentID,
		TransactionID:   o.TransactionID,
		ShippingAddress: orderv1.Address(o.ShippingAddress),
		Remark:          o.Remark,
		ShippingCompany: o.ShippingCompany,
		TrackingNumber:  o.TrackingNumber,
		RefundAmount:    o.RefundAmount,
		RefundReason:    o.RefundReason,
		RefundStatus:    string(o.RefundStatus),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		RefundedAt:      o.RefundedAt,
	}
}
