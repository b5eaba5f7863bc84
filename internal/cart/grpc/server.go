package grpc

import (
	"context"

	cartv1 "github.com/dwikikusuma/digimall/api/cart/v1"
	"github.com/dwikikusuma/digimall/internal/cart/app"
	"github.com/dwikikusuma/digimall/internal/cart/domain"
)

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) GetCart(ctx context.Context, req *cartv1.GetCartRequest) (*cartv1.CartResponse, error) {
	cart, err := s.svc.GetCart(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	lines := make([]cartv1.CartLine, 0, len(cart.Lines))
	for _, ln := range cart.Lines {
		lines = append(lines, toWire(ln))
	}
	return &cartv1.CartResponse{Cart: cartv1.Cart{
		UserID:        cart.UserID,
		Lines:         lines,
		TotalQuantity: cart.TotalQuantity,
	}}, nil
}

func (s *Server) AddItem(ctx context.Context, req *cartv1.AddItemRequest) (*cartv1.LineResponse, error) {
	ln, err := s.svc.AddItem(ctx, req.UserID, app.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Specs:     req.Specs,
	})
	if err != nil {
		return nil, err
	}
	return &cartv1.LineResponse{Line: toWire(ln)}, nil
}

func (s *Server) UpdateQuantity(ctx context.Context, req *cartv1.UpdateQuantityRequest) (*cartv1.LineResponse, error) {
	ln, err := s.svc.UpdateQuantity(ctx, req.UserID, req.LineID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return &cartv1.LineResponse{Line: toWire(ln)}, nil
}

func (s *Server) RemoveItem(ctx context.Context, req *cartv1.RemoveItemRequest) (*cartv1.Empty, error) {
	if err := s.svc.RemoveItem(ctx, req.UserID, req.LineID); err != nil {
		return nil, err
	}
	return &cartv1.Empty{}, nil
}

func (s *Server) Clear(ctx context.Context, req *cartv1.ClearRequest) (*cartv1.Empty, error) {
	if err := s.svc.Clear(ctx, req.UserID); err != nil {
		return nil, err
	}
	return &cartv1.Empty{}, nil
}

func toWire(ln domain.CartLine) cartv1.CartLine {
	return cartv1.CartLine{
		ID:        ln.ID,
		ProductID: ln.ProductID,
		Quantity:  ln.Quantity,
		Specs:     ln.Specs,
		CreatedAt: ln.CreatedAt,
		UpdatedAt: ln.UpdatedAt,
	}
}
