package grpc

import (
	"context"

	catalogv1 "github.com/dwikikusuma/digimall/api/catalog/v1"
	"github.com/dwikikusuma/digimall/internal/catalog/app"
	"github.com/dwikikusuma/digimall/internal/catalog/domain"
)

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateProduct(ctx context.Context, req *catalogv1.CreateProductRequest) (*catalogv1.ProductResponse, error) {
	product, err := s.svc.CreateProduct(ctx, app.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      domain.ProductStatus(req.Status),
	})
	if err != nil {
		return nil, err
	}
	return &catalogv1.ProductResponse{Product: toWire(product)}, nil
}

func (s *Server) GetProduct(ctx context.Context, req *catalogv1.GetProductRequest) (*catalogv1.ProductResponse, error) {
	p, err := s.svc.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &catalogv1.ProductResponse{Product: toWire(p)}, nil
}

func (s *Server) ListProducts(ctx context.Context, req *catalogv1.ListProductsRequest) (*catalogv1.ListProductsResponse, error) {
	products, next, err := s.svc.ListProducts(ctx, req.Query, req.Limit, req.Cursor)
	if err != nil {
		return nil, err
	}

	out := make([]catalogv1.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toWire(p))
	}
	return &catalogv1.ListProductsResponse{Products: out, NextCursor: next}, nil
}

func (s *Server) UpdateProduct(ctx context.Context, req *catalogv1.UpdateProductRequest) (*catalogv1.ProductResponse, error) {
	patch := domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if req.Status != nil {
		st := domain.ProductStatus(*req.Status)
		patch.Status = &st
	}

	p, err := s.svc.UpdateProduct(ctx, req.ID, patch)
	if err != nil {
		return nil, err
	}
	return &catalogv1.ProductResponse{Product: toWire(p)}, nil
}

func toWire(p domain.Product) catalogv1.Product {
	return catalogv1.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		SoldCount:   p.SoldCount,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
