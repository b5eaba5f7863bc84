// Package catalogv1 describes the CatalogService wire contract.
package catalogv1

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/dwikikusuma/digimall/pkg/rpc"
)

const ServiceName = "digimall.catalog.v1.CatalogService"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	SoldCount   int             `json:"sold_count"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status,omitempty"`
}

type ProductResponse struct {
	Product Product `json:"product"`
}

type GetProductRequest struct {
	ID string `json:"id"`
}

type ListProductsRequest struct {
	Query  string `json:"query,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

type ListProductsResponse struct {
	Products   []Product `json:"products"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// UpdateProductRequest carries only the fields being changed.
type UpdateProductRequest struct {
	ID          string           `json:"id"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

type CatalogServiceServer interface {
	CreateProduct(context.Context, *CreateProductRequest) (*ProductResponse, error)
	GetProduct(context.Context, *GetProductRequest) (*ProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*ProductResponse, error)
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*CatalogServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			rpc.Unary(ServiceName, "CreateProduct", CatalogServiceServer.CreateProduct),
			rpc.Unary(ServiceName, "GetProduct", CatalogServiceServer.GetProduct),
			rpc.Unary(ServiceName, "ListProducts", CatalogServiceServer.ListProducts),
			rpc.Unary(ServiceName, "UpdateProduct", CatalogServiceServer.UpdateProduct),
		},
		Metadata: "digimall/catalog/v1",
	}, srv)
}

type CatalogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) *CatalogServiceClient {
	return &CatalogServiceClient{cc: cc}
}

func (c *CatalogServiceClient) CreateProduct(ctx context.Context, in *CreateProductRequest) (*ProductResponse, error) {
	return rpc.Invoke[ProductResponse](ctx, c.cc, ServiceName, "CreateProduct", in)
}

func (c *CatalogServiceClient) GetProduct(ctx context.Context, in *GetProductRequest) (*ProductResponse, error) {
	return rpc.Invoke[ProductResponse](ctx, c.cc, ServiceName, "GetProduct", in)
}

func (c *CatalogServiceClient) ListProducts(ctx context.Context, in *ListProductsRequest) (*ListProductsResponse, error) {
	return rpc.Invoke[ListProductsResponse](ctx, c.cc, ServiceName, "ListProducts", in)
}

func (c *CatalogServiceClient) UpdateProduct(ctx context.Context, in *UpdateProductRequest) (*ProductResponse, error) {
	return rpc.Invoke[ProductResponse](ctx, c.cc, ServiceName, "UpdateProduct", in)
}
