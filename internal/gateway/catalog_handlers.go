package gateway

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogv1 "github.com/dwikikusuma/digimall/api/catalog/v1"
)

func (g *Gateway) listProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	resp, err := g.catalog.ListProducts(c, &catalogv1.ListProductsRequest{
		Query:  c.Query("q"),
		Limit:  limit,
		Cursor: c.Query("cursor"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (g *Gateway) getProduct(c *gin.Context) {
	resp, err := g.catalog.GetProduct(c, &catalogv1.GetProductRequest{ID: c.Param("id")})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Product)
}

func (g *Gateway) createProduct(c *gin.Context) {
	var req catalogv1.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	resp, err := g.catalog.CreateProduct(c, &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, resp.Product)
}

func (g *Gateway) updateProduct(c *gin.Context) {
	var req catalogv1.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	req.ID = c.Param("id")
	resp, err := g.catalog.UpdateProduct(c, &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Product)
}
