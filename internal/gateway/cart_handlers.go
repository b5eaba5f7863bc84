package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartv1 "github.com/dwikikusuma/digimall/api/cart/v1"
)

func (g *Gateway) getCart(c *gin.Context) {
	resp, err := g.cart.GetCart(c, &cartv1.GetCartRequest{UserID: userID(c)})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Cart)
}

func (g *Gateway) addCartItem(c *gin.Context) {
	var req cartv1.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	req.UserID = userID(c)
	resp, err := g.cart.AddItem(c, &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, resp.Line)
}

func (g *Gateway) updateCartItem(c *gin.Context) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	resp, err := g.cart.UpdateQuantity(c, &cartv1.UpdateQuantityRequest{
		UserID:   userID(c),
		LineID:   c.Param("id"),
		Quantity: body.Quantity,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Line)
}

func (g *Gateway) removeCartItem(c *gin.Context) {
	if _, err := g.cart.RemoveItem(c, &cartv1.RemoveItemRequest{UserID: userID(c), LineID: c.Param("id")}); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (g *Gateway) clearCart(c *gin.Context) {
	if _, err := g.cart.Clear(c, &cartv1.ClearRequest{UserID: userID(c)}); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}
