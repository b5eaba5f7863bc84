package gateway

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	checkoutv1 "github.com/dwikikusuma/digimall/api/checkout/v1"
	orderv1 "github.com/dwikikusuma/digimall/api/order/v1"
)

func (g *Gateway) previewOrder(c *gin.Context) {
	var req checkoutv1.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	req.UserID = userID(c)
	resp, err := g.checkout.Preview(c, &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (g *Gateway) createOrder(c *gin.Context) {
	var req orderv1.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	req.UserID = userID(c)
	resp, err := g.orders.CreateOrder(c, &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, resp.Order)
}

func (g *Gateway) listOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	resp, err := g.orders.ListOrders(c, &orderv1.ListOrdersRequest{
		UserID: userID(c),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (g *Gateway) ref(c *gin.Context) *orderv1.OrderRef {
	return &orderv1.OrderRef{OrderID: c.Param("id"), UserID: userID(c)}
}

func (g *Gateway) getOrder(c *gin.Context) {
	resp, err := g.orders.GetOrder(c, g.ref(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Order)
}

func (g *Gateway) cancelOrder(c *gin.Context) {
	resp, err := g.orders.Cancel(c, g.ref(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Order)
}

func (g *Gateway) startPayment(c *gin.Context) {
	resp, err := g.orders.StartPayment(c, g.ref(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Payment)
}

func (g *Gateway) syncPayment(c *gin.Context) {
	resp, err := g.orders.SyncPayment(c, g.ref(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Order)
}

func (g *Gateway) requestRefund(c *gin.Context) {
	var body struct {
		Amount decimal.Decimal `json:"amount"`
		Reason string          `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	resp, err := g.orders.RequestRefund(c, &orderv1.RefundRequest{
		OrderID: c.Param("id"),
		UserID:  userID(c),
		Amount:  body.Amount,
		Reason:  body.Reason,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Order)
}

func (g *Gateway) trackOrder(c *gin.Context) {
	resp, err := g.orders.Track(c, g.ref(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Tracking)
}

func (g *Gateway) shipOrder(c *gin.Context) {
	var body struct {
		CompanyCode string `json:"company_code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	resp, err := g.orders.Ship(c, &orderv1.ShipRequest{OrderID: c.Param("id"), CompanyCode: body.CompanyCode})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Order)
}

// orderEvent drives the order state machine directly, e.g. to confirm a
// refund or mark an order delivered.
func (g *Gateway) orderEvent(c *gin.Context) {
	var req orderv1.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	req.OrderID = c.Param("id")
	resp, err := g.orders.Transition(c, &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Order)
}

func (g *Gateway) paymentCallback(c *gin.Context) {
	fields := map[string]string{}
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&fields); err != nil {
			badRequest(c, "invalid callback body: "+err.Error())
			return
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			badRequest(c, "invalid callback body: "+err.Error())
			return
		}
		for k := range c.Request.PostForm {
			fields[k] = c.Request.PostForm.Get(k)
		}
	}

	resp, err := g.orders.PaymentCallback(c, &orderv1.PaymentCallbackRequest{Method: c.Param("method"), Fields: fields})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"order_no": resp.Order.OrderNo, "status": resp.Order.Status})
}

func (g *Gateway) logisticsCallback(c *gin.Context) {
	var req orderv1.LogisticsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid callback body: "+err.Error())
		return
	}
	resp, err := g.orders.LogisticsUpdate(c, &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"order_no": resp.Order.OrderNo, "status": resp.Order.Status})
}

func (g *Gateway) listPaymentMethods(c *gin.Context) {
	resp, err := g.orders.ListPaymentMethods(c, &orderv1.ListOptionsRequest{})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Options)
}

func (g *Gateway) listCarriers(c *gin.Context) {
	resp, err := g.orders.ListCarriers(c, &orderv1.ListOptionsRequest{})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Options)
}
