// Package gateway serves the shop's REST/JSON API over the gRPC services.
package gateway

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"

	cartv1 "github.com/dwikikusuma/digimall/api/cart/v1"
	catalogv1 "github.com/dwikikusuma/digimall/api/catalog/v1"
	checkoutv1 "github.com/dwikikusuma/digimall/api/checkout/v1"
	couponv1 "github.com/dwikikusuma/digimall/api/coupon/v1"
	notifyv1 "github.com/dwikikusuma/digimall/api/notify/v1"
	orderv1 "github.com/dwikikusuma/digimall/api/order/v1"
	"github.com/dwikikusuma/digimall/pkg/auth"
	"github.com/dwikikusuma/digimall/pkg/logger"
)

type Options struct {
	// IssueTokens exposes POST /api/auth/token for local development.
	IssueTokens bool
}

type Gateway struct {
	catalog  *catalogv1.CatalogServiceClient
	cart     *cartv1.CartServiceClient
	checkout *checkoutv1.CheckoutServiceClient
	coupons  *couponv1.CouponServiceClient
	orders   *orderv1.OrderServiceClient
	notify   *notifyv1.NotificationServiceClient

	signer *auth.Signer
	log    *slog.Logger
	opts   Options
}

func New(cc grpc.ClientConnInterface, signer *auth.Signer, log *slog.Logger, opts Options) *Gateway {
	return &Gateway{
		catalog:  catalogv1.NewCatalogServiceClient(cc),
		cart:     cartv1.NewCartServiceClient(cc),
		checkout: checkoutv1.NewCheckoutServiceClient(cc),
		coupons:  couponv1.NewCouponServiceClient(cc),
		orders:   orderv1.NewOrderServiceClient(cc),
		notify:   notifyv1.NewNotificationServiceClient(cc),
		signer:   signer,
		log:      logger.OrNop(log),
		opts:     opts,
	}
}

func (g *Gateway) Handler() http.Handler {
	r := gin.New()
	r.Use(recovery(g.log), requestLogger(g.log))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/readyz", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")

	if g.opts.IssueTokens {
		api.POST("/auth/token", g.issueToken)
	}

	// Public
	api.GET("/products", g.listProducts)
	api.GET("/products/:id", g.getProduct)
	api.GET("/coupons", g.listCoupons)
	api.GET("/payments/methods", g.listPaymentMethods)
	api.GET("/logistics/carriers", g.listCarriers)

	// Vendor callbacks
	api.POST("/payments/callback/:method", g.paymentCallback)
	api.POST("/logistics/callback", g.logisticsCallback)

	user := api.Group("", authenticate(g.signer))
	{
		user.GET("/cart", g.getCart)
		user.POST("/cart/items", g.addCartItem)
		user.PUT("/cart/items/:id", g.updateCartItem)
		user.DELETE("/cart/items/:id", g.removeCartItem)
		user.DELETE("/cart", g.clearCart)

		user.POST("/orders/preview", g.previewOrder)
		user.POST("/orders", g.createOrder)
		user.GET("/orders", g.listOrders)
		user.GET("/orders/:id", g.getOrder)
		user.POST("/orders/:id/cancel", g.cancelOrder)
		user.POST("/orders/:id/pay", g.startPayment)
		user.GET("/orders/:id/payment", g.syncPayment)
		user.POST("/orders/:id/refund", g.requestRefund)
		user.GET("/orders/:id/tracking", g.trackOrder)

		user.POST("/coupons/:id/claim", g.claimCoupon)
		user.GET("/coupons/mine", g.myCoupons)

		user.GET("/notifications", g.listNotifications)
		user.POST("/notifications/read-all", g.markAllNotificationsRead)
		user.POST("/notifications/:id/read", g.markNotificationRead)
		user.DELETE("/notifications/:id", g.deleteNotification)
		user.GET("/notifications/settings", g.notificationSettings)
		user.PUT("/notifications/settings", g.updateNotificationSettings)
	}

	admin := api.Group("/admin", authenticate(g.signer), adminOnly)
	{
		admin.POST("/products", g.createProduct)
		admin.PATCH("/products/:id", g.updateProduct)
		admin.POST("/coupons", g.createCoupon)
		admin.POST("/orders/:id/ship", g.shipOrder)
		admin.POST("/orders/:id/events", g.orderEvent)
	}

	return r
}
