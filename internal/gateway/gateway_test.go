package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dwikikusuma/digimall/internal/gateway"
	"github.com/dwikikusuma/digimall/internal/server"
	"github.com/dwikikusuma/digimall/pkg/auth"
	"github.com/dwikikusuma/digimall/pkg/config"
	"github.com/dwikikusuma/digimall/pkg/logger"
	"github.com/dwikikusuma/digimall/pkg/rpc"
)

type body struct {
	Code      int               `json:"code"`
	Message   string            `json:"message"`
	Data      json.RawMessage   `json:"data"`
	ErrorCode string            `json:"error_code"`
	Fields    map[string]string `json:"fields"`
	Details   map[string]string `json:"details"`
}

type harness struct {
	t      *testing.T
	url    string
	signer *auth.Signer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		StoreDriver:         "memory",
		NotifySink:          "log",
		GatewayTimeout:      time.Second,
		CheckoutConcurrency: 4,
	}
	shop, err := server.New(context.Background(), cfg, logger.Nop(), server.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shop.Close() })

	lis := bufconn.Listen(1 << 20)
	srv := rpc.NewServer(logger.Nop())
	shop.Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	cc, err := rpc.Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { cc.Close() })

	signer := auth.NewSigner("test-secret", time.Hour)
	ts := httptest.NewServer(gateway.New(cc, signer, logger.Nop(), gateway.Options{IssueTokens: true}).Handler())
	t.Cleanup(ts.Close)

	return &harness{t: t, url: ts.URL, signer: signer}
}

func (h *harness) token(userID, role string) string {
	h.t.Helper()
	tok, err := h.signer.Issue(userID, role)
	require.NoError(h.t, err)
	return tok
}

func (h *harness) do(method, path, token string, in any) (int, body) {
	h.t.Helper()

	var raw []byte
	if in != nil {
		var err error
		raw, err = json.Marshal(in)
		require.NoError(h.t, err)
	}
	req, err := http.NewRequest(method, h.url+path, bytes.NewReader(raw))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var out body
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, b body) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b.Data, &v))
	return v
}

type idOnly struct {
	ID string `json:"id"`
}

func (h *harness) createProduct(admin, name, price string, stock int) string {
	h.t.Helper()
	code, b := h.do(http.MethodPost, "/api/admin/products", admin, map[string]any{
		"name": name, "price": price, "stock": stock,
	})
	require.Equal(h.t, http.StatusCreated, code, b.Message)
	return decode[idOnly](h.t, b).ID
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	code, _ := h.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRequiresToken(t *testing.T) {
	h := newHarness(t)

	code, b := h.do(http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHENTICATED", b.ErrorCode)

	code, _ = h.do(http.MethodGet, "/api/cart", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminRoutesRejectShoppers(t *testing.T) {
	h := newHarness(t)

	code, b := h.do(http.MethodPost, "/api/admin/products", h.token("u-1", "user"), map[string]any{"name": "x", "price": "1"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "PERMISSION_DENIED", b.ErrorCode)
}

func TestIssueToken(t *testing.T) {
	h := newHarness(t)

	code, b := h.do(http.MethodPost, "/api/auth/token", "", map[string]string{"user_id": "u-9"})
	require.Equal(t, http.StatusOK, code)

	got := decode[struct {
		Token string `json:"token"`
	}](t, b)
	claims, err := h.signer.Verify(got.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-9", claims.UserID())
	assert.False(t, claims.IsAdmin())
}

func TestValidationErrorsCarryFields(t *testing.T) {
	h := newHarness(t)
	admin := h.token("admin", "admin")

	code, b := h.do(http.MethodPost, "/api/admin/products", admin, map[string]any{"name": "", "price": "-1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, b.Fields, "name")
	assert.Contains(t, b.Fields, "price")
}

func TestInsufficientStockDetails(t *testing.T) {
	h := newHarness(t)
	admin := h.token("admin", "admin")
	user := h.token("u-1", "user")
	pid := h.createProduct(admin, "Switch", "299.00", 1)

	code, b := h.do(http.MethodPost, "/api/cart/items", user, map[string]any{"product_id": pid, "quantity": 3})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INSUFFICIENT_STOCK", b.ErrorCode)
	assert.Equal(t, pid, b.Details["product_id"])
	assert.Equal(t, "1", b.Details["available"])
	assert.Equal(t, "3", b.Details["requested"])
}

func TestOrderLifecycle(t *testing.T) {
	h := newHarness(t)
	admin := h.token("admin", "admin")
	user := h.token("u-1", "user")
	pid := h.createProduct(admin, "Kindle", "1000.50", 5)

	code, b := h.do(http.MethodPost, "/api/cart/items", user, map[string]any{"product_id": pid, "quantity": 2})
	require.Equal(t, http.StatusCreated, code, b.Message)
	line := decode[idOnly](t, b).ID

	code, b = h.do(http.MethodPost, "/api/orders/preview", user, map[string]any{"cart_line_ids": []string{line}})
	require.Equal(t, http.StatusOK, code, b.Message)
	preview := decode[struct {
		PayAmount decimal.Decimal `json:"pay_amount"`
	}](t, b)
	assert.True(t, decimal.RequireFromString("2001").Equal(preview.PayAmount))

	code, b = h.do(http.MethodPost, "/api/orders", user, map[string]any{
		"cart_line_ids": []string{line},
		"shipping_address": map[string]string{
			"name": "Li Lei", "phone": "13800138000", "province": "Zhejiang",
			"city": "Hangzhou", "district": "Xihu", "detail": "1 Wensan Road",
		},
		"payment_method": "wechat_pay",
	})
	require.Equal(t, http.StatusCreated, code, b.Message)
	type orderView struct {
		ID        string          `json:"id"`
		OrderNo   string          `json:"order_no"`
		Status    string          `json:"status"`
		PayAmount decimal.Decimal `json:"pay_amount"`
	}
	order := decode[orderView](t, b)
	assert.Equal(t, "pending", order.Status)
	assert.True(t, decimal.RequireFromString("2001").Equal(order.PayAmount))

	// Another shopper cannot see the order.
	code, _ = h.do(http.MethodGet, "/api/orders/"+order.ID, h.token("u-2", "user"), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, b = h.do(http.MethodPost, "/api/orders/"+order.ID+"/pay", user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	payment := decode[struct {
		PaymentID string `json:"payment_id"`
	}](t, b)
	require.NotEmpty(t, payment.PaymentID)

	code, b = h.do(http.MethodPost, "/api/payments/callback/wechat_pay", "", map[string]string{
		"out_trade_no":   payment.PaymentID,
		"transaction_id": "wx-0001",
		"result_code":    "SUCCESS",
	})
	require.Equal(t, http.StatusOK, code, b.Message)
	assert.Equal(t, "paid", decode[orderView](t, b).Status)

	// Paid orders cannot be cancelled by the shopper.
	code, b = h.do(http.MethodPost, "/api/orders/"+order.ID+"/cancel", user, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.NotEmpty(t, b.ErrorCode)

	code, b = h.do(http.MethodPost, "/api/admin/orders/"+order.ID+"/ship", admin, map[string]string{"company_code": "sf"})
	require.Equal(t, http.StatusOK, code, b.Message)
	assert.Equal(t, "shipped", decode[orderView](t, b).Status)

	code, b = h.do(http.MethodGet, "/api/orders/"+order.ID+"/tracking", user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	tracking := decode[struct {
		TrackingNumber string `json:"tracking_number"`
		CompanyCode    string `json:"company_code"`
	}](t, b)
	assert.Equal(t, "sf", tracking.CompanyCode)
	assert.NotEmpty(t, tracking.TrackingNumber)

	code, b = h.do(http.MethodPost, "/api/admin/orders/"+order.ID+"/events", admin, map[string]string{"event": "delivered"})
	require.Equal(t, http.StatusOK, code, b.Message)
	assert.Equal(t, "delivered", decode[orderView](t, b).Status)

	code, b = h.do(http.MethodGet, "/api/notifications?unread=true", user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	inbox := decode[struct {
		UnreadCount int `json:"unread_count"`
	}](t, b)
	assert.GreaterOrEqual(t, inbox.UnreadCount, 1)

	code, b = h.do(http.MethodGet, "/api/products/"+pid, "", nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	product := decode[struct {
		Stock     int `json:"stock"`
		SoldCount int `json:"sold_count"`
	}](t, b)
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, 2, product.SoldCount)
}

func TestUnknownOrderEvent(t *testing.T) {
	h := newHarness(t)

	code, b := h.do(http.MethodPost, "/api/admin/orders/o-1/events", h.token("admin", "admin"), map[string]string{"event": "teleported"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, b.Fields, "event")
}

func (h *harness) placeOrder(user, pid string) string {
	h.t.Helper()
	code, b := h.do(http.MethodPost, "/api/cart/items", user, map[string]any{"product_id": pid, "quantity": 1})
	require.Equal(h.t, http.StatusCreated, code, b.Message)
	line := decode[idOnly](h.t, b).ID

	code, b = h.do(http.MethodPost, "/api/orders", user, map[string]any{
		"cart_line_ids": []string{line},
		"shipping_address": map[string]string{
			"name": "Han Meimei", "phone": "13900139000", "province": "Jiangsu",
			"city": "Nanjing", "district": "Gulou", "detail": "2 Zhongshan Road",
		},
		"payment_method": "alipay",
	})
	require.Equal(h.t, http.StatusCreated, code, b.Message)
	return decode[idOnly](h.t, b).ID
}

func TestNotifications(t *testing.T) {
	h := newHarness(t)
	admin := h.token("admin", "admin")
	user := h.token("u-9", "user")
	pid := h.createProduct(admin, "Mouse", "49.00", 10)

	orderID := h.placeOrder(user, pid)
	code, b := h.do(http.MethodPost, "/api/orders/"+orderID+"/cancel", user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)

	type inbox struct {
		Notifications []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
			Read bool   `json:"read"`
		} `json:"notifications"`
		UnreadCount int `json:"unread_count"`
	}

	code, b = h.do(http.MethodGet, "/api/notifications?type=order_cancelled", user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	cancelled := decode[inbox](t, b)
	require.Len(t, cancelled.Notifications, 1)
	assert.Equal(t, "order_cancelled", cancelled.Notifications[0].Type)
	assert.Equal(t, 2, cancelled.UnreadCount)

	code, b = h.do(http.MethodPost, "/api/notifications/read-all", user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	assert.Equal(t, 2, decode[struct {
		Updated int `json:"updated"`
	}](t, b).Updated)

	code, b = h.do(http.MethodDelete, "/api/notifications/"+cancelled.Notifications[0].ID, user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	code, _ = h.do(http.MethodDelete, "/api/notifications/"+cancelled.Notifications[0].ID, user, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, b = h.do(http.MethodGet, "/api/notifications", user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	rest := decode[inbox](t, b)
	require.Len(t, rest.Notifications, 1)
	assert.Equal(t, "order_created", rest.Notifications[0].Type)
	assert.True(t, rest.Notifications[0].Read)
	assert.Zero(t, rest.UnreadCount)

	code, b = h.do(http.MethodGet, "/api/notifications/settings", user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	assert.True(t, decode[map[string]bool](t, b)["in_app"])

	code, b = h.do(http.MethodPut, "/api/notifications/settings", user, map[string]bool{"fax": true})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, b.Fields, "channels.fax")

	code, b = h.do(http.MethodPut, "/api/notifications/settings", user, map[string]bool{"in_app": false})
	require.Equal(t, http.StatusOK, code, b.Message)
	settings := decode[map[string]bool](t, b)
	assert.False(t, settings["in_app"])
	assert.True(t, settings["sms"])

	h.placeOrder(user, pid)
	code, b = h.do(http.MethodGet, "/api/notifications", user, nil)
	require.Equal(t, http.StatusOK, code, b.Message)
	assert.Len(t, decode[inbox](t, b).Notifications, 1)
}
