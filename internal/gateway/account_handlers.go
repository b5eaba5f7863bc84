package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	couponv1 "github.com/dwikikusuma/digimall/api/coupon/v1"
	notifyv1 "github.com/dwikikusuma/digimall/api/notify/v1"
)

func (g *Gateway) issueToken(c *gin.Context) {
	var body struct {
		UserID string `json:"user_id" binding:"required"`
		Role   string `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	role := body.Role
	if role == "" {
		role = "user"
	}
	token, err := g.signer.Issue(body.UserID, role)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"token": token, "user_id": body.UserID, "role": role})
}

func (g *Gateway) listCoupons(c *gin.Context) {
	resp, err := g.coupons.ListAvailable(c, &couponv1.ListAvailableRequest{})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Coupons)
}

func (g *Gateway) createCoupon(c *gin.Context) {
	var req couponv1.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	resp, err := g.coupons.CreateCoupon(c, &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, resp.Coupon)
}

func (g *Gateway) claimCoupon(c *gin.Context) {
	resp, err := g.coupons.Claim(c, &couponv1.ClaimRequest{UserID: userID(c), CouponID: c.Param("id")})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, resp.UserCoupon)
}

func (g *Gateway) myCoupons(c *gin.Context) {
	resp, err := g.coupons.ListUserCoupons(c, &couponv1.ListUserCouponsRequest{UserID: userID(c), Status: c.Query("status")})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.UserCoupons)
}

func (g *Gateway) listNotifications(c *gin.Context) {
	resp, err := g.notify.List(c, &notifyv1.ListRequest{
		UserID:     userID(c),
		Type:       c.Query("type"),
		UnreadOnly: c.Query("unread") == "true",
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (g *Gateway) markNotificationRead(c *gin.Context) {
	resp, err := g.notify.MarkRead(c, &notifyv1.MarkReadRequest{UserID: userID(c), ID: c.Param("id")})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Notification)
}

func (g *Gateway) markAllNotificationsRead(c *gin.Context) {
	resp, err := g.notify.MarkAllRead(c, &notifyv1.UserRequest{UserID: userID(c)})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (g *Gateway) deleteNotification(c *gin.Context) {
	if _, err := g.notify.Delete(c, &notifyv1.DeleteRequest{UserID: userID(c), ID: c.Param("id")}); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (g *Gateway) notificationSettings(c *gin.Context) {
	resp, err := g.notify.GetSettings(c, &notifyv1.UserRequest{UserID: userID(c)})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Channels)
}

func (g *Gateway) updateNotificationSettings(c *gin.Context) {
	var channels map[string]bool
	if err := c.ShouldBindJSON(&channels); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	resp, err := g.notify.UpdateSettings(c, &notifyv1.UpdateSettingsRequest{UserID: userID(c), Channels: channels})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp.Channels)
}
