package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwikikusuma/digimall/pkg/auth"
)

const claimsKey = "claims"

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		}
		if uid := userID(c); uid != "" {
			attrs = append(attrs, slog.String("user_id", uid))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("err", c.Errors.Last().Error()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.ErrorContext(c, "http request", attrs...)
		case status >= http.StatusBadRequest:
			log.WarnContext(c, "http request", attrs...)
		default:
			log.InfoContext(c, "http request", attrs...)
		}
	}
}

func recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.ErrorContext(c, "panic in handler", slog.Any("panic", recovered), slog.String("path", c.FullPath()))
		abort(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	})
}

func authenticate(signer *auth.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHENTICATED", "missing bearer token")
			return
		}
		claims, err := signer.Verify(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrInvalidToken) {
				msg = "invalid or expired token"
			}
			abort(c, http.StatusUnauthorized, "UNAUTHENTICATED", msg)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func adminOnly(c *gin.Context) {
	claims, ok := c.Get(claimsKey)
	if !ok || !claims.(auth.Claims).IsAdmin() {
		abort(c, http.StatusForbidden, "PERMISSION_DENIED", "admin role required")
		return
	}
	c.Next()
}

func userID(c *gin.Context) string {
	v, ok := c.Get(claimsKey)
	if !ok {
		return ""
	}
	return v.(auth.Claims).UserID()
}
