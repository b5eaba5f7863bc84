package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"

	"github.com/dwikikusuma/digimall/pkg/rpc"
)

// httpStatusFromGRPC maps a gRPC error to an HTTP status, the canonical
// code name and a client safe message.
func httpStatusFromGRPC(err error) (int, string, string) {
	se, ok := rpc.FromStatus(err)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}

	switch se.Code {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "INVALID_ARGUMENT", se.Message
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", se.Message
	case codes.AlreadyExists:
		return http.StatusConflict, "CONFLICT", se.Message
	case codes.FailedPrecondition:
		return http.StatusConflict, "FAILED_PRECONDITION", se.Message
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "UNAUTHENTICATED", se.Message
	case codes.PermissionDenied:
		return http.StatusForbidden, "PERMISSION_DENIED", se.Message
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", se.Message
	case codes.Canceled:
		return 499, "CANCELLED", se.Message
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

// envelope is the body of every gateway response.
type envelope struct {
	Code      int               `json:"code"`
	Message   string            `json:"message"`
	Data      any               `json:"data,omitempty"`
	ErrorCode string            `json:"error_code,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Code: status, Message: "success", Data: data})
}

// fail renders err. The stable error code from the shop wins over the
// generic gRPC code name.
func fail(c *gin.Context, err error) {
	status, code, msg := httpStatusFromGRPC(err)
	body := envelope{Code: status, Message: msg, ErrorCode: code}
	if se, ok := rpc.FromStatus(err); ok {
		if se.Reason != "" {
			body.ErrorCode = se.Reason
		}
		body.Fields = se.Fields
		if se.Metadata != nil {
			details := make(map[string]string, len(se.Metadata))
			for k, v := range se.Metadata {
				if k != "kind" {
					details[k] = v
				}
			}
			if len(details) > 0 {
				body.Details = details
			}
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func abort(c *gin.Context, status int, code, msg string) {
	_ = c.Error(errors.New(msg))
	c.AbortWithStatusJSON(status, envelope{Code: status, Message: msg, ErrorCode: code})
}

func badRequest(c *gin.Context, msg string) {
	abort(c, http.StatusBadRequest, "VALIDATION_ERROR", msg)
}
