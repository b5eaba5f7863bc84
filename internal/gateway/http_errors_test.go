package gateway

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/digimall/pkg/apperr"
	"github.com/dwikikusuma/digimall/pkg/rpc"
)

func TestHTTPStatusFromGRPC(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"InvalidArgument -> 400", status.Error(codes.InvalidArgument, "bad"), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"NotFound -> 404", status.Error(codes.NotFound, "missing"), http.StatusNotFound, "NOT_FOUND"},
		{"AlreadyExists -> 409", status.Error(codes.AlreadyExists, "dup"), http.StatusConflict, "CONFLICT"},
		{"FailedPrecondition -> 409", status.Error(codes.FailedPrecondition, "state"), http.StatusConflict, "FAILED_PRECONDITION"},
		{"Unavailable -> 503", status.Error(codes.Unavailable, "down"), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"DeadlineExceeded -> 503", status.Error(codes.DeadlineExceeded, "timeout"), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"Internal -> 500", status.Error(codes.Internal, "db"), http.StatusInternalServerError, "INTERNAL"},
		{"non-grpc error -> 500", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, gotCode, _ := httpStatusFromGRPC(tc.err)
			assert.Equal(t, tc.wantStatus, gotStatus)
			assert.Equal(t, tc.wantCode, gotCode)
		})
	}
}

func TestHTTPStatusHidesInternalMessages(t *testing.T) {
	_, _, msg := httpStatusFromGRPC(status.Error(codes.Internal, "pq: connection refused"))
	assert.Equal(t, "internal error", msg)
}

func TestHTTPStatusFromServiceError(t *testing.T) {
	gotStatus, _, msg := httpStatusFromGRPC(rpc.ToStatus(apperr.InsufficientStock("p-1", 3, 1)))
	assert.Equal(t, http.StatusConflict, gotStatus)
	assert.Contains(t, msg, "p-1")
}
