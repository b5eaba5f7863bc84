package rpc

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/digimall/pkg/apperr"
)

const errorDomain = "digimall"

var kindCodes = map[apperr.Kind]codes.Code{
	apperr.KindValidation:         codes.InvalidArgument,
	apperr.KindNotFound:           codes.NotFound,
	apperr.KindConflict:           codes.AlreadyExists,
	apperr.KindInsufficientStock:  codes.FailedPrecondition,
	apperr.KindInvalidTransition:  codes.FailedPrecondition,
	apperr.KindGatewayUnavailable: codes.Unavailable,
	apperr.KindInternal:           codes.Internal,
}

// ToStatus converts a service error into a gRPC status error. The stable
// error code travels as ErrorInfo.Reason and validation fields as a
// BadRequest detail so the gateway can rebuild the original error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return status.Error(codes.DeadlineExceeded, "deadline exceeded")
		case errors.Is(err, context.Canceled):
			return status.Error(codes.Canceled, "request cancelled")
		default:
			return status.Error(codes.Internal, "internal error")
		}
	}

	code, ok := kindCodes[ae.Kind]
	if !ok {
		code = codes.Internal
	}

	msg := ae.Message
	meta := map[string]string{"kind": string(ae.Kind)}

	var stock *apperr.InsufficientStockError
	if errors.As(err, &stock) {
		msg = stock.Error()
		meta["product_id"] = stock.ProductID
		meta["requested"] = strconv.Itoa(stock.Requested)
		meta["available"] = strconv.Itoa(stock.Available)
	}
	if ae.Kind == apperr.KindInternal {
		msg = "internal error"
	}

	st := status.New(code, msg)
	withInfo, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: ae.Code, Domain: errorDomain, Metadata: meta})
	if derr != nil {
		return st.Err()
	}
	st = withInfo

	if len(ae.Fields) > 0 {
		br := &errdetails.BadRequest{}
		for _, field := range sortedKeys(ae.Fields) {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       field,
				Description: ae.Fields[field],
			})
		}
		if withFields, derr := st.WithDetails(br); derr == nil {
			st = withFields
		}
	}
	return st.Err()
}

// StatusError is the client side view of an error returned by ToStatus.
type StatusError struct {
	Code     codes.Code
	Reason   string
	Message  string
	Fields   map[string]string
	Metadata map[string]string
}

func (e *StatusError) Error() string { return e.Reason + ": " + e.Message }

// FromStatus decodes a gRPC error. ok is false for non-status errors.
func FromStatus(err error) (*StatusError, bool) {
	st, ok := status.FromError(err)
	if !ok || err == nil {
		return nil, false
	}

	out := &StatusError{Code: st.Code(), Message: st.Message()}
	for _, d := range st.Details() {
		switch v := d.(type) {
		case *errdetails.ErrorInfo:
			out.Reason = v.GetReason()
			out.Metadata = v.GetMetadata()
		case *errdetails.BadRequest:
			out.Fields = make(map[string]string, len(v.GetFieldViolations()))
			for _, fv := range v.GetFieldViolations() {
				out.Fields[fv.GetField()] = fv.GetDescription()
			}
		}
	}
	return out, true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
