package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/status"
)

// ToErrorResponse converts any error into ErrorResponse (transport-agnostic).
// Supported inputs:
//   - ErrorResponse / *ErrorResponse (direct passthrough)
//   - context.Canceled / context.DeadlineExceeded
//   - gRPC status errors (see FromGRPC)
//   - InvariantError
//
// Anything else becomes Internal.
func ToErrorResponse(err error) ErrorResponse {
	if err == nil {
		return Internal().WithReason("unexpected_error")
	}

	if errors.Is(err, context.Canceled) {
		return Canceled()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return DeadlineExceeded()
	}

	var ep *ErrorResponse
	if errors.As(err, &ep) && ep != nil {
		return *ep
	}
	var ev ErrorResponse
	if errors.As(err, &ev) {
		return ev
	}

	var se interface{ GRPCStatus() *status.Status }
	if errors.As(err, &se) {
		return FromGRPC(err)
	}

	var ie InvariantError
	if !errors.As(err, &ie) {
		return Internal().WithReason("unexpected_error")
	}

	switch ie.Kind {
	case KindState:
		return FailedPrecondition().
			WithReason("invariant_violation").
			WithDetail("invariant_kind", string(ie.Kind)).
			WithDetail("field", ie.Field).
			WithDetail("reason", ie.Reason)
	case KindDomain:
		if ie.Field == "" {
			return InvalidArgument().WithReason(ie.Reason)
		}
		return ValidationFields(map[string]string{ie.Field: ie.Reason})
	default:
		return InvalidArgument().WithReason("unknown_invariant")
	}
}
