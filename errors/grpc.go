package errors

import (
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
)

// Violation reasons ride in ErrorInfo metadata under this prefix, since
// BadRequest only carries a description.
const violationPrefix = "violation."

// GRPCStatus lets status.FromError and status.Code understand ErrorResponse.
func (e ErrorResponse) GRPCStatus() *status.Status {
	st := status.New(e.Code, e.Message)

	metadata := cloneDetails(e.Details)
	for _, v := range e.Violations {
		if v.Field == "" || v.Reason == "" {
			continue
		}
		if metadata == nil {
			metadata = map[string]string{}
		}
		metadata[violationPrefix+v.Field] = v.Reason
	}

	if e.Reason != "" || e.Domain != "" || len(metadata) > 0 {
		ei := &errdetails.ErrorInfo{
			Reason:   string(e.Reason),
			Domain:   e.Domain,
			Metadata: metadata,
		}
		if st2, err := st.WithDetails(ei); err == nil {
			st = st2
		}
	}

	if e.Code == codes.InvalidArgument && len(e.Violations) > 0 {
		br := &errdetails.BadRequest{}
		for _, v := range e.Violations {
			desc := v.Description
			if desc == "" {
				desc = v.Reason
			}
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.Field,
				Description: desc,
			})
		}
		if st2, err := st.WithDetails(br); err == nil {
			st = st2
		}
	}
	return st
}

func (e ErrorResponse) ToGRPC() error { return e.GRPCStatus().Err() }

// ToGRPCWithRetry adds RetryInfo, the gRPC counterpart of Retry-After.
func (e ErrorResponse) ToGRPCWithRetry(retryAfter time.Duration) error {
	if retryAfter < 0 {
		retryAfter = 0
	}
	st := e.GRPCStatus()
	if st2, err := st.WithDetails(&errdetails.RetryInfo{RetryDelay: durationpb.New(retryAfter)}); err == nil {
		st = st2
	}
	return st.Err()
}

// FromGRPC rebuilds an ErrorResponse from a status error. Non-status errors
// become Unknown.
func FromGRPC(err error) ErrorResponse {
	st, ok := status.FromError(err)
	if !ok {
		return Unknown()
	}

	out := ErrorResponse{Code: st.Code(), Message: st.Message()}
	reasons := map[string]string{}
	for _, d := range st.Details() {
		switch x := d.(type) {
		case *errdetails.ErrorInfo:
			out.Reason = Reason(x.GetReason())
			out.Domain = x.GetDomain()
			for k, v := range x.GetMetadata() {
				if field, ok := strings.CutPrefix(k, violationPrefix); ok {
					reasons[field] = v
					continue
				}
				out = out.WithDetail(k, v)
			}
		case *errdetails.BadRequest:
			for _, fv := range x.GetFieldViolations() {
				out.Violations = append(out.Violations, FieldViolation{
					Field:       fv.GetField(),
					Description: fv.GetDescription(),
				})
			}
		}
	}
	for i := range out.Violations {
		out.Violations[i].Reason = reasons[out.Violations[i].Field]
	}
	return out
}
