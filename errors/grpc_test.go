package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToGRPC_RoundTrip(t *testing.T) {
	in := ValidationFields(map[string]string{"vat_number": "required"}).
		WithDetail("jurisdiction", "PT")

	out := FromGRPC(in.ToGRPC())
	assert.Equal(t, codes.InvalidArgument, out.Code)
	assert.Equal(t, in.Reason, out.Reason)
	assert.Equal(t, Domain, out.Domain)
	assert.Equal(t, in.Message, out.Message)
	assert.Equal(t, in.Details, out.Details)
	require.Len(t, out.Violations, 1)
	assert.Equal(t, "vat_number", out.Violations[0].Field)
	assert.Equal(t, "required", out.Violations[0].Reason)
}

func TestGRPCStatus_CodeAndDetails(t *testing.T) {
	e := Upstream("MS_UNAVAILABLE")
	assert.Equal(t, e.Code, status.Code(e))

	st, ok := status.FromError(fmt.Errorf("lookup: %w", e))
	require.True(t, ok)
	var info *errdetails.ErrorInfo
	for _, d := range st.Details() {
		if x, ok := d.(*errdetails.ErrorInfo); ok {
			info = x
		}
	}
	require.NotNil(t, info)
	assert.Equal(t, string(e.Reason), info.GetReason())
	assert.Equal(t, Domain, info.GetDomain())
}

func TestToGRPCWithRetry(t *testing.T) {
	err := ResourceExhausted().WithReason("upstream_busy").ToGRPCWithRetry(1500 * time.Millisecond)
	st := status.Convert(err)
	assert.Equal(t, codes.ResourceExhausted, st.Code())

	var delay time.Duration
	for _, d := range st.Details() {
		if ri, ok := d.(*errdetails.RetryInfo); ok {
			delay = ri.GetRetryDelay().AsDuration()
		}
	}
	assert.Equal(t, 1500*time.Millisecond, delay)

	err = Unavailable().ToGRPCWithRetry(-time.Second)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestFromGRPC_PlainErrors(t *testing.T) {
	assert.Equal(t, codes.Unknown, FromGRPC(fmt.Errorf("boom")).Code)

	out := FromGRPC(status.Error(codes.NotFound, "missing"))
	assert.Equal(t, codes.NotFound, out.Code)
	assert.Equal(t, "missing", out.Message)
	assert.Empty(t, out.Reason)
}

func TestToErrorResponse_GRPCStatus(t *testing.T) {
	err := fmt.Errorf("vies: %w", status.Error(codes.Unavailable, "down"))
	got := ToErrorResponse(err)
	assert.Equal(t, codes.Unavailable, got.Code)
	assert.Contains(t, got.Message, "down")
}
