package errors

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
)

func TestHTTPStatusMappingTable(t *testing.T) {
	cases := map[codes.Code]int{
		codes.Canceled:           499,
		codes.InvalidArgument:    400,
		codes.DeadlineExceeded:   504,
		codes.NotFound:           404,
		codes.ResourceExhausted:  429,
		codes.FailedPrecondition: 412,
		codes.OutOfRange:         400,
		codes.Unimplemented:      501,
		codes.Internal:           500,
		codes.Unavailable:        503,
	}

	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", code, got, want)
		}
	}

	if got := HTTPStatus(codes.OK); got != 500 {
		t.Fatalf("HTTPStatus(OK) must fallback to 500, got %d", got)
	}
}

func TestHTTPMappingAndBody(t *testing.T) {
	e := Unsupported("jurisdiction", "ZZ")
	rec := httptest.NewRecorder()
	e.ToHTTP(rec)

	if rec.Code != 400 {
		t.Fatalf("status mismatch: got %d", rec.Code)
	}
	body := rec.Body.Bytes()
	for _, want := range []string{`"code":"InvalidArgument"`, `"reason":"unsupported"`, `"domain":"vat"`, `"jurisdiction":"ZZ"`} {
		if !bytes.Contains(body, []byte(want)) {
			t.Fatalf("body missing %s: %s", want, body)
		}
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestHTTPWithRetryHeader(t *testing.T) {
	e := Upstream("SERVER_BUSY")
	rec := httptest.NewRecorder()
	e.ToHTTPWithRetry(rec, 1500*time.Millisecond)

	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("unexpected Retry-After: %s", got)
	}
	if rec.Code != 503 {
		t.Fatalf("status mismatch: %d", rec.Code)
	}
}

func TestHTTPWithRetryHeader_NegativeClampsToZero(t *testing.T) {
	rec := httptest.NewRecorder()
	Unavailable().ToHTTPWithRetry(rec, -time.Second)
	if got := rec.Header().Get("Retry-After"); got != "0" {
		t.Fatalf("unexpected Retry-After: %s", got)
	}
}
