package httpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestWrap_SetsRequestIDHeader_WhenMissing(t *testing.T) {
	var seen string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := Wrap(testLogger(), mux)

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := rec.Header().Get(HeaderRequestID)
	if got == "" {
		t.Fatalf("expected X-Request-Id response header")
	}
	if seen != got {
		t.Fatalf("context request id=%q, want %q", seen, got)
	}
}

func TestWrap_PreservesRequestIDHeader_WhenProvided(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := Wrap(testLogger(), mux)

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	req.Header.Set(HeaderRequestID, "rid-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderRequestID); got != "rid-123" {
		t.Fatalf("X-Request-Id=%q, want rid-123", got)
	}
}

func TestWrap_RecoversPanic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { panic("boom") })
	h := Wrap(testLogger(), mux)

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type=%q, want application/json", ct)
	}
}

func TestWriteError_UsesRequestID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, "not_found")
	})
	h := Wrap(testLogger(), mux)

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	req.Header.Set(HeaderRequestID, "rid-9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"error":"not_found"`) || !strings.Contains(body, `"request_id":"rid-9"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyzWithChecks(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		state  string
	}{
		{name: "ok", status: http.StatusOK, state: `"status":"ready"`},
		{name: "fail", err: context.Canceled, status: http.StatusServiceUnavailable, state: `"status":"not_ready"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := ReadyzWithChecks("testsvc", ReadinessCheck{
				Name:  "probe",
				Check: func(ctx context.Context) error { return tc.err },
			})
			req := httptest.NewRequest(http.MethodGet, "http://example.test/readyz", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status=%d, want %d", rec.Code, tc.status)
			}
			if !strings.Contains(rec.Body.String(), tc.state) {
				t.Fatalf("expected %s in response: %s", tc.state, rec.Body.String())
			}
		})
	}
}
