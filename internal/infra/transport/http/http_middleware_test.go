package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	context_ "github.com/mkrupp/imgix-helper/internal/infra/context"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
	http_ "github.com/mkrupp/imgix-helper/internal/infra/transport/http"
)

func TestTracingMiddleware(t *testing.T) {
	t.Parallel()

	var seen string

	handler := http_.TracingMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = context_.TraceIDFromContext(r.Context())
	}))

	t.Run("keeps request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(http_.TraceIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if seen != "abc-123" || rec.Header().Get(http_.TraceIDHeader) != "abc-123" {
			t.Errorf("trace id = %q, header = %q, want %q", seen, rec.Header().Get(http_.TraceIDHeader), "abc-123")
		}
	})

	t.Run("generates uuid v7", func(t *testing.T) {
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id, err := uuid.Parse(seen)
		if err != nil {
			t.Fatalf("trace id %q is not a uuid: %v", seen, err)
		}

		if id.Version() != 7 {
			t.Errorf("trace id version = %d, want 7", id.Version())
		}

		if rec.Header().Get(http_.TraceIDHeader) != seen {
			t.Errorf("header = %q, want %q", rec.Header().Get(http_.TraceIDHeader), seen)
		}
	})
}

func TestRescueingMiddleware(t *testing.T) {
	t.Parallel()

	handler := http_.RescueingMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), logging.NewNopLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()

	var recorded *http_.LoggingMiddlewareResponseWriter

	handler := http_.LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		recorded, _ = w.(*http_.LoggingMiddlewareResponseWriter)

		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}), logging.NewNopLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorded == nil {
		t.Fatal("handler did not receive the recording writer")
	}

	if recorded.StatusCode != http.StatusTeapot || recorded.BytesSent != len("short and stout") {
		t.Errorf("recorded status = %d, bytes = %d", recorded.StatusCode, recorded.BytesSent)
	}

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
