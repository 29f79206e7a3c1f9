package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp
}

func parseLastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("failed to parse log line %q: %v", last, err)
	}
	return m
}

func TestInfoContext_WithSpan(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	ctx, span := otel.Tracer("test").Start(context.Background(), "load-wishes")
	defer span.End()

	log.InfoContext(ctx, "wishes loaded", "count", 2)

	entry := parseLastLine(t, &buf)
	if _, ok := entry["trace_id"]; !ok {
		t.Error("expected trace_id")
	}
	if _, ok := entry["span_id"]; !ok {
		t.Error("expected span_id")
	}
	if entry["count"] != float64(2) {
		t.Errorf("count: got %v, want 2", entry["count"])
	}
}

func TestInfoContext_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.InfoContext(context.Background(), "no span")

	entry := parseLastLine(t, &buf)
	if _, ok := entry["trace_id"]; ok {
		t.Error("trace_id should not be present without an active span")
	}
}

func TestErrorContext_CarriesError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.ErrorContext(context.Background(), "error deleting wish", "error", errors.New("boom"), "wish_id", "123")

	entry := parseLastLine(t, &buf)
	if entry["error"] != "boom" {
		t.Errorf("error: got %v, want boom", entry["error"])
	}
	if entry["wish_id"] != "123" {
		t.Errorf("wish_id: got %v, want 123", entry["wish_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %s", buf.String())
	}
	log.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn should pass at warn level, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"warn":    "WARN",
		"error":   "ERROR",
		"info":    "INFO",
		"bogus":   "INFO",
		"":        "INFO",
		"WARNING": "INFO",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestWith_BindsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info").With("component", "wishlist")

	log.Info("bound")

	entry := parseLastLine(t, &buf)
	if entry["component"] != "wishlist" {
		t.Errorf("component: got %v, want wishlist", entry["component"])
	}
}

func TestMiddleware_RequestIDAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(log))
	r.Get("/wishlist", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wishlist", http.NoBody))
	entry := parseLastLine(t, &buf)
	if _, ok := entry["request_id"]; !ok {
		t.Error("expected request_id in request log")
	}
	if entry["level"] != "INFO" || entry["method"] != "GET" {
		t.Errorf("unexpected entry: %v", entry)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", http.NoBody))
	entry = parseLastLine(t, &buf)
	if entry["level"] != "ERROR" {
		t.Errorf("5xx should log at ERROR, got %v", entry["level"])
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	h := Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	entry := parseLastLine(t, &buf)
	if entry["msg"] != "panic recovered" {
		t.Errorf("msg: got %v", entry["msg"])
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing to see", "error", errors.New("ignored"))
}
