package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandlerGET(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %q", ct)
	}

	body := rec.Body.String()
	if body != `{"status":"ok"}` {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHealthHandlerHEAD(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %q", ct)
	}

	if bodyLen := rec.Body.Len(); bodyLen != 0 {
		t.Fatalf("expected empty body for HEAD request, got %d bytes", bodyLen)
	}
}

func TestReadinessHandler(t *testing.T) {
	checks := map[string]ReadinessCheck{
		"redis":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	}

	rec := httptest.NewRecorder()
	readinessHandler(checks)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	want := `{"checks":{"postgres":"unavailable","redis":"ok"},"status":"unavailable"}` + "\n"
	if got := rec.Body.String(); got != want {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestReadinessHandlerAllHealthy(t *testing.T) {
	checks := map[string]ReadinessCheck{
		"redis": func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				return errors.New("expected a deadline")
			}
			return nil
		},
	}

	rec := httptest.NewRecorder()
	readinessHandler(checks)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}
