package httpx

import (
	"context"
	"io"
	"net/http"
	"sort"
	"time"
)

const (
	healthResponse      = `{"status":"ok"}`
	readinessTimeout    = 2 * time.Second
	readinessStatusOK   = "ok"
	readinessStatusFail = "unavailable"
)

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// ReadinessCheck pings one backing dependency.
type ReadinessCheck func(ctx context.Context) error

// readinessHandler runs every check under a shared deadline and reports 503
// when any of them fails.
func readinessHandler(checks map[string]ReadinessCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		code := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				results[name] = readinessStatusFail
				code = http.StatusServiceUnavailable
				continue
			}
			results[name] = readinessStatusOK
		}

		status := readinessStatusOK
		if code != http.StatusOK {
			status = readinessStatusFail
		}
		WriteJSON(w, code, map[string]any{"status": status, "checks": results})
	}
}
