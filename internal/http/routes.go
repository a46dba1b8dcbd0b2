package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/xstats/internal/observability/statsd"
	"github.com/target/xstats/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Ingest   *service.IngestService
	Accounts *service.AccountService
	// Optional: exposed on GET /metrics when set.
	MetricsHandler http.Handler
	// Optional: request metrics sink.
	Metrics statsd.Sink
	// Optional: dependency checks served on GET /readyz.
	Readiness map[string]ReadinessCheck
	Logger    *slog.Logger
}

// NewRouter creates and configures the HTTP router with its middleware chain.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	if services.Ingest != nil {
		registerIngestRoutes(mux, &IngestHandlers{Svc: services.Ingest})
	}
	if services.Accounts != nil {
		registerAccountRoutes(mux, &AccountHandlers{Svc: services.Accounts})
	}
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if len(services.Readiness) > 0 {
		mux.Handle("GET /readyz", readinessHandler(services.Readiness))
	}
	if services.MetricsHandler != nil {
		mux.Handle("GET /metrics", services.MetricsHandler)
	}

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := services.Metrics
	if sink == nil {
		sink = statsd.Discard{}
	}

	var h http.Handler = mux
	h = Recover(logger)(h)
	h = Metrics(sink)(h)
	h = Logging(logger)(h)
	h = RequestID()(h)
	return h
}

func registerIngestRoutes(mux *http.ServeMux, h *IngestHandlers) {
	mux.HandleFunc("POST /users/parse", h.Parse)
	mux.HandleFunc("GET /users/status/{jobID}", h.Status)
}

func registerAccountRoutes(mux *http.ServeMux, h *AccountHandlers) {
	mux.HandleFunc("GET /user/{handle}", h.GetUser)
	mux.HandleFunc("POST /tweets/{accountID}", h.Tweets)
}
