package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/target/xstats/config"
	"github.com/target/xstats/internal/observability/prometheus"
	"github.com/target/xstats/internal/observability/statsd"
)

// ObservabilityContainer holds the metrics backends selected by configuration.
type ObservabilityContainer struct {
	// Sink fans out to every enabled backend; it is never nil.
	Sink statsd.Sink
	// Handler serves the Prometheus registry, or nil when disabled.
	Handler http.Handler

	statsd *statsd.Client
}

// Close releases the StatsD socket if one was opened.
func (o ObservabilityContainer) Close() error {
	if o.statsd == nil {
		return nil
	}
	return o.statsd.Close()
}

// buildObservability configures metrics adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var (
		out   ObservabilityContainer
		sinks []statsd.Sink
	)

	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			out.statsd = client
			sinks = append(sinks, client)
		}
	}

	if cfg.Metrics.PrometheusEnabled {
		sink := prometheus.NewSink(prometheus.Config{
			Namespace: cfg.Metrics.Prefix,
			Logger:    obsLogger,
		})
		out.Handler = sink.Handler()
		sinks = append(sinks, sink)
	}

	out.Sink = statsd.NewMulti(sinks...)
	return out
}
