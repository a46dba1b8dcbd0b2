// Package prometheus adapts the statsd.Sink interface onto a Prometheus registry
// so the same instrumentation can be scraped from /metrics.
package prometheus

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/target/xstats/internal/observability/statsd"
)

// Config configures the sink.
type Config struct {
	// Namespace prefixes every metric name, e.g. "xstats".
	Namespace string
	// Buckets for timing histograms, in seconds. Defaults to prometheus.DefBuckets.
	Buckets []float64
	// Registry defaults to a fresh registry with Go and process collectors.
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// Sink creates collectors lazily, one per metric name. The label set of a
// metric is fixed by its first observation; later tags outside that set are
// dropped and missing ones are reported as empty.
type Sink struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry
	logger    *slog.Logger

	mu         sync.Mutex
	counters   map[string]*labeled[*prometheus.CounterVec]
	gauges     map[string]*labeled[*prometheus.GaugeVec]
	histograms map[string]*labeled[*prometheus.HistogramVec]
}

type labeled[V any] struct {
	vec    V
	labels []string
}

var _ statsd.Sink = (*Sink)(nil)

// NewSink builds a sink over the configured registry.
func NewSink(cfg Config) *Sink {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		namespace:  sanitizeName(cfg.Namespace),
		buckets:    buckets,
		registry:   reg,
		logger:     logger.With("component", "prometheus_sink"),
		counters:   make(map[string]*labeled[*prometheus.CounterVec]),
		gauges:     make(map[string]*labeled[*prometheus.GaugeVec]),
		histograms: make(map[string]*labeled[*prometheus.HistogramVec]),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (s *Sink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

// Registry exposes the underlying registry.
func (s *Sink) Registry() *prometheus.Registry { return s.registry }

// Count adds value to the counter "<name>_total".
func (s *Sink) Count(name string, value int64, tags map[string]string) {
	if value < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	metric := s.fullName(name) + "_total"
	entry, ok := s.counters[metric]
	if !ok {
		labels := labelNames(tags)
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: metric, Help: "Counter " + name}, labels)
		if !s.register(metric, vec) {
			return
		}
		entry = &labeled[*prometheus.CounterVec]{vec: vec, labels: labels}
		s.counters[metric] = entry
	}
	entry.vec.WithLabelValues(labelValues(entry.labels, tags)...).Add(float64(value))
}

// Gauge sets the gauge "<name>".
func (s *Sink) Gauge(name string, value float64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metric := s.fullName(name)
	entry, ok := s.gauges[metric]
	if !ok {
		labels := labelNames(tags)
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metric, Help: "Gauge " + name}, labels)
		if !s.register(metric, vec) {
			return
		}
		entry = &labeled[*prometheus.GaugeVec]{vec: vec, labels: labels}
		s.gauges[metric] = entry
	}
	entry.vec.WithLabelValues(labelValues(entry.labels, tags)...).Set(value)
}

// Timing observes the histogram "<name>_seconds".
func (s *Sink) Timing(name string, value time.Duration, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metric := s.fullName(name) + "_seconds"
	entry, ok := s.histograms[metric]
	if !ok {
		labels := labelNames(tags)
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metric,
			Help:    "Timing " + name,
			Buckets: s.buckets,
		}, labels)
		if !s.register(metric, vec) {
			return
		}
		entry = &labeled[*prometheus.HistogramVec]{vec: vec, labels: labels}
		s.histograms[metric] = entry
	}
	entry.vec.WithLabelValues(labelValues(entry.labels, tags)...).Observe(value.Seconds())
}

func (s *Sink) register(metric string, c prometheus.Collector) bool {
	if err := s.registry.Register(c); err != nil {
		s.logger.Warn("metric registration failed", "metric", metric, "error", err)
		return false
	}
	return true
}

func (s *Sink) fullName(name string) string {
	n := sanitizeName(name)
	if s.namespace == "" {
		return n
	}
	return s.namespace + "_" + n
}

// sanitizeName maps a dotted StatsD name onto the Prometheus metric charset.
func sanitizeName(name string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func labelNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	for k := range tags {
		if n := sanitizeName(k); n != "" {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func labelValues(labels []string, tags map[string]string) []string {
	byLabel := make(map[string]string, len(tags))
	for k, v := range tags {
		byLabel[sanitizeName(k)] = v
	}
	values := make([]string, len(labels))
	for i, l := range labels {
		values[i] = byLabel[l]
	}
	return values
}
