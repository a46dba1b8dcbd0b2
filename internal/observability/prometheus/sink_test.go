package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink() *Sink {
	return NewSink(Config{Namespace: "xstats", Registry: prometheus.NewRegistry()})
}

func TestSink_CountAccumulatesPerLabel(t *testing.T) {
	s := newTestSink()

	s.Count("ingest.batch", 1, map[string]string{"result": "success"})
	s.Count("ingest.batch", 2, map[string]string{"result": "success"})
	s.Count("ingest.batch", 1, map[string]string{"result": "fetch_failed"})

	vec := s.counters["xstats_ingest_batch_total"].vec
	assert.InDelta(t, 3, testutil.ToFloat64(vec.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(vec.WithLabelValues("fetch_failed")), 0)
}

func TestSink_LabelSetFixedByFirstUse(t *testing.T) {
	s := newTestSink()

	s.Count("ingest.upsert", 1, map[string]string{"result": "success"})
	s.Count("ingest.upsert", 1, map[string]string{"result": "error", "extra": "dropped"})
	s.Count("ingest.upsert", 1, nil)

	vec := s.counters["xstats_ingest_upsert_total"].vec
	assert.Equal(t, []string{"result"}, s.counters["xstats_ingest_upsert_total"].labels)
	assert.InDelta(t, 1, testutil.ToFloat64(vec.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(vec.WithLabelValues("")), 0)
}

func TestSink_GaugeAndTiming(t *testing.T) {
	s := newTestSink()

	s.Gauge("ingest.inflight", 4, nil)
	s.Gauge("ingest.inflight", 2, nil)
	s.Timing("ingest.batch.duration", 250*time.Millisecond, map[string]string{"result": "success"})

	assert.InDelta(t, 2, testutil.ToFloat64(s.gauges["xstats_ingest_inflight"].vec.WithLabelValues()), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(s.histograms["xstats_ingest_batch_duration_seconds"].vec))
}

func TestSink_NegativeCountIgnored(t *testing.T) {
	s := newTestSink()
	s.Count("ingest.submit", -1, nil)
	assert.Empty(t, s.counters)
}

func TestSink_Handler(t *testing.T) {
	s := newTestSink()
	s.Count("ingest.submit", 1, map[string]string{"result": "success"})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `xstats_ingest_submit_total{result="success"} 1`)
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"ingest.batch": "ingest_batch",
		"9lives":       "_9lives",
		" a-b/c ":      "a_b_c",
		"ok_name:sub":  "ok_name:sub",
		"":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeName(in), in)
	}
}
