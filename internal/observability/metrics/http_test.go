package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitHTTPRequest(t *testing.T) {
	sink := &fakeSink{}
	EmitHTTPRequest(sink, HTTPRequest{
		Route:    "POST /users/parse",
		Method:   http.MethodPost,
		Status:   http.StatusAccepted,
		Duration: 5 * time.Millisecond,
	})

	require.Len(t, sink.calls, 2)
	assert.Equal(t, MetricHTTPRequest, sink.calls[0].name)
	assert.Equal(t, "2xx", sink.calls[0].tags["status"])
	assert.Equal(t, "POST /users/parse", sink.calls[0].tags["route"])
	assert.Equal(t, MetricHTTPRequestDuration, sink.calls[1].name)
}

func TestEmitHTTPRequest_Unmatched(t *testing.T) {
	sink := &fakeSink{}
	EmitHTTPRequest(sink, HTTPRequest{Method: http.MethodGet, Status: http.StatusNotFound})

	require.Len(t, sink.calls, 1)
	assert.Equal(t, "unmatched", sink.calls[0].tags["route"])
	assert.Equal(t, "4xx", sink.calls[0].tags["status"])
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "5xx", statusClass(503))
	assert.Equal(t, "unknown", statusClass(0))
	assert.Equal(t, "unknown", statusClass(700))
}

func TestEmitHTTPRequest_NilSink(t *testing.T) {
	assert.NotPanics(t, func() { EmitHTTPRequest(nil, HTTPRequest{}) })
}
