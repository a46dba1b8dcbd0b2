package metrics

import (
	"strconv"
	"time"

	"github.com/target/xstats/internal/observability/statsd"
)

const (
	MetricHTTPRequest         = "http.request"
	MetricHTTPRequestDuration = "http.request.duration"
)

// HTTPRequest describes one served request.
type HTTPRequest struct {
	Route    string
	Method   string
	Status   int
	Duration time.Duration
}

// EmitHTTPRequest records a served request tagged by route pattern and status class.
func EmitHTTPRequest(sink statsd.Sink, in HTTPRequest) {
	if sink == nil {
		return
	}
	route := in.Route
	if route == "" {
		route = "unmatched"
	}
	tags := map[string]string{
		"route":  route,
		"method": in.Method,
		"status": statusClass(in.Status),
	}
	sink.Count(MetricHTTPRequest, 1, tags)
	if in.Duration > 0 {
		sink.Timing(MetricHTTPRequestDuration, in.Duration, CloneTags(tags))
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}
