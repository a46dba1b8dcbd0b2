// Package metrics holds the metric names and tag conventions of the ingestion pipeline.
package metrics

import (
	"time"

	obserrors "github.com/target/xstats/internal/observability/errors"
	"github.com/target/xstats/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess     = "success"
	ResultError       = "error"
	ResultPartial     = "partial"
	ResultFetchFailed = "fetch_failed"
	ResultRejected    = "rejected"
)

const (
	MetricSubmit        = "ingest.submit"
	MetricSubmitHandles = "ingest.submit.handles"
	MetricBatch         = "ingest.batch"
	MetricBatchDuration = "ingest.batch.duration"
	MetricUnresolved    = "ingest.unresolved"
	MetricUpsert        = "ingest.upsert"
	MetricRunDuration   = "ingest.run.duration"
)

// EmitSubmit records a submission and, when accepted, how many handles it carried.
func EmitSubmit(sink statsd.Sink, result string, handles int, err error) {
	if sink == nil {
		return
	}
	tags := withErrorClass(map[string]string{"result": result}, result, err)
	sink.Count(MetricSubmit, 1, tags)
	if handles > 0 {
		sink.Count(MetricSubmitHandles, int64(handles), nil)
	}
}

// BatchMetric captures the outcome of one remote lookup batch.
type BatchMetric struct {
	Result     string
	Unresolved int
	Duration   time.Duration
	Err        error
}

// EmitBatch records a batch outcome with its duration.
func EmitBatch(sink statsd.Sink, in BatchMetric) {
	if sink == nil {
		return
	}
	tags := withErrorClass(map[string]string{"result": in.Result}, in.Result, in.Err)
	sink.Count(MetricBatch, 1, tags)
	if in.Duration > 0 {
		sink.Timing(MetricBatchDuration, in.Duration, CloneTags(tags))
	}
	if in.Unresolved > 0 {
		sink.Count(MetricUnresolved, int64(in.Unresolved), nil)
	}
}

// EmitUpsert records a single repository write.
func EmitUpsert(sink statsd.Sink, err error) {
	if sink == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	sink.Count(MetricUpsert, 1, withErrorClass(map[string]string{"result": result}, result, err))
}

// EmitRun records the wall time of a full ingestion run.
func EmitRun(sink statsd.Sink, d time.Duration) {
	if sink == nil || d <= 0 {
		return
	}
	sink.Timing(MetricRunDuration, d, nil)
}

func withErrorClass(tags map[string]string, result string, err error) map[string]string {
	if err == nil || result == ResultSuccess {
		tags["error_class"] = ""
		return tags
	}
	tags["error_class"] = obserrors.Classify(err)
	return tags
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
