package statsd

import "time"

// Discard is a Sink that drops every metric.
type Discard struct{}

func (Discard) Count(string, int64, map[string]string)          {}
func (Discard) Gauge(string, float64, map[string]string)        {}
func (Discard) Timing(string, time.Duration, map[string]string) {}

// Multi fans every metric out to each non-nil sink.
type Multi []Sink

// NewMulti drops nil sinks and returns Discard when none remain.
func NewMulti(sinks ...Sink) Sink {
	out := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return Discard{}
	case 1:
		return out[0]
	default:
		return out
	}
}

func (m Multi) Count(name string, value int64, tags map[string]string) {
	for _, s := range m {
		s.Count(name, value, tags)
	}
}

func (m Multi) Gauge(name string, value float64, tags map[string]string) {
	for _, s := range m {
		s.Gauge(name, value, tags)
	}
}

func (m Multi) Timing(name string, value time.Duration, tags map[string]string) {
	for _, s := range m {
		s.Timing(name, value, tags)
	}
}
