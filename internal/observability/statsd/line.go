package statsd

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

var metricNameReplacer = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_")

// format renders "<prefix.name>:<value>|<kind>|#k:v,...", or "" for an empty name.
func (c *Client) format(name, value, kind string, tags map[string]string) string {
	metric := normalizeMetricName(name)
	if metric == "" {
		return ""
	}

	var b strings.Builder
	if c.prefix != "" {
		b.WriteString(c.prefix)
		b.WriteByte('.')
	}
	b.WriteString(metric)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte('|')
	b.WriteString(kind)
	b.WriteString(formatTags(c.globalTags, tags))
	return b.String()
}

func sanitizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), ".")
}

// normalizeMetricName replaces protocol separators and collapses empty segments.
func normalizeMetricName(name string) string {
	parts := strings.Split(metricNameReplacer.Replace(strings.TrimSpace(name)), ".")
	parts = slices.DeleteFunc(parts, func(p string) bool { return p == "" })
	return strings.Join(parts, ".")
}

// formatTags merges local over global tags into a key-sorted suffix.
func formatTags(global, local map[string]string) string {
	merged := cleanTags(global)
	maps.Copy(merged, cleanTags(local))
	if len(merged) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(merged))
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		pairs = append(pairs, k+":"+merged[k])
	}
	return "|#" + strings.Join(pairs, ",")
}

// cleanTags copies tags with keys and values trimmed, dropping empty keys.
func cleanTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if key := strings.TrimSpace(k); key != "" {
			out[key] = strings.TrimSpace(v)
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
