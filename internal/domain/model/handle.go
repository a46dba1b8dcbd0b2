package model

import "strings"

// NormalizeHandle reduces an account reference (profile URL or bare handle) to a bare handle.
// The handle is the last non-empty path segment, with any query string, fragment and leading
// "@" removed. It returns "" when the reference holds no usable segment.
func NormalizeHandle(ref string) string {
	s := strings.TrimSpace(ref)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	segments := strings.Split(s, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := strings.TrimSpace(segments[i])
		seg = strings.TrimPrefix(seg, "@")
		if seg != "" {
			return seg
		}
	}
	return ""
}

// NormalizeHandles normalizes every reference, dropping empty results and duplicates.
// Handles are case-insensitive, so "Alice" and "alice" are one handle; the spelling
// of the first occurrence is kept, in order of first occurrence.
func NormalizeHandles(refs []string) []string {
	out := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		h := NormalizeHandle(ref)
		if h == "" {
			continue
		}
		key := strings.ToLower(h)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}

// PartitionHandles splits handles into consecutive batches of at most size elements.
// The last batch may be smaller. A size below 1 is treated as 1.
func PartitionHandles(handles []string, size int) [][]string {
	if len(handles) == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}

	batches := make([][]string, 0, (len(handles)+size-1)/size)
	for start := 0; start < len(handles); start += size {
		end := min(start+size, len(handles))
		batches = append(batches, handles[start:end:end])
	}
	return batches
}
