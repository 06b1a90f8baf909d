package frontmatterops

import (
	"strings"
	"time"
)

// EnsureTitle sets title to fallback when missing or empty/whitespace.
func EnsureTitle(fields map[string]any, fallback string) (changed bool) {
	if fields == nil {
		return false
	}

	v, ok := fields["title"]
	if !ok || v == nil {
		fields["title"] = fallback
		return true
	}

	s, ok := v.(string)
	if !ok {
		return false
	}

	if strings.TrimSpace(s) == "" {
		fields["title"] = fallback
		return true
	}

	return false
}

// EnsureDescription sets description to fallback when missing or
// empty/whitespace. An empty fallback never overwrites; descriptions are
// optional metadata and absence is reported by the checker, not invented here.
func EnsureDescription(fields map[string]any, fallback string) (changed bool) {
	if fields == nil || fallback == "" {
		return false
	}

	v, ok := fields["description"]
	if !ok || v == nil {
		fields["description"] = fallback
		return true
	}

	s, ok := v.(string)
	if !ok {
		return false
	}

	if strings.TrimSpace(s) == "" {
		fields["description"] = fallback
		return true
	}

	return false
}

// EnsureLastUpdated sets lastUpdated when missing (or nil).
//
// If modTime is non-zero, it is used; otherwise now is used. The value is
// RFC 3339 so renderers can parse it without locale guessing.
func EnsureLastUpdated(fields map[string]any, modTime time.Time, now time.Time) (changed bool) {
	if fields == nil {
		return false
	}

	if v, ok := fields["lastUpdated"]; ok && v != nil {
		return false
	}

	t := modTime
	if t.IsZero() {
		t = now
	}

	fields["lastUpdated"] = t.Format(time.RFC3339)
	return true
}
