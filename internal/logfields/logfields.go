package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyJobID      = "job_id"
	KeyJobTrigger = "job_trigger"
	KeyJobStatus  = "job_status"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySite       = "site"
	KeyPage       = "page"
	KeyRoute      = "route"
	KeyGroup      = "sidebar_group"
	KeyRule       = "rule"
	KeyPlugin     = "plugin"
	KeyTarget     = "target"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func JobID(id string) slog.Attr       { return slog.String(KeyJobID, id) }
func JobTrigger(t string) slog.Attr   { return slog.String(KeyJobTrigger, t) }
func JobStatus(s string) slog.Attr    { return slog.String(KeyJobStatus, s) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Site(title string) slog.Attr     { return slog.String(KeySite, title) }
func Page(id string) slog.Attr        { return slog.String(KeyPage, id) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func Group(prefix string) slog.Attr   { return slog.String(KeyGroup, prefix) }
func Rule(id string) slog.Attr        { return slog.String(KeyRule, id) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
