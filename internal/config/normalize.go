package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig performs canonicalization on enumerated and bounded fields prior to default application.
// It mutates the provided config in-place and returns a result describing any coercions.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeCheck(&c.Check, res)
	normalizeTheme(&c.Theme, res)
	normalizeWatch(c.Watch, res)
	normalizeEvents(c.Events, res)
	return res, nil
}

func normalizeCheck(c *CheckConfig, res *NormalizationResult) {
	if c == nil {
		return
	}
	// format
	if f := NormalizeCheckFormat(string(c.Format)); f != "" {
		if c.Format != f {
			res.Warnings = append(res.Warnings, warnChanged("check.format", c.Format, f))
			c.Format = f
		}
	} else if strings.TrimSpace(string(c.Format)) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("check.format", string(c.Format), string(CheckFormatText)))
		c.Format = CheckFormatText
	}
}

func normalizeTheme(t *ThemeConfig, res *NormalizationResult) {
	if t == nil {
		return
	}
	// sidebar_depth bounds (renderer supports 0..3)
	if t.SidebarDepth < 0 {
		t.SidebarDepth = 0
	}
	if t.SidebarDepth > 3 {
		res.Warnings = append(res.Warnings, warnChanged("theme.sidebar_depth", t.SidebarDepth, 3))
		t.SidebarDepth = 3
	}
}

func normalizeWatch(w *WatchConfig, res *NormalizationResult) {
	if w == nil {
		return
	}
	// bounds
	if w.Workers < 0 {
		w.Workers = 0
	}
	if w.QueueSize < 0 {
		w.QueueSize = 0
	}
	if w.HistorySize < 0 {
		w.HistorySize = 0
	}
}

func normalizeEvents(e *EventsConfig, res *NormalizationResult) {
	if e == nil {
		return
	}
	if e.MaxConcurrent < 0 {
		e.MaxConcurrent = 0
	}
	if e.MaxRedirects < 0 {
		e.MaxRedirects = 0
	}
}

func warnChanged(field string, from, to interface{}) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}
func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
