package config

import (
	"github.com/inletra/docsite/internal/normalization"
)

// CheckFormat enumerates supported check report formats.
type CheckFormat string

const (
	CheckFormatText CheckFormat = "text"
	CheckFormatJSON CheckFormat = "json"
)

var checkFormatNormalizer = normalization.NewNormalizer(map[string]CheckFormat{
	"text": CheckFormatText,
	"json": CheckFormatJSON,
}, CheckFormatText)

// NormalizeCheckFormat canonicalizes user input returning empty string if unknown.
func NormalizeCheckFormat(raw string) CheckFormat {
	if !checkFormatNormalizer.Known(raw) {
		return ""
	}
	return checkFormatNormalizer.Normalize(raw)
}

// CheckConfig tunes the structural validation pass.
type CheckConfig struct {
	Format CheckFormat `yaml:"format,omitempty"` // text|json
	// External enables HTTP verification of absolute links. Off by default;
	// check performs no network I/O unless asked.
	External bool `yaml:"external,omitempty"`
	// SkipRules lists rule identifiers to silence.
	SkipRules []string `yaml:"skip_rules,omitempty"`
}
