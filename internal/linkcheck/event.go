package linkcheck

import (
	"time"
)

// BrokenLinkEvent represents a broken external link discovered during verification.
// This event is published to NATS for downstream processing (e.g., opening issues).
type BrokenLinkEvent struct {
	// Link information
	URL    string `json:"url"`    // The broken link URL
	Status int    `json:"status"` // HTTP status code (0 for non-HTTP errors)
	Error  string `json:"error"`  // Error message

	// Source page metadata
	Route              string `json:"route"`                // Page identifier of the source page
	SourcePath         string `json:"source_path"`          // Source file path (absolute)
	SourceRelativePath string `json:"source_relative_path"` // Path relative to the content directory
	Section            string `json:"section,omitempty"`    // Top-level content section
	Title              string `json:"title,omitempty"`      // Page title from metadata

	// Verification metadata
	Timestamp     time.Time `json:"timestamp"`                // When the broken link was discovered
	LastChecked   time.Time `json:"last_checked"`             // When this link was last verified
	FailureCount  int       `json:"failure_count"`            // Number of consecutive failures
	FirstFailedAt time.Time `json:"first_failed_at,omitzero"` // When this link first failed

	// Run context
	RunID string `json:"run_id,omitempty"`
}
