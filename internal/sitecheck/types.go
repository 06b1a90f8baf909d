package sitecheck

import (
	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
)

// Severity indicates the importance level of a check issue.
type Severity int

const (
	// SeverityInfo indicates informational findings (e.g. orphaned pages).
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but don't block emitting.
	SeverityWarning
	// SeverityError indicates issues the renderer cannot resolve at its end.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue is a single problem found while checking the site configuration
// against the content tree.
type Issue struct {
	Rule     string   // Rule identifier (e.g. "sidebar-missing-page")
	Severity Severity // Issue severity level
	Path     string   // Config locus or file the issue belongs to
	Ref      string   // The offending reference (entry, link, plugin, route)
	Message  string   // Brief description of the issue
	Fix      string   // Suggested fix
}

// Result contains all issues found during a check run.
type Result struct {
	Issues     []Issue
	PagesTotal int
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// InfoCount returns the number of info-level issues.
func (r *Result) InfoCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityInfo {
			n++
		}
	}
	return n
}

// ExitCode maps the result to the process exit code: 2 for errors,
// 1 for warnings, 0 otherwise.
func (r *Result) ExitCode() int {
	if r.HasErrors() {
		return 2
	}
	if r.HasWarnings() {
		return 1
	}
	return 0
}

// Context carries everything a rule needs: the loaded configuration and
// the scanned content inventory.
type Context struct {
	Config    *config.Config
	Inventory *content.Inventory
}

// Rule checks one structural property of the site.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check inspects the site and returns any issues found.
	Check(ctx *Context) ([]Issue, error)
}

// Config controls a check run.
type Config struct {
	// Quiet suppresses warnings and infos, only reporting errors.
	Quiet bool

	// Format specifies output format (text, json).
	Format string

	// SkipRules disables rules by name.
	SkipRules []string
}
