package sitecheck

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter renders check results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, contentDir string) error
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string, useColor bool) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter(useColor)
	}
}

// TextFormatter renders results as human-readable text.
type TextFormatter struct {
	useColor bool
}

// NewTextFormatter creates a text formatter. Color is applied only when
// useColor is set; callers decide based on the output terminal.
func NewTextFormatter(useColor bool) *TextFormatter {
	return &TextFormatter{useColor: useColor}
}

const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiReset  = "\033[0m"
)

// Format writes the grouped issues and a summary.
func (f *TextFormatter) Format(w io.Writer, result *Result, contentDir string) error {
	if _, err := fmt.Fprintf(w, "Checking site configuration against: %s\n", contentDir); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for _, issue := range result.Issues {
		if err := f.formatIssue(w, issue); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Results:\n  %d pages checked\n", result.PagesTotal); err != nil {
		return err
	}

	if n := result.ErrorCount(); n > 0 {
		if _, err := fmt.Fprintf(w, "  %d error%s (renderer cannot resolve these)\n", n, pluralize(n)); err != nil {
			return err
		}
	}
	if n := result.WarningCount(); n > 0 {
		if _, err := fmt.Fprintf(w, "  %d warning%s (should fix)\n", n, pluralize(n)); err != nil {
			return err
		}
	}
	if n := result.InfoCount(); n > 0 {
		if _, err := fmt.Fprintf(w, "  %d info\n", n); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	return f.printFinalMessage(w, result)
}

func (f *TextFormatter) formatIssue(w io.Writer, issue Issue) error {
	icon := "ℹ"
	color := ansiCyan
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
		color = ansiRed
	case SeverityWarning:
		icon = "⚠"
		color = ansiYellow
	}

	locus := issue.Path
	if issue.Ref != "" {
		locus += " → " + issue.Ref
	}

	if f.useColor {
		if _, err := fmt.Fprintf(w, "%s%s %s%s\n", color, icon, locus, ansiReset); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "%s %s\n", icon, locus); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "  %s [%s]: %s\n", issue.Severity, issue.Rule, issue.Message); err != nil {
		return err
	}
	if issue.Fix != "" {
		if _, err := fmt.Fprintf(w, "  Fix: %s\n", issue.Fix); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) printFinalMessage(w io.Writer, result *Result) error {
	switch {
	case result.HasErrors():
		_, err := fmt.Fprintln(w, "✗ Site configuration has errors the renderer cannot resolve.")
		return err
	case result.HasWarnings():
		_, err := fmt.Fprintln(w, "⚠ Site configuration has warnings. Consider fixing before publishing.")
		return err
	case len(result.Issues) > 0:
		_, err := fmt.Fprintln(w, "ℹ All findings are informational.")
		return err
	default:
		_, err := fmt.Fprintln(w, "✓ Site configuration matches the content tree.")
		return err
	}
}

// JSONFormatter renders results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput is the machine-readable result document.
type JSONOutput struct {
	ContentDir   string      `json:"content_dir"`
	PagesTotal   int         `json:"pages_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	InfoCount    int         `json:"info_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue is a single issue in JSON form.
type JSONIssue struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Ref      string `json:"ref,omitempty"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// NewJSONOutput converts a result into the machine-readable document.
// Shared by the JSON formatter and the watch mode issues endpoint.
func NewJSONOutput(result *Result, contentDir string) JSONOutput {
	output := JSONOutput{
		ContentDir:   contentDir,
		PagesTotal:   result.PagesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		InfoCount:    result.InfoCount(),
		Issues:       []JSONIssue{},
	}
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, JSONIssue{
			Rule:     issue.Rule,
			Severity: issue.Severity.String(),
			Path:     issue.Path,
			Ref:      issue.Ref,
			Message:  issue.Message,
			Fix:      issue.Fix,
		})
	}
	return output
}

// Format writes the result as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result, contentDir string) error {
	output := NewJSONOutput(result, contentDir)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
