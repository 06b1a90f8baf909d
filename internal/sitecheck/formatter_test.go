package sitecheck

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleResult() *Result {
	return &Result{
		PagesTotal: 6,
		Issues: []Issue{
			{
				Rule:     "sidebar-missing-page",
				Severity: SeverityError,
				Path:     "/introduction/",
				Ref:      "02_basics/",
				Message:  `entry "02_basics/" resolves to missing page "introduction/02_basics/index"`,
				Fix:      "create introduction/02_basics/index.md or introduction/02_basics/README.md",
			},
			{
				Rule:     "page-missing-description",
				Severity: SeverityWarning,
				Path:     "basics/index.md",
				Ref:      "basics/index",
				Message:  "page has no description in frontmatter",
			},
		},
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewTextFormatter(false).Format(&buf, sampleResult(), "docs")
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"docs",
		"introduction/02_basics/index",
		"sidebar-missing-page",
		"6 pages checked",
		"1 error",
		"1 warning",
		"Fix: create",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("color codes emitted without useColor")
	}
}

func TestTextFormatter_Color(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(true).Format(&buf, sampleResult(), "docs"); err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(buf.String(), "\033[31m") {
		t.Error("expected red for error issue")
	}
}

func TestTextFormatter_CleanResult(t *testing.T) {
	var buf bytes.Buffer
	err := NewTextFormatter(false).Format(&buf, &Result{PagesTotal: 3}, "docs")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(buf.String(), "matches the content tree") {
		t.Errorf("missing success message:\n%s", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, sampleResult(), "docs"); err != nil {
		t.Fatalf("format: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ErrorCount != 1 || out.WarningCount != 1 {
		t.Fatalf("counts = %d/%d", out.ErrorCount, out.WarningCount)
	}
	if len(out.Issues) != 2 {
		t.Fatalf("issues = %d", len(out.Issues))
	}
	if out.Issues[0].Severity != "ERROR" || out.Issues[0].Rule != "sidebar-missing-page" {
		t.Fatalf("first issue = %+v", out.Issues[0])
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter("json", false).(*JSONFormatter); !ok {
		t.Error("json format should create JSONFormatter")
	}
	if _, ok := NewFormatter("text", false).(*TextFormatter); !ok {
		t.Error("text format should create TextFormatter")
	}
	if _, ok := NewFormatter("", false).(*TextFormatter); !ok {
		t.Error("unknown format should fall back to text")
	}
}
