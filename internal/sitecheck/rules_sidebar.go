package sitecheck

import (
	"fmt"
	"strings"

	"github.com/inletra/docsite/internal/content"
)

// SidebarMissingPageRule verifies that every sidebar entry resolves to an
// existing page.
type SidebarMissingPageRule struct{}

// Name returns the rule identifier.
func (r *SidebarMissingPageRule) Name() string {
	return "sidebar-missing-page"
}

// Check resolves each entry of each group against the inventory.
func (r *SidebarMissingPageRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue

	for _, group := range ctx.Config.Theme.Sidebar.Groups {
		for _, entry := range group.Entries {
			route := content.ResolveEntry(group.Prefix, entry)
			if ctx.Inventory.HasRoute(route) {
				continue
			}
			// A bare entry may also name a directory with its own index.
			if !strings.HasSuffix(entry, "/") && entry != "" &&
				ctx.Inventory.HasRoute(route+"/index") {
				continue
			}

			issues = append(issues, Issue{
				Rule:     r.Name(),
				Severity: SeverityError,
				Path:     group.Prefix,
				Ref:      entry,
				Message:  fmt.Sprintf("entry %q resolves to missing page %q", entry, route),
				Fix:      "create " + candidateList(group.Prefix, entry),
			})
		}
	}

	return issues, nil
}

// SidebarDuplicateEntryRule flags entries repeated within one group.
type SidebarDuplicateEntryRule struct{}

// Name returns the rule identifier.
func (r *SidebarDuplicateEntryRule) Name() string {
	return "sidebar-duplicate-entry"
}

// Check reports each repeat occurrence once.
func (r *SidebarDuplicateEntryRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue

	for _, group := range ctx.Config.Theme.Sidebar.Groups {
		seen := make(map[string]bool, len(group.Entries))
		for _, entry := range group.Entries {
			if !seen[entry] {
				seen[entry] = true
				continue
			}
			issues = append(issues, Issue{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     group.Prefix,
				Ref:      entry,
				Message:  fmt.Sprintf("entry %q appears more than once in group %s", entry, group.Prefix),
				Fix:      "remove the duplicate entry",
			})
		}
	}

	return issues, nil
}

func candidateList(prefix, entry string) string {
	candidates := content.EntryCandidates(prefix, entry)
	return strings.Join(candidates, " or ")
}
