package sitecheck

import (
	"fmt"

	"github.com/inletra/docsite/internal/content"
)

// PageMissingTitleRule flags pages whose metadata carries no title even
// after the H1 fallback.
type PageMissingTitleRule struct{}

// Name returns the rule identifier.
func (r *PageMissingTitleRule) Name() string {
	return "page-missing-title"
}

// Check inspects loaded page metadata.
func (r *PageMissingTitleRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue

	for _, page := range ctx.Inventory.Pages {
		if page.Meta.Title != "" {
			continue
		}
		issues = append(issues, Issue{
			Rule:     r.Name(),
			Severity: SeverityWarning,
			Path:     page.RelativePath,
			Ref:      page.Route,
			Message:  "page has no title in frontmatter and no H1 heading",
			Fix:      fmt.Sprintf("add 'title:' frontmatter or a '# %s' heading", content.TitleFromName(page.Name)),
		})
	}

	return issues, nil
}

// PageMissingDescriptionRule flags pages without a description.
type PageMissingDescriptionRule struct{}

// Name returns the rule identifier.
func (r *PageMissingDescriptionRule) Name() string {
	return "page-missing-description"
}

// Check inspects loaded page metadata.
func (r *PageMissingDescriptionRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue

	for _, page := range ctx.Inventory.Pages {
		if page.Meta.Description != "" {
			continue
		}
		issues = append(issues, Issue{
			Rule:     r.Name(),
			Severity: SeverityWarning,
			Path:     page.RelativePath,
			Ref:      page.Route,
			Message:  "page has no description in frontmatter",
			Fix:      "add 'description:' frontmatter",
		})
	}

	return issues, nil
}

// PageOrphanedRule reports pages no sidebar group or nav item reaches.
type PageOrphanedRule struct{}

// Name returns the rule identifier.
func (r *PageOrphanedRule) Name() string {
	return "page-orphaned"
}

// Check builds the reachable route set and reports the complement.
func (r *PageOrphanedRule) Check(ctx *Context) ([]Issue, error) {
	reachable := make(map[string]bool)

	for _, group := range ctx.Config.Theme.Sidebar.Groups {
		for _, entry := range group.Entries {
			route := content.ResolveEntry(group.Prefix, entry)
			reachable[route] = true
			reachable[route+"/index"] = true
		}
	}
	for _, item := range ctx.Config.Theme.Nav {
		if route := content.NavRoute(item.Link); route != "" {
			reachable[route] = true
		}
	}

	var issues []Issue
	for _, page := range ctx.Inventory.Pages {
		if reachable[page.Route] {
			continue
		}
		issues = append(issues, Issue{
			Rule:     r.Name(),
			Severity: SeverityInfo,
			Path:     page.RelativePath,
			Ref:      page.Route,
			Message:  fmt.Sprintf("page %q is not reachable from the sidebar or nav", page.Route),
			Fix:      "add it to a sidebar group or remove it",
		})
	}

	return issues, nil
}
