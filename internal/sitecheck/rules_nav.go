package sitecheck

import (
	"fmt"
	"strings"

	"github.com/inletra/docsite/internal/content"
)

// NavUnknownTargetRule verifies that every internal navigation link
// resolves to a known section or page route.
type NavUnknownTargetRule struct{}

// Name returns the rule identifier.
func (r *NavUnknownTargetRule) Name() string {
	return "nav-unknown-target"
}

// Check resolves each nav target. External links are not checked here.
func (r *NavUnknownTargetRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue

	for i, item := range ctx.Config.Theme.Nav {
		route := content.NavRoute(item.Link)
		if route == "" {
			continue // external
		}
		if ctx.Inventory.HasRoute(route) {
			continue
		}
		// A section link is satisfied by any page under that section;
		// a missing section index is the sidebar rule's concern.
		if strings.HasSuffix(item.Link, "/") && item.Link != "/" {
			section := strings.Trim(item.Link, "/")
			if !strings.Contains(section, "/") && ctx.Inventory.HasSection(section) {
				continue
			}
		}

		issues = append(issues, Issue{
			Rule:     r.Name(),
			Severity: SeverityError,
			Path:     fmt.Sprintf("theme.nav[%d]", i),
			Ref:      item.Link,
			Message:  fmt.Sprintf("nav item %q links to unknown target %q (route %q)", item.Text, item.Link, route),
			Fix:      "create the target page or update the link",
		})
	}

	return issues, nil
}
