package sitecheck

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/inletra/docsite/internal/content"
	"github.com/inletra/docsite/internal/frontmatter"
	"github.com/inletra/docsite/internal/markdown"
)

// LinkBrokenRule verifies that every relative link and image reference in
// a page resolves to a page or asset in the inventory. Absolute http(s)
// links are external verification's concern, not this rule's.
type LinkBrokenRule struct{}

// Name returns the rule identifier.
func (r *LinkBrokenRule) Name() string {
	return "link-broken"
}

// Check extracts links from each page body and resolves them.
func (r *LinkBrokenRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue

	for _, page := range ctx.Inventory.Pages {
		raw, err := os.ReadFile(page.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", page.RelativePath, err)
		}
		_, body, _, _, err := frontmatter.Split(raw)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", page.RelativePath, err)
		}

		links, err := markdown.ExtractLinks(body, markdown.Options{})
		if err != nil {
			return nil, fmt.Errorf("extract links from %s: %w", page.RelativePath, err)
		}

		seen := make(map[string]bool, len(links))
		for _, link := range links {
			dest := strings.TrimSpace(link.Destination)
			if dest == "" || seen[dest] {
				continue
			}
			seen[dest] = true

			if !isRelativeTarget(dest) {
				continue
			}
			if resolvesInInventory(ctx.Inventory, page, dest) {
				continue
			}

			issues = append(issues, Issue{
				Rule:     r.Name(),
				Severity: SeverityError,
				Path:     page.RelativePath,
				Ref:      dest,
				Message:  fmt.Sprintf("link %q does not resolve to a page or asset", dest),
				Fix:      "fix the link target or add the missing file",
			})
		}
	}

	return issues, nil
}

// isRelativeTarget filters out destinations this rule does not resolve:
// absolute URLs, mail/tel links and in-page anchors.
func isRelativeTarget(dest string) bool {
	if strings.Contains(dest, "://") {
		return false
	}
	if strings.HasPrefix(dest, "mailto:") || strings.HasPrefix(dest, "tel:") {
		return false
	}
	if strings.HasPrefix(dest, "#") {
		return false
	}
	// Whitespace-containing destinations come from the permissive pass and
	// are almost always prose false positives.
	if strings.ContainsAny(dest, " \t") {
		return false
	}
	return true
}

// resolvesInInventory resolves dest relative to the linking page and looks
// it up as a file, page route or directory index.
func resolvesInInventory(inv *content.Inventory, page *content.Page, dest string) bool {
	// Strip fragment and query.
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if dest == "" {
		return true // pure anchor
	}

	hadDirSlash := strings.HasSuffix(dest, "/")

	var target string
	if strings.HasPrefix(dest, "/") {
		target = path.Clean(strings.TrimPrefix(dest, "/"))
	} else {
		target = path.Clean(path.Join(path.Dir(page.RelativePath), dest))
	}
	if target == "." {
		target = ""
	}
	if strings.HasPrefix(target, "..") {
		return false // escapes the content root
	}

	// Exact file (markdown source or asset).
	if _, ok := inv.File(target); ok {
		return true
	}

	if hadDirSlash || target == "" {
		return inv.HasRoute(path.Join(target, "index"))
	}
	if content.IsMarkdownFile(target) {
		return inv.HasRoute(content.RouteForPath(target))
	}
	// Extensionless: a route, or a directory with an index.
	if inv.HasRoute(target) {
		return true
	}
	return inv.HasRoute(target + "/index")
}
