package content

import (
	"path"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/inletra/docsite/internal/frontmatter"
)

// Page is a single file under the content directory, either a markdown
// page or an asset referenced by one.
type Page struct {
	Path         string // absolute path on disk
	RelativePath string // slash-separated path relative to the content root
	Route        string // canonical identifier, e.g. "introduction/01_introduction/index"
	Section      string // top-level directory, "" for root-level files
	Name         string // file name without extension
	Extension    string
	IsAsset      bool
	IsIndex      bool
	Meta         frontmatter.Meta
	LastModified time.Time
}

// IsMarkdownFile reports whether the file is a markdown page.
func IsMarkdownFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".md" || ext == ".markdown"
}

// IsAssetFile reports whether the file is an asset a page may reference.
func IsAssetFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".pdf":
		return true
	}
	return false
}

// RouteForPath derives the canonical route for a markdown file from its
// slash-separated path relative to the content root. Directory indexes
// (index.md, README.md) map to "<dir>/index"; other files keep their name.
// Routes are NFC-normalized so that visually identical names compare equal.
func RouteForPath(rel string) string {
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if isIndexName(name) {
		name = "index"
	}
	return norm.NFC.String(path.Join(dir, name))
}

// ResolveEntry resolves a sidebar entry against its group prefix to the
// route it addresses. The empty entry addresses the group's own index,
// an entry with a trailing slash addresses a subdirectory index, and a
// bare entry addresses a page by name.
func ResolveEntry(prefix, entry string) string {
	base := strings.Trim(prefix, "/")
	var route string
	switch {
	case entry == "":
		route = path.Join(base, "index")
	case strings.HasSuffix(entry, "/"):
		route = path.Join(base, strings.Trim(entry, "/"), "index")
	default:
		route = path.Join(base, entry)
	}
	return norm.NFC.String(route)
}

// EntryCandidates lists the source files, relative to the content root,
// that would satisfy a sidebar entry. Directory targets accept index.md
// or README.md, leaf targets only "<name>.md".
func EntryCandidates(prefix, entry string) []string {
	base := strings.Trim(prefix, "/")
	switch {
	case entry == "":
		return []string{path.Join(base, "index.md"), path.Join(base, "README.md")}
	case strings.HasSuffix(entry, "/"):
		dir := path.Join(base, strings.Trim(entry, "/"))
		return []string{path.Join(dir, "index.md"), path.Join(dir, "README.md")}
	default:
		return []string{path.Join(base, entry) + ".md"}
	}
}

// NavRoute resolves a navigation link to the route it addresses.
// "/" addresses the site root index, "/basics/" the basics section index
// and "/basics/setup" a named page. External links resolve to "".
func NavRoute(link string) string {
	if link == "" || strings.Contains(link, "://") {
		return ""
	}
	trimmed := strings.Trim(link, "/")
	if trimmed == "" {
		return "index"
	}
	if strings.HasSuffix(link, "/") {
		return norm.NFC.String(path.Join(trimmed, "index"))
	}
	return norm.NFC.String(trimmed)
}

func isIndexName(name string) bool {
	return name == "index" || name == "README"
}
