package content

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/inletra/docsite/internal/frontmatter"
	"github.com/inletra/docsite/internal/markdown"
)

var titleCaser = cases.Title(language.English)

// LoadMeta reads a markdown file and extracts its document metadata.
// Frontmatter wins; a missing title falls back to the first H1 heading.
func LoadMeta(path string) (frontmatter.Meta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return frontmatter.Meta{}, err
	}

	fm, body, had, _, err := frontmatter.Split(raw)
	if err != nil {
		return frontmatter.Meta{}, fmt.Errorf("frontmatter: %w", err)
	}

	var meta frontmatter.Meta
	if had {
		meta, err = frontmatter.ParseMeta(fm)
		if err != nil {
			return frontmatter.Meta{}, fmt.Errorf("frontmatter: %w", err)
		}
	}
	if meta.Title == "" {
		meta.Title = markdown.FirstHeading(body)
	}
	return meta, nil
}

// TitleFromName derives a display title from a file or directory name,
// the last resort when neither frontmatter nor an H1 provides one.
// "01_custom_errors" becomes "Custom Errors".
func TitleFromName(name string) string {
	name = strings.TrimSuffix(name, "/")
	name = strings.TrimLeft(name, "0123456789")
	name = strings.TrimLeft(name, "_-")
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return titleCaser.String(name)
}

// DisplayTitle returns the best available title for a page, falling back
// to its file name, and to its directory name for index pages.
func (p *Page) DisplayTitle() string {
	if p.Meta.Title != "" {
		return p.Meta.Title
	}
	if p.IsIndex {
		parts := strings.Split(p.RelativePath, "/")
		if len(parts) > 1 {
			return TitleFromName(parts[len(parts)-2])
		}
		return "Home"
	}
	return TitleFromName(p.Name)
}
