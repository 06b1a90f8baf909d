package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inletra/docsite/internal/logfields"
)

// Scanner walks a content directory and builds an Inventory.
type Scanner struct {
	IgnorePatterns []string
}

// Scan walks dir with default settings.
func Scan(dir string) (*Inventory, error) {
	return (&Scanner{}).Scan(dir)
}

// Scan walks dir, classifying markdown pages and assets. Hidden files and
// directories are skipped, as is any path segment matching an ignore
// pattern. Page metadata is loaded from frontmatter during the walk so the
// returned inventory is ready for checking.
func (s *Scanner) Scan(dir string) (*Inventory, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path is not a directory: %s", dir)
	}

	inv := newInventory(dir)
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and files
		if d.Name()[0] == '.' && d.Name() != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if s.ignored(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if s.ignored(d.Name()) {
			return nil
		}

		isMarkdown := IsMarkdownFile(p)
		isAsset := IsAssetFile(p)
		if !isMarkdown && !isAsset {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		page := &Page{
			Path:         p,
			RelativePath: rel,
			Name:         strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
			Extension:    strings.ToLower(filepath.Ext(p)),
			Section:      sectionOf(rel),
			IsAsset:      isAsset,
		}
		if fi, err := d.Info(); err == nil {
			page.LastModified = fi.ModTime()
		}

		if isMarkdown {
			page.Route = RouteForPath(rel)
			page.IsIndex = isIndexName(page.Name)
			meta, err := LoadMeta(p)
			if err != nil {
				return fmt.Errorf("page %s: %w", rel, err)
			}
			page.Meta = meta
		}

		inv.add(page)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("content scan complete",
		logfields.Path(dir),
		logfields.Count(len(inv.Pages)),
		slog.Int("assets", len(inv.Assets)))
	return inv, nil
}

// ignored matches a path segment against the configured ignore patterns.
func (s *Scanner) ignored(name string) bool {
	for _, pattern := range s.IgnorePatterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func sectionOf(rel string) string {
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return ""
}
