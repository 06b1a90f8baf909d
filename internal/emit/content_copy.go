package emit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/inletra/docsite/internal/content"
	"github.com/inletra/docsite/internal/frontmatterops"
	"github.com/inletra/docsite/internal/logfields"
)

// stagePrepare creates the record directory structure in the staging root.
func stagePrepare(_ context.Context, st *emitState) error {
	root := st.Generator.buildRoot()
	if err := os.MkdirAll(filepath.Join(root, "pages"), 0o755); err != nil {
		return newFatalStageError(StagePrepare, fmt.Errorf("create pages directory: %w", err))
	}
	slog.Debug("Created record directory structure", "root", root)
	return nil
}

// stageNormalizeContent copies pages and assets into pages/, giving every
// page a complete frontmatter block on the way through.
func stageNormalizeContent(ctx context.Context, st *emitState) error {
	g := st.Generator
	pagesRoot := filepath.Join(g.buildRoot(), "pages")

	for _, page := range st.Inventory.Pages {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageNormalizeContent, ctx.Err())
		default:
		}
		normalized, err := normalizePage(page)
		if err != nil {
			return newFatalStageError(StageNormalizeContent, fmt.Errorf("normalize %s: %w", page.RelativePath, err))
		}
		outputPath := filepath.Join(pagesRoot, filepath.FromSlash(page.RelativePath))
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return newFatalStageError(StageNormalizeContent, fmt.Errorf("create directory for %s: %w", outputPath, err))
		}
		if err := os.WriteFile(outputPath, normalized, 0o644); err != nil {
			return newFatalStageError(StageNormalizeContent, fmt.Errorf("write %s: %w", outputPath, err))
		}
		slog.Debug("Normalized page", slog.String("source", page.RelativePath), logfields.Route(page.Route))
		if g.onPageEmitted != nil {
			g.onPageEmitted()
		}
	}

	for _, asset := range st.Inventory.Assets {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageNormalizeContent, ctx.Err())
		default:
		}
		if err := copyAsset(asset, pagesRoot); err != nil {
			return newFatalStageError(StageNormalizeContent, err)
		}
		if g.onAssetEmitted != nil {
			g.onAssetEmitted()
		}
	}

	slog.Info("Normalized all content",
		slog.Int("pages", len(st.Inventory.Pages)),
		slog.Int("assets", len(st.Inventory.Assets)))
	return nil
}

// normalizePage rewrites a page with guaranteed title, description and
// lastUpdated frontmatter. Authored values always win and the existing
// newline style is preserved, so already complete pages pass through with
// their frontmatter block intact.
func normalizePage(page *content.Page) ([]byte, error) {
	raw, err := os.ReadFile(page.Path)
	if err != nil {
		return nil, err
	}
	fields, body, _, style, err := frontmatterops.Read(raw)
	if err != nil {
		return nil, err
	}

	frontmatterops.EnsureTitle(fields, page.DisplayTitle())
	frontmatterops.EnsureDescription(fields, page.Meta.Description)
	frontmatterops.EnsureLastUpdated(fields, page.LastModified, time.Now())

	// had=true: pages without an authored block gain one here.
	return frontmatterops.Write(fields, body, true, style)
}

func copyAsset(asset *content.Page, pagesRoot string) error {
	data, err := os.ReadFile(asset.Path)
	if err != nil {
		return fmt.Errorf("read asset %s: %w", asset.RelativePath, err)
	}
	outputPath := filepath.Join(pagesRoot, filepath.FromSlash(asset.RelativePath))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", outputPath, err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write asset %s: %w", outputPath, err)
	}
	return nil
}
