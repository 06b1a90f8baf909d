package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func commitFile(t *testing.T, repo *git.Repository, root, rel, content string, when time.Time) {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := wt.Add(rel); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "author", Email: "a@example.com", When: when}
	if _, err := wt.Commit("update "+rel, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestGitInfo_LastModified(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	commitFile(t, repo, root, "docs/introduction/index.md", "# Introduction\n", first)
	commitFile(t, repo, root, "docs/introduction/index.md", "# Introduction v2\n", second)

	info, err := OpenGitInfo(filepath.Join(root, "docs"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	when, err := info.LastModified(filepath.Join(root, "docs", "introduction", "index.md"))
	if err != nil {
		t.Fatalf("last modified: %v", err)
	}
	if !when.Equal(second) {
		t.Fatalf("last modified = %v, want %v", when, second)
	}
}

func TestGitInfo_UncommittedFile(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	commitFile(t, repo, root, "docs/index.md", "# Home\n", time.Now())

	loose := filepath.Join(root, "docs", "loose.md")
	if err := os.WriteFile(loose, []byte("# Loose\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	info, err := OpenGitInfo(filepath.Join(root, "docs"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := info.LastModified(loose); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("err = %v, want ErrNoHistory", err)
	}
}

func TestOpenGitInfo_NotARepository(t *testing.T) {
	if _, err := OpenGitInfo(t.TempDir()); err == nil {
		t.Fatal("expected error outside a repository")
	}
}

func TestGitInfo_ApplyLastModified(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	when := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	commitFile(t, repo, root, "docs/index.md", "# Home\n", when)

	docs := filepath.Join(root, "docs")
	inv, err := Scan(docs)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	info, err := OpenGitInfo(docs)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	info.ApplyLastModified(inv)

	page, ok := inv.Page("index")
	if !ok {
		t.Fatal("missing index page")
	}
	if !page.LastModified.Equal(when) {
		t.Fatalf("last modified = %v, want %v", page.LastModified, when)
	}
}
