package content

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
)

// ErrNoHistory is returned when a file has no commits touching it.
var ErrNoHistory = errors.New("no git history for file")

// GitInfo resolves per-file timestamps from the enclosing git repository.
type GitInfo struct {
	repo *git.Repository
	root string
}

// OpenGitInfo opens the repository enclosing dir. It walks up to find the
// .git directory, so the content directory may be nested anywhere inside
// the repository.
func OpenGitInfo(dir string) (*GitInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	return &GitInfo{repo: repo, root: wt.Filesystem.Root()}, nil
}

// LastModified returns the committer time of the most recent commit that
// touched the file. Uncommitted files return ErrNoHistory.
func (g *GitInfo) LastModified(path string) (time.Time, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, err
	}
	rel, err := filepath.Rel(g.root, abs)
	if err != nil {
		return time.Time{}, fmt.Errorf("file outside repository: %w", err)
	}
	rel = filepath.ToSlash(rel)

	iter, err := g.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", rel, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err == io.EOF {
		return time.Time{}, ErrNoHistory
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", rel, err)
	}
	return commit.Committer.When, nil
}

// ApplyLastModified overwrites page timestamps with git history where
// available. Pages without history keep their filesystem mtime.
func (g *GitInfo) ApplyLastModified(inv *Inventory) {
	for _, p := range inv.Pages {
		when, err := g.LastModified(p.Path)
		if err != nil {
			continue
		}
		p.LastModified = when
	}
}
