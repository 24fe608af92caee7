// Package gitsource fetches a content root from a git repository, for
// building straight from the authoring repo instead of a local checkout.
package gitsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/devopslaunch/siteforge/internal/logfields"
)

// Source is one cloned repository workspace.
type Source struct {
	dir string
}

// Clone performs a shallow single-branch clone into a fresh temporary
// directory. An empty branch clones the remote default.
func Clone(ctx context.Context, url, branch string) (*Source, error) {
	dir, err := os.MkdirTemp("", "siteforge-src-")
	if err != nil {
		return nil, fmt.Errorf("create clone workspace: %w", err)
	}

	opts := &git.CloneOptions{URL: url, Depth: 1}
	if branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		opts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("clone %s: %w", url, err)
	}

	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Content repository cloned", logfields.URL(url), slog.String("commit", ref.Hash().String()[:8]))
	} else {
		slog.Info("Content repository cloned", logfields.URL(url))
	}
	return &Source{dir: dir}, nil
}

// ContentRoot returns the content directory inside the clone. subdir may be
// empty to use the repository root.
func (s *Source) ContentRoot(subdir string) string {
	if subdir == "" {
		return s.dir
	}
	return filepath.Join(s.dir, filepath.FromSlash(subdir))
}

// Cleanup removes the clone workspace.
func (s *Source) Cleanup() {
	if s.dir == "" {
		return
	}
	if err := os.RemoveAll(s.dir); err != nil {
		slog.Warn("Failed to remove clone workspace", logfields.Path(s.dir), logfields.Error(err))
	}
	s.dir = ""
}
