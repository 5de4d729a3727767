// Package git locates the repository a timegrid workspace lives in.
package git

import (
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"

	"github.com/runoshun/timegrid/internal/domain"
)

// Client wraps the repository enclosing a directory.
type Client struct {
	repo     *gogit.Repository
	repoRoot string // Worktree root (parent of .git)
	gitDir   string // .git directory
}

// NewClient opens the repository containing dir, searching parent directories.
// It returns domain.ErrNotGitRepository when dir is not inside a repository.
func NewClient(dir string) (*Client, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, domain.ErrNotGitRepository
		}
		return nil, fmt.Errorf("open git repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	root := filepath.Clean(wt.Filesystem.Root())

	return &Client{
		repo:     repo,
		repoRoot: root,
		gitDir:   filepath.Join(root, ".git"),
	}, nil
}

// RepoRoot returns the repository root directory.
func (c *Client) RepoRoot() string {
	return c.repoRoot
}

// GitDir returns the .git directory path.
func (c *Client) GitDir() string {
	return c.gitDir
}

// Repository returns the opened repository for stores that keep data in refs.
func (c *Client) Repository() *gogit.Repository {
	return c.repo
}

// FindRoot returns the repository root enclosing dir, or dir itself when
// it is not inside a repository.
func FindRoot(dir string) (string, error) {
	c, err := NewClient(dir)
	if errors.Is(err, domain.ErrNotGitRepository) {
		return filepath.Abs(dir)
	}
	if err != nil {
		return "", err
	}
	return c.RepoRoot(), nil
}
