// Package gitinfo derives release information from the project's git
// repository: the version from the most recent release tag, and whether the
// worktree is clean enough to release from.
package gitinfo

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

var (
	// ErrNoTags is returned when no version-shaped tag exists.
	ErrNoTags = errors.New("no release tag found")
	// ErrDirtyWorktree is returned when the worktree has uncommitted changes.
	ErrDirtyWorktree = errors.New("worktree has uncommitted changes")
)

func openRepo(root string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository at %s: %w", root, err)
	}
	return repo, nil
}

// VersionFromTags returns the highest version-shaped tag, with any leading
// "v" stripped. Tags that do not look like dotted numbers are ignored.
func VersionFromTags(root string) (string, error) {
	repo, err := openRepo(root)
	if err != nil {
		return "", err
	}

	tags, err := repo.Tags()
	if err != nil {
		return "", fmt.Errorf("list tags: %w", err)
	}

	var best string
	var bestParts []int
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := strings.TrimPrefix(ref.Name().Short(), "v")
		parts, ok := parseVersion(name)
		if !ok {
			slog.Debug("Ignoring non-version tag", logfields.Version(ref.Name().Short()))
			return nil
		}
		if best == "" || compareVersions(parts, bestParts) > 0 {
			best = name
			bestParts = parts
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("iterate tags: %w", err)
	}

	if best == "" {
		return "", ErrNoTags
	}
	return best, nil
}

// EnsureClean fails when the worktree has uncommitted changes. Releasing from
// a dirty tree produces artifacts that do not correspond to any commit.
func EnsureClean(root string) error {
	repo, err := openRepo(root)
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("compute worktree status: %w", err)
	}

	if !status.IsClean() {
		return fmt.Errorf("%w (%d modified paths)", ErrDirtyWorktree, len(status))
	}
	return nil
}

// parseVersion splits "1.2.3" style strings into numeric parts. A trailing
// non-numeric segment (pre-release suffix) disqualifies the tag.
func parseVersion(s string) ([]int, bool) {
	if s == "" {
		return nil, false
	}
	fields := strings.Split(s, ".")
	parts := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, false
		}
		parts = append(parts, n)
	}
	return parts, true
}

func compareVersions(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}
