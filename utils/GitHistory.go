package utils

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/markusmobius/go-dateparser"
)

// ParseSince turns a cutoff such as "2024-01-31" or "3 weeks ago" into a
// time. An empty string means no cutoff and yields the zero time.
func ParseSince(since string) (time.Time, error) {
	if since == "" {
		return time.Time{}, nil
	}

	parsed, err := dateparser.Parse(nil, since)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date string '%s': %w", since, err)
	}
	return parsed.Time, nil
}

// ChangedSince lists the files touched by commits on HEAD made after the
// cutoff. Paths are joined onto repoPath so they match what a directory
// walk produces.
func ChangedSince(repoPath string, cutoff time.Time) (map[string]struct{}, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	commits, err := repo.Log(&git.LogOptions{Since: &cutoff})
	if err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}
	defer commits.Close()

	changed := map[string]struct{}{}
	err = commits.ForEach(func(commit *object.Commit) error {
		stats, err := commit.Stats()
		if err != nil {
			return fmt.Errorf("failed to diff commit %s: %w", commit.Hash, err)
		}
		for _, stat := range stats {
			changed[filepath.Join(repoPath, filepath.FromSlash(stat.Name))] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}
