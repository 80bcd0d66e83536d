package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string, when time.Time) {
	t.Helper()
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err = worktree.Add(name)
	require.NoError(t, err)

	signature := &object.Signature{Name: "a11y", Email: "a11y@example.com", When: when}
	_, err = worktree.Commit("update "+name, &git.CommitOptions{Author: signature, Committer: signature})
	require.NoError(t, err)
}

func TestExtractRepoName(t *testing.T) {
	cases := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://github.com/reaandrew/a11ygrade.git", want: "a11ygrade"},
		{url: "https://gitlab.example.com/group/sub/project", want: "project"},
		{url: "git@github.com:reaandrew/a11ygrade.git", want: "reaandrew/a11ygrade"},
		{url: "ftp://example.com/repo", wantErr: true},
		{url: "git@github.com", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			name, err := ExtractRepoName(tc.url)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, name)
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "org_repo", SanitizeRepoName("org/repo"))
	assert.Equal(t, "gitlab.example.com_8443", Sanitize("https://GitLab.example.com:8443"))
}

func TestGitClient_ClonesLocalRepository(t *testing.T) {
	source := t.TempDir()
	repo, err := git.PlainInit(source, false)
	require.NoError(t, err)
	commitFile(t, repo, source, "index.html", "<img src=\"a.png\">", time.Now())

	destination := filepath.Join(t.TempDir(), "clone")
	err = GitClient{}.NewClone(context.Background(), source, destination).Clone()
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(destination, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "<img")

	// A second clone into the same destination is a no-op.
	assert.NoError(t, GitClient{}.NewClone(context.Background(), "https://invalid.invalid/x.git", destination).Clone())
}

func TestGitClient_FailedCloneLeavesNothingBehind(t *testing.T) {
	destination := filepath.Join(t.TempDir(), "clone")
	err := GitClient{}.NewClone(context.Background(), filepath.Join(t.TempDir(), "missing"), destination).
		WithBare(true).
		Clone()

	assert.Error(t, err)
	_, statErr := os.Stat(destination)
	assert.True(t, os.IsNotExist(statErr))
}

func TestParseSince(t *testing.T) {
	zero, err := ParseSince("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	parsed, err := ParseSince("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.January, parsed.Month())

	_, err = ParseSince("definitely-not-a-date")
	assert.Error(t, err)
}

func TestChangedSince(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	commitFile(t, repo, dir, "old/page.html", "<p>old</p>", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	commitFile(t, repo, dir, "src/Card.tsx", "export const C = () => <div/>", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	changed, err := ChangedSince(dir, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, changed, filepath.Join(dir, "src", "Card.tsx"))
	assert.NotContains(t, changed, filepath.Join(dir, "old", "page.html"))
}

func TestChangedSince_NotARepository(t *testing.T) {
	_, err := ChangedSince(t.TempDir(), time.Now())
	assert.Error(t, err)
}
