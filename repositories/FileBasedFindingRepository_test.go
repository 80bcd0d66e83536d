package repositories

import (
	"os"
	"path"
	"testing"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func audit(filePath string, ruleIDs ...string) core.FileAudit {
	findings := []core.Finding{}
	for _, id := range ruleIDs {
		findings = append(findings, core.Finding{RuleID: id, Severity: core.SeverityError, Message: id})
	}
	return core.FileAudit{Path: filePath, RepoName: "web", Mode: "component", Findings: findings}
}

func collectPaths(t *testing.T, iterator core.FindingIterator) []string {
	t.Helper()
	var paths []string
	for iterator.HasNext() {
		set, err := iterator.Next()
		require.NoError(t, err)
		for _, a := range set.Audits {
			paths = append(paths, a.Path)
		}
	}
	return paths
}

func TestStoreWritesAuditsToFile(t *testing.T) {
	dir := t.TempDir()
	repository := NewFileBasedFindingRepositoryIn(dir)

	err := repository.Store([]core.FileAudit{audit("a.tsx", "img-alt")})
	assert.Nil(t, err)

	count, err := utils.CountFiles(dir)
	assert.Nil(t, err)
	assert.Equal(t, 1, count)
}

func TestStoreSkipsEmptyBatches(t *testing.T) {
	dir := t.TempDir()
	repository := NewFileBasedFindingRepositoryIn(dir)

	assert.Nil(t, repository.Store(nil))

	count, err := utils.CountFiles(dir)
	assert.Nil(t, err)
	assert.Equal(t, 0, count)
}

func TestClearOnlyDeletesFilesItCreated(t *testing.T) {
	dir := t.TempDir()
	repository := NewFileBasedFindingRepositoryIn(dir)

	otherFile := path.Join(dir, utils.GenerateRandomFilename("other"))
	assert.Nil(t, os.WriteFile(otherFile, []byte("something"), 0644))
	assert.Nil(t, repository.Store([]core.FileAudit{audit("a.tsx")}))

	countBefore, err := utils.CountFiles(dir)
	assert.Nil(t, err)
	assert.Equal(t, 2, countBefore)

	assert.Nil(t, repository.Clear())

	countAfter, err := utils.CountFiles(dir)
	assert.Nil(t, err)
	assert.Equal(t, 1, countAfter)
}

func TestFileBasedIterator(t *testing.T) {
	repository := NewFileBasedFindingRepositoryIn(t.TempDir())

	require.NoError(t, repository.Store([]core.FileAudit{audit("a.tsx", "img-alt"), audit("b.tsx")}))
	require.NoError(t, repository.Store([]core.FileAudit{audit("c.html", "form-label", "button-type")}))

	iterator := repository.NewIterator()
	assert.Equal(t, []string{"a.tsx", "b.tsx", "c.html"}, collectPaths(t, iterator))

	_, err := iterator.Next()
	assert.Error(t, err)

	require.NoError(t, iterator.Reset())
	assert.Len(t, collectPaths(t, iterator), 3)
}

func TestFileBasedIterator_SkipsUnreadableFiles(t *testing.T) {
	repository := NewFileBasedFindingRepositoryIn(t.TempDir())
	require.NoError(t, repository.Store([]core.FileAudit{audit("a.tsx")}))
	require.NoError(t, repository.Store([]core.FileAudit{audit("b.tsx")}))

	require.NoError(t, os.WriteFile(repository.files[0], []byte("{not json"), 0644))

	assert.Equal(t, []string{"b.tsx"}, collectPaths(t, repository.NewIterator()))
}
