package reporters

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reaandrew/a11ygrade/config"
	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTextReporter(t *testing.T) {
	var out strings.Builder

	require.NoError(t, TextReporter{Writer: &out}.Report(sampleRepository()))

	text := out.String()
	assert.Contains(t, text, "📄 src/Card.tsx (web)")
	assert.Contains(t, text, "Grade: B (85/100)")
	assert.Contains(t, text, "4:7 error [img-alt] Image missing alt attribute")
	assert.Contains(t, text, "📄 public/index.html (web)")
	assert.Contains(t, text, "Grade: A (100/100)")
	assert.Contains(t, text, "2 files audited: 1 errors, 1 warnings, average score 92 (A)")
}

func TestTextReporter_Empty(t *testing.T) {
	var out strings.Builder

	require.NoError(t, TextReporter{Writer: &out}.Report(MockFindingRepository{}))
	assert.Contains(t, out.String(), "No files with markup were found.")
}

func TestJsonReporter(t *testing.T) {
	dir := t.TempDir()
	reporter := JsonReporter{ArtifactPrefix: "test", OutputDir: dir}

	require.NoError(t, reporter.Report(sampleRepository()))

	detailed, err := os.Open(filepath.Join(dir, "test_"+DefaultJsonReport))
	require.NoError(t, err)
	defer detailed.Close()

	var lines []FileReport
	scanner := bufio.NewScanner(detailed)
	for scanner.Scan() {
		var line FileReport
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "src/Card.tsx", lines[0].Path)
	assert.Equal(t, "B", lines[0].Grade)
	assert.Equal(t, 85, lines[0].Score)
	assert.Len(t, lines[0].Issues, 2)
	assert.Equal(t, "A", lines[1].Grade)

	summaryData, err := os.ReadFile(filepath.Join(dir, "test_"+DefaultJsonSummaryReport))
	require.NoError(t, err)

	var summary map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(summaryData, &summary))
	for _, query := range DefaultQueries().Queries {
		assert.Contains(t, summary, query.Name)
	}
	assert.Len(t, summary["Grades"], 2)
	assert.Len(t, summary["Worst Files"], 1)
}

func TestJsonReporter_UsesSqliteRepositoryDirectly(t *testing.T) {
	repository, err := repositories.NewSqliteFindingRepository(filepath.Join(t.TempDir(), "audits.db"))
	require.NoError(t, err)
	defer repository.Close()
	for _, set := range sampleRepository().sets {
		require.NoError(t, repository.Store(set.Audits))
	}

	dir := t.TempDir()
	reporter := JsonReporter{
		ArtifactPrefix: "sqlite",
		OutputDir:      dir,
		Queries: core.SqlQueries{Queries: []core.SqlQuery{
			{Name: "Files", Query: "SELECT COUNT(*) AS files FROM audits"},
		}},
	}
	require.NoError(t, reporter.Report(repository))

	summaryData, err := os.ReadFile(filepath.Join(dir, "sqlite_"+DefaultJsonSummaryReport))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Files":[{"files":2}]}`, string(summaryData))
}

func TestXlsxReporter(t *testing.T) {
	dir := t.TempDir()
	reporter := XlsxReporter{ArtifactPrefix: "test", OutputDir: dir}

	require.NoError(t, reporter.Report(sampleRepository()))

	f, err := excelize.OpenFile(reporter.ReportPath())
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Files")
	assert.Contains(t, sheets, "Findings")
	assert.Contains(t, sheets, "Findings By Rule")
	assert.NotContains(t, sheets, "Sheet1")

	files, err := f.GetRows("Files")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, []string{"RepoName", "Path", "Language", "Mode", "Grade", "Score", "Errors", "Warnings", "Summary"}, files[0])
	assert.Equal(t, "src/Card.tsx", files[1][1])
	assert.Equal(t, "B", files[1][4])

	findings, err := f.GetRows("Findings")
	require.NoError(t, err)
	require.Len(t, findings, 3)
	assert.Equal(t, "img-alt", findings[1][2])
	assert.Equal(t, "4", findings[1][5])

	grades, err := f.GetRows("Grades")
	require.NoError(t, err)
	assert.Equal(t, []string{"grade", "files", "average_score"}, grades[0])
}

func TestSheetNameFor(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetNameFor(f, "Findings: by rule / severity and much more text")
	assert.LessOrEqual(t, len([]rune(name)), maxSheetName)
	assert.NotContains(t, name, ":")
	assert.NotContains(t, name, "/")

	_, err := f.NewSheet("Grades")
	require.NoError(t, err)
	assert.Equal(t, "Grades (2)", sheetNameFor(f, "Grades"))
}

func TestCreateReporter(t *testing.T) {
	cfg := config.Default()

	for format, expected := range map[string]interface{}{
		"text": TextReporter{},
		"json": JsonReporter{},
		"xlsx": XlsxReporter{},
	} {
		cfg.Report.Format = format
		reporter, err := CreateReporter(cfg, &strings.Builder{})
		require.NoError(t, err, format)
		assert.IsType(t, expected, reporter)
	}

	cfg.Report.Format = "http"
	_, err := CreateReporter(cfg, nil)
	assert.Error(t, err, "http needs a base url")

	cfg.Report.BaseURL = "https://reports.example.com"
	reporter, err := CreateReporter(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, HttpReporter{}, reporter)

	cfg.Report.Format = "pdf"
	_, err = CreateReporter(cfg, nil)
	assert.ErrorContains(t, err, "unknown report format")
}

func TestLoadQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queries:\n  - name: All\n    query: SELECT * FROM audits\n"), 0o644))

	queries, err := LoadQueries(path)
	require.NoError(t, err)
	require.Len(t, queries.Queries, 1)
	assert.Equal(t, "All", queries.Queries[0].Name)

	_, err = LoadQueries(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
