package reporters

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/report"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultJsonReport        = "accessibility_report.jsonl"
	DefaultJsonSummaryReport = "accessibility_summary.json"
)

// FileReport is one line of the detailed JSON report.
type FileReport struct {
	Path     string `json:"path"`
	RepoName string `json:"repoName,omitempty"`
	Language string `json:"language,omitempty"`
	Mode     string `json:"mode,omitempty"`
	report.Report
}

// JsonReporter writes a JSON line per audited file plus a summary document
// built from the SQL queries.
type JsonReporter struct {
	Queries        core.SqlQueries
	ArtifactPrefix string
	OutputDir      string
}

func (j JsonReporter) outputPath(name string) string {
	dir := j.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s", j.ArtifactPrefix, name))
}

func (j JsonReporter) Report(repository core.FindingRepository) error {
	if err := j.generateDetailedReport(repository); err != nil {
		return fmt.Errorf("failed to generate detailed JSON report: %w", err)
	}
	if err := j.generateSummaryReport(repository); err != nil {
		return fmt.Errorf("failed to generate summary JSON report: %w", err)
	}
	return nil
}

func (j JsonReporter) DetailedReportPath() string {
	return j.outputPath(DefaultJsonReport)
}

func (j JsonReporter) SummaryReportPath() string {
	return j.outputPath(DefaultJsonSummaryReport)
}

func (j JsonReporter) generateDetailedReport(repository core.FindingRepository) error {
	outputFile, err := os.Create(j.DetailedReportPath())
	if err != nil {
		return fmt.Errorf("failed to create detailed output file: %w", err)
	}
	defer outputFile.Close()

	writer := bufio.NewWriter(outputFile)
	encoder := json.NewEncoder(writer)

	iterator := repository.NewIterator()
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next audit set: %w", err)
		}
		for _, audit := range set.Audits {
			line := FileReport{
				Path:     audit.Path,
				RepoName: audit.RepoName,
				Language: audit.Language,
				Mode:     audit.Mode,
				Report:   report.BuildReport(audit.Findings),
			}
			if err := encoder.Encode(line); err != nil {
				return fmt.Errorf("failed to write audit for %s: %w", audit.Path, err)
			}
		}
	}

	if err := writer.Flush(); err != nil {
		return err
	}
	log.Infof("Detailed JSON report generated successfully: %s", outputFile.Name())
	return nil
}

func (j JsonReporter) generateSummaryReport(repository core.FindingRepository) error {
	db, release, err := summaryDatabase(j.ArtifactPrefix, repository)
	if err != nil {
		return err
	}
	defer release()

	summary := utils.RunSummaryQueries(db, queriesOrDefault(j.Queries))

	summaryBytes, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary data: %w", err)
	}
	if err := os.WriteFile(j.SummaryReportPath(), summaryBytes, 0644); err != nil {
		return fmt.Errorf("failed to write summary output file: %w", err)
	}

	log.Infof("Summary JSON report generated successfully: %s", j.SummaryReportPath())
	return nil
}
