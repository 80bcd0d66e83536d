package reporters

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/report"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultXlsxReport = "accessibility_report.xlsx"
	filesSheet        = "Files"
	findingsSheet     = "Findings"
	maxSheetName      = 31
)

// XlsxReporter writes a workbook with a Files sheet, a Findings sheet and
// one sheet per summary query.
type XlsxReporter struct {
	Queries        core.SqlQueries
	ArtifactPrefix string
	OutputDir      string
}

func (x XlsxReporter) ReportPath() string {
	dir := x.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s", x.ArtifactPrefix, DefaultXlsxReport))
}

func (x XlsxReporter) Report(repository core.FindingRepository) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := x.writeAudits(f, repository); err != nil {
		return err
	}

	db, release, err := summaryDatabase(x.ArtifactPrefix, repository)
	if err != nil {
		return err
	}
	defer release()

	queries := queriesOrDefault(x.Queries)
	for _, query := range queries.Queries {
		if err := writeQuerySheet(f, db, query); err != nil {
			log.Warnf("Skipping sheet for '%s': %v", query.Name, err)
		}
	}

	if defaultSheet := f.GetSheetName(0); defaultSheet == "Sheet1" {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to delete default sheet %q: %w", defaultSheet, err)
		}
	}
	if index, err := f.GetSheetIndex(filesSheet); err == nil && index >= 0 {
		f.SetActiveSheet(index)
	}

	if err := f.SaveAs(x.ReportPath()); err != nil {
		return fmt.Errorf("failed to save XLSX file '%s': %w", x.ReportPath(), err)
	}
	log.Infof("XLSX report generated successfully: %s", x.ReportPath())
	return nil
}

func (x XlsxReporter) writeAudits(f *excelize.File, repository core.FindingRepository) error {
	if _, err := f.NewSheet(filesSheet); err != nil {
		return fmt.Errorf("failed to create sheet '%s': %w", filesSheet, err)
	}
	if _, err := f.NewSheet(findingsSheet); err != nil {
		return fmt.Errorf("failed to create sheet '%s': %w", findingsSheet, err)
	}

	fileHeaders := []interface{}{"RepoName", "Path", "Language", "Mode", "Grade", "Score", "Errors", "Warnings", "Summary"}
	findingHeaders := []interface{}{"RepoName", "Path", "Rule", "Severity", "Message", "Line", "Column"}
	if err := f.SetSheetRow(filesSheet, "A1", &fileHeaders); err != nil {
		return err
	}
	if err := f.SetSheetRow(findingsSheet, "A1", &findingHeaders); err != nil {
		return err
	}

	fileRow, findingRow := 2, 2
	iterator := repository.NewIterator()
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next audit set: %w", err)
		}

		for _, audit := range set.Audits {
			r := report.BuildReport(audit.Findings)
			row := []interface{}{audit.RepoName, audit.Path, audit.Language, audit.Mode, r.Grade, r.Score, r.Errors, r.Warnings, r.Summary}
			if err := setRow(f, filesSheet, fileRow, row); err != nil {
				return err
			}
			fileRow++

			for _, finding := range audit.Findings {
				var line, column interface{} = "", ""
				if finding.Location != nil {
					line, column = finding.Location.Line, finding.Location.Column
				}
				row := []interface{}{audit.RepoName, audit.Path, finding.RuleID, string(finding.Severity), finding.Message, line, column}
				if err := setRow(f, findingsSheet, findingRow, row); err != nil {
					return err
				}
				findingRow++
			}
		}
	}
	return nil
}

func writeQuerySheet(f *excelize.File, db *sql.DB, query core.SqlQuery) error {
	columns, rows, err := utils.QueryRows(db, query.Query)
	if err != nil {
		return err
	}

	sheetName := sheetNameFor(f, query.Name)
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet '%s': %w", sheetName, err)
	}
	headers := make([]interface{}, len(columns))
	for i, column := range columns {
		headers[i] = column
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return err
	}

	for i, result := range rows {
		row := make([]interface{}, len(columns))
		for c, column := range columns {
			row[c] = result[column]
		}
		if err := setRow(f, sheetName, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to get cell address for row %d in sheet '%s': %w", rowNum, sheet, err)
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to set data for row %d in sheet '%s': %w", rowNum, sheet, err)
	}
	return nil
}

// sheetNameFor trims to Excel's limit, drops characters Excel rejects and
// avoids clashing with existing sheets.
func sheetNameFor(f *excelize.File, name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if cleaned == "" {
		cleaned = "Query"
	}

	candidate := truncate(cleaned, maxSheetName)
	for i := 2; ; i++ {
		if index, err := f.GetSheetIndex(candidate); err != nil || index < 0 {
			return candidate
		}
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncate(cleaned, maxSheetName-len(suffix)) + suffix
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
