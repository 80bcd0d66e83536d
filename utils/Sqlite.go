package utils

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/report"
	log "github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_batches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	json_data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS audits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id INTEGER NOT NULL REFERENCES audit_batches(id),
	path TEXT,
	repo_name TEXT,
	language TEXT,
	mode TEXT,
	grade TEXT,
	score INTEGER,
	total_issues INTEGER,
	errors INTEGER,
	warnings INTEGER
);
CREATE TABLE IF NOT EXISTS findings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	audit_id INTEGER NOT NULL REFERENCES audits(id),
	path TEXT,
	repo_name TEXT,
	rule_id TEXT,
	severity TEXT,
	message TEXT,
	line INTEGER,
	col INTEGER
);`

// InitializeSQLiteDB recreates the database at dbPath and applies the audit
// schema.
func InitializeSQLiteDB(dbPath string) (*sql.DB, error) {
	if err := DeleteDatabaseFileIfExists(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// One-shot bulk load; durability is not needed.
	_, _ = db.Exec("PRAGMA journal_mode = WAL;")
	_, _ = db.Exec("PRAGMA synchronous = OFF;")

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit tables: %w", err)
	}
	return db, nil
}

// InsertAudits stores the batch as JSON plus one audits row per file (with
// its grade and score) and one findings row per finding, in a single
// transaction.
func InsertAudits(db *sql.DB, audits []core.FileAudit) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	batch, err := json.Marshal(audits)
	if err != nil {
		return fmt.Errorf("failed to marshal audit batch: %w", err)
	}
	result, err := tx.Exec(`INSERT INTO audit_batches (json_data) VALUES (?)`, string(batch))
	if err != nil {
		return fmt.Errorf("failed to insert audit batch: %w", err)
	}
	batchID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	auditStmt, err := tx.Prepare(`
		INSERT INTO audits (batch_id, path, repo_name, language, mode, grade, score, total_issues, errors, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare audit statement: %w", err)
	}
	defer auditStmt.Close()

	findingStmt, err := tx.Prepare(`
		INSERT INTO findings (audit_id, path, repo_name, rule_id, severity, message, line, col)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare finding statement: %w", err)
	}
	defer findingStmt.Close()

	for _, audit := range audits {
		r := report.BuildReport(audit.Findings)
		res, execErr := auditStmt.Exec(batchID, audit.Path, audit.RepoName, audit.Language, audit.Mode,
			r.Grade, r.Score, r.TotalIssues, r.Errors, r.Warnings)
		if execErr != nil {
			return fmt.Errorf("failed to insert audit for '%s': %w", audit.Path, execErr)
		}
		auditID, idErr := res.LastInsertId()
		if idErr != nil {
			return idErr
		}

		for _, finding := range audit.Findings {
			var line, column sql.NullInt64
			if finding.Location != nil {
				line = sql.NullInt64{Int64: int64(finding.Location.Line), Valid: true}
				column = sql.NullInt64{Int64: int64(finding.Location.Column), Valid: true}
			}
			if _, execErr := findingStmt.Exec(auditID, audit.Path, audit.RepoName, finding.RuleID,
				string(finding.Severity), finding.Message, line, column); execErr != nil {
				return fmt.Errorf("failed to insert finding '%s' for '%s': %w", finding.RuleID, audit.Path, execErr)
			}
		}
	}
	return nil
}

// ProcessAuditsIncrementally copies every batch in the repository into db.
func ProcessAuditsIncrementally(db *sql.DB, repository core.FindingRepository) error {
	iterator := repository.NewIterator()
	if err := iterator.Reset(); err != nil {
		return err
	}
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next audit set: %w", err)
		}
		if err := InsertAudits(db, set.Audits); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteSQLQuery runs query and returns each row as a column-name map.
func ExecuteSQLQuery(db *sql.DB, query string) ([]map[string]interface{}, error) {
	_, results, err := QueryRows(db, query)
	return results, err
}

// QueryRows is ExecuteSQLQuery that also reports the column order.
func QueryRows(db *sql.DB, query string) ([]string, []map[string]interface{}, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute query '%s': %w", query, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve columns for query '%s': %w", query, err)
	}

	results := []map[string]interface{}{}
	for rows.Next() {
		columnValues := make([]interface{}, len(columns))
		columnPointers := make([]interface{}, len(columns))
		for i := range columnValues {
			columnPointers[i] = &columnValues[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row for query '%s': %w", query, err)
		}

		rowData := make(map[string]interface{}, len(columns))
		for i, colName := range columns {
			if b, ok := columnValues[i].([]byte); ok {
				rowData[colName] = string(b)
			} else {
				rowData[colName] = columnValues[i]
			}
		}
		results = append(results, rowData)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration error for query '%s': %w", query, err)
	}
	return columns, results, nil
}

// RunSummaryQueries runs each named query. Failing queries are logged and
// skipped.
func RunSummaryQueries(db *sql.DB, queries core.SqlQueries) map[string][]map[string]interface{} {
	summary := make(map[string][]map[string]interface{}, len(queries.Queries))
	for _, query := range queries.Queries {
		results, err := ExecuteSQLQuery(db, query.Query)
		if err != nil {
			log.Warnf("Skipping query for '%s': %v", query.Name, err)
			continue
		}
		log.Debugf("Query '%s' returned %d results.", query.Name, len(results))
		summary[query.Name] = results
	}
	return summary
}
