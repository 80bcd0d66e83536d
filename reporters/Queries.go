package reporters

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/utils"
	"gopkg.in/yaml.v3"
)

//go:embed data/queries.yaml
var defaultQueriesYaml []byte

// DefaultQueries are the summary queries used when none are configured.
func DefaultQueries() core.SqlQueries {
	var queries core.SqlQueries
	if err := yaml.Unmarshal(defaultQueriesYaml, &queries); err != nil {
		panic(fmt.Sprintf("embedded queries are invalid: %v", err))
	}
	return queries
}

// LoadQueries reads summary queries from a YAML file.
func LoadQueries(queriesPath string) (core.SqlQueries, error) {
	var queries core.SqlQueries

	fileData, err := os.ReadFile(queriesPath)
	if err != nil {
		return queries, fmt.Errorf("failed to read YAML file '%s': %w", queriesPath, err)
	}
	if err := yaml.Unmarshal(fileData, &queries); err != nil {
		return queries, fmt.Errorf("failed to unmarshal YAML data: %w", err)
	}
	return queries, nil
}

// sqlBacked is satisfied by repositories that already hold the audit
// tables.
type sqlBacked interface {
	DB() *sql.DB
}

// summaryDatabase returns a database holding the audit tables for the
// repository, loading them into a scratch file when the repository is not
// SQL backed. The returned func releases it.
func summaryDatabase(prefix string, repository core.FindingRepository) (*sql.DB, func(), error) {
	if backed, ok := repository.(sqlBacked); ok {
		return backed.DB(), func() {}, nil
	}

	dbPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s_%s", prefix, utils.GenerateRandomFilename("db")))
	db, err := utils.InitializeSQLiteDB(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize SQLite database: %w", err)
	}
	release := func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}

	if err := utils.ProcessAuditsIncrementally(db, repository); err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to process audits: %w", err)
	}
	return db, release, nil
}

func queriesOrDefault(queries core.SqlQueries) core.SqlQueries {
	if queries.IsEmpty() {
		return DefaultQueries()
	}
	return queries
}
