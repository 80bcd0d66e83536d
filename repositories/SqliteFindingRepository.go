package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
)

// SqliteFindingRepository keeps each batch as a JSON row and also
// normalises it into the audits and findings tables so summary queries can
// run directly against it.
type SqliteFindingRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSqliteFindingRepository recreates the database at dbPath.
func NewSqliteFindingRepository(dbPath string) (*SqliteFindingRepository, error) {
	db, err := utils.InitializeSQLiteDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &SqliteFindingRepository{db: db}, nil
}

func (r *SqliteFindingRepository) DB() *sql.DB {
	return r.db
}

func (r *SqliteFindingRepository) Store(audits []core.FileAudit) error {
	if len(audits) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return utils.InsertAudits(r.db, audits)
}

func (r *SqliteFindingRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(`DELETE FROM findings; DELETE FROM audits; DELETE FROM audit_batches;`)
	return err
}

func (r *SqliteFindingRepository) NewIterator() core.FindingIterator {
	return &SqliteFindingIterator{repo: r}
}

// Query runs the summary queries against the stored audits.
func (r *SqliteFindingRepository) Query(queries core.SqlQueries) map[string][]map[string]interface{} {
	return utils.RunSummaryQueries(r.db, queries)
}

func (r *SqliteFindingRepository) Close() error {
	return r.db.Close()
}

// SqliteFindingIterator walks audit_batches in id order.
type SqliteFindingIterator struct {
	repo       *SqliteFindingRepository
	currentID  int64
	currentSet core.FindingSet
	loaded     bool
}

var errBadBatch = errors.New("unreadable audit batch")

// HasNext skips batches whose JSON cannot be parsed.
func (it *SqliteFindingIterator) HasNext() bool {
	for {
		err := it.loadNextBatch()
		switch {
		case err == nil:
			it.loaded = true
			return true
		case errors.Is(err, errBadBatch):
			log.Errorf("Error loading batch %d: %v", it.currentID, err)
		default:
			if !errors.Is(err, sql.ErrNoRows) {
				log.Errorf("Error reading batches after id %d: %v", it.currentID, err)
			}
			it.loaded = false
			return false
		}
	}
}

func (it *SqliteFindingIterator) Next() (core.FindingSet, error) {
	if !it.loaded {
		return core.FindingSet{}, fmt.Errorf("no more audit sets available")
	}
	return it.currentSet, nil
}

func (it *SqliteFindingIterator) Reset() error {
	it.currentID = 0
	it.currentSet = core.FindingSet{}
	it.loaded = false
	return nil
}

// loadNextBatch advances past the row even when its JSON is unreadable so a
// bad row cannot stall iteration.
func (it *SqliteFindingIterator) loadNextBatch() error {
	row := it.repo.db.QueryRow(`
		SELECT id, json_data
		FROM audit_batches
		WHERE id > ?
		ORDER BY id ASC
		LIMIT 1
	`, it.currentID)

	var id int64
	var jsonData string
	if err := row.Scan(&id, &jsonData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("failed to read batch: %w", err)
	}
	it.currentID = id

	var audits []core.FileAudit
	if err := json.Unmarshal([]byte(jsonData), &audits); err != nil {
		return fmt.Errorf("%w: %v", errBadBatch, err)
	}
	it.currentSet = core.FindingSet{Audits: audits}
	return nil
}
