package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
)

// FileBasedFindingRepository writes each stored batch of audits to its own
// JSON file in a directory.
type FileBasedFindingRepository struct {
	path  string
	mu    sync.Mutex
	files []string
}

func NewFileBasedFindingRepository() core.FindingRepository {
	return NewFileBasedFindingRepositoryIn(os.TempDir())
}

func NewFileBasedFindingRepositoryIn(dir string) *FileBasedFindingRepository {
	return &FileBasedFindingRepository{
		path:  dir,
		files: make([]string, 0),
	}
}

func (r *FileBasedFindingRepository) Close() error {
	return nil
}

// Store ignores empty batches.
func (r *FileBasedFindingRepository) Store(audits []core.FileAudit) error {
	if len(audits) == 0 {
		return nil
	}

	jsonData, err := json.MarshalIndent(audits, "", "  ")
	if err != nil {
		return err
	}

	filePath := path.Join(r.path, utils.GenerateRandomFilename("json"))
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return err
	}

	r.mu.Lock()
	r.files = append(r.files, filePath)
	r.mu.Unlock()
	return nil
}

// Clear only removes the files this repository wrote.
func (r *FileBasedFindingRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, filePath := range r.files {
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	r.files = nil
	return nil
}

func (r *FileBasedFindingRepository) NewIterator() core.FindingIterator {
	r.mu.Lock()
	files := append([]string(nil), r.files...)
	r.mu.Unlock()

	return &FileBasedFindingIterator{files: files}
}

// FileBasedFindingIterator walks a snapshot of the batch files taken when
// it was created.
type FileBasedFindingIterator struct {
	files       []string
	currentFile int
	current     core.FindingSet
	loaded      bool
}

// HasNext loads the next readable batch; unreadable files are logged and
// skipped.
func (it *FileBasedFindingIterator) HasNext() bool {
	for it.currentFile < len(it.files) {
		filePath := it.files[it.currentFile]
		it.currentFile++

		set, err := loadBatch(filePath)
		if err != nil {
			log.Errorf("Error loading file %s: %v", filePath, err)
			continue
		}
		it.current = set
		it.loaded = true
		return true
	}
	it.loaded = false
	return false
}

func (it *FileBasedFindingIterator) Next() (core.FindingSet, error) {
	if !it.loaded {
		return core.FindingSet{}, fmt.Errorf("no more audit sets available")
	}
	return it.current, nil
}

func (it *FileBasedFindingIterator) Reset() error {
	it.currentFile = 0
	it.current = core.FindingSet{}
	it.loaded = false
	return nil
}

func loadBatch(filePath string) (core.FindingSet, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return core.FindingSet{}, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	var audits []core.FileAudit
	if err := json.Unmarshal(data, &audits); err != nil {
		return core.FindingSet{}, fmt.Errorf("failed to parse JSON in file %s: %w", filePath, err)
	}
	return core.FindingSet{Audits: audits}, nil
}
