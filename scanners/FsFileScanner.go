package scanners

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
)

var (
	// DefaultWorkers is used when a scanner is given no worker count.
	DefaultWorkers = runtime.NumCPU()
)

type FileScanner interface {
	TraverseAndSearch(targetDir, repoName string) ([]core.FileAudit, error)
}

// FsFileScanner walks a directory and hands every regular file to the
// processors that support it, using a pool of workers. When Since is set and
// the directory is a git checkout, only files changed after it are audited.
type FsFileScanner struct {
	Processors []core.FileProcessor
	Workers    int
	Since      time.Time
}

func (fileScanner FsFileScanner) TraverseAndSearch(targetDir string, repoName string) ([]core.FileAudit, error) {
	info, err := os.Stat(targetDir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("target directory '%s' does not exist", targetDir)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("'%s' is not a directory", targetDir)
	}

	changed := fileScanner.changedFiles(targetDir)

	workers := fileScanner.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	files := make(chan string, 100)
	results := make(chan core.FileAudit, 100)
	errs := make(chan error, 100)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range files {
				fileScanner.processFile(targetDir, path, repoName, results, errs)
			}
		}()
	}

	go func() {
		defer close(files)
		_ = filepath.WalkDir(targetDir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				errs <- fmt.Errorf("error walking path %s: %w", path, walkErr)
				return nil
			}
			if d.IsDir() {
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if changed != nil {
				if _, ok := changed[path]; !ok {
					return nil
				}
			}
			files <- path
			return nil
		})
	}()

	go func() {
		wg.Wait()
		close(results)
		close(errs)
	}()

	var audits []core.FileAudit
	var errorMessages []string
	for results != nil || errs != nil {
		select {
		case audit, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			audits = append(audits, audit)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Errorf("Error encountered: %v", err)
			errorMessages = append(errorMessages, err.Error())
		}
	}

	sort.Slice(audits, func(i, j int) bool { return audits[i].Path < audits[j].Path })

	if len(errorMessages) > 0 {
		return audits, fmt.Errorf("errors encountered during scanning:\n%s", strings.Join(errorMessages, "\n"))
	}
	return audits, nil
}

func (fileScanner FsFileScanner) processFile(root, path, repoName string, results chan<- core.FileAudit, errs chan<- error) {
	relative, err := filepath.Rel(root, path)
	if err != nil {
		relative = path
	}
	relative = filepath.ToSlash(relative)

	var content []byte
	for _, processor := range fileScanner.Processors {
		if !processor.Supports(relative) {
			continue
		}
		if content == nil {
			content, err = os.ReadFile(path)
			if err != nil {
				errs <- fmt.Errorf("failed to read file %s: %w", path, err)
				return
			}
		}
		audits, procErr := processor.Process(relative, repoName, string(content))
		if procErr != nil {
			errs <- fmt.Errorf("processing error in file %s: %w", path, procErr)
			if len(audits) == 0 {
				audits = []core.FileAudit{faultedAudit(relative, repoName, procErr)}
			}
		}
		for _, audit := range audits {
			results <- audit
		}
	}
}

// faultedAudit keeps a file that could not be analyzed in the results as a
// single error, so it still counts against the scan.
func faultedAudit(path, repoName string, err error) core.FileAudit {
	return core.FileAudit{
		Path:     path,
		RepoName: repoName,
		Findings: []core.Finding{{
			RuleID:   core.AnalysisErrorRuleID,
			Message:  err.Error(),
			Severity: core.SeverityError,
		}},
	}
}

// changedFiles returns nil when every file should be scanned.
func (fileScanner FsFileScanner) changedFiles(targetDir string) map[string]struct{} {
	if fileScanner.Since.IsZero() {
		return nil
	}
	changed, err := utils.ChangedSince(targetDir, fileScanner.Since)
	if err != nil {
		log.Warnf("Scanning every file in %s: %v", targetDir, err)
		return nil
	}
	return changed
}
