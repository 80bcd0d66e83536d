package scanners

import (
	"fmt"
	"path/filepath"

	"github.com/reaandrew/a11ygrade/core"
	log "github.com/sirupsen/logrus"
)

// DirectoryScanner audits a local directory as a single repository named
// after the directory.
type DirectoryScanner struct {
	Reporter          core.Reporter
	FileScanner       FileScanner
	FindingRepository core.FindingRepository
}

func (ds DirectoryScanner) Scan(directory string) error {
	absolute, err := filepath.Abs(directory)
	if err != nil {
		return err
	}

	audits, err := ds.FileScanner.TraverseAndSearch(absolute, filepath.Base(absolute))
	if err != nil {
		if len(audits) == 0 {
			return fmt.Errorf("error searching directory '%s': %w", directory, err)
		}
		log.Warnf("Partial scan of '%s': %v", directory, err)
	}

	log.Infof("Audited %d files in '%s'", len(audits), directory)
	if err := ds.FindingRepository.Store(audits); err != nil {
		return fmt.Errorf("error storing audits for '%s': %w", directory, err)
	}

	if err := ds.Reporter.Report(ds.FindingRepository); err != nil {
		return fmt.Errorf("error generating report: %w", err)
	}
	return nil
}
