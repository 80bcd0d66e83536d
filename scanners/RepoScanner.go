package scanners

import (
	"context"
	"fmt"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
)

type RepoScanner struct {
	Reporter          core.Reporter
	FindingRepository core.FindingRepository
	Pool              RepoPool
}

func (repoScanner RepoScanner) Scan(ctx context.Context, repoURL string) error {
	repoName, err := utils.ExtractRepoName(repoURL)
	if err != nil {
		return fmt.Errorf("invalid repository URL '%s': %w", repoURL, err)
	}

	log.Infof("Cloning repository: %s", repoName)
	failures, err := repoScanner.Pool.Run(ctx, []RepoJob{{Name: repoName, CloneURL: repoURL}}, repoScanner.FindingRepository)
	if err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("failed to scan repository '%s'", repoName)
	}

	if err := repoScanner.Reporter.Report(repoScanner.FindingRepository); err != nil {
		return fmt.Errorf("error generating report: %w", err)
	}
	return nil
}
