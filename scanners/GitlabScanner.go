package scanners

import (
	"context"
	"fmt"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
)

// GitlabScanner audits every project visible to the token.
type GitlabScanner struct {
	Reporter          core.Reporter
	FindingRepository core.FindingRepository
	GitlabApi         utils.GitlabApi
	Pool              RepoPool
}

func (scanner GitlabScanner) Scan(ctx context.Context) error {
	projects, err := scanner.GitlabApi.ListAllProjects(ctx)
	if err != nil {
		return fmt.Errorf("error listing projects: %w", err)
	}
	if len(projects) == 0 {
		return fmt.Errorf("no projects found at %s", scanner.GitlabApi.BaseURL())
	}

	jobs := make([]RepoJob, 0, len(projects))
	for _, project := range projects {
		if project.Archived {
			continue
		}
		jobs = append(jobs, RepoJob{Name: project.PathWithNamespace, CloneURL: project.HTTPURLToRepo})
	}

	pool := scanner.Pool
	pool.Token = scanner.GitlabApi.Token()
	failures, err := pool.Run(ctx, jobs, scanner.FindingRepository)
	if err != nil {
		return err
	}
	if failures > 0 {
		log.Warnf("%d of %d projects could not be scanned", failures, len(jobs))
	}

	if err := scanner.Reporter.Report(scanner.FindingRepository); err != nil {
		return fmt.Errorf("error generating report: %w", err)
	}
	return nil
}
