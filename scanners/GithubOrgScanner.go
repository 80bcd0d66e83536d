package scanners

import (
	"context"
	"fmt"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
)

type GithubOrgScanner struct {
	Reporter          core.Reporter
	FindingRepository core.FindingRepository
	GithubClient      utils.GithubApi
	Pool              RepoPool
}

func (scanner GithubOrgScanner) Scan(ctx context.Context, orgName string) error {
	log.Infof("Fetching repos for organization: %s", orgName)

	repos, err := scanner.GithubClient.ListRepositories(ctx, orgName)
	if err != nil {
		return fmt.Errorf("error listing repos: %w", err)
	}
	if len(repos) == 0 {
		return fmt.Errorf("no repos found in organization '%s'", orgName)
	}

	jobs := make([]RepoJob, 0, len(repos))
	for _, repo := range repos {
		if repo.GetArchived() {
			continue
		}
		jobs = append(jobs, RepoJob{Name: repo.GetFullName(), CloneURL: repo.GetCloneURL()})
	}

	pool := scanner.Pool
	pool.Token = scanner.GithubClient.Token()
	failures, err := pool.Run(ctx, jobs, scanner.FindingRepository)
	if err != nil {
		return err
	}
	if failures > 0 {
		log.Warnf("%d of %d repositories could not be scanned", failures, len(jobs))
	}

	if err := scanner.Reporter.Report(scanner.FindingRepository); err != nil {
		return fmt.Errorf("error generating report: %w", err)
	}
	return nil
}
