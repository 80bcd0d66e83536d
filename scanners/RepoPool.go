package scanners

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
)

const workerBufferSize = 100

// RepoJob is one repository to clone and audit.
type RepoJob struct {
	Name     string
	CloneURL string
}

type RepoResult struct {
	Audits   []core.FileAudit
	Error    error
	RepoName string
}

// RepoPool clones and audits repositories with a bounded set of workers.
// Each clone is removed once its files have been audited.
type RepoPool struct {
	FileScanner      FileScanner
	GitClient        utils.GitApi
	ProgressReporter utils.ProgressReporter
	CloneDir         string
	Token            string
	Workers          int
	// Shallow clones skip history; leave false when the file scanner
	// filters by commit date.
	Shallow bool
}

// Run stores each repository's audits as it completes. Failures of single
// repositories are logged and do not stop the pool; the count of failures
// is returned.
func (pool RepoPool) Run(ctx context.Context, jobs []RepoJob, repository core.FindingRepository) (int, error) {
	if err := os.MkdirAll(pool.CloneDir, os.ModePerm); err != nil {
		return 0, fmt.Errorf("failed to create clone base directory '%s': %w", pool.CloneDir, err)
	}

	progress := pool.ProgressReporter
	if progress == nil {
		progress = utils.NoopProgressReporter{}
	}
	progress.SetTotal(len(jobs))

	queue := make(chan RepoJob, workerBufferSize)
	results := make(chan RepoResult, workerBufferSize)

	workers := pool.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	workers = max(1, min(workers, len(jobs)))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go pool.worker(ctx, i+1, queue, results, &wg)
	}

	go func() {
		defer close(queue)
		for _, job := range jobs {
			select {
			case queue <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	failures := 0
	for res := range results {
		progress.Increment()
		if res.Error != nil {
			failures++
			log.Errorf("Error processing repository '%s': %v", res.RepoName, res.Error)
			continue
		}
		if err := repository.Store(res.Audits); err != nil {
			failures++
			log.Errorf("Error storing audits for '%s': %v", res.RepoName, err)
		}
	}
	progress.Finish()

	return failures, ctx.Err()
}

func (pool RepoPool) worker(ctx context.Context, id int, jobs <-chan RepoJob, results chan<- RepoResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			log.Debugf("Worker %d: processing repository %s", id, job.Name)
			audits, err := pool.scanRepository(ctx, job)
			results <- RepoResult{Audits: audits, Error: err, RepoName: job.Name}
		case <-ctx.Done():
			return
		}
	}
}

func (pool RepoPool) scanRepository(ctx context.Context, job RepoJob) ([]core.FileAudit, error) {
	repoPath := filepath.Join(pool.CloneDir, utils.SanitizeRepoName(job.Name))
	defer func() {
		if err := os.RemoveAll(repoPath); err != nil {
			log.Warnf("Failed to remove %q: %v", repoPath, err)
		}
	}()

	cloner := pool.GitClient.NewClone(ctx, job.CloneURL, repoPath).WithToken(pool.Token)
	if pool.Shallow {
		cloner = cloner.WithDepth(1)
	}
	if err := cloner.Clone(); err != nil {
		return nil, fmt.Errorf("failed to clone repository '%s': %w", job.Name, err)
	}

	audits, err := pool.FileScanner.TraverseAndSearch(repoPath, job.Name)
	if err != nil && len(audits) == 0 {
		return nil, fmt.Errorf("error searching repository '%s': %w", job.Name, err)
	}
	if err != nil {
		log.Warnf("Partial scan of '%s': %v", job.Name, err)
	}
	return audits, nil
}
