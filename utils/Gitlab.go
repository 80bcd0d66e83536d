package utils

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const gitlabBucket = "Projects"

type GitlabApi interface {
	ListAllProjects(ctx context.Context) ([]*gitlab.Project, error)
	Token() string
	BaseURL() string
}

type GitlabApiClient struct {
	client  *gitlab.Client
	baseUrl string
	token   string
	cache   *RepoCache
}

func (g GitlabApiClient) Token() string {
	return g.token
}

func (g GitlabApiClient) BaseURL() string {
	return g.baseUrl
}

// NewGitlabApiClient requires a token. A nil cache disables listing caching.
func NewGitlabApiClient(gitlabToken string, gitlabBaseURL string, cache *RepoCache) (*GitlabApiClient, error) {
	if gitlabToken == "" {
		return nil, fmt.Errorf("GitLab token is required (provide via --gitlab-token flag or GITLAB_TOKEN)")
	}
	client, err := gitlab.NewClient(gitlabToken, gitlab.WithBaseURL(gitlabBaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return &GitlabApiClient{
		client:  client,
		baseUrl: gitlabBaseURL,
		token:   gitlabToken,
		cache:   cache,
	}, nil
}

func (g GitlabApiClient) ListAllProjects(ctx context.Context) ([]*gitlab.Project, error) {
	if g.cache != nil {
		projects, err := LoadCached[*gitlab.Project](g.cache, g.baseUrl, gitlabBucket)
		if err == nil && len(projects) > 0 {
			log.Infof("Loaded %d projects from cache.", len(projects))
			return projects, nil
		}
		if err != nil {
			log.Debugf("Failed to load from cache, proceeding with API fetch: %v", err)
		}
	}
	return g.fetchAllProjects(ctx)
}

func (g GitlabApiClient) fetchAllProjects(ctx context.Context) ([]*gitlab.Project, error) {
	var allProjects []*gitlab.Project
	opts := &gitlab.ListProjectsOptions{
		ListOptions: gitlab.ListOptions{
			Page:    1,
			PerPage: 100,
		},
	}

	for {
		projects, resp, err := g.client.Projects.ListProjects(opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		allProjects = append(allProjects, projects...)

		if g.cache != nil {
			if err := SaveCached(g.cache, g.baseUrl, gitlabBucket, projects, func(p *gitlab.Project) string {
				return p.PathWithNamespace
			}); err != nil {
				log.Warnf("Failed to save to cache: %v", err)
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		log.Debugf("Fetched %d projects, total so far: %d", len(projects), len(allProjects))
	}

	log.Infof("Number of projects found: %d", len(allProjects))
	return allProjects, nil
}
