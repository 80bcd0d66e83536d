package utils

import (
	"context"
	"fmt"

	"github.com/google/go-github/v50/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const githubBucket = "Repositories"

type GithubApi interface {
	ListRepositories(ctx context.Context, org string) ([]*github.Repository, error)
	Token() string
}

type GithubApiClient struct {
	client *github.Client
	token  string
	cache  *RepoCache
}

// NewGithubApiClient authenticates with token when one is given. A nil
// cache disables listing caching.
func NewGithubApiClient(token string, cache *RepoCache) GithubApiClient {
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		tc := oauth2.NewClient(context.Background(), ts)
		return GithubApiClient{client: github.NewClient(tc), token: token, cache: cache}
	}
	return GithubApiClient{client: github.NewClient(nil), cache: cache}
}

func (apiClient GithubApiClient) Token() string {
	return apiClient.token
}

func (apiClient GithubApiClient) ListRepositories(ctx context.Context, org string) ([]*github.Repository, error) {
	source := "github.com_" + org
	if apiClient.cache != nil {
		repos, err := LoadCached[*github.Repository](apiClient.cache, source, githubBucket)
		if err == nil && len(repos) > 0 {
			log.Infof("Loaded %d repositories from cache.", len(repos))
			return repos, nil
		}
	}

	var allRepos []*github.Repository
	opt := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		repos, resp, err := apiClient.client.Repositories.ListByOrg(ctx, org, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}
		allRepos = append(allRepos, repos...)
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	if apiClient.cache != nil {
		if err := SaveCached(apiClient.cache, source, githubBucket, allRepos, func(r *github.Repository) string {
			return r.GetFullName()
		}); err != nil {
			log.Warnf("Failed to save to cache: %v", err)
		}
	}

	log.Infof("Number of repos: %d", len(allRepos))
	return allRepos, nil
}
