package utils

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	log "github.com/sirupsen/logrus"
)

// GitApi hands out clone builders so scanners can be tested without a
// network.
type GitApi interface {
	NewClone(ctx context.Context, cloneURL, destination string) Cloner
}

// Cloner configures and runs a single clone.
type Cloner interface {
	WithToken(token string) Cloner
	WithBare(bare bool) Cloner
	WithDepth(depth int) Cloner
	Clone() error
}

type GitClient struct{}

func (g GitClient) NewClone(ctx context.Context, cloneURL, destination string) Cloner {
	return &gitCloner{ctx: ctx, url: cloneURL, destination: destination}
}

type gitCloner struct {
	ctx         context.Context
	url         string
	destination string
	token       string
	bare        bool
	depth       int
}

func (c *gitCloner) WithToken(token string) Cloner {
	c.token = token
	return c
}

func (c *gitCloner) WithBare(bare bool) Cloner {
	c.bare = bare
	return c
}

func (c *gitCloner) WithDepth(depth int) Cloner {
	c.depth = depth
	return c
}

// Clone skips destinations that already exist.
func (c *gitCloner) Clone() error {
	if _, err := os.Stat(c.destination); err == nil {
		log.Debugf("Repository already cloned at '%s'. Skipping clone.", c.destination)
		return nil
	}

	options := &git.CloneOptions{
		URL:   c.url,
		Depth: c.depth,
	}
	if c.token != "" {
		// GitHub and GitLab both accept any non-empty user with a token password.
		options.Auth = &http.BasicAuth{Username: "oauth2", Password: c.token}
	}

	if _, err := git.PlainCloneContext(c.ctx, c.destination, c.bare, options); err != nil {
		_ = os.RemoveAll(c.destination)
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}

func SanitizeRepoName(fullName string) string {
	return strings.ReplaceAll(fullName, "/", "_")
}

func ExtractRepoName(repoURL string) (string, error) {
	var repoName string
	if strings.HasPrefix(repoURL, "git@") {
		parts := strings.Split(repoURL, ":")
		if len(parts) != 2 {
			return "", fmt.Errorf("unexpected repository URL format")
		}
		repoName = strings.TrimSuffix(parts[1], ".git")
	} else if strings.HasPrefix(repoURL, "https://") || strings.HasPrefix(repoURL, "http://") {
		parts := strings.Split(strings.TrimSuffix(repoURL, "/"), "/")
		if len(parts) < 4 {
			return "", fmt.Errorf("unexpected repository URL format")
		}
		repoName = strings.TrimSuffix(parts[len(parts)-1], ".git")
	} else {
		return "", fmt.Errorf("unsupported repository URL format")
	}
	if repoName == "" {
		return "", fmt.Errorf("unexpected repository URL format")
	}
	return repoName, nil
}
