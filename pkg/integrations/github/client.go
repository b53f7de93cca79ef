package github

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/matzehuels/codemeta/pkg/cache"
	"github.com/matzehuels/codemeta/pkg/integrations"
)

var repoURLPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

// Client provides access to the GitHub API for repository facts.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "github:", cacheTTL, headers(token)),
		baseURL: "https://api.github.com",
	}
}

func headers(token string) map[string]string {
	h := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

// FetchRepository retrieves the facts GitHub knows about owner/repo.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchRepository(ctx context.Context, owner, repo string, refresh bool) (*integrations.Repository, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var r integrations.Repository
	err := c.Cached(ctx, "repo:"+owner+"/"+repo, refresh, &r, func() error {
		return c.fetchRepo(ctx, owner, repo, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) fetchRepo(ctx context.Context, owner, repo string, r *integrations.Repository) error {
	var data repoResponse
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return err
	}

	*r = integrations.Repository{
		URL:           data.HTMLURL,
		Owner:         data.Owner.Login,
		Name:          data.Name,
		Description:   data.Description,
		Homepage:      data.Homepage,
		License:       data.License.SPDXID,
		Language:      data.Language,
		Topics:        data.Topics,
		DefaultBranch: data.DefaultBranch,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
		Archived:      data.Archived,
	}
	if r.URL == "" {
		r.URL = fmt.Sprintf("https://github.com/%s/%s", owner, repo)
	}
	if r.Owner == "" {
		r.Owner = owner
	}
	if r.Name == "" {
		r.Name = repo
	}
	return nil
}

// FetchContributors returns up to limit human contributors of owner/repo,
// ordered by commit count. Bots are skipped.
func (c *Client) FetchContributors(ctx context.Context, owner, repo string, limit int, refresh bool) ([]integrations.Contributor, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	var result []integrations.Contributor
	key := fmt.Sprintf("contributors:%s/%s:%d", owner, repo, limit)
	err := c.Cached(ctx, key, refresh, &result, func() error {
		var data []contributorResponse
		url := fmt.Sprintf("%s/repos/%s/%s/contributors?per_page=%d", c.baseURL, owner, repo, limit)
		if err := c.Get(ctx, url, &data); err != nil {
			return err
		}
		result = result[:0]
		for _, cr := range data {
			if cr.Type == "Bot" {
				continue
			}
			result = append(result, integrations.Contributor{
				Login:         cr.Login,
				ProfileURL:    cr.HTMLURL,
				Contributions: cr.Contributions,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// User is the public profile of a GitHub account.
type User struct {
	Login   string `json:"login"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Blog    string `json:"blog"`
	Company string `json:"company"`
	HTMLURL string `json:"html_url"`
}

// FetchUser retrieves the public profile of login. Used to turn contributor
// logins into author names.
func (c *Client) FetchUser(ctx context.Context, login string, refresh bool) (*User, error) {
	if err := ValidateOwner(login); err != nil {
		return nil, err
	}
	var u User
	err := c.Cached(ctx, "user:"+login, refresh, &u, func() error {
		if err := c.Get(ctx, fmt.Sprintf("%s/users/%s", c.baseURL, login), &u); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github user %s", err, login)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ExtractURL finds a GitHub owner and repository in package metadata URLs.
func ExtractURL(urls map[string]string, homepage string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls, homepage)
}

type repoResponse struct {
	Name          string     `json:"name"`
	HTMLURL       string     `json:"html_url"`
	Description   string     `json:"description"`
	Homepage      string     `json:"homepage"`
	DefaultBranch string     `json:"default_branch"`
	Language      string     `json:"language"`
	Topics        []string   `json:"topics"`
	Archived      bool       `json:"archived"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
	License struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

type contributorResponse struct {
	Login         string `json:"login"`
	HTMLURL       string `json:"html_url"`
	Contributions int    `json:"contributions"`
	Type          string `json:"type"`
}
