package gitlab

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/codemeta/pkg/cache"
	"github.com/matzehuels/codemeta/pkg/integrations"
)

var repoURLPattern = regexp.MustCompile(`https?://gitlab\.com/([^/]+)/([^/]+)`)

// Client provides access to the GitLab API for repository facts.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	host    string
}

// NewClient creates a gitlab.com API client with optional authentication.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (use cache.NewNullCache() for no caching)
//   - token: GitLab personal access token (empty string for unauthenticated)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	return NewClientForHost(backend, "gitlab.com", token, cacheTTL)
}

// NewClientForHost creates a client for a self-managed GitLab instance.
func NewClientForHost(backend cache.Cache, host, token string, cacheTTL time.Duration) *Client {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}
	return &Client{
		Client:  integrations.NewClient(backend, "gitlab:"+host+":", cacheTTL, headers),
		baseURL: "https://" + host + "/api/v4",
		host:    host,
	}
}

// FetchRepository retrieves the facts GitLab knows about the project at
// path ("group/project" or "group/subgroup/project").
func (c *Client) FetchRepository(ctx context.Context, path string, refresh bool) (*integrations.Repository, error) {
	path = strings.Trim(path, "/")
	if path == "" || !strings.Contains(path, "/") {
		return nil, fmt.Errorf("invalid gitlab project path %q", path)
	}

	var r integrations.Repository
	err := c.Cached(ctx, "project:"+path, refresh, &r, func() error {
		return c.fetchProject(ctx, path, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) fetchProject(ctx context.Context, path string, r *integrations.Repository) error {
	id := integrations.PathEscape(path)

	var data projectResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/projects/%s?license=true", c.baseURL, id), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: gitlab project %s", err, path)
		}
		return err
	}

	topics := data.Topics
	if len(topics) == 0 {
		topics = data.TagList
	}

	*r = integrations.Repository{
		URL:           data.WebURL,
		Owner:         data.Namespace.FullPath,
		Name:          data.Path,
		Description:   data.Description,
		License:       spdxID(data.License.Key),
		Topics:        topics,
		DefaultBranch: data.DefaultBranch,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.LastActivityAt,
		Archived:      data.Archived,
	}
	if r.URL == "" {
		r.URL = fmt.Sprintf("https://%s/%s", c.host, path)
	}

	// Languages are a secondary lookup; a failure leaves Language empty.
	var langs map[string]float64
	if err := c.Get(ctx, fmt.Sprintf("%s/projects/%s/languages", c.baseURL, id), &langs); err == nil {
		r.Language = primaryLanguage(langs)
	}
	return nil
}

// FetchContributors returns up to limit contributors ordered by commits.
// GitLab reports names and emails rather than logins.
func (c *Client) FetchContributors(ctx context.Context, path string, limit int, refresh bool) ([]integrations.Contributor, error) {
	path = strings.Trim(path, "/")
	if limit <= 0 {
		limit = 5
	}

	var result []integrations.Contributor
	key := fmt.Sprintf("contributors:%s:%d", path, limit)
	err := c.Cached(ctx, key, refresh, &result, func() error {
		var data []contributorResponse
		url := fmt.Sprintf("%s/projects/%s/repository/contributors?order_by=commits&sort=desc&per_page=%d",
			c.baseURL, integrations.PathEscape(path), limit)
		if err := c.Get(ctx, url, &data); err != nil {
			return err
		}
		result = result[:0]
		for _, cr := range data {
			result = append(result, integrations.Contributor{
				Name:          cr.Name,
				Email:         cr.Email,
				Contributions: cr.Commits,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExtractURL extracts GitLab repository owner and name from package URLs.
//
// This function searches through urls map and homepage for GitLab URLs.
// It looks for patterns like "https://gitlab.com/owner/repo".
func ExtractURL(urls map[string]string, homepage string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls, homepage)
}

func primaryLanguage(langs map[string]float64) string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// licenseKeys maps GitLab's lower-case license keys to SPDX identifiers.
var licenseKeys = map[string]string{
	"mit":          "MIT",
	"apache-2.0":   "Apache-2.0",
	"gpl-2.0":      "GPL-2.0",
	"gpl-3.0":      "GPL-3.0",
	"lgpl-2.1":     "LGPL-2.1",
	"lgpl-3.0":     "LGPL-3.0",
	"agpl-3.0":     "AGPL-3.0",
	"bsd-2-clause": "BSD-2-Clause",
	"bsd-3-clause": "BSD-3-Clause",
	"mpl-2.0":      "MPL-2.0",
	"eupl-1.2":     "EUPL-1.2",
	"unlicense":    "Unlicense",
	"cc0-1.0":      "CC0-1.0",
}

func spdxID(key string) string {
	if id, ok := licenseKeys[strings.ToLower(key)]; ok {
		return id
	}
	return key
}

type projectResponse struct {
	Path           string     `json:"path"`
	WebURL         string     `json:"web_url"`
	Description    string     `json:"description"`
	DefaultBranch  string     `json:"default_branch"`
	Topics         []string   `json:"topics"`
	TagList        []string   `json:"tag_list"`
	Archived       bool       `json:"archived"`
	CreatedAt      *time.Time `json:"created_at"`
	LastActivityAt *time.Time `json:"last_activity_at"`
	Namespace      struct {
		FullPath string `json:"full_path"`
	} `json:"namespace"`
	License struct {
		Key string `json:"key"`
	} `json:"license"`
}

type contributorResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Commits int    `json:"commits"`
}
