package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/codemeta/pkg/cache"
	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/integrations"
	"github.com/matzehuels/codemeta/pkg/integrations/github"
	"github.com/matzehuels/codemeta/pkg/integrations/gitlab"
	"github.com/matzehuels/codemeta/pkg/observability"
)

// Host fetches facts from one repository hosting service. path is the
// repository path without leading slash or .git suffix ("owner/repo", or
// "group/subgroup/project" on GitLab).
type Host interface {
	Repository(ctx context.Context, path string, refresh bool) (*integrations.Repository, error)
	Contributors(ctx context.Context, path string, limit int, refresh bool) ([]integrations.Contributor, error)
}

// Options configures [NewResolver].
type Options struct {
	Cache       cache.Cache   // Response cache shared by all hosts (nil disables caching)
	TTL         time.Duration // Cache TTL
	GitHubToken string
	GitLabToken string
	GitLabHosts []string // Self-managed GitLab instances besides gitlab.com
	Refresh     bool     // Bypass cached responses
}

// Resolver maps repository URLs to hosts. It is safe for concurrent use.
type Resolver struct {
	mu      sync.RWMutex
	hosts   map[string]Host
	refresh bool
}

// NewResolver creates a resolver with github.com, gitlab.com and any
// configured GitLab hosts registered.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{hosts: make(map[string]Host), refresh: opts.Refresh}
	r.Register("github.com", GitHub(github.NewClient(opts.Cache, opts.GitHubToken, opts.TTL)))
	r.Register("gitlab.com", GitLab(gitlab.NewClient(opts.Cache, opts.GitLabToken, opts.TTL)))
	for _, host := range opts.GitLabHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			r.Register(host, GitLab(gitlab.NewClientForHost(opts.Cache, host, opts.GitLabToken, opts.TTL)))
		}
	}
	return r
}

// Register adds or replaces the host for a host name ("github.com").
func (r *Resolver) Register(hostname string, h Host) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hosts == nil {
		r.hosts = make(map[string]Host)
	}
	r.hosts[strings.ToLower(hostname)] = h
}

// Hosts returns the registered host names.
func (r *Resolver) Hosts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.hosts))
	for name := range r.hosts {
		names = append(names, name)
	}
	return names
}

// FetchRepository implements codemeta.RepositorySource.
func (r *Resolver) FetchRepository(ctx context.Context, repoURL string) (*codemeta.RepositoryFacts, error) {
	hostname, path, h, err := r.lookup(repoURL)
	if err != nil {
		return nil, err
	}

	hooks := observability.Source()
	hooks.OnFetchStart(ctx, hostname, path)
	start := time.Now()
	repo, err := h.Repository(ctx, path, r.refresh)
	hooks.OnFetchComplete(ctx, hostname, path, time.Since(start), err)
	if err != nil {
		return nil, errors.SourceUnavailable(err, "fetch %s", repoURL)
	}
	return Facts(repo), nil
}

// FetchContributors returns up to limit contributors of the repository as
// persons, for use as author suggestions.
func (r *Resolver) FetchContributors(ctx context.Context, repoURL string, limit int) ([]codemeta.Person, error) {
	_, path, h, err := r.lookup(repoURL)
	if err != nil {
		return nil, err
	}
	contribs, err := h.Contributors(ctx, path, limit, r.refresh)
	if err != nil {
		return nil, errors.SourceUnavailable(err, "fetch contributors of %s", repoURL)
	}

	people := make([]codemeta.Person, 0, len(contribs))
	for _, c := range contribs {
		name := c.Name
		if name == "" {
			name = c.Login
		}
		p := codemeta.NewPerson(name, "")
		p.Email = c.Email
		p.ID = c.ProfileURL
		people = append(people, p)
	}
	return people, nil
}

func (r *Resolver) lookup(repoURL string) (hostname, path string, h Host, err error) {
	hostname, path, err = SplitRepositoryURL(repoURL)
	if err != nil {
		return "", "", nil, errors.SourceUnavailable(err, "parse repository url")
	}
	r.mu.RLock()
	h, ok := r.hosts[hostname]
	r.mu.RUnlock()
	if !ok {
		return "", "", nil, errors.SourceUnavailable(
			errors.New(errors.ErrCodeUnsupported, "no repository host registered for %s", hostname),
			"fetch %s", repoURL)
	}
	return hostname, path, h, nil
}

// SplitRepositoryURL validates an https://<host>/<owner>/<repo> URL and
// returns its lower-cased host name and repository path. Trailing slashes,
// a .git suffix, and GitHub's /tree/... style suffixes are removed.
func SplitRepositoryURL(repoURL string) (hostname, path string, err error) {
	host, owner, repo, err := errors.ValidateRepositoryURL(repoURL)
	if err != nil {
		return "", "", err
	}
	if host != "github.com" {
		// GitLab groups nest; keep every segment up to the first "/-/".
		u, _ := url.Parse(strings.TrimSpace(repoURL))
		p, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/-/")
		return host, strings.TrimSuffix(p, ".git"), nil
	}
	return host, owner + "/" + repo, nil
}

// Facts converts host data to generator input.
func Facts(r *integrations.Repository) *codemeta.RepositoryFacts {
	f := &codemeta.RepositoryFacts{
		Name:            r.Name,
		Description:     r.Description,
		License:         r.License,
		Homepage:        r.Homepage,
		CodeRepository:  r.URL,
		PrimaryLanguage: r.Language,
		DefaultBranch:   r.DefaultBranch,
		Owner:           r.Owner,
		Topics:          r.Topics,
	}
	if r.CreatedAt != nil {
		f.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		f.UpdatedAt = *r.UpdatedAt
	}
	return f
}

type githubHost struct{ c *github.Client }

// GitHub adapts a GitHub client to Host. Contributor logins are resolved to
// display names through the users API when possible.
func GitHub(c *github.Client) Host { return githubHost{c} }

func (g githubHost) Repository(ctx context.Context, path string, refresh bool) (*integrations.Repository, error) {
	owner, repo, err := github.ParseRepoRef(path)
	if err != nil {
		return nil, err
	}
	return g.c.FetchRepository(ctx, owner, repo, refresh)
}

func (g githubHost) Contributors(ctx context.Context, path string, limit int, refresh bool) ([]integrations.Contributor, error) {
	owner, repo, err := github.ParseRepoRef(path)
	if err != nil {
		return nil, err
	}
	contribs, err := g.c.FetchContributors(ctx, owner, repo, limit, refresh)
	if err != nil {
		return nil, err
	}
	for i, c := range contribs {
		if u, err := g.c.FetchUser(ctx, c.Login, refresh); err == nil {
			contribs[i].Name = u.Name
			contribs[i].Email = u.Email
		}
		if contribs[i].ProfileURL == "" {
			contribs[i].ProfileURL = fmt.Sprintf("https://github.com/%s", c.Login)
		}
	}
	return contribs, nil
}

type gitlabHost struct{ c *gitlab.Client }

// GitLab adapts a GitLab client to Host.
func GitLab(c *gitlab.Client) Host { return gitlabHost{c} }

func (g gitlabHost) Repository(ctx context.Context, path string, refresh bool) (*integrations.Repository, error) {
	return g.c.FetchRepository(ctx, path, refresh)
}

func (g gitlabHost) Contributors(ctx context.Context, path string, limit int, refresh bool) ([]integrations.Contributor, error) {
	return g.c.FetchContributors(ctx, path, limit, refresh)
}
