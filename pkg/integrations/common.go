package integrations

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/codemeta/pkg/cache"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a repository, user or package doesn't exist.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = cache.ErrNetwork
)

// Repository holds the project-level facts a repository host knows.
type Repository struct {
	URL           string     `json:"url"`   // Canonical repository URL (https://...)
	Owner         string     `json:"owner"` // Owner login or group path
	Name          string     `json:"name"`  // Repository name
	Description   string     `json:"description,omitempty"`
	Homepage      string     `json:"homepage,omitempty"`
	License       string     `json:"license,omitempty"` // SPDX license identifier
	Language      string     `json:"language,omitempty"`
	Topics        []string   `json:"topics,omitempty"`
	DefaultBranch string     `json:"default_branch,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	Archived      bool       `json:"archived"`
}

// Contributor represents a repository contributor with their contribution count.
type Contributor struct {
	Login         string `json:"login"`          // GitHub/GitLab username
	Name          string `json:"name,omitempty"` // Display name, when the host reports one
	Email         string `json:"email,omitempty"`
	ProfileURL    string `json:"profile_url,omitempty"`
	Contributions int    `json:"contributions"` // Number of commits
}

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizePkgName converts a package name to its canonical form.
// Applies lowercase and replaces underscores with hyphens, following PEP 503
// normalization rules used by PyPI and other registries.
func NormalizePkgName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"git@gitlab.com:", "https://gitlab.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

var repoURLKeys = []string{"Source", "Repository", "Code", "Homepage"}

// ExtractRepoURL finds GitHub/GitLab owner and repo from package URLs.
// It searches through urls using standard keys (Source, Repository, Code, Homepage)
// and falls back to homepage if no match is found. The re parameter should match
// URLs and capture owner (group 1) and repo name (group 2).
// Returns ok=false if no valid repository URL is found.
func ExtractRepoURL(re *regexp.Regexp, urls map[string]string, homepage string) (owner, repo string, ok bool) {
	match := func(u string) bool {
		if strings.Contains(u, "/sponsors/") {
			return false
		}
		if m := re.FindStringSubmatch(u); len(m) >= 3 {
			owner = m[1]
			repo = strings.TrimSuffix(m[2], ".git")
			ok = true
			return true
		}
		return false
	}

	for _, key := range repoURLKeys {
		if u, exists := urls[key]; exists && match(u) {
			return
		}
	}
	for _, u := range urls {
		if match(u) {
			return
		}
	}
	if homepage != "" {
		match(homepage)
	}
	return
}

var hostedRepoPattern = regexp.MustCompile(`^https?://(github\.com|gitlab\.com)/([^/\s]+)/([^/\s#?]+)`)

// FindRepositoryURL returns the canonical https URL of the first GitHub or
// GitLab repository found in urls (standard keys first, then the rest in key
// order) or homepage. It returns "" when there is none.
func FindRepositoryURL(urls map[string]string, homepage string) string {
	candidates := make([]string, 0, len(urls)+1)
	for _, key := range repoURLKeys {
		if u, ok := urls[key]; ok {
			candidates = append(candidates, u)
		}
	}
	rest := make([]string, 0, len(urls))
	for key := range urls {
		if !slices.Contains(repoURLKeys, key) {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		candidates = append(candidates, urls[key])
	}
	candidates = append(candidates, homepage)

	for _, u := range candidates {
		u = NormalizeRepoURL(u)
		if strings.Contains(u, "/sponsors/") {
			continue
		}
		if m := hostedRepoPattern.FindStringSubmatch(u); m != nil {
			return fmt.Sprintf("https://%s/%s/%s", m[1], m[2], strings.TrimSuffix(m[3], ".git"))
		}
	}
	return ""
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEscape percent-encodes a string for use as a single path segment, as
// GitLab expects for "group/project" ids.
func PathEscape(s string) string { return url.PathEscape(s) }
