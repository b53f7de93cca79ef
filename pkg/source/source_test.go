package source

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	cmerrors "github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/integrations"
	"github.com/matzehuels/codemeta/pkg/observability"
)

type fakeHost struct {
	repo     *integrations.Repository
	contribs []integrations.Contributor
	err      error
	paths    []string
}

func (f *fakeHost) Repository(_ context.Context, path string, _ bool) (*integrations.Repository, error) {
	f.paths = append(f.paths, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.repo, nil
}

func (f *fakeHost) Contributors(_ context.Context, path string, _ int, _ bool) ([]integrations.Contributor, error) {
	f.paths = append(f.paths, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.contribs, nil
}

func TestSplitRepositoryURL(t *testing.T) {
	tests := []struct {
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{"https://github.com/psf/requests", "github.com", "psf/requests", false},
		{"https://GitHub.com/psf/requests.git", "github.com", "psf/requests", false},
		{"https://github.com/psf/requests/tree/main", "github.com", "psf/requests", false},
		{"https://gitlab.com/group/sub/project", "gitlab.com", "group/sub/project", false},
		{"https://gitlab.com/group/project/-/tree/main", "gitlab.com", "group/project", false},
		{"https://gitlab.com/group/project.git/", "gitlab.com", "group/project", false},
		{"https://github.com/psf", "", "", true},
		{"ftp://github.com/psf/requests", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			host, path, err := SplitRepositoryURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitRepositoryURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if host != tt.wantHost || path != tt.wantPath {
				t.Errorf("SplitRepositoryURL(%q) = (%q, %q), want (%q, %q)", tt.url, host, path, tt.wantHost, tt.wantPath)
			}
		})
	}
}

func TestResolverFetchRepository(t *testing.T) {
	created := time.Date(2011, 2, 13, 0, 0, 0, 0, time.UTC)
	host := &fakeHost{repo: &integrations.Repository{
		URL:           "https://github.com/psf/requests",
		Owner:         "psf",
		Name:          "requests",
		Description:   "HTTP for Humans",
		License:       "Apache-2.0",
		Language:      "Python",
		Topics:        []string{"http"},
		DefaultBranch: "main",
		CreatedAt:     &created,
	}}
	r := &Resolver{}
	r.Register("GitHub.com", host)

	facts, err := r.FetchRepository(context.Background(), "https://github.com/psf/requests.git")
	if err != nil {
		t.Fatalf("FetchRepository: %v", err)
	}
	if facts.Name != "requests" || facts.License != "Apache-2.0" || facts.PrimaryLanguage != "Python" {
		t.Errorf("facts = %+v", facts)
	}
	if !facts.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", facts.CreatedAt, created)
	}
	if !facts.UpdatedAt.IsZero() {
		t.Errorf("UpdatedAt = %v, want zero", facts.UpdatedAt)
	}
	if !slices.Equal(host.paths, []string{"psf/requests"}) {
		t.Errorf("paths = %v", host.paths)
	}
}

func TestResolverErrorsAreSourceUnavailable(t *testing.T) {
	r := &Resolver{}
	r.Register("github.com", &fakeHost{err: integrations.ErrNotFound})

	for _, url := range []string{
		"https://github.com/psf/missing",
		"https://bitbucket.org/a/b",
		"not a url",
	} {
		_, err := r.FetchRepository(context.Background(), url)
		if !cmerrors.Is(err, cmerrors.ErrCodeSourceUnavailable) {
			t.Errorf("FetchRepository(%q) error = %v, want SOURCE_UNAVAILABLE", url, err)
		}
	}

	_, err := r.FetchRepository(context.Background(), "https://github.com/psf/missing")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("cause not preserved: %v", err)
	}
}

type recordingSourceHooks struct {
	observability.NoopSourceHooks
	mu     sync.Mutex
	starts []string
	errs   []error
}

func (h *recordingSourceHooks) OnFetchStart(_ context.Context, host, repo string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, host+"/"+repo)
}

func (h *recordingSourceHooks) OnFetchComplete(_ context.Context, _, _ string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs = append(h.errs, err)
}

func TestResolverFiresSourceHooks(t *testing.T) {
	hooks := &recordingSourceHooks{}
	observability.SetSourceHooks(hooks)
	t.Cleanup(observability.Reset)

	r := &Resolver{}
	r.Register("gitlab.com", &fakeHost{repo: &integrations.Repository{Name: "project"}})
	if _, err := r.FetchRepository(context.Background(), "https://gitlab.com/group/project"); err != nil {
		t.Fatalf("FetchRepository: %v", err)
	}

	if !slices.Equal(hooks.starts, []string{"gitlab.com/group/project"}) {
		t.Errorf("starts = %v", hooks.starts)
	}
	if len(hooks.errs) != 1 || hooks.errs[0] != nil {
		t.Errorf("complete errs = %v", hooks.errs)
	}
}

func TestResolverFetchContributors(t *testing.T) {
	r := &Resolver{}
	r.Register("github.com", &fakeHost{contribs: []integrations.Contributor{
		{Login: "ada", Name: "Ada Lovelace", Email: "ada@example.org", ProfileURL: "https://github.com/ada"},
		{Login: "bob", ProfileURL: "https://github.com/bob"},
	}})

	people, err := r.FetchContributors(context.Background(), "https://github.com/x/y", 5)
	if err != nil {
		t.Fatalf("FetchContributors: %v", err)
	}
	want := []codemeta.Person{
		{ID: "https://github.com/ada", GivenName: "Ada", FamilyName: "Lovelace", Name: "Ada Lovelace", Email: "ada@example.org"},
		{ID: "https://github.com/bob", Name: "bob"},
	}
	if !slices.Equal(people, want) {
		t.Errorf("people = %+v, want %+v", people, want)
	}
}

func TestNewResolverRegistersHosts(t *testing.T) {
	r := NewResolver(Options{GitLabHosts: []string{" gitlab.example.org ", ""}})
	hosts := r.Hosts()
	slices.Sort(hosts)
	want := []string{"github.com", "gitlab.com", "gitlab.example.org"}
	if !slices.Equal(hosts, want) {
		t.Errorf("Hosts() = %v, want %v", hosts, want)
	}
}

func TestResolverImplementsRepositorySource(t *testing.T) {
	var _ codemeta.RepositorySource = (*Resolver)(nil)
}
