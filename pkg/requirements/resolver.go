package requirements

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/codemeta/pkg/cache"
	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/integrations"
	"github.com/matzehuels/codemeta/pkg/integrations/crates"
	"github.com/matzehuels/codemeta/pkg/integrations/npm"
	"github.com/matzehuels/codemeta/pkg/integrations/pypi"
)

// PackageInfo is the registry data used to link a requirement.
type PackageInfo struct {
	Description string
	Repository  string // Source repository URL, any form
	HomePage    string
}

// Registry looks up packages of one ecosystem.
type Registry interface {
	Lookup(ctx context.Context, name string, refresh bool) (*PackageInfo, error)
}

// RegistryFunc adapts a function to Registry.
type RegistryFunc func(ctx context.Context, name string, refresh bool) (*PackageInfo, error)

// Lookup calls f.
func (f RegistryFunc) Lookup(ctx context.Context, name string, refresh bool) (*PackageInfo, error) {
	return f(ctx, name, refresh)
}

// Resolver links requirements to their repositories.
type Resolver struct {
	registries map[string]Registry
	workers    int
	refresh    bool
}

// NewResolver creates a resolver backed by the PyPI, npm and crates.io
// clients sharing backend as their response cache.
func NewResolver(backend cache.Cache, ttl time.Duration, refresh bool) *Resolver {
	r := &Resolver{registries: make(map[string]Registry), workers: 4, refresh: refresh}
	r.Register(EcosystemPyPI, PyPI(pypi.NewClient(backend, ttl)))
	r.Register(EcosystemNpm, Npm(npm.NewClient(backend, ttl)))
	r.Register(EcosystemCrates, Crates(crates.NewClient(backend, ttl)))
	return r
}

// Register adds or replaces the registry for an ecosystem.
func (r *Resolver) Register(ecosystem string, reg Registry) {
	if r.registries == nil {
		r.registries = make(map[string]Registry)
	}
	r.registries[ecosystem] = reg
}

// SetWorkers bounds the number of concurrent lookups.
func (r *Resolver) SetWorkers(n int) {
	if n > 0 {
		r.workers = n
	}
}

// Resolve returns a copy of reqs with repository links filled in. Names of
// requirements whose lookup failed are returned in failed, in input order;
// those entries are left as parsed.
func (r *Resolver) Resolve(ctx context.Context, reqs []codemeta.SoftwareRequirement) (out []codemeta.SoftwareRequirement, failed []string) {
	out = make([]codemeta.SoftwareRequirement, len(reqs))
	copy(out, reqs)

	workers := r.workers
	if workers <= 0 {
		workers = 4
	}
	errs := make([]error, len(out))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range out {
		g.Go(func() error {
			errs[i] = r.resolveOne(ctx, &out[i])
			return nil
		})
	}
	_ = g.Wait()

	// Input order, independent of completion order.
	for i, err := range errs {
		if err != nil {
			failed = append(failed, out[i].Name)
		}
	}
	return out, failed
}

func (r *Resolver) resolveOne(ctx context.Context, req *codemeta.SoftwareRequirement) error {
	if req.Ecosystem == EcosystemGo {
		linkRepository(req, GoModuleRepository(req.Name))
		return nil
	}
	reg, ok := r.registries[req.Ecosystem]
	if !ok || req.CodeRepository != "" {
		return nil
	}
	info, err := reg.Lookup(ctx, req.Name, r.refresh)
	if err != nil {
		return err
	}
	if req.Description == "" {
		req.Description = info.Description
	}
	repo := integrations.FindRepositoryURL(nil, info.Repository)
	if repo == "" {
		repo = integrations.FindRepositoryURL(nil, info.HomePage)
	}
	if repo == "" {
		repo = integrations.NormalizeRepoURL(info.Repository)
	}
	linkRepository(req, repo)
	return nil
}

func linkRepository(req *codemeta.SoftwareRequirement, repo string) {
	if repo == "" {
		return
	}
	req.CodeRepository = repo
	if req.ID == "" {
		req.ID = repo
	}
}

// GoModuleRepository returns the repository URL of a Go module path hosted
// on GitHub or GitLab ("github.com/spf13/cobra" and its /v2 subpaths), or ""
// for other hosts.
func GoModuleRepository(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return ""
	}
	switch parts[0] {
	case "github.com", "gitlab.com":
		return "https://" + strings.Join(parts[:3], "/")
	}
	return ""
}

// PyPI adapts a PyPI client to Registry.
func PyPI(c *pypi.Client) Registry {
	return RegistryFunc(func(ctx context.Context, name string, refresh bool) (*PackageInfo, error) {
		p, err := c.FetchPackage(ctx, name, refresh)
		if err != nil {
			return nil, err
		}
		return &PackageInfo{Description: p.Summary, Repository: p.Repository, HomePage: p.HomePage}, nil
	})
}

// Npm adapts an npm client to Registry.
func Npm(c *npm.Client) Registry {
	return RegistryFunc(func(ctx context.Context, name string, refresh bool) (*PackageInfo, error) {
		p, err := c.FetchPackage(ctx, name, refresh)
		if err != nil {
			return nil, err
		}
		return &PackageInfo{Description: p.Description, Repository: p.Repository, HomePage: p.HomePage}, nil
	})
}

// Crates adapts a crates.io client to Registry.
func Crates(c *crates.Client) Registry {
	return RegistryFunc(func(ctx context.Context, name string, refresh bool) (*PackageInfo, error) {
		p, err := c.FetchCrate(ctx, name, refresh)
		if err != nil {
			return nil, err
		}
		return &PackageInfo{Description: p.Description, Repository: p.Repository, HomePage: p.HomePage}, nil
	})
}
