package npm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/codemeta/pkg/cache"
	cmerrors "github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/integrations"
)

// PackageInfo holds metadata for the latest version of an npm package.
type PackageInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	License     string `json:"license,omitempty"`
	Author      string `json:"author,omitempty"`
	HomePage    string `json:"homepage,omitempty"`
	Repository  string `json:"repository,omitempty"`
}

// Client provides access to the npm registry API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an npm registry client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "npm:", cacheTTL, nil),
		baseURL: "https://registry.npmjs.org",
	}
}

// FetchPackage retrieves metadata for the latest version of pkg. Scoped
// names (@scope/name) are supported.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = strings.ToLower(strings.TrimSpace(pkg))
	if err := cmerrors.ValidateNpmPackageName(pkg); err != nil {
		return nil, err
	}

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data registryResponse
	url := c.baseURL + "/" + strings.Replace(pkg, "/", "%2F", 1)
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}

	latest := data.DistTags.Latest
	v, ok := data.Versions[latest]
	if !ok {
		return fmt.Errorf("npm package %s: version %s not found", pkg, latest)
	}

	repo := integrations.NormalizeRepoURL(extractField(v.Repository, "url"))
	if found := integrations.FindRepositoryURL(map[string]string{"Repository": repo}, v.HomePage); found != "" {
		repo = found
	}

	*info = PackageInfo{
		Name:        data.Name,
		Version:     latest,
		Description: v.Description,
		License:     extractField(v.License, "type"),
		Author:      extractField(v.Author, "name"),
		Repository:  repo,
		HomePage:    v.HomePage,
	}
	return nil
}

// extractField reads fields npm allows as either a string or an object
// ("author": "Name <mail>" or {"name": ...}).
func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

type registryResponse struct {
	Name     string                    `json:"name"`
	DistTags distTags                  `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	Description string `json:"description"`
	License     any    `json:"license"`
	Author      any    `json:"author"`
	Repository  any    `json:"repository"`
	HomePage    string `json:"homepage"`
}
