package crates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/codemeta/pkg/cache"
	cmerrors "github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/integrations"
)

// userAgent identifies the tool as crates.io API policy requires.
const userAgent = "codemeta/1.0 (https://github.com/matzehuels/codemeta)"

// CrateInfo holds metadata for a Rust crate from crates.io.
//
// The Version field contains the max_version (latest stable or highest version).
type CrateInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	License     string `json:"license,omitempty"` // may be an expression: "MIT OR Apache-2.0"
	HomePage    string `json:"homepage,omitempty"`
	Repository  string `json:"repository,omitempty"`
}

// Client provides access to the crates.io package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client with the given cache backend.
// The client includes a User-Agent header as required by crates.io API policy.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{"User-Agent": userAgent}
	return &Client{
		Client:  integrations.NewClient(backend, "crates:", cacheTTL, headers),
		baseURL: "https://crates.io/api/v1",
	}
}

// FetchCrate retrieves metadata for a Rust crate from crates.io.
//
// The crate parameter must match the published crate name.
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - CrateInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the crate doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchCrate(ctx context.Context, crate string, refresh bool) (*CrateInfo, error) {
	if err := cmerrors.ValidateCratesPackageName(crate); err != nil {
		return nil, err
	}

	var info CrateInfo
	err := c.Cached(ctx, crate, refresh, &info, func() error {
		return c.fetch(ctx, crate, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, crate string, info *CrateInfo) error {
	var data crateResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, crate), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: crate %s", err, crate)
		}
		return err
	}

	repo := integrations.NormalizeRepoURL(data.Crate.Repository)
	if found := integrations.FindRepositoryURL(map[string]string{"Repository": repo}, data.Crate.HomePage); found != "" {
		repo = found
	}

	*info = CrateInfo{
		Name:        data.Crate.Name,
		Version:     data.Crate.MaxVersion,
		Description: data.Crate.Description,
		License:     data.Crate.License,
		Repository:  repo,
		HomePage:    data.Crate.HomePage,
	}
	return nil
}

type crateResponse struct {
	Crate struct {
		Name        string `json:"name"`
		MaxVersion  string `json:"max_version"`
		Description string `json:"description"`
		License     string `json:"license"`
		Repository  string `json:"repository"`
		HomePage    string `json:"homepage"`
	} `json:"crate"`
}
