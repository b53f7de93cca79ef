package pypi

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

// PackageInfo holds metadata for a Python package from PyPI.
//
// Package names are normalized following PEP 503 (lowercase, underscores→hyphens).
// Repository is the first GitHub or GitLab URL found in the project URLs or
// home page.
type PackageInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Summary     string            `json:"summary,omitempty"`
	License     string            `json:"license,omitempty"`
	Author      string            `json:"author,omitempty"`
	HomePage    string            `json:"home_page,omitempty"`
	Repository  string            `json:"repository,omitempty"`
	ProjectURLs map[string]string `json:"project_urls,omitempty"`
}

// Client provides access to the PyPI package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (use cache.NewNullCache() for no caching)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil),
		baseURL: "https://pypi.org/pypi",
	}
}

// FetchPackage retrieves metadata for a Python package from PyPI.
//
// The pkg parameter is normalized automatically (case-insensitive, underscores→hyphens).
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - PackageInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the package doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - An INVALID_PACKAGE error for names PyPI cannot hold
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	if err := cmerrors.ValidatePythonPackageName(strings.TrimSpace(pkg)); err != nil {
		return nil, err
	}
	pkg = integrations.NormalizePkgName(pkg)

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
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}

	urls := make(map[string]string, len(data.Info.ProjectURLs))
	for k, v := range data.Info.ProjectURLs {
		if s, ok := v.(string); ok {
			urls[k] = s
		}
	}

	*info = PackageInfo{
		Name:        data.Info.Name,
		Version:     data.Info.Version,
		Summary:     data.Info.Summary,
		License:     extractLicenseType(data.Info.License, data.Info.Classifiers),
		Author:      data.Info.Author,
		HomePage:    data.Info.HomePage,
		Repository:  integrations.FindRepositoryURL(urls, data.Info.HomePage),
		ProjectURLs: urls,
	}
	return nil
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Summary     string         `json:"summary"`
	License     string         `json:"license"`
	Classifiers []string       `json:"classifiers"`
	ProjectURLs map[string]any `json:"project_urls"`
	HomePage    string         `json:"home_page"`
	Author      string         `json:"author"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// It prefers the classifier (e.g., "License :: OSI Approved :: MIT License" -> "MIT License")
// and falls back to the license field if it's short enough.
func extractLicenseType(license string, classifiers []string) string {
	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			if len(parts) >= 3 {
				return parts[len(parts)-1]
			}
		}
	}

	if license != "" && len(license) < 100 && !strings.Contains(license, "\n") {
		return strings.TrimSpace(license)
	}

	// Full license texts start with their name: "MIT License", "Apache License 2.0"
	if license != "" {
		firstLine := strings.TrimSpace(strings.Split(license, "\n")[0])
		if len(firstLine) < 50 {
			return firstLine
		}
	}

	return ""
}
