// Package integrations provides HTTP clients for repository hosts and package
// registries.
//
// # Overview
//
// Repository hosts supply the facts a CodeMeta document is generated from;
// package registries are used to link software requirements to their
// repositories. Each service has its own subpackage:
//
//   - [github]: GitHub REST API (repository facts, contributors, users)
//   - [gitlab]: GitLab REST API v4 (project facts, contributors)
//   - [pypi]: Python Package Index
//   - [npm]: Node Package Manager
//   - [crates]: Rust crates.io
//
// # Client Pattern
//
// All clients follow a consistent pattern:
//
//	backend, _ := cache.NewFileCache(dir)
//	client := github.NewClient(backend, token, 24*time.Hour)
//	repo, err := client.FetchRepository(ctx, "sodascience", "codemeta-generator", false)
//
// Clients handle:
//   - HTTP requests with retry on 5xx, network errors and rate limiting
//   - Response caching through any [cache.Cache] backend
//   - API-specific parsing and normalization
//
// # Shared Infrastructure
//
// The [Client] type provides the shared HTTP functionality: cache lookups
// keyed by a per-service prefix, [cache.Backoff] retries, and status
// mapping (404 to [ErrNotFound], 5xx to a retryable [ErrNetwork]).
//
// [github]: github.com/matzehuels/codemeta/pkg/integrations/github
// [gitlab]: github.com/matzehuels/codemeta/pkg/integrations/gitlab
// [pypi]: github.com/matzehuels/codemeta/pkg/integrations/pypi
// [npm]: github.com/matzehuels/codemeta/pkg/integrations/npm
// [crates]: github.com/matzehuels/codemeta/pkg/integrations/crates
// [cache.Cache]: github.com/matzehuels/codemeta/pkg/cache.Cache
// [cache.Backoff]: github.com/matzehuels/codemeta/pkg/cache.Backoff
package integrations
