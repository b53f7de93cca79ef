// Package pkg provides the libraries behind the codemeta command.
//
// # Overview
//
// codemeta creates and maintains codemeta.json files: JSON-LD documents that
// describe research software using the CodeMeta 2.0 or 3.0 vocabulary. The
// pkg directory is organized into four areas:
//
//  1. [codemeta] - The document model (profiles, validation, migration,
//     enhancement, generation and merge helpers)
//  2. [bulk] - Bounded worker pool that applies a job to many items
//  3. [source], [requirements], [integrations] - Repository hosts and
//     package registries the generator reads facts from
//  4. [cache], [store], [config], [server] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Repository URL                     existing codemeta.json
//	      ↓                                      ↓
//	[source] (GitHub, GitLab)           [codemeta.Decode]
//	      ↓                                      ↓
//	[codemeta.Generate]                 [codemeta.Enhance]
//	      ↓                                      ↓
//	merge helpers (authors, requirements, organization)
//	      ↓
//	[codemeta.Validate] → [store] (files or MongoDB)
//
// # Quick Start
//
// Enhance a 2.0 document to 3.0 and list what is still missing:
//
//	data, _ := os.ReadFile("codemeta.json")
//	doc, report, err := codemeta.EnhanceBytes(data, codemeta.V3, codemeta.WithCompletion())
//	if err != nil {
//	    return err
//	}
//	for _, msg := range report.Messages() {
//	    fmt.Println(msg)
//	}
//	return store.WriteDocument("codemeta.json", doc)
//
// Generate a document from a repository:
//
//	src := source.NewResolver(source.Options{Cache: cache.NewNullCache()})
//	doc, err := codemeta.Generate(ctx, src, "https://github.com/owner/repo", codemeta.V3)
//
// # Main Packages
//
// [codemeta] - Version profiles, the Normalizer, Validator, Migrator and
// Enhancer, plus constructors for persons, organizations, requirements and
// publications. Pure functions over [codemeta.Document]; no I/O.
//
// [bulk] - [bulk.Driver] runs a [bulk.Job] over many items with a fixed
// number of workers. One failing item never stops the others; every item
// ends up in the [bulk.Report].
//
// [source] - Resolves repository URLs to hosts (github.com, gitlab.com and
// configured GitLab instances) and turns host metadata into repository facts.
//
// [requirements] - Parses dependency manifests (requirements.txt,
// pyproject.toml, package.json, Cargo.toml, go.mod) and resolves each
// dependency against its package registry.
//
// [integrations] - Cached HTTP clients for GitHub, GitLab, PyPI, npm and
// crates.io.
//
// [cache] - Response cache backends: file, in-memory LRU, Redis and null.
// Also holds the retry backoff shared by the clients.
//
// [store] - Atomic document writes and the document stores (JSON files or
// MongoDB) used by bulk generation.
//
// [graph] - Credit graph of a document, rendered to DOT, SVG or JSON.
//
// [config] - TOML configuration, environment overrides and the YAML input
// files for authors, organizations, requirement and publication mappings.
//
// [server] - HTTP API exposing validate, enhance and generate.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [codemeta]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/codemeta
// [bulk]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/bulk
// [source]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/source
// [requirements]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/requirements
// [integrations]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/store
// [graph]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/graph
// [config]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/codemeta/pkg/server
package pkg
