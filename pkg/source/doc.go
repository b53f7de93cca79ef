// Package source resolves repository URLs to the facts CodeMeta documents
// are generated from.
//
// A [Resolver] dispatches https://<host>/<owner>/<repo> URLs to a [Host]
// registered for the URL's host name. [GitHub] and [GitLab] adapt the
// clients in pkg/integrations; tests and other programs can register their
// own hosts. Every failure, including malformed URLs and unknown hosts, is
// reported as a SOURCE_UNAVAILABLE error so that callers can treat the
// source as a single unreliable dependency.
//
// Resolver implements [codemeta.RepositorySource].
//
// [codemeta.RepositorySource]: github.com/matzehuels/codemeta/pkg/codemeta.RepositorySource
package source
