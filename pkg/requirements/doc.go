// Package requirements extracts softwareRequirements from dependency
// manifests and links them to their source repositories.
//
// # Manifests
//
// [ParseFile] reads one manifest and returns its direct dependencies as
// [codemeta.SoftwareRequirement] values tagged with their ecosystem:
//
//   - requirements*.txt (pypi)
//   - pyproject.toml, PEP 621 [project] or [tool.poetry] tables (pypi)
//   - package.json, dependencies and peerDependencies (npm)
//   - Cargo.toml, [dependencies] (crates)
//   - go.mod, direct requires (go)
//
// Development-only dependencies are left out because they are not
// requirements of the described software.
//
// # Resolution
//
// A [Resolver] looks each requirement up in its registry (PyPI, npm,
// crates.io) and fills codeRepository, @id and description when the
// registry knows them. Go module paths on GitHub or GitLab are linked
// without a lookup. Lookups that fail leave the requirement unchanged.
//
// [codemeta.SoftwareRequirement]: github.com/matzehuels/codemeta/pkg/codemeta.SoftwareRequirement
package requirements
