package requirements

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
)

// Ecosystem tags carried in SoftwareRequirement.Ecosystem.
const (
	EcosystemPyPI   = "pypi"
	EcosystemNpm    = "npm"
	EcosystemCrates = "crates"
	EcosystemGo     = "go"
)

// Manifest reads direct dependencies from one kind of manifest file.
type Manifest interface {
	// Type returns the manifest type identifier ("requirements.txt").
	Type() string
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Parse reads the manifest at path.
	Parse(path string) (*Result, error)
}

// Result holds the data read from a manifest.
type Result struct {
	Type         string // Parser type that produced this result
	RootPackage  string // Name of the project itself, if declared
	Version      string // Version of the project itself, if declared
	Requirements []codemeta.SoftwareRequirement
}

// Manifests lists the supported parsers in detection order.
var Manifests = []Manifest{
	&RequirementsTxt{},
	&Pyproject{},
	&PackageJSON{},
	&CargoToml{},
	&GoMod{},
}

// Detect finds the parser for path by its base name.
func Detect(path string) (Manifest, error) {
	name := filepath.Base(path)
	for _, m := range Manifests {
		if m.Supports(name) {
			return m, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported manifest: %s", name)
}

// ParseManifest detects the manifest type of path and parses it.
func ParseManifest(path string) (*Result, error) {
	m, err := Detect(path)
	if err != nil {
		return nil, err
	}
	res, err := m.Parse(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return res, nil
}

// ParseFile returns the requirements declared in the manifest at path.
func ParseFile(path string) ([]codemeta.SoftwareRequirement, error) {
	res, err := ParseManifest(path)
	if err != nil {
		return nil, err
	}
	return res.Requirements, nil
}

// Find returns the supported manifests directly inside dir, sorted.
func Find(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := Detect(e.Name()); err == nil {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ParseDir parses every manifest in dir and returns the combined
// requirements, first occurrence winning for duplicate identifiers within
// an ecosystem.
func ParseDir(dir string) ([]codemeta.SoftwareRequirement, error) {
	paths, err := Find(dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []codemeta.SoftwareRequirement
	for _, p := range paths {
		reqs, err := ParseFile(p)
		if err != nil {
			return nil, err
		}
		for _, r := range reqs {
			key := r.Ecosystem + ":" + r.Identifier
			if !seen[key] {
				seen[key] = true
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// newRequirement builds a requirement from a name and version constraint.
func newRequirement(ecosystem, name, version, identifier string) codemeta.SoftwareRequirement {
	return codemeta.SoftwareRequirement{
		Name:       name,
		Identifier: identifier,
		Version:    version,
		Ecosystem:  ecosystem,
	}
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
