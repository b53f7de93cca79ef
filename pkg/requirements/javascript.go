package requirements

import (
	"encoding/json"
	"os"
	"strings"
)

// PackageJSON parses npm package.json files. dependencies and
// peerDependencies are read; devDependencies are not.
type PackageJSON struct{}

func (p *PackageJSON) Type() string              { return "package.json" }
func (p *PackageJSON) Supports(name string) bool { return strings.EqualFold(name, "package.json") }

func (p *PackageJSON) Parse(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	res := &Result{Type: p.Type(), RootPackage: pkg.Name, Version: pkg.Version}
	seen := make(map[string]bool)
	for _, group := range []map[string]string{pkg.Dependencies, pkg.PeerDependencies} {
		for _, name := range sortedKeys(group) {
			if seen[name] {
				continue
			}
			seen[name] = true
			res.Requirements = append(res.Requirements,
				newRequirement(EcosystemNpm, name, group[name], strings.ToLower(name)))
		}
	}
	return res, nil
}

type packageFile struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}
