package requirements

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// CargoToml parses Cargo manifests. Only [dependencies] is read.
type CargoToml struct{}

func (c *CargoToml) Type() string              { return "Cargo.toml" }
func (c *CargoToml) Supports(name string) bool { return strings.EqualFold(name, "cargo.toml") }

func (c *CargoToml) Parse(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cargo cargoFile
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, err
	}

	res := &Result{Type: c.Type(), RootPackage: cargo.Package.Name, Version: cargoVersion(cargo.Package.Version)}
	for _, name := range sortedKeys(cargo.Dependencies) {
		dep := cargo.Dependencies[name]
		crate := name
		if t, ok := dep.(map[string]any); ok {
			if renamed, ok := t["package"].(string); ok && renamed != "" {
				crate = renamed
			}
		}
		res.Requirements = append(res.Requirements,
			newRequirement(EcosystemCrates, crate, cargoVersion(dep), strings.ToLower(crate)))
	}
	return res, nil
}

type cargoFile struct {
	Package struct {
		Name    string `toml:"name"`
		Version any    `toml:"version"`
	} `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
}

// cargoVersion reads "1.0" or {version = "1.0", features = [...]}. Workspace
// inherited versions ({workspace = true}) have no version.
func cargoVersion(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["version"].(string)
		return s
	}
	return ""
}
