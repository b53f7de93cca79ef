package requirements

import (
	"bufio"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/integrations"
)

// RequirementsTxt parses pip requirements files.
type RequirementsTxt struct{}

func (r *RequirementsTxt) Type() string { return "requirements.txt" }

func (r *RequirementsTxt) Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

func (r *RequirementsTxt) Parse(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var specs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, " #"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}
		if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}
		specs = append(specs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Result{Type: r.Type(), Requirements: pythonRequirements(specs)}, nil
}

// Pyproject parses pyproject.toml, reading PEP 621 project.dependencies or,
// when absent, Poetry's tool.poetry.dependencies.
type Pyproject struct{}

func (p *Pyproject) Type() string              { return "pyproject.toml" }
func (p *Pyproject) Supports(name string) bool { return name == "pyproject.toml" }

func (p *Pyproject) Parse(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file pyprojectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	res := &Result{Type: p.Type()}
	if file.Project.Name != "" || len(file.Project.Dependencies) > 0 {
		res.RootPackage = file.Project.Name
		res.Version = file.Project.Version
		res.Requirements = pythonRequirements(file.Project.Dependencies)
		return res, nil
	}

	poetry := file.Tool.Poetry
	res.RootPackage = poetry.Name
	res.Version = poetry.Version
	for _, name := range sortedKeys(poetry.Dependencies) {
		if strings.EqualFold(name, "python") {
			continue
		}
		req := newRequirement(EcosystemPyPI, name, poetryVersion(poetry.Dependencies[name]), integrations.NormalizePkgName(name))
		res.Requirements = append(res.Requirements, req)
	}
	return res, nil
}

type pyprojectFile struct {
	Project struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name         string         `toml:"name"`
			Version      string         `toml:"version"`
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// poetryVersion reads "^1.2" or {version = "^1.2", extras = [...]}.
func poetryVersion(v any) string {
	switch v := v.(type) {
	case string:
		if v == "*" {
			return ""
		}
		return v
	case map[string]any:
		s, _ := v["version"].(string)
		return s
	}
	return ""
}

func pythonRequirements(specs []string) []codemeta.SoftwareRequirement {
	seen := make(map[string]bool)
	var out []codemeta.SoftwareRequirement
	for _, spec := range specs {
		req := codemeta.ParseRequirement(spec)
		if req.Name == "" {
			continue
		}
		req.Identifier = integrations.NormalizePkgName(req.Name)
		req.Ecosystem = EcosystemPyPI
		if !seen[req.Identifier] {
			seen[req.Identifier] = true
			out = append(out, req)
		}
	}
	return out
}
