package requirements

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// GoMod parses go.mod files. Indirect requirements are skipped.
type GoMod struct{}

func (g *GoMod) Type() string              { return "go.mod" }
func (g *GoMod) Supports(name string) bool { return name == "go.mod" }

func (g *GoMod) Parse(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseGoMod(f)
}

func parseGoMod(r io.Reader) (*Result, error) {
	res := &Result{Type: "go.mod"}
	seen := make(map[string]bool)
	inRequire := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "module ") {
			res.RootPackage = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "module ")), `"`)
			continue
		}

		if strings.HasPrefix(line, "require (") || line == "require(" {
			inRequire = true
			continue
		}
		if inRequire && line == ")" {
			inRequire = false
			continue
		}

		if strings.HasPrefix(line, "require ") && !strings.Contains(line, "(") {
			line = strings.TrimPrefix(line, "require ")
		} else if !inRequire {
			continue
		}

		path, version := parseRequireLine(line)
		if path != "" && !seen[path] {
			seen[path] = true
			res.Requirements = append(res.Requirements, newRequirement(EcosystemGo, path, version, path))
		}
	}
	return res, scanner.Err()
}

func parseRequireLine(line string) (path, version string) {
	if strings.Contains(line, "// indirect") {
		return "", ""
	}
	if idx := strings.Index(line, "//"); idx != -1 {
		line = line[:idx]
	}
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], fields[1]
}
