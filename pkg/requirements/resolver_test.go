package requirements

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/codemeta/pkg/codemeta"
)

func TestResolverResolve(t *testing.T) {
	r := &Resolver{}
	r.Register(EcosystemPyPI, RegistryFunc(func(_ context.Context, name string, _ bool) (*PackageInfo, error) {
		switch name {
		case "requests":
			return &PackageInfo{Description: "HTTP for Humans", Repository: "https://github.com/psf/requests.git"}, nil
		case "tool":
			return &PackageInfo{HomePage: "https://gitlab.com/group/tool"}, nil
		}
		return nil, fmt.Errorf("not found: %s", name)
	}))

	in := []codemeta.SoftwareRequirement{
		{Name: "requests", Identifier: "requests", Ecosystem: EcosystemPyPI},
		{Name: "tool", Identifier: "tool", Ecosystem: EcosystemPyPI, Description: "kept"},
		{Name: "missing", Identifier: "missing", Ecosystem: EcosystemPyPI},
		{Name: "github.com/spf13/cobra/v2", Ecosystem: EcosystemGo},
		{Name: "left-pad", Ecosystem: EcosystemNpm},
	}
	out, failed := r.Resolve(context.Background(), in)

	if len(out) != len(in) {
		t.Fatalf("got %d requirements, want %d", len(out), len(in))
	}
	if out[0].CodeRepository != "https://github.com/psf/requests" || out[0].ID != out[0].CodeRepository {
		t.Errorf("requests = %+v", out[0])
	}
	if out[0].Description != "HTTP for Humans" {
		t.Errorf("requests description = %q", out[0].Description)
	}
	if out[1].CodeRepository != "https://gitlab.com/group/tool" || out[1].Description != "kept" {
		t.Errorf("tool = %+v", out[1])
	}
	if out[2].CodeRepository != "" {
		t.Errorf("missing = %+v", out[2])
	}
	if out[3].CodeRepository != "https://github.com/spf13/cobra" {
		t.Errorf("go module = %+v", out[3])
	}
	if out[4].CodeRepository != "" {
		t.Errorf("npm without registry = %+v", out[4])
	}
	if !slices.Equal(failed, []string{"missing"}) {
		t.Errorf("failed = %v", failed)
	}
	if in[0].CodeRepository != "" {
		t.Error("input was modified")
	}
}

func TestResolverFailedKeepsInputOrder(t *testing.T) {
	r := &Resolver{workers: 8}
	r.Register(EcosystemPyPI, RegistryFunc(func(_ context.Context, name string, _ bool) (*PackageInfo, error) {
		// Later names fail first.
		time.Sleep(time.Duration('h'-name[0]) * 5 * time.Millisecond)
		return nil, fmt.Errorf("not found: %s", name)
	}))

	var in []codemeta.SoftwareRequirement
	want := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, name := range want {
		in = append(in, codemeta.SoftwareRequirement{Name: name, Ecosystem: EcosystemPyPI})
	}
	for range 3 {
		_, failed := r.Resolve(context.Background(), in)
		if !slices.Equal(failed, want) {
			t.Fatalf("failed = %v, want %v", failed, want)
		}
	}
}

func TestGoModuleRepository(t *testing.T) {
	tests := map[string]string{
		"github.com/spf13/cobra":       "https://github.com/spf13/cobra",
		"github.com/redis/go-redis/v9": "https://github.com/redis/go-redis",
		"gitlab.com/group/project":     "https://gitlab.com/group/project",
		"golang.org/x/sync":            "",
		"github.com/only":              "",
	}
	for path, want := range tests {
		if got := GoModuleRepository(path); got != want {
			t.Errorf("GoModuleRepository(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestNewResolverWithRegistries(t *testing.T) {
	r := NewResolver(nil, time.Hour, false)
	for _, eco := range []string{EcosystemPyPI, EcosystemNpm, EcosystemCrates} {
		if _, ok := r.registries[eco]; !ok {
			t.Errorf("no registry for %s", eco)
		}
	}
	r.SetWorkers(2)
	if r.workers != 2 {
		t.Errorf("workers = %d, want 2", r.workers)
	}
}
