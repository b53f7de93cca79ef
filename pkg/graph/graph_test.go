package graph

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/codemeta/pkg/codemeta"
)

func creditDocument() codemeta.Document {
	ada := map[string]any{
		"@type":       "Person",
		"@id":         "https://orcid.org/0000-0002-1825-0097",
		"name":        "Ada Lovelace",
		"affiliation": map[string]any{"@type": "Organization", "name": "Analytical Society"},
	}
	return codemeta.Document{
		"name":           "engine",
		"codeRepository": "https://github.com/org/engine",
		"author":         []any{ada, map[string]any{"@type": "Person", "givenName": "Charles", "familyName": "Babbage"}},
		"maintainer":     []any{ada},
		"contributor":    "Grace Hopper",
		"isPartOf":       []any{codemeta.SODAScience.Map()},
		"softwareRequirements": []any{
			codemeta.NewRequirement("numpy").Map(),
			"pandas",
		},
		"referencePublication": []any{codemeta.NewPublication("10.1000/xyz", "On Engines").Map()},
		"keywords":             []any{"ignored"},
	}
}

func TestBuild(t *testing.T) {
	g := Build(creditDocument())

	root, ok := g.Node(RootID)
	if !ok || root.Label != "engine" || root.Kind != KindSoftware {
		t.Fatalf("root = %+v, %v", root, ok)
	}

	// software, ada, babbage, society, grace, soda, numpy, pandas, publication
	if g.NodeCount() != 9 {
		for _, n := range g.Nodes() {
			t.Logf("node %s (%s)", n.ID, n.Kind)
		}
		t.Fatalf("NodeCount = %d, want 9", g.NodeCount())
	}

	ada := "https://orcid.org/0000-0002-1825-0097"
	want := []Edge{
		{From: RootID, To: ada, Role: RoleAuthor},
		{From: ada, To: "organization:analytical society", Role: RoleAffiliation},
		{From: RootID, To: "person:charles babbage", Role: RoleAuthor},
		{From: RootID, To: "person:grace hopper", Role: RoleContributor},
		{From: RootID, To: ada, Role: RoleMaintainer},
	}
	edges := g.Edges()
	if len(edges) < len(want) {
		t.Fatalf("got %d edges, want at least %d", len(edges), len(want))
	}
	for i, e := range want {
		if edges[i] != e {
			t.Errorf("edge %d = %+v, want %+v", i, edges[i], e)
		}
	}

	node, ok := g.Node("requirement:pandas")
	if !ok || node.Kind != KindRequirement {
		t.Errorf("pandas node = %+v, %v", node, ok)
	}
	node, ok = g.Node(ada)
	if !ok || node.URL != ada {
		t.Errorf("ada node = %+v", node)
	}
}

func TestBuildEmptyDocument(t *testing.T) {
	g := Build(codemeta.Document{})
	if g.NodeCount() != 1 || g.EdgeCount() != 0 {
		t.Errorf("got %d nodes, %d edges; want 1, 0", g.NodeCount(), g.EdgeCount())
	}
	if n, _ := g.Node(RootID); n.Label != "software" {
		t.Errorf("root label = %q", n.Label)
	}
}

func TestAddEdgeRequiresNodes(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddEdge(Edge{From: "a", To: "missing"})
	g.AddNode(Node{ID: "b"})
	g.AddEdge(Edge{From: "a", To: "b", Role: RoleAuthor})
	g.AddEdge(Edge{From: "a", To: "b", Role: RoleAuthor})
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(Build(creditDocument()), Options{Roles: true})

	for _, want := range []string{
		"digraph credits {",
		"rankdir=LR;",
		`"software" [label="engine"`,
		`URL="https://github.com/org/engine"`,
		`"software" -> "person:grace hopper" [style=dashed, label="contributor"];`,
		`label="affiliation"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	plain := ToDOT(Build(creditDocument()), Options{RankDir: "TB"})
	if !strings.Contains(plain, "rankdir=TB;") || strings.Contains(plain, `label="author"`) {
		t.Errorf("unexpected DOT:\n%s", plain)
	}
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := Build(creditDocument())
	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if back.NodeCount() != g.NodeCount() || back.EdgeCount() != g.EdgeCount() {
		t.Errorf("round trip: %d/%d nodes, %d/%d edges", back.NodeCount(), g.NodeCount(), back.EdgeCount(), g.EdgeCount())
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(Build(creditDocument()), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("engine")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox: %s", got)
	}
}
