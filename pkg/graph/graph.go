package graph

import (
	"strings"

	"github.com/matzehuels/codemeta/pkg/codemeta"
)

// Kind classifies nodes.
type Kind string

const (
	KindSoftware     Kind = "software"
	KindPerson       Kind = "person"
	KindOrganization Kind = "organization"
	KindRequirement  Kind = "requirement"
	KindPublication  Kind = "publication"
)

// Edge roles.
const (
	RoleAuthor      = "author"
	RoleContributor = "contributor"
	RoleMaintainer  = "maintainer"
	RoleAffiliation = "affiliation"
	RolePartOf      = "isPartOf"
	RoleFunder      = "funder"
	RoleRequires    = "requires"
	RoleReferences  = "references"
)

// RootID is the ID of the software node.
const RootID = "software"

// Node is a credited entity.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
	URL   string `json:"url,omitempty"`
}

// Edge links two nodes with a role. Edges are unique per (From, To, Role).
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Role string `json:"role"`
}

// Graph is a credit graph. Nodes and edges keep insertion order.
type Graph struct {
	nodes []Node
	index map[string]int
	edges []Edge
	seen  map[Edge]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int), seen: make(map[Edge]bool)}
}

// AddNode adds n unless a node with the same ID exists. It returns n.ID.
func (g *Graph) AddNode(n Node) string {
	if _, ok := g.index[n.ID]; !ok {
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}
	return n.ID
}

// AddEdge adds e if both ends exist and it is not a duplicate.
func (g *Graph) AddEdge(e Edge) {
	_, fromOK := g.index[e.From]
	_, toOK := g.index[e.To]
	if !fromOK || !toOK || g.seen[e] {
		return
	}
	g.seen[e] = true
	g.edges = append(g.edges, e)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Build creates the credit graph of doc. Plain-string entries are credited
// by name; objects are identified by @id when present, so the same person
// listed as author and maintainer is one node.
func Build(doc codemeta.Document) *Graph {
	g := New()
	name, _ := doc["name"].(string)
	if name == "" {
		name = "software"
	}
	url, _ := doc["codeRepository"].(string)
	g.AddNode(Node{ID: RootID, Label: name, Kind: KindSoftware, URL: url})

	for _, role := range []string{RoleAuthor, RoleContributor, RoleMaintainer} {
		for _, v := range entries(doc[role]) {
			id := addEntity(g, v, KindPerson)
			if id == "" {
				continue
			}
			g.AddEdge(Edge{From: RootID, To: id, Role: role})
			if v.Kind == codemeta.KindRef {
				for _, aff := range entries(v.Ref["affiliation"]) {
					if orgID := addEntity(g, aff, KindOrganization); orgID != "" {
						g.AddEdge(Edge{From: id, To: orgID, Role: RoleAffiliation})
					}
				}
			}
		}
	}
	for _, role := range []string{RolePartOf, RoleFunder} {
		for _, v := range entries(doc[role]) {
			if id := addEntity(g, v, KindOrganization); id != "" {
				g.AddEdge(Edge{From: RootID, To: id, Role: role})
			}
		}
	}
	for _, v := range entries(doc["softwareRequirements"]) {
		if id := addEntity(g, v, KindRequirement); id != "" {
			g.AddEdge(Edge{From: RootID, To: id, Role: RoleRequires})
		}
	}
	for _, v := range entries(doc["referencePublication"]) {
		if id := addEntity(g, v, KindPublication); id != "" {
			g.AddEdge(Edge{From: RootID, To: id, Role: RoleReferences})
		}
	}
	return g
}

func entries(raw any) []codemeta.Value {
	v := codemeta.Classify(raw)
	switch v.Kind {
	case codemeta.KindList:
		return v.List
	case codemeta.KindText, codemeta.KindRef:
		return []codemeta.Value{v}
	}
	return nil
}

// addEntity adds the node for a text or object value and returns its ID,
// or "" when the value names nothing.
func addEntity(g *Graph, v codemeta.Value, kind Kind) string {
	var label, id, url string
	switch v.Kind {
	case codemeta.KindText:
		label = strings.TrimSpace(v.Text)
	case codemeta.KindRef:
		label = entityLabel(v.Ref)
		id, _ = v.Ref["@id"].(string)
		url, _ = v.Ref["url"].(string)
		if url == "" && strings.HasPrefix(id, "http") {
			url = id
		}
	default:
		return ""
	}
	if label == "" && id == "" {
		return ""
	}
	if label == "" {
		label = id
	}
	if id == "" {
		id = string(kind) + ":" + strings.ToLower(label)
	}
	return g.AddNode(Node{ID: id, Label: label, Kind: kind, URL: url})
}

func entityLabel(ref map[string]any) string {
	if s, _ := ref["name"].(string); s != "" {
		return s
	}
	given, _ := ref["givenName"].(string)
	family, _ := ref["familyName"].(string)
	if s := strings.TrimSpace(given + " " + family); s != "" {
		return s
	}
	s, _ := ref["identifier"].(string)
	return s
}
