package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/codemeta/pkg/store"
)

type graphJSON struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// MarshalGraph converts g to indented JSON.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes g as JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	out := graphJSON{Nodes: g.Nodes(), Edges: g.Edges()}
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// WriteGraphFile writes g as JSON to path, atomically.
func WriteGraphFile(g *Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return store.WriteFileAtomic(path, data, 0o644)
}

// ReadGraph decodes a graph written by WriteGraph. Edges referring to
// unknown nodes are dropped.
func ReadGraph(r io.Reader) (*Graph, error) {
	var in graphJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	g := New()
	for _, n := range in.Nodes {
		g.AddNode(n)
	}
	for _, e := range in.Edges {
		g.AddEdge(e)
	}
	return g, nil
}
