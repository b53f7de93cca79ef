// Package graph builds credit graphs from CodeMeta documents.
//
// # Overview
//
// A credit graph has the described software at its root and edges to the
// people and organizations credited in the document: authors,
// contributors and maintainers, their affiliations, the organizations the
// software is part of or funded by, the software it requires, and the
// publications it references.
//
// # Usage
//
//	g := graph.Build(doc)
//	dot := graph.ToDOT(g, graph.Options{})
//	svg, err := graph.RenderSVG(ctx, dot)
//
// Graphs serialize to JSON with [MarshalGraph] and [WriteGraphFile] for
// consumption by other tools.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no system installation is needed.
package graph
