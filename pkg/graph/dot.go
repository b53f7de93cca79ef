package graph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// Options configures DOT generation.
type Options struct {
	// Roles includes edge role labels.
	Roles bool
	// RankDir is the Graphviz layout direction (default "LR").
	RankDir string
}

var kindAttrs = map[Kind]string{
	KindSoftware:     `shape=box, style="rounded,filled,bold", fillcolor="#fde68a"`,
	KindPerson:       `shape=ellipse, style=filled, fillcolor="#bfdbfe"`,
	KindOrganization: `shape=box, style=filled, fillcolor="#d9f99d"`,
	KindRequirement:  `shape=component, style=filled, fillcolor="#e5e7eb"`,
	KindPublication:  `shape=note, style=filled, fillcolor="#fbcfe8"`,
}

var roleAttrs = map[string]string{
	RoleContributor: `style=dashed`,
	RoleMaintainer:  `color="#2563eb"`,
	RoleAffiliation: `style=dotted, arrowhead=none`,
	RoleRequires:    `color="#6b7280"`,
}

// ToDOT converts g to Graphviz DOT source. The result can be rendered
// with [RenderSVG] or external Graphviz tools.
func ToDOT(g *Graph, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph credits {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", n.Label), kindAttrs[n.Kind]}
		if n.URL != "" {
			attrs = append(attrs, fmt.Sprintf("URL=%q", n.URL))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if a := roleAttrs[e.Role]; a != "" {
			attrs = append(attrs, a)
		}
		if opts.Roles {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Role))
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders DOT source to SVG in-process.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
