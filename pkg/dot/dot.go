// Package dot projects a process graph into Graphviz DOT and renders it to
// SVG or PNG. It is the image-export counterpart to pkg/mermaid: the text
// preview uses Mermaid, file exports go through Graphviz.
package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/procflow/procflow/pkg/process"
)

// ToDOT converts a process to Graphviz DOT. Like the Mermaid projection it
// is deterministic: nodes and edges are emitted in insertion order. The
// resulting string renders with [RenderSVG] or [RenderPNG].
func ToDOT(p *process.Process) string {
	var buf bytes.Buffer
	buf.WriteString("digraph process {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range p.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q, %s];\n", n.ID, n.Label, shapeAttrs(n.Kind))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges() {
		if e.Labeled() {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// shapeAttrs maps a node kind to DOT node attributes, mirroring the Mermaid
// shape table: rounded terminals, rectangular tasks, rhombus decisions.
// Unknown kinds fall back to the task shape.
func shapeAttrs(k process.Kind) string {
	switch k {
	case process.KindStart, process.KindEnd:
		return `shape=box, style="rounded,filled", fillcolor=lightgrey`
	case process.KindDecision:
		return "shape=diamond"
	default:
		return "shape=box"
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
