// Package mermaid projects a process graph into Mermaid flowchart markup.
//
// The projection is a pure function of the process content: the same nodes
// and edges in the same order produce byte-identical output. Any engine
// that accepts Mermaid's flowchart dialect can consume the result.
package mermaid

import (
	"fmt"
	"strings"

	"github.com/procflow/procflow/pkg/process"
)

// Directive is the first line of every rendered diagram (top-down layout).
const Directive = "flowchart TD"

// Render converts a process into Mermaid flowchart markup. Nodes and edges
// appear in insertion order, one indented line each, after the directive.
//
// Shapes follow the node kind: start and end nodes are rounded, tasks are
// rectangular, decisions are rhombi. Unknown kinds fall back to the task
// shape rather than failing, so a permissively loaded document still
// renders.
//
// Newlines inside node and edge labels collapse to single spaces - Mermaid
// labels cannot span lines. No other escaping is performed: labels containing
// markup-significant characters (pipes, brackets) are emitted verbatim and
// may confuse the downstream renderer. That mirrors the documents users
// already have, so it is a documented limitation rather than something to
// fix here.
func Render(p *process.Process) string {
	var sb strings.Builder
	sb.WriteString(Directive)

	for _, n := range p.Nodes() {
		sb.WriteString("\n    ")
		sb.WriteString(nodeLine(n))
	}
	for _, e := range p.Edges() {
		sb.WriteString("\n    ")
		sb.WriteString(edgeLine(e))
	}

	return sb.String()
}

func nodeLine(n process.Node) string {
	label := strings.ReplaceAll(n.Label, "\n", " ")
	switch n.Kind {
	case process.KindStart, process.KindEnd:
		return fmt.Sprintf("%s([%s])", n.ID, label)
	case process.KindDecision:
		return fmt.Sprintf("%s{%s}", n.ID, label)
	default: // task and anything unrecognized
		return fmt.Sprintf("%s[%s]", n.ID, label)
	}
}

func edgeLine(e process.Edge) string {
	if e.Labeled() {
		label := strings.ReplaceAll(e.Label, "\n", " ")
		return fmt.Sprintf("%s -->|%s| %s", e.From, label, e.To)
	}
	return fmt.Sprintf("%s --> %s", e.From, e.To)
}
