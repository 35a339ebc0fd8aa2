package mermaid_test

import (
	"strings"
	"testing"

	"github.com/procflow/procflow/pkg/mermaid"
	"github.com/procflow/procflow/pkg/process"
)

func TestRenderShapes(t *testing.T) {
	p := process.New()
	task := p.AddNode("Review", process.KindTask)
	dec := p.AddNode("Approved?", process.KindDecision)
	end := p.EnsureEnd()

	got := mermaid.Render(p)

	wantLines := []string{
		"flowchart TD",
		"    start([Start])",
		"    " + task + "[Review]",
		"    " + dec + "{Approved?}",
		"    " + end + "([End])",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line) {
			t.Errorf("output missing line %q\n%s", line, got)
		}
	}
}

func TestRenderEdges(t *testing.T) {
	p := process.New()
	n1 := p.AddNode("Review", process.KindTask)
	p.AddEdge(process.StartNodeID, n1, "")
	dec, _ := p.AddDecision(n1, "Approved?", "Proceed", "Rework")

	got := mermaid.Render(p)

	if want := "    start --> " + n1; !strings.Contains(got, want) {
		t.Errorf("missing unlabeled edge %q\n%s", want, got)
	}
	if !strings.Contains(got, dec+" -->|Yes| ") {
		t.Errorf("missing Yes branch edge\n%s", got)
	}
	if !strings.Contains(got, dec+" -->|No| ") {
		t.Errorf("missing No branch edge\n%s", got)
	}
}

func TestRenderOrder(t *testing.T) {
	// Node lines come first in insertion order, then edge lines in
	// insertion order; edges are not grouped by source.
	p := process.New()
	a := p.AddNode("A", process.KindTask)
	b := p.AddNode("B", process.KindTask)
	p.AddEdge(a, b, "")
	p.AddEdge(process.StartNodeID, a, "")

	lines := strings.Split(mermaid.Render(p), "\n")
	want := []string{
		"flowchart TD",
		"    start([Start])",
		"    " + a + "[A]",
		"    " + b + "[B]",
		"    " + a + " --> " + b,
		"    start --> " + a,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	p := process.New()
	n1 := p.AddNode("Review", process.KindTask)
	p.AddEdge(process.StartNodeID, n1, "")
	p.AddDecision(n1, "Approved?", "", "")

	first := mermaid.Render(p)
	second := mermaid.Render(p)
	if first != second {
		t.Error("Render is not deterministic for an unchanged process")
	}
}

func TestRenderCollapsesLabelNewlines(t *testing.T) {
	p := process.New()
	id := p.AddNode("Check\ndocuments", process.KindTask)
	if err := p.AddEdge(process.StartNodeID, id, "documents\nmissing"); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	got := mermaid.Render(p)
	if want := id + "[Check documents]"; !strings.Contains(got, want) {
		t.Errorf("node newline not collapsed, output:\n%s", got)
	}
	if want := "-->|documents missing|"; !strings.Contains(got, want) {
		t.Errorf("edge newline not collapsed, output:\n%s", got)
	}
}

func TestRenderUnknownKindFallsBack(t *testing.T) {
	p := process.New()
	p.Adopt(p.Name, append(p.Nodes(), process.Node{ID: "x1", Label: "Odd", Kind: "subprocess"}), nil)

	got := mermaid.Render(p)
	if !strings.Contains(got, "x1[Odd]") {
		t.Errorf("unknown kind did not fall back to task shape:\n%s", got)
	}
}

func TestRenderLeavesMarkupCharsVerbatim(t *testing.T) {
	p := process.New()
	id := p.AddNode("a|b", process.KindTask)

	got := mermaid.Render(p)
	if !strings.Contains(got, id+"[a|b]") {
		t.Errorf("markup characters were escaped, output:\n%s", got)
	}
}
