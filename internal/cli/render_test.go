package cli

import (
	"strings"
	"testing"

	"github.com/procflow/procflow/pkg/process"
)

func TestValidateFormat(t *testing.T) {
	for _, format := range validFormats {
		if err := validateFormat(format); err != nil {
			t.Errorf("validateFormat(%q) = %v, want nil", format, err)
		}
	}

	if err := validateFormat("pdf"); err == nil {
		t.Error("validateFormat(pdf) should fail")
	}
	if err := validateFormat(""); err == nil {
		t.Error("validateFormat(\"\") should fail")
	}
}

func TestTextFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{FormatMermaid, true},
		{FormatJSON, true},
		{FormatDOT, true},
		{FormatSVG, false},
		{FormatPNG, false},
	}
	for _, tt := range tests {
		if got := textFormat(tt.format); got != tt.want {
			t.Errorf("textFormat(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestProjectText(t *testing.T) {
	p := process.New()
	id := p.AddNode("Review", process.KindTask)
	if err := p.AddEdge(process.StartNodeID, id, ""); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	t.Run("Mermaid", func(t *testing.T) {
		text, err := projectText(p, FormatMermaid)
		if err != nil {
			t.Fatalf("projectText: %v", err)
		}
		if !strings.HasPrefix(text, "flowchart TD") {
			t.Errorf("mermaid output missing directive:\n%s", text)
		}
		if !strings.HasSuffix(text, "\n") {
			t.Error("text output should end with a newline")
		}
	})

	t.Run("DOT", func(t *testing.T) {
		text, err := projectText(p, FormatDOT)
		if err != nil {
			t.Fatalf("projectText: %v", err)
		}
		if !strings.Contains(text, "digraph") {
			t.Errorf("dot output missing digraph:\n%s", text)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		text, err := projectText(p, FormatJSON)
		if err != nil {
			t.Fatalf("projectText: %v", err)
		}
		if !strings.Contains(text, `"nodes"`) || !strings.Contains(text, `"edges"`) {
			t.Errorf("json output missing document keys:\n%s", text)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, err := projectText(p, FormatSVG); err == nil {
			t.Error("projectText(svg) should fail, svg is not a text format")
		}
	})
}
