package document_test

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/procflow/procflow/pkg/document"
	"github.com/procflow/procflow/pkg/process"
)

func buildProcess(t *testing.T) *process.Process {
	t.Helper()
	p := process.New()
	p.Rename("Invoice Approval")
	review := p.AddNode("Review invoice", process.KindTask)
	if err := p.AddEdge(process.StartNodeID, review, ""); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := p.AddDecision(review, "Amount ok?", "Approve", "Reject"); err != nil {
		t.Fatalf("AddDecision: %v", err)
	}
	end := p.EnsureEnd()
	if err := p.AddEdge(review, end, ""); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return p
}

func TestRoundTrip(t *testing.T) {
	p := buildProcess(t)

	data, err := document.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := document.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Name != p.Name {
		t.Errorf("Name = %q, want %q", got.Name, p.Name)
	}
	if !reflect.DeepEqual(got.Nodes(), p.Nodes()) {
		t.Errorf("nodes differ:\ngot  %+v\nwant %+v", got.Nodes(), p.Nodes())
	}
	if !reflect.DeepEqual(got.Edges(), p.Edges()) {
		t.Errorf("edges differ:\ngot  %+v\nwant %+v", got.Edges(), p.Edges())
	}
}

func TestFileRoundTrip(t *testing.T) {
	p := buildProcess(t)
	path := filepath.Join(t.TempDir(), "invoice.json")

	if err := document.WriteFile(p, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := document.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Name != p.Name || got.NodeCount() != p.NodeCount() || got.EdgeCount() != p.EdgeCount() {
		t.Errorf("round trip mismatch: %q %d/%d vs %q %d/%d",
			got.Name, got.NodeCount(), got.EdgeCount(), p.Name, p.NodeCount(), p.EdgeCount())
	}
}

func TestUnmarshalSchemaCheck(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:  "Minimal",
			input: `{"nodes": [], "edges": []}`,
		},
		{
			name:    "MissingEdges",
			input:   `{"name": "x", "nodes": []}`,
			wantErr: document.ErrMalformedDocument,
		},
		{
			name:    "MissingNodes",
			input:   `{"name": "x", "edges": []}`,
			wantErr: document.ErrMalformedDocument,
		},
		{
			name:    "MissingBoth",
			input:   `{"name": "x"}`,
			wantErr: document.ErrMalformedDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := document.Unmarshal([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Unmarshal = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnmarshalNotAnObject(t *testing.T) {
	// Valid JSON that is not an object fails the schema check the same way
	// missing keys do.
	for _, input := range []string{`[]`, `"text"`, `42`} {
		_, err := document.Unmarshal([]byte(input))
		if !errors.Is(err, document.ErrMalformedDocument) {
			t.Errorf("Unmarshal(%q) = %v, want ErrMalformedDocument", input, err)
		}
	}

	// Broken JSON keeps the decode error instead.
	_, err := document.Unmarshal([]byte(`{broken`))
	if err == nil {
		t.Fatal("Unmarshal({broken) succeeded, want error")
	}
	if errors.Is(err, document.ErrMalformedDocument) {
		t.Errorf("Unmarshal({broken) = %v, want a plain decode error", err)
	}
}

func TestUnmarshalTrustsContent(t *testing.T) {
	// Referential integrity is not re-validated on load: an edge pointing
	// at a missing node is adopted silently.
	input := `{
	  "name": "Corrupted",
	  "nodes": [{"id": "start", "label": "Start", "kind": "start"}],
	  "edges": [{"from": "start", "to": "ghost"}]
	}`

	p, err := document.Unmarshal([]byte(input))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", p.EdgeCount())
	}
}

func TestMarshalOmitsEmptyEdgeLabel(t *testing.T) {
	p := process.New()
	n1 := p.AddNode("A", process.KindTask)
	p.AddEdge(process.StartNodeID, n1, "")

	data, err := document.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw struct {
		Edges []map[string]any `json:"edges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(raw.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(raw.Edges))
	}
	if _, ok := raw.Edges[0]["label"]; ok {
		t.Errorf("unlabeled edge serialized a label field: %v", raw.Edges[0])
	}
}

func TestFailedLoadLeavesCallerStateAlone(t *testing.T) {
	// Read returns a fresh process or an error; it never mutates anything
	// the caller holds. Verify the error path yields no process at all.
	p, err := document.Read(strings.NewReader(`{"nodes": []}`))
	if err == nil {
		t.Fatal("Read accepted a document without edges")
	}
	if p != nil {
		t.Errorf("Read returned a process alongside an error: %+v", p)
	}
}
