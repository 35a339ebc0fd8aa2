package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/procflow/procflow/pkg/process"
)

// ErrMalformedDocument is returned when the input is not a JSON object
// containing both a "nodes" and an "edges" key. This is the full extent of
// schema validation on load; see the package documentation.
var ErrMalformedDocument = errors.New("malformed document: missing nodes or edges")

// Document is the canonical serialization format for a process. It is a
// lossless round-trip representation: serialize then deserialize yields an
// identical process.
type Document struct {
	Name  string `json:"name" bson:"name"`
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is the wire form of a process node.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
	Kind  string `json:"kind" bson:"kind"`
}

// Edge is the wire form of a process edge. Label is omitted for
// unconditional transitions.
type Edge struct {
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
}

// FromProcess converts a process into its serialization format, preserving
// node and edge insertion order.
func FromProcess(p *process.Process) Document {
	nodes := p.Nodes()
	edges := p.Edges()

	doc := Document{
		Name:  p.Name,
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		doc.Nodes[i] = Node{ID: n.ID, Label: n.Label, Kind: string(n.Kind)}
	}
	for i, e := range edges {
		doc.Edges[i] = Edge{From: e.From, To: e.To, Label: e.Label}
	}
	return doc
}

// ToProcess converts a document into a process. The content is adopted
// as-is: field values and graph invariants are not re-validated, matching
// the permissive load behavior existing documents rely on. An edge
// referencing a missing node is accepted silently.
func ToProcess(doc Document) *process.Process {
	nodes := make([]process.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = process.Node{ID: n.ID, Label: n.Label, Kind: process.Kind(n.Kind)}
	}
	edges := make([]process.Edge, len(doc.Edges))
	for i, e := range doc.Edges {
		edges[i] = process.Edge{From: e.From, To: e.To, Label: e.Label}
	}

	p := process.New()
	p.Adopt(doc.Name, nodes, edges)
	return p
}

// Marshal serializes a process to indented JSON bytes.
func Marshal(p *process.Process) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes a process as JSON to w.
func Write(p *process.Process, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromProcess(p)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a process to a JSON file at path.
func WriteFile(p *process.Process, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(p, f)
}

// Read decodes a process document from r.
//
// The only structural requirement is that the top level is a JSON object
// with "nodes" and "edges" keys; anything else fails with
// ErrMalformedDocument. Field-level types inside nodes and edges are not
// checked. Decoding never touches a caller's current process - on failure
// the caller keeps what it had.
func Read(r io.Reader) (*process.Process, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// ReadFile reads a JSON file at path and returns the decoded process.
func ReadFile(path string) (*process.Process, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Unmarshal decodes a process document from JSON bytes.
func Unmarshal(data []byte) (*process.Process, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		// Valid JSON of the wrong shape (array, string, number) is a
		// malformed document; only syntactically broken input keeps the
		// raw decode error.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrMalformedDocument
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if _, ok := probe["nodes"]; !ok {
		return nil, ErrMalformedDocument
	}
	if _, ok := probe["edges"]; !ok {
		return nil, ErrMalformedDocument
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToProcess(doc), nil
}
