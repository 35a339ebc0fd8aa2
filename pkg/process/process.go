package process

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownNode is returned when an operation references a node ID that
	// does not exist in the process (edge endpoints, truncation anchors,
	// decision parents). Proceeding would create a dangling edge, so this is
	// never silently recovered.
	ErrUnknownNode = errors.New("unknown node")

	// ErrStartProtected is returned by [Process.RemoveNode] when the target
	// is the start node. Every process keeps exactly one start node from
	// creation until reset, enforced here rather than by caller discipline.
	ErrStartProtected = errors.New("start node cannot be removed")

	// ErrEdgeIndex is returned by [Process.RemoveEdge] when the position is
	// negative or past the end of the edge list (e.g., a stale index from a
	// UI that didn't refresh after a cascade).
	ErrEdgeIndex = errors.New("edge index out of range")
)

// Kind classifies a node in the process graph.
type Kind string

// Node kinds. The set is closed: anything else renders with the task shape
// but is never produced by the model itself.
const (
	KindStart    Kind = "start"
	KindEnd      Kind = "end"
	KindTask     Kind = "task"
	KindDecision Kind = "decision"
)

// IsValid reports whether k is one of the four known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindStart, KindEnd, KindTask, KindDecision:
		return true
	}
	return false
}

// StartNodeID is the fixed ID of the node every process is created with.
const StartNodeID = "start"

// endNodeID is the preferred ID for the node created by EnsureEnd. A fresh
// ID is generated instead when a differently-kinded node already claims it.
const endNodeID = "end"

// Branch labels emitted by AddDecision.
const (
	YesLabel = "Yes"
	NoLabel  = "No"
)

// Default labels for nodes the model creates itself.
const (
	defaultName       = "New Process"
	defaultStartLabel = "Start"
	defaultEndLabel   = "End"
	defaultYesPath    = "Yes path"
	defaultNoPath     = "No path"
)

// Node is one step in a process. ID is immutable after creation; Label is
// the only mutable field.
type Node struct {
	ID    string
	Label string
	Kind  Kind
}

// Edge is a directed, optionally labeled transition between two nodes.
// Edges have no identity beyond their content; duplicates are permitted.
type Edge struct {
	From  string
	To    string
	Label string // branch tag ("Yes"/"No"), empty for unconditional transitions
}

// Labeled reports whether the edge carries a branch label.
func (e Edge) Labeled() bool { return e.Label != "" }

// Process is the aggregate being built: a name, nodes in insertion order
// (the order doubles as the step index for edit-eligibility rules), and
// edges in insertion order.
//
// A Process owns its nodes and edges exclusively. It is not safe for
// concurrent use; callers hold exactly one logical owner at a time.
// The zero value is not usable - use [New].
type Process struct {
	Name  string
	nodes []Node
	edges []Edge
}

// New creates a process containing only the start node and no edges.
func New() *Process {
	return &Process{
		Name:  defaultName,
		nodes: []Node{{ID: StartNodeID, Label: defaultStartLabel, Kind: KindStart}},
	}
}

// Rename sets the process name.
func (p *Process) Rename(name string) { p.Name = name }

// Reset discards all nodes and edges and restores the initial state:
// the default name and a single start node.
func (p *Process) Reset() {
	*p = *New()
}

// AddNode appends a node with a freshly generated ID and returns that ID.
// Labels are not validated here - rejecting empty input is a UI concern.
func (p *Process) AddNode(label string, kind Kind) string {
	id := NewID("n")
	p.nodes = append(p.nodes, Node{ID: id, Label: label, Kind: kind})
	return id
}

// AddEdge appends a directed edge between two existing nodes. An empty
// label means an unconditional transition. Returns ErrUnknownNode if either
// endpoint does not exist; the process is unchanged on failure.
func (p *Process) AddEdge(from, to, label string) error {
	if _, ok := p.Node(from); !ok {
		return ErrUnknownNode
	}
	if _, ok := p.Node(to); !ok {
		return ErrUnknownNode
	}
	p.edges = append(p.edges, Edge{From: from, To: to, Label: label})
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not
// found. Callers routinely probe for existence, so absence is not an error.
// The returned pointer refers to the node inside the process.
func (p *Process) Node(id string) (*Node, bool) {
	for i := range p.nodes {
		if p.nodes[i].ID == id {
			return &p.nodes[i], true
		}
	}
	return nil, false
}

// NodeIndex returns the position of the node in insertion order and true,
// or 0 and false if the ID is unknown.
func (p *Process) NodeIndex(id string) (int, bool) {
	for i := range p.nodes {
		if p.nodes[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// UpdateLabel overwrites the label of the node with the given ID.
// A missing ID is a silent no-op, mirroring the permissive UI-facing
// semantics: stale selections never surface as errors.
func (p *Process) UpdateLabel(id, label string) {
	if n, ok := p.Node(id); ok {
		n.Label = label
	}
}

// RemoveNode deletes the node and cascades, removing every edge whose From
// or To equals the ID. Returns ErrStartProtected for the start node and
// leaves the process unchanged. Removing an unknown ID is a no-op.
func (p *Process) RemoveNode(id string) error {
	if id == StartNodeID {
		return ErrStartProtected
	}
	p.nodes = slices.DeleteFunc(p.nodes, func(n Node) bool { return n.ID == id })
	p.edges = slices.DeleteFunc(p.edges, func(e Edge) bool { return e.From == id || e.To == id })
	return nil
}

// RemoveEdge deletes the edge at the given position in insertion order.
// Returns ErrEdgeIndex if the position is invalid.
func (p *Process) RemoveEdge(index int) error {
	if index < 0 || index >= len(p.edges) {
		return ErrEdgeIndex
	}
	p.edges = slices.Delete(p.edges, index, index+1)
	return nil
}

// TruncateAfter removes every node positioned after the given node in
// insertion order, cascading removal of every edge touching a removed node.
// Calling it on the last node is a no-op. Returns ErrUnknownNode if the ID
// is absent.
//
// This is the mechanism behind the "edit only the last step; delete
// everything after it first" policy. The policy itself lives in the caller.
func (p *Process) TruncateAfter(id string) error {
	k, ok := p.NodeIndex(id)
	if !ok {
		return ErrUnknownNode
	}

	removed := make(map[string]bool)
	for _, n := range p.nodes[k+1:] {
		removed[n.ID] = true
	}
	p.nodes = p.nodes[:k+1]
	p.edges = slices.DeleteFunc(p.edges, func(e Edge) bool { return removed[e.From] || removed[e.To] })
	return nil
}

// EnsureEnd returns the ID of the end node, creating one if the process has
// none. The first end-kind node in insertion order wins. A new end node
// prefers the literal "end" ID; if a differently-kinded node already
// occupies it, a generated ID is used instead.
func (p *Process) EnsureEnd() string {
	for i := range p.nodes {
		if p.nodes[i].Kind == KindEnd {
			return p.nodes[i].ID
		}
	}
	if _, taken := p.Node(endNodeID); taken {
		return p.AddNode(defaultEndLabel, KindEnd)
	}
	p.nodes = append(p.nodes, Node{ID: endNodeID, Label: defaultEndLabel, Kind: KindEnd})
	return endNodeID
}

// AddDecision atomically creates a decision node attached after parentID
// plus its two branches: an unlabeled edge from the parent to the decision,
// and two task nodes reached from the decision via "Yes"/"No" labeled
// edges. Empty branch labels fall back to placeholder labels.
//
// Returns the decision node's ID, or ErrUnknownNode if the parent does not
// exist - in which case the process is unchanged (no partial decision
// trees).
func (p *Process) AddDecision(parentID, label, yesLabel, noLabel string) (string, error) {
	if _, ok := p.Node(parentID); !ok {
		return "", ErrUnknownNode
	}
	if yesLabel == "" {
		yesLabel = defaultYesPath
	}
	if noLabel == "" {
		noLabel = defaultNoPath
	}

	decID := p.AddNode(label, KindDecision)
	p.edges = append(p.edges, Edge{From: parentID, To: decID})

	yesID := p.AddNode(yesLabel, KindTask)
	p.edges = append(p.edges, Edge{From: decID, To: yesID, Label: YesLabel})

	noID := p.AddNode(noLabel, KindTask)
	p.edges = append(p.edges, Edge{From: decID, To: noID, Label: NoLabel})

	return decID, nil
}

// Nodes returns a copy of the node list in insertion order.
func (p *Process) Nodes() []Node { return slices.Clone(p.nodes) }

// Edges returns a copy of the edge list in insertion order.
func (p *Process) Edges() []Edge { return slices.Clone(p.edges) }

// NodeCount returns the number of nodes.
func (p *Process) NodeCount() int { return len(p.nodes) }

// EdgeCount returns the number of edges.
func (p *Process) EdgeCount() int { return len(p.edges) }

// Children returns the IDs of nodes this node has edges to, in edge
// insertion order. Duplicate edges yield duplicate entries.
func (p *Process) Children(id string) []string {
	var out []string
	for _, e := range p.edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// Parents returns the IDs of nodes that have edges to this node, in edge
// insertion order.
func (p *Process) Parents(id string) []string {
	var out []string
	for _, e := range p.edges {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	return out
}

// Adopt replaces the process content with the given name, nodes, and edges,
// exactly as provided. This is the load path of the document codec: the
// structure is trusted as-is and invariants are not re-checked, matching
// the permissive behavior documents have always relied on.
func (p *Process) Adopt(name string, nodes []Node, edges []Edge) {
	p.Name = name
	p.nodes = slices.Clone(nodes)
	p.edges = slices.Clone(edges)
}
