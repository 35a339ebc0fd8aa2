// Package process implements the process graph model behind the guided
// flowchart builder: an ordered node list, an edge list, and the mutation
// rules that keep them structurally consistent.
//
// # Model
//
// A [Process] holds nodes in insertion order (the order is the step index
// used by edit-eligibility rules) and directed, optionally labeled edges.
// Node kinds form a closed set: start, end, task, decision.
//
// Two invariants hold at all times:
//
//   - The start node exists from creation until [Process.Reset] and can
//     never be removed through mutation operations.
//   - Every edge's endpoints reference existing nodes at the moment the
//     edge is created, and node removal cascades to dependent edges, so no
//     dangling edge is ever observable.
//
// # Usage
//
//	p := process.New()
//	review := p.AddNode("Review request", process.KindTask)
//	p.AddEdge(process.StartNodeID, review, "")
//	p.AddDecision(review, "Approved?", "Proceed", "Rework")
//
// Failed operations leave the process untouched; callers surface the error
// and let the user retry. Errors are sentinels compatible with errors.Is.
//
// # Concurrency
//
// All operations are synchronous in-memory mutations. A Process has exactly
// one logical owner at a time and is not safe for concurrent use.
package process
