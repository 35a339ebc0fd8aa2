// Package document serializes process graphs to and from their JSON
// document format.
//
// The wire shape is the save/load interoperability contract:
//
//	{
//	  "name": "Invoice Approval",
//	  "nodes": [{"id": "start", "label": "Start", "kind": "start"}],
//	  "edges": [{"from": "start", "to": "n_3f8a1c09", "label": "Yes"}]
//	}
//
// Loading performs a minimal schema check only: the top level must be an
// object with "nodes" and "edges" keys. Field types inside nodes and edges
// are not validated, and graph invariants are not re-checked - a document
// whose edges reference missing nodes is adopted silently. Tightening this
// would reject documents that have always loaded, so the permissive
// behavior is kept deliberately.
//
// Loading is an atomic swap: either the whole document parses and becomes
// the new process, or the caller's current process is left untouched.
package document
