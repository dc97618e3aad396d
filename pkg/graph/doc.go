// Package graph implements the diagram store: nodes, connections, selection,
// the atomic direction-swap operation, and the consistency scan.
package graph
