package graph

import "fmt"

// ValidationError describes a single consistency finding.
type ValidationError struct {
	ConnectionID ConnectionID // offending connection (zero if node-level)
	NodeID       NodeID       // referenced node, when relevant
	Message      string
}

func (e ValidationError) Error() string {
	if e.ConnectionID.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("connection %s: %s", e.ConnectionID, e.Message)
}

// ValidationResult bundles the outcome of a consistency scan.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidateConnections scans every connection and reports one error per
// dangling endpoint (an endpoint id not present among current nodes), plus
// any adjacency-cache drift. It is a read-only diagnostic and never repairs
// anything.
func (s *Store) ValidateConnections() ValidationResult {
	var errs []ValidationError

	for _, cid := range s.connOrder {
		c := s.connections[cid]
		if _, ok := s.nodes[c.SourceNodeID]; !ok {
			errs = append(errs, ValidationError{
				ConnectionID: cid,
				NodeID:       c.SourceNodeID,
				Message:      fmt.Sprintf("source node %s does not exist", c.SourceNodeID),
			})
		}
		if _, ok := s.nodes[c.TargetNodeID]; !ok {
			errs = append(errs, ValidationError{
				ConnectionID: cid,
				NodeID:       c.TargetNodeID,
				Message:      fmt.Sprintf("target node %s does not exist", c.TargetNodeID),
			})
		}
	}

	errs = append(errs, s.validateAdjacency()...)

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// validateAdjacency cross-checks every node's cached inputs/outputs against
// the connection list. Drift here means a mutation path skipped cache
// maintenance; it is a bug class, not an expected runtime condition.
func (s *Store) validateAdjacency() []ValidationError {
	var errs []ValidationError

	for _, id := range s.nodeOrder {
		n := s.nodes[id]

		wantIn := make(map[NodeID]bool)
		wantOut := make(map[NodeID]bool)
		for _, cid := range s.connOrder {
			c := s.connections[cid]
			if c.TargetNodeID == id {
				wantIn[c.SourceNodeID] = true
			}
			if c.SourceNodeID == id {
				wantOut[c.TargetNodeID] = true
			}
		}

		if !sameIDSet(n.Connections.Inputs, wantIn) {
			errs = append(errs, ValidationError{
				NodeID:  id,
				Message: fmt.Sprintf("node %s: cached inputs %v do not mirror connection list", id, n.Connections.Inputs),
			})
		}
		if !sameIDSet(n.Connections.Outputs, wantOut) {
			errs = append(errs, ValidationError{
				NodeID:  id,
				Message: fmt.Sprintf("node %s: cached outputs %v do not mirror connection list", id, n.Connections.Outputs),
			})
		}
	}

	return errs
}

func sameIDSet(ids []NodeID, want map[NodeID]bool) bool {
	if len(ids) != len(want) {
		return false
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
	}
	return true
}
