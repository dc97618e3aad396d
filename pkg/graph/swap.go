package graph

// SwapConnection reverses a connection's direction as a single atomic state
// transition and reports whether it succeeded.
//
// The new anchors are re-derived from the old anchors' positions, not
// round-tripped: each old handle contributes only its edge (top/right/
// bottom/left), and both new handles resolve to that edge's source-role id.
// Only source-role anchors are ever rendered as visible connector points;
// target-role anchors are invisible full-node drop zones, so a swapped
// connection must never end up pointing at one.
//
// Endpoint swap and handle reassignment are applied in one combined write so
// no reader can observe a transient half-swapped connection. After the
// write, both endpoints' adjacency caches are fixed up, and the final state
// is verified; a verification failure is reported as false and signals a
// corrupted intermediate state the caller should surface to the user.
func (s *Store) SwapConnection(id ConnectionID) bool {
	c, ok := s.connections[id]
	if !ok {
		return false
	}

	srcPos := handlePositionOrDefault(c.SourceHandle, HandleRight)
	tgtPos := handlePositionOrDefault(c.TargetHandle, HandleLeft)

	oldSource, oldTarget := c.SourceNodeID, c.TargetNodeID

	// One combined update: endpoints and both re-derived handles together.
	c.SourceNodeID = oldTarget
	c.TargetNodeID = oldSource
	c.SourceHandle = SourceAnchor(tgtPos)
	c.TargetHandle = SourceAnchor(srcPos)

	// The old source now receives this connection, the old target emits
	// it. Rebuilt from the connection list rather than edited in place: a
	// second connection of another type between the same pair must keep
	// its contribution to both caches.
	s.rebuildAdjacency(oldSource)
	s.rebuildAdjacency(oldTarget)

	// Post-condition: the connection must still exist with the swapped
	// endpoints. There is no rollback path; a failure here means state
	// corruption and the caller must alert the user.
	after, ok := s.connections[id]
	if !ok || after.SourceNodeID != oldTarget || after.TargetNodeID != oldSource {
		return false
	}
	return true
}

// handlePositionOrDefault extracts the edge component of a handle id,
// falling back to the given default when the id does not parse.
func handlePositionOrDefault(h HandleID, def HandlePosition) HandlePosition {
	p, _, err := ParseHandle(h)
	if err != nil {
		return def
	}
	return p
}
