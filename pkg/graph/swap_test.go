package graph

import "testing"

func TestSwapConnection(t *testing.T) {
	s := newTestStore()
	n1 := s.AddNode(NodeUsecase, Position{X: 0, Y: 0})
	n2 := s.AddNode(NodeScreen, Position{X: 200, Y: 0})
	c := s.AddConnection(n1, n2, ConnData)

	if !s.SwapConnection(c) {
		t.Fatal("swap failed")
	}

	conn := s.Connection(c)
	if conn.SourceNodeID != n2 || conn.TargetNodeID != n1 {
		t.Errorf("endpoints = %s -> %s, want %s -> %s", conn.SourceNodeID, conn.TargetNodeID, n2, n1)
	}

	// Both new anchors must resolve to the edge's source-role id: only
	// source-role anchors are rendered as connector points.
	if conn.SourceHandle != "left-source" {
		t.Errorf("source handle = %q, want left-source", conn.SourceHandle)
	}
	if conn.TargetHandle != "right-source" {
		t.Errorf("target handle = %q, want right-source", conn.TargetHandle)
	}

	// Adjacency caches flipped on both ends.
	if in := s.Node(n1).Connections.Inputs; len(in) != 1 || in[0] != n2 {
		t.Errorf("old source inputs = %v", in)
	}
	if out := s.Node(n1).Connections.Outputs; len(out) != 0 {
		t.Errorf("old source outputs = %v", out)
	}
	if out := s.Node(n2).Connections.Outputs; len(out) != 1 || out[0] != n1 {
		t.Errorf("old target outputs = %v", out)
	}
	if res := s.ValidateConnections(); !res.Valid {
		t.Errorf("state inconsistent after swap: %v", res.Errors)
	}
}

func TestSwapConnectionTwiceIsIdentityOnEndpoints(t *testing.T) {
	s := newTestStore()
	n1 := s.AddNode(NodeProcess, Position{})
	n2 := s.AddNode(NodeStorage, Position{X: 200})
	c := s.AddConnection(n1, n2, ConnDependency)

	if !s.SwapConnection(c) || !s.SwapConnection(c) {
		t.Fatal("double swap failed")
	}

	conn := s.Connection(c)
	if conn.SourceNodeID != n1 || conn.TargetNodeID != n2 {
		t.Errorf("double swap is not its own inverse: %s -> %s", conn.SourceNodeID, conn.TargetNodeID)
	}

	// Handles are re-derived from edge positions each time, not
	// round-tripped: the original left-target became left-source.
	if conn.SourceHandle != "right-source" {
		t.Errorf("source handle = %q, want right-source", conn.SourceHandle)
	}
	if conn.TargetHandle != "left-source" {
		t.Errorf("target handle = %q, want left-source", conn.TargetHandle)
	}
}

func TestSwapConnectionCustomAnchors(t *testing.T) {
	s := newTestStore()
	n1 := s.AddNode(NodeEvent, Position{})
	n2 := s.AddNode(NodeQueue, Position{Y: 200})
	c := s.AddConnection(n1, n2, ConnData)

	src := SourceAnchor(HandleBottom)
	tgt := TargetAnchor(HandleTop)
	s.UpdateConnection(c, ConnectionUpdate{SourceHandle: &src, TargetHandle: &tgt})

	if !s.SwapConnection(c) {
		t.Fatal("swap failed")
	}

	conn := s.Connection(c)
	if conn.SourceHandle != "top-source" {
		t.Errorf("source handle = %q, want top-source (old target edge, source role)", conn.SourceHandle)
	}
	if conn.TargetHandle != "bottom-source" {
		t.Errorf("target handle = %q, want bottom-source (old source edge, source role)", conn.TargetHandle)
	}
}

func TestSwapConnectionMissingID(t *testing.T) {
	s := newTestStore()
	n1 := s.AddNode(NodeUsecase, Position{})
	n2 := s.AddNode(NodeScreen, Position{X: 200})
	s.AddConnection(n1, n2, ConnData)

	if s.SwapConnection("nope") {
		t.Error("swap of a missing connection must fail")
	}
	// And it must fail without side effects.
	if out := s.Node(n1).Connections.Outputs; len(out) != 1 || out[0] != n2 {
		t.Errorf("adjacency disturbed by failed swap: %v", out)
	}
}

func TestSwapWithParallelConnectionOfOtherType(t *testing.T) {
	s := newTestStore()
	a := s.AddNode(NodeProcess, Position{})
	b := s.AddNode(NodeStorage, Position{X: 200})
	cData := s.AddConnection(a, b, ConnData)
	s.AddConnection(a, b, ConnControl)

	if !s.SwapConnection(cData) {
		t.Fatal("swap failed")
	}

	// The control connection still runs a -> b, so a keeps b in its
	// outputs while also gaining it as an input.
	aAdj := s.Node(a).Connections
	if len(aAdj.Outputs) != 1 || aAdj.Outputs[0] != b {
		t.Errorf("a outputs = %v, want [%s]", aAdj.Outputs, b)
	}
	if len(aAdj.Inputs) != 1 || aAdj.Inputs[0] != b {
		t.Errorf("a inputs = %v, want [%s]", aAdj.Inputs, b)
	}
	if res := s.ValidateConnections(); !res.Valid {
		t.Errorf("adjacency drifted: %v", res.Errors)
	}
}
