package graph

import (
	"fmt"
	"testing"
	"time"
)

// newTestStore returns a store with a deterministic clock and sequential
// ids (n1, n2, ...).
func newTestStore() *Store {
	seq := 0
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewStore(
		WithClock(func() time.Time {
			seq++
			return base.Add(time.Duration(seq) * time.Second)
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
}

func TestAddNodeDefaults(t *testing.T) {
	s := newTestStore()

	tests := []struct {
		kind      NodeType
		wantTitle string
		checkData func(NodeData) bool
	}{
		{NodeProcess, "New Process", func(d NodeData) bool {
			p, ok := d.(ProcessData)
			return ok && p.ProcessType == "computation"
		}},
		{NodeStorage, "New Storage", func(d NodeData) bool {
			p, ok := d.(StorageData)
			return ok && p.StorageType == "database"
		}},
		{NodeActor, "New Actor", func(d NodeData) bool {
			p, ok := d.(ActorData)
			return ok && p.ActorType == "user"
		}},
	}

	for _, tc := range tests {
		id := s.AddNode(tc.kind, Position{X: 10, Y: 20})
		n := s.Node(id)
		if n == nil {
			t.Fatalf("%s: node not stored", tc.kind)
		}
		if n.Title != tc.wantTitle {
			t.Errorf("%s: title = %q, want %q", tc.kind, n.Title, tc.wantTitle)
		}
		if !tc.checkData(n.Data) {
			t.Errorf("%s: wrong default payload %#v", tc.kind, n.Data)
		}
		if n.Selected {
			t.Errorf("%s: new nodes must not be auto-selected", tc.kind)
		}
		if !n.Valid {
			t.Errorf("%s: new nodes should start valid", tc.kind)
		}
		if n.CreatedAt.IsZero() || !n.CreatedAt.Equal(n.UpdatedAt) {
			t.Errorf("%s: timestamps not stamped on create", tc.kind)
		}
	}
}

func TestUpdateNode(t *testing.T) {
	s := newTestStore()
	id := s.AddNode(NodeUsecase, Position{})
	created := s.Node(id).UpdatedAt

	title := "Checkout"
	desc := "places an order"
	s.UpdateNode(id, NodeUpdate{
		Title:       &title,
		Description: &desc,
		Metadata:    map[string]any{"owner": "payments"},
	})

	n := s.Node(id)
	if n.Title != "Checkout" || n.Description != "places an order" {
		t.Errorf("merge failed: %q / %q", n.Title, n.Description)
	}
	if n.Metadata["owner"] != "payments" {
		t.Errorf("metadata merge failed: %v", n.Metadata)
	}
	if n.Type != NodeUsecase {
		t.Errorf("type must survive updates")
	}
	if !n.UpdatedAt.After(created) {
		t.Error("UpdatedAt not stamped")
	}

	// Missing id is a silent no-op, not a panic or error.
	s.UpdateNode("nope", NodeUpdate{Title: &title})
}

func TestDeleteNodeCascades(t *testing.T) {
	s := newTestStore()
	a := s.AddNode(NodeUsecase, Position{})
	b := s.AddNode(NodeScreen, Position{X: 200})
	c := s.AddNode(NodeProcess, Position{X: 400})
	s.AddConnection(a, b, ConnData)
	s.AddConnection(b, c, ConnData)
	s.SelectNode(b)

	s.DeleteNode(b)

	if s.Node(b) != nil {
		t.Fatal("node not deleted")
	}
	if s.ConnectionCount() != 0 {
		t.Errorf("incident connections not cascaded, %d left", s.ConnectionCount())
	}
	if len(s.SelectedIDs()) != 0 {
		t.Errorf("deleted node still selected: %v", s.SelectedIDs())
	}
	if res := s.ValidateConnections(); !res.Valid {
		t.Errorf("dangling state after cascade: %v", res.Errors)
	}
	if got := s.Node(a).Connections; len(got.Inputs)+len(got.Outputs) != 0 {
		t.Errorf("a's adjacency not cleaned: %+v", got)
	}

	// Missing id is a no-op.
	s.DeleteNode("nope")
}

func TestAddConnectionDefaults(t *testing.T) {
	s := newTestStore()
	n1 := s.AddNode(NodeUsecase, Position{X: 0, Y: 0})
	n2 := s.AddNode(NodeScreen, Position{X: 200, Y: 0})

	c := s.AddConnection(n1, n2, ConnData)
	if c.IsZero() {
		t.Fatal("AddConnection returned zero id")
	}

	conn := s.Connection(c)
	if conn.Metadata.Color != "#3b82f6" {
		t.Errorf("color = %q, want data-type default blue", conn.Metadata.Color)
	}
	if conn.Metadata.LineStyle != LineSolid {
		t.Errorf("lineStyle = %v, want solid", conn.Metadata.LineStyle)
	}
	if conn.SourceHandle != "right-source" || conn.TargetHandle != "left-target" {
		t.Errorf("default anchors = %q -> %q", conn.SourceHandle, conn.TargetHandle)
	}

	// Adjacency caches updated on both ends.
	if out := s.Node(n1).Connections.Outputs; len(out) != 1 || out[0] != n2 {
		t.Errorf("source outputs = %v", out)
	}
	if in := s.Node(n2).Connections.Inputs; len(in) != 1 || in[0] != n1 {
		t.Errorf("target inputs = %v", in)
	}

	// Missing endpoints yield the zero id, no side effects.
	if got := s.AddConnection(n1, "nope", ConnData); !got.IsZero() {
		t.Errorf("connection to missing node created: %s", got)
	}
	if got := s.AddConnection("nope", n2, ConnData); !got.IsZero() {
		t.Errorf("connection from missing node created: %s", got)
	}
}

func TestUpdateConnection(t *testing.T) {
	s := newTestStore()
	a := s.AddNode(NodeProcess, Position{})
	b := s.AddNode(NodeStorage, Position{X: 200})
	c := s.AddConnection(a, b, ConnControl)

	label := "writes"
	animated := true
	thickness := 4.0
	prio := PriorityCritical
	srcHandle := SourceAnchor(HandleBottom)
	s.UpdateConnection(c, ConnectionUpdate{
		Label:        &label,
		Animated:     &animated,
		SourceHandle: &srcHandle,
		Metadata: &MetadataUpdate{
			Thickness: &thickness,
			Priority:  &prio,
		},
	})

	conn := s.Connection(c)
	if conn.Label != "writes" || !conn.Animated {
		t.Errorf("label/animated merge failed: %+v", conn)
	}
	if conn.SourceHandle != "bottom-source" {
		t.Errorf("handle merge failed: %q", conn.SourceHandle)
	}
	if conn.Metadata.Thickness != 4 || conn.Metadata.Priority != PriorityCritical {
		t.Errorf("metadata merge failed: %+v", conn.Metadata)
	}
	// Untouched fields keep their type-derived defaults.
	if conn.Metadata.Color != "#f97316" || conn.Metadata.LineStyle != LineDashed {
		t.Errorf("unrelated metadata clobbered: %+v", conn.Metadata)
	}

	// Missing id is a silent no-op.
	s.UpdateConnection("nope", ConnectionUpdate{Label: &label})
}

func TestDeleteConnectionCleansAdjacency(t *testing.T) {
	s := newTestStore()
	a := s.AddNode(NodeUsecase, Position{})
	b := s.AddNode(NodeScreen, Position{X: 200})
	c1 := s.AddConnection(a, b, ConnData)
	c2 := s.AddConnection(a, b, ConnControl)

	s.DeleteConnection(c1)

	// The control connection still links the pair, so adjacency survives.
	if out := s.Node(a).Connections.Outputs; len(out) != 1 || out[0] != b {
		t.Errorf("outputs after partial delete = %v", out)
	}

	s.DeleteConnection(c2)
	if out := s.Node(a).Connections.Outputs; len(out) != 0 {
		t.Errorf("outputs after full delete = %v", out)
	}
	if in := s.Node(b).Connections.Inputs; len(in) != 0 {
		t.Errorf("inputs after full delete = %v", in)
	}
}

func TestAdjacencyMirrorsConnections(t *testing.T) {
	s := newTestStore()
	a := s.AddNode(NodeUsecase, Position{})
	b := s.AddNode(NodeScreen, Position{X: 200})
	c := s.AddNode(NodeProcess, Position{X: 400})

	c1 := s.AddConnection(a, b, ConnData)
	s.AddConnection(b, c, ConnData)
	s.AddConnection(c, a, ConnDependency)
	s.SwapConnection(c1)
	s.DeleteNodeConnections(c)

	// After any sequence of connection operations, each node's cached
	// inputs/outputs must exactly mirror the connection list.
	if res := s.ValidateConnections(); !res.Valid {
		t.Fatalf("adjacency drifted: %v", res.Errors)
	}
}

func TestSelection(t *testing.T) {
	s := newTestStore()
	a := s.AddNode(NodeUsecase, Position{})
	b := s.AddNode(NodeScreen, Position{})

	s.SelectNode(a)
	s.SelectNode(b)
	if got := s.SelectedIDs(); len(got) != 2 {
		t.Fatalf("selected = %v", got)
	}
	if !s.Node(a).Selected {
		t.Error("node flag not set")
	}

	s.DeselectNode(a)
	if got := s.SelectedIDs(); len(got) != 1 || got[0] != b {
		t.Errorf("selected after deselect = %v", got)
	}

	s.ClearSelection()
	if got := s.SelectedIDs(); len(got) != 0 {
		t.Errorf("selected after clear = %v", got)
	}
	if s.Node(b).Selected {
		t.Error("node flag not cleared")
	}

	// Missing ids are no-ops.
	s.SelectNode("nope")
	s.DeselectNode("nope")
}

func TestNodesInsertionOrder(t *testing.T) {
	s := newTestStore()
	var want []NodeID
	for i := 0; i < 5; i++ {
		want = append(want, s.AddNode(NodeNote, Position{X: float64(i)}))
	}
	s.DeleteNode(want[2])
	want = append(want[:2], want[3:]...)

	nodes := s.Nodes()
	if len(nodes) != len(want) {
		t.Fatalf("node count = %d, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n.ID != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, n.ID, want[i])
		}
	}
}
