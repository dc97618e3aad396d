package graph

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Store is the sole mutator and source of truth for nodes and connections.
// It is single-writer by design: all mutations happen synchronously on the
// event handler that triggered them, so derived caches (adjacency lists,
// selection) are always consistent by the time any reader runs in the same
// tick.
//
// Mutation operations on a missing id are silent no-ops, not errors. Callers
// that care must check existence first. This soft-fail contract is load
// bearing for the UI layer and is exercised by tests; see DESIGN.md for the
// open question it raises.
type Store struct {
	nodes     map[NodeID]*Node
	nodeOrder []NodeID

	connections map[ConnectionID]*Connection
	connOrder   []ConnectionID

	selection map[NodeID]struct{}

	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id source, for tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		nodes:       make(map[NodeID]*Node),
		connections: make(map[ConnectionID]*Connection),
		selection:   make(map[NodeID]struct{}),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Node operations
// ---------------------------------------------------------------------------

// AddNode constructs a node of the given type at the given position, with
// type-derived default title and payload, and returns its id. The new node
// is not auto-selected; selecting on every add produced focus-ring artifacts
// in the renderer.
func (s *Store) AddNode(t NodeType, pos Position) NodeID {
	id := NodeID(s.newID())
	ts := s.now()
	s.nodes[id] = &Node{
		ID:        id,
		Type:      t,
		Position:  pos,
		Title:     defaultTitleFor(t),
		Metadata:  make(map[string]any),
		Valid:     true,
		CreatedAt: ts,
		UpdatedAt: ts,
		Data:      defaultDataFor(t),
	}
	s.nodeOrder = append(s.nodeOrder, id)
	return id
}

// NodeUpdate is a partial node mutation. Nil fields are left untouched.
// Node type is deliberately absent: type changes are disallowed
// post-creation.
type NodeUpdate struct {
	Title       *string
	Description *string
	Position    *Position
	Metadata    map[string]any // merged key-by-key
	Valid       *bool
	Data        NodeData
}

// UpdateNode merges the non-nil fields of upd into the node and stamps
// UpdatedAt. Missing id is a no-op.
func (s *Store) UpdateNode(id NodeID, upd NodeUpdate) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	if upd.Title != nil {
		n.Title = *upd.Title
	}
	if upd.Description != nil {
		n.Description = *upd.Description
	}
	if upd.Position != nil {
		n.Position = *upd.Position
	}
	for k, v := range upd.Metadata {
		n.Metadata[k] = v
	}
	if upd.Valid != nil {
		n.Valid = *upd.Valid
	}
	if upd.Data != nil {
		n.Data = upd.Data
	}
	n.UpdatedAt = s.now()
}

// SetPosition commits a node position. Drag handlers call this once on
// drag-end, never per intermediate frame.
func (s *Store) SetPosition(id NodeID, pos Position) {
	s.UpdateNode(id, NodeUpdate{Position: &pos})
}

// DeleteNode removes the node, cascades deletion of every connection
// incident to it, and drops it from the selection. Missing id is a no-op.
func (s *Store) DeleteNode(id NodeID) {
	if _, ok := s.nodes[id]; !ok {
		return
	}
	s.DeleteNodeConnections(id)
	delete(s.nodes, id)
	delete(s.selection, id)
	s.nodeOrder = lo.Without(s.nodeOrder, id)
}

// Node returns the node with the given id, or nil.
func (s *Store) Node(id NodeID) *Node {
	return s.nodes[id]
}

// Nodes returns all nodes in insertion order.
func (s *Store) Nodes() []*Node {
	out := make([]*Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, s.nodes[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// SelectNode marks a node selected. Missing id is a no-op.
func (s *Store) SelectNode(id NodeID) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	n.Selected = true
	s.selection[id] = struct{}{}
}

// DeselectNode clears a node's selection. Missing id is a no-op.
func (s *Store) DeselectNode(id NodeID) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	n.Selected = false
	delete(s.selection, id)
}

// ClearSelection deselects every node.
func (s *Store) ClearSelection() {
	for id := range s.selection {
		if n := s.nodes[id]; n != nil {
			n.Selected = false
		}
	}
	s.selection = make(map[NodeID]struct{})
}

// SelectedIDs returns the selected node ids in insertion order.
func (s *Store) SelectedIDs() []NodeID {
	return lo.Filter(s.nodeOrder, func(id NodeID, _ int) bool {
		_, ok := s.selection[id]
		return ok
	})
}

// ---------------------------------------------------------------------------
// Connection operations
// ---------------------------------------------------------------------------

// AddConnection creates a connection of the given type between two nodes,
// with type-derived default metadata and the default right-source to
// left-target anchors, and updates both endpoints' adjacency caches.
// Returns the zero id if either endpoint does not exist.
//
// Self-loops and duplicate unordered pairs of the same type are a caller
// responsibility; the store does not reject them.
func (s *Store) AddConnection(source, target NodeID, t ConnectionType) ConnectionID {
	src, ok := s.nodes[source]
	if !ok {
		return ""
	}
	tgt, ok := s.nodes[target]
	if !ok {
		return ""
	}

	id := ConnectionID(s.newID())
	s.connections[id] = &Connection{
		ID:           id,
		SourceNodeID: source,
		TargetNodeID: target,
		SourceHandle: SourceAnchor(HandleRight),
		TargetHandle: TargetAnchor(HandleLeft),
		Type:         t,
		Metadata:     defaultMetadataFor(t),
	}
	s.connOrder = append(s.connOrder, id)

	src.Connections.Outputs = appendUnique(src.Connections.Outputs, target)
	tgt.Connections.Inputs = appendUnique(tgt.Connections.Inputs, source)
	return id
}

// ConnectionUpdate is a partial connection mutation. Nil fields are left
// untouched.
type ConnectionUpdate struct {
	Label        *string
	Animated     *bool
	SourceHandle *HandleID
	TargetHandle *HandleID
	Metadata     *MetadataUpdate
}

// MetadataUpdate is a partial ConnectionMetadata mutation.
type MetadataUpdate struct {
	DirectionType *DirectionType
	LineStyle     *LineStyle
	Color         *string
	Thickness     *float64
	Priority      *Priority
	BusinessRule  *string
	Conditions    *string
	DataFlow      *string
	Weight        *float64
}

// UpdateConnection merges the non-nil fields of upd into the connection.
// Missing id is a no-op.
func (s *Store) UpdateConnection(id ConnectionID, upd ConnectionUpdate) {
	c, ok := s.connections[id]
	if !ok {
		return
	}
	if upd.Label != nil {
		c.Label = *upd.Label
	}
	if upd.Animated != nil {
		c.Animated = *upd.Animated
	}
	if upd.SourceHandle != nil {
		c.SourceHandle = *upd.SourceHandle
	}
	if upd.TargetHandle != nil {
		c.TargetHandle = *upd.TargetHandle
	}
	if m := upd.Metadata; m != nil {
		if m.DirectionType != nil {
			c.Metadata.DirectionType = *m.DirectionType
		}
		if m.LineStyle != nil {
			c.Metadata.LineStyle = *m.LineStyle
		}
		if m.Color != nil {
			c.Metadata.Color = *m.Color
		}
		if m.Thickness != nil {
			c.Metadata.Thickness = *m.Thickness
		}
		if m.Priority != nil {
			c.Metadata.Priority = *m.Priority
		}
		if m.BusinessRule != nil {
			c.Metadata.BusinessRule = *m.BusinessRule
		}
		if m.Conditions != nil {
			c.Metadata.Conditions = *m.Conditions
		}
		if m.DataFlow != nil {
			c.Metadata.DataFlow = *m.DataFlow
		}
		if m.Weight != nil {
			c.Metadata.Weight = *m.Weight
		}
	}
}

// DeleteConnection removes a connection and reciprocally cleans both
// endpoints' adjacency caches. Missing id is a no-op.
func (s *Store) DeleteConnection(id ConnectionID) {
	c, ok := s.connections[id]
	if !ok {
		return
	}
	delete(s.connections, id)
	s.connOrder = lo.Without(s.connOrder, id)
	s.rebuildAdjacency(c.SourceNodeID)
	s.rebuildAdjacency(c.TargetNodeID)
}

// DeleteNodeConnections removes every connection with the node as source or
// target.
func (s *Store) DeleteNodeConnections(id NodeID) {
	incident := lo.Filter(s.connOrder, func(cid ConnectionID, _ int) bool {
		c := s.connections[cid]
		return c.SourceNodeID == id || c.TargetNodeID == id
	})
	for _, cid := range incident {
		s.DeleteConnection(cid)
	}
}

// Connection returns the connection with the given id, or nil.
func (s *Store) Connection(id ConnectionID) *Connection {
	return s.connections[id]
}

// Connections returns all connections in insertion order.
func (s *Store) Connections() []*Connection {
	out := make([]*Connection, 0, len(s.connOrder))
	for _, id := range s.connOrder {
		out = append(out, s.connections[id])
	}
	return out
}

// ConnectionCount returns the number of connections.
func (s *Store) ConnectionCount() int { return len(s.connections) }

// ---------------------------------------------------------------------------
// Adjacency cache maintenance
// ---------------------------------------------------------------------------

// rebuildAdjacency recomputes a node's adjacency cache from the connection
// list. Called after connection removal, where incremental cleanup would
// have to reason about duplicate edges between the same pair.
func (s *Store) rebuildAdjacency(id NodeID) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	n.Connections = Adjacency{}
	for _, cid := range s.connOrder {
		c := s.connections[cid]
		if c.SourceNodeID == id {
			n.Connections.Outputs = appendUnique(n.Connections.Outputs, c.TargetNodeID)
		}
		if c.TargetNodeID == id {
			n.Connections.Inputs = appendUnique(n.Connections.Inputs, c.SourceNodeID)
		}
	}
}

func appendUnique(ids []NodeID, id NodeID) []NodeID {
	if lo.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
