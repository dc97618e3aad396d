// Package graph defines the core diagram data structures for Flowcanvas.
package graph

import (
	"fmt"
	"time"
)

// NodeID is an opaque unique identifier for diagram nodes.
type NodeID string

// ConnectionID is an opaque unique identifier for connections.
type ConnectionID string

// IsZero reports whether the id is the zero value.
func (id NodeID) IsZero() bool { return id == "" }

// IsZero reports whether the id is the zero value.
func (id ConnectionID) IsZero() bool { return id == "" }

// Position is a point in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// NodeType enumerates the semantic kinds of diagram nodes.
type NodeType int

const (
	NodeUsecase NodeType = iota
	NodeScreen
	NodeProcess
	NodeStorage
	NodeDecision
	NodeActor
	NodeEvent
	NodeService
	NodeQueue
	NodeDocument
	NodeTimer
	NodeNote
)

func (t NodeType) String() string {
	switch t {
	case NodeUsecase:
		return "usecase"
	case NodeScreen:
		return "screen"
	case NodeProcess:
		return "process"
	case NodeStorage:
		return "storage"
	case NodeDecision:
		return "decision"
	case NodeActor:
		return "actor"
	case NodeEvent:
		return "event"
	case NodeService:
		return "service"
	case NodeQueue:
		return "queue"
	case NodeDocument:
		return "document"
	case NodeTimer:
		return "timer"
	case NodeNote:
		return "note"
	default:
		return "unknown"
	}
}

// ParseNodeType converts a type name to a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	switch s {
	case "usecase":
		return NodeUsecase, nil
	case "screen":
		return NodeScreen, nil
	case "process":
		return NodeProcess, nil
	case "storage":
		return NodeStorage, nil
	case "decision":
		return NodeDecision, nil
	case "actor":
		return NodeActor, nil
	case "event":
		return NodeEvent, nil
	case "service":
		return NodeService, nil
	case "queue":
		return NodeQueue, nil
	case "document":
		return NodeDocument, nil
	case "timer":
		return NodeTimer, nil
	case "note":
		return NodeNote, nil
	}
	return 0, fmt.Errorf("unknown node type %q", s)
}

// Adjacency is the derived cache of connected node ids, maintained by the
// store so renderers never have to scan the connection list per node.
// Inputs holds ids of nodes with a connection targeting this node; Outputs
// holds ids of nodes this node's connections target.
type Adjacency struct {
	Inputs  []NodeID `json:"inputs"`
	Outputs []NodeID `json:"outputs"`
}

// Node is a single element on the canvas.
type Node struct {
	ID          NodeID         `json:"id"`
	Type        NodeType       `json:"type"`
	Position    Position       `json:"position"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Connections Adjacency      `json:"connections"`
	Selected    bool           `json:"isSelected"`
	Valid       bool           `json:"isValid"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Data        NodeData       `json:"data,omitempty"`
}

// ---------------------------------------------------------------------------
// Handles
// ---------------------------------------------------------------------------

// HandlePosition is the edge of a node a connection attaches to.
type HandlePosition int

const (
	HandleTop HandlePosition = iota
	HandleRight
	HandleBottom
	HandleLeft
)

func (p HandlePosition) String() string {
	switch p {
	case HandleTop:
		return "top"
	case HandleRight:
		return "right"
	case HandleBottom:
		return "bottom"
	case HandleLeft:
		return "left"
	default:
		return "unknown"
	}
}

// HandleRole distinguishes the visible connector points (source role) from
// the invisible full-node drop zones layered beneath them (target role).
type HandleRole int

const (
	RoleSource HandleRole = iota
	RoleTarget
)

func (r HandleRole) String() string {
	if r == RoleTarget {
		return "target"
	}
	return "source"
}

// HandleID is a symbolic anchor identifier, e.g. "right-source".
type HandleID string

// SourceAnchor returns the source-role handle id for a position.
func SourceAnchor(p HandlePosition) HandleID {
	return HandleID(p.String() + "-source")
}

// TargetAnchor returns the target-role handle id for a position.
func TargetAnchor(p HandlePosition) HandleID {
	return HandleID(p.String() + "-target")
}

// ParseHandle splits a handle id into its position and role components.
func ParseHandle(h HandleID) (HandlePosition, HandleRole, error) {
	var pos string
	var role string
	for i := 0; i < len(h); i++ {
		if h[i] == '-' {
			pos, role = string(h[:i]), string(h[i+1:])
			break
		}
	}
	var p HandlePosition
	switch pos {
	case "top":
		p = HandleTop
	case "right":
		p = HandleRight
	case "bottom":
		p = HandleBottom
	case "left":
		p = HandleLeft
	default:
		return 0, 0, fmt.Errorf("invalid handle id %q", h)
	}
	switch role {
	case "source":
		return p, RoleSource, nil
	case "target":
		return p, RoleTarget, nil
	}
	return 0, 0, fmt.Errorf("invalid handle id %q", h)
}

// ---------------------------------------------------------------------------
// Connections
// ---------------------------------------------------------------------------

// ConnectionType enumerates the semantic kinds of connections.
type ConnectionType int

const (
	ConnData ConnectionType = iota
	ConnControl
	ConnDependency
)

func (t ConnectionType) String() string {
	switch t {
	case ConnData:
		return "data"
	case ConnControl:
		return "control"
	case ConnDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// ParseConnectionType converts a type name to a ConnectionType.
func ParseConnectionType(s string) (ConnectionType, error) {
	switch s {
	case "data":
		return ConnData, nil
	case "control":
		return ConnControl, nil
	case "dependency":
		return ConnDependency, nil
	}
	return 0, fmt.Errorf("unknown connection type %q", s)
}

// DirectionType describes how a connection's direction is rendered.
type DirectionType int

const (
	DirOneWay DirectionType = iota
	DirTwoWay
	DirUndirected
)

func (d DirectionType) String() string {
	switch d {
	case DirOneWay:
		return "oneway"
	case DirTwoWay:
		return "twoway"
	case DirUndirected:
		return "undirected"
	default:
		return "unknown"
	}
}

// LineStyle describes the stroke style of a connection.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDashed
	LineDotted
)

func (s LineStyle) String() string {
	switch s {
	case LineSolid:
		return "solid"
	case LineDashed:
		return "dashed"
	case LineDotted:
		return "dotted"
	default:
		return "unknown"
	}
}

// Priority ranks a connection's business importance.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ConnectionMetadata carries the presentation and business attributes of a
// connection. Defaults are derived from the connection type at creation.
type ConnectionMetadata struct {
	DirectionType DirectionType `json:"directionType"`
	LineStyle     LineStyle     `json:"lineStyle"`
	Color         string        `json:"color"`
	Thickness     float64       `json:"thickness"`
	Priority      Priority      `json:"priority"`
	BusinessRule  string        `json:"businessRule,omitempty"`
	Conditions    string        `json:"conditions,omitempty"`
	DataFlow      string        `json:"dataFlow,omitempty"`
	Weight        float64       `json:"weight,omitempty"`
}

// Connection is a directed or undirected edge between two nodes.
type Connection struct {
	ID           ConnectionID       `json:"id"`
	SourceNodeID NodeID             `json:"sourceNodeId"`
	TargetNodeID NodeID             `json:"targetNodeId"`
	SourceHandle HandleID           `json:"sourceHandle"`
	TargetHandle HandleID           `json:"targetHandle"`
	Type         ConnectionType     `json:"type"`
	Label        string             `json:"label,omitempty"`
	Animated     bool               `json:"animated"`
	Metadata     ConnectionMetadata `json:"metadata"`
}

// defaultMetadataFor derives creation-time metadata from the connection type.
func defaultMetadataFor(t ConnectionType) ConnectionMetadata {
	m := ConnectionMetadata{
		DirectionType: DirOneWay,
		LineStyle:     LineSolid,
		Thickness:     2,
		Priority:      PriorityMedium,
	}
	switch t {
	case ConnData:
		m.Color = "#3b82f6"
	case ConnControl:
		m.Color = "#f97316"
		m.LineStyle = LineDashed
	case ConnDependency:
		m.Color = "#6b7280"
	}
	return m
}
