package main

import (
	"context"
	"log"
	"sync"

	"flowcanvas/pkg/canvas"
	"flowcanvas/pkg/config"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/panel"
	"flowcanvas/pkg/script"
	"flowcanvas/pkg/scroll"
)

// configFile is looked up in the working directory at startup.
const configFile = "flowcanvas.toml"

// App is the Wails backend. It owns one canvas session and exposes the
// engine's commands and read model to the frontend via bindings.
//
// Frontend calls can arrive on different goroutines, so the session is
// mutex-guarded at this boundary; everything below it follows the
// single-writer model.
type App struct {
	ctx context.Context

	mu     sync.Mutex
	cfg    config.Config
	canvas *canvas.Canvas
	engine *script.Engine
}

// NewApp creates the App with configuration from flowcanvas.toml when
// present, defaults otherwise.
func NewApp() *App {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Printf("config: %v (using defaults)", err)
		cfg = config.Default()
	}
	return &App{
		cfg:    cfg,
		canvas: canvas.New(cfg),
		engine: script.NewEngine(cfg),
	}
}

// startup is called by Wails on app startup.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// ---------------------------------------------------------------------------
// Read model
// ---------------------------------------------------------------------------

// NodeView is the JSON-shaped node sent to the frontend.
type NodeView struct {
	*graph.Node
	TypeName string `json:"typeName"`
	State    string `json:"state"`
	ZIndex   int    `json:"zIndex"`
}

// PanelView is the JSON-shaped panel sent to the frontend.
type PanelView struct {
	panel.Panel
	TypeName string         `json:"typeName"`
	Position graph.Position `json:"position"`
}

// Snapshot is the full read model for one render pass.
type Snapshot struct {
	Nodes       []NodeView          `json:"nodes"`
	Connections []*graph.Connection `json:"connections"`
	Panels      []PanelView         `json:"panels"`
	Viewport    *canvas.Viewport    `json:"viewport"`
	ActiveNode  graph.NodeID        `json:"activeNodeId,omitempty"`
}

// GetSnapshot returns everything the renderer needs to paint the canvas.
func (a *App) GetSnapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	cv := a.canvas
	snap := Snapshot{
		Viewport:   cv.Viewport,
		ActiveNode: cv.Panels.ActiveNode(),
	}
	for _, n := range cv.Store.Nodes() {
		snap.Nodes = append(snap.Nodes, NodeView{
			Node:     n,
			TypeName: n.Type.String(),
			State:    cv.Interaction.StateOf(n.ID).String(),
			ZIndex:   cv.NodeZIndex(n.ID),
		})
		screen := cv.Viewport.ToScreen(n.Position)
		for _, p := range cv.Panels.NodePanels(n.ID) {
			snap.Panels = append(snap.Panels, PanelView{
				Panel:    *p,
				TypeName: p.Type.String(),
				Position: cv.Panels.PanelPosition(n.ID, p.Type, screen),
			})
		}
	}
	snap.Connections = cv.Store.Connections()
	return snap
}

// Validate scans the diagram and returns the findings as strings.
func (a *App) Validate() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	res := a.canvas.Store.ValidateConnections()
	out := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		out = append(out, e.Error())
	}
	return out
}

// ---------------------------------------------------------------------------
// Node and connection commands
// ---------------------------------------------------------------------------

// AddNode adds a node of the named type and returns its id, or "" for an
// unknown type name.
func (a *App) AddNode(typeName string, x, y float64) string {
	t, err := graph.ParseNodeType(typeName)
	if err != nil {
		log.Printf("AddNode: %v", err)
		return ""
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return string(a.canvas.AddNode(t, graph.Position{X: x, Y: y}))
}

// SetNodeTitle renames a node. Missing ids are silent no-ops, per the
// store's contract.
func (a *App) SetNodeTitle(id, title string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.Store.UpdateNode(graph.NodeID(id), graph.NodeUpdate{Title: &title})
}

// SetNodeDescription updates a node's description.
func (a *App) SetNodeDescription(id, description string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.Store.UpdateNode(graph.NodeID(id), graph.NodeUpdate{Description: &description})
}

// DeleteNode removes a node with full fan-out: incident connections, open
// panels, interaction state.
func (a *App) DeleteNode(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.DeleteNode(graph.NodeID(id))
}

// Connect creates a connection and returns its id. This layer enforces the
// rules the store leaves to callers: no self-loops, no duplicate of the
// same unordered pair with the same type.
func (a *App) Connect(sourceID, targetID, typeName string) string {
	t, err := graph.ParseConnectionType(typeName)
	if err != nil {
		log.Printf("Connect: %v", err)
		return ""
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	src, tgt := graph.NodeID(sourceID), graph.NodeID(targetID)
	if src == tgt {
		log.Printf("Connect: rejected self-loop on %s", src)
		return ""
	}
	for _, c := range a.canvas.Store.Connections() {
		if c.Type != t {
			continue
		}
		samePair := (c.SourceNodeID == src && c.TargetNodeID == tgt) ||
			(c.SourceNodeID == tgt && c.TargetNodeID == src)
		if samePair {
			log.Printf("Connect: rejected duplicate %s connection %s <-> %s", t, src, tgt)
			return ""
		}
	}
	return string(a.canvas.Store.AddConnection(src, tgt, t))
}

// SwapConnection atomically reverses a connection's direction. A false
// return means the swap did not happen (unknown id) or failed verification;
// the frontend shows a notification and repaints from the snapshot.
func (a *App) SwapConnection(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canvas.Store.SwapConnection(graph.ConnectionID(id))
}

// DeleteConnection removes a connection.
func (a *App) DeleteConnection(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.Store.DeleteConnection(graph.ConnectionID(id))
}

// ---------------------------------------------------------------------------
// Panels
// ---------------------------------------------------------------------------

// OpenPanel opens the named panel type for a node and promotes its group.
func (a *App) OpenPanel(nodeID, panelType string) bool {
	t, err := panel.ParseType(panelType)
	if err != nil {
		log.Printf("OpenPanel: %v", err)
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canvas.OpenPanel(graph.NodeID(nodeID), t)
}

// ClosePanel closes the named panel type for a node.
func (a *App) ClosePanel(nodeID, panelType string) {
	t, err := panel.ParseType(panelType)
	if err != nil {
		log.Printf("ClosePanel: %v", err)
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.ClosePanel(graph.NodeID(nodeID), t)
}

// ---------------------------------------------------------------------------
// Pointer, drag, and wheel events
// ---------------------------------------------------------------------------

// ClickNode selects a node and raises it.
func (a *App) ClickNode(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.ClickNode(graph.NodeID(id))
}

// HoverNode records pointer enter/leave on a node.
func (a *App) HoverNode(id string, entered bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.HoverNode(graph.NodeID(id), entered)
}

// BeginDrag starts repositioning a node.
func (a *App) BeginDrag(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canvas.BeginDrag(graph.NodeID(id))
}

// DragTo reports an intermediate drag position. Nothing is committed until
// EndDrag.
func (a *App) DragTo(x, y float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.DragTo(graph.Position{X: x, Y: y})
}

// EndDrag commits the drag.
func (a *App) EndDrag() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.EndDrag()
}

// PointerSample reports the class attribute of the element under the
// pointer so scroll arbitration can track panel hover sessions.
func (a *App) PointerSample(classAttr string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.PointerSample(classAttr)
}

// Wheel routes one wheel event and returns the arbitration decision name
// ("scroll-panel", "absorb", or "pan-canvas") so the frontend knows whether
// to apply the delta to the hovered panel.
func (a *App) Wheel(deltaX, deltaY float64, zoom bool, x, y float64, m scroll.Metrics) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.canvas.HandleWheel(
		scroll.Wheel{DeltaX: deltaX, DeltaY: deltaY},
		m, zoom, graph.Position{X: x, Y: y},
	)
	return d.String()
}

// ---------------------------------------------------------------------------
// Scripting
// ---------------------------------------------------------------------------

// EvalResult is the JSON-shaped outcome of a script evaluation.
type EvalResult struct {
	Errors []script.EvalError `json:"errors"`
	Loaded bool               `json:"loaded"`
}

// Evaluate runs a diagram script. On success the built canvas replaces the
// current session; on any error the current session is left untouched.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{Errors: []script.EvalError{}}

	cv, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, script.EvalError{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = append(result.Errors, evalErrs...)
		return result
	}

	a.mu.Lock()
	a.canvas = cv
	a.mu.Unlock()
	result.Loaded = true
	return result
}
