package panel

import "flowcanvas/pkg/graph"

// Settings holds the registry's layout and stacking tunables.
type Settings struct {
	ActiveBase int     // z-index floor reserved for the active node group
	DemotedZ   int     // z-index a formerly active node reverts to
	Width      float64 // panel width used for horizontal stacking
	Gap        float64 // spacing between stacked panels
	OffsetX    float64 // distance from node origin to the first panel
}

// DefaultSettings returns the stock layout values.
func DefaultSettings() Settings {
	return Settings{
		ActiveBase: 3000,
		DemotedZ:   100,
		Width:      320,
		Gap:        16,
		OffsetX:    24,
	}
}

// Registry owns the open-panel state for one canvas session. It is not a
// process-wide singleton: each canvas constructs its own, so several
// canvases (and tests) can coexist.
type Registry struct {
	settings Settings

	// panels holds each node's open panels in order of opening. StackOrder
	// is renumbered on close so it is always a contiguous range from 0.
	panels map[graph.NodeID][]*Panel

	// active is the single node group currently promoted to the reserved
	// z-index block, or zero when none is.
	active graph.NodeID

	zIndex map[graph.NodeID]int
}

// NewRegistry creates an empty Registry.
func NewRegistry(settings Settings) *Registry {
	return &Registry{
		settings: settings,
		panels:   make(map[graph.NodeID][]*Panel),
		zIndex:   make(map[graph.NodeID]int),
	}
}

// OpenPanel opens a panel of the given type for a node. Opening a panel that
// is already open is a no-op, not a duplicate; it reports whether a panel
// was actually opened.
func (r *Registry) OpenPanel(nodeID graph.NodeID, t Type) bool {
	if r.IsPanelOpen(nodeID, t) {
		return false
	}
	open := r.panels[nodeID]
	r.panels[nodeID] = append(open, &Panel{
		NodeID:     nodeID,
		Type:       t,
		Visible:    true,
		StackOrder: len(open),
	})
	return true
}

// ClosePanel closes a panel. The node's remaining panels keep their relative
// order and their StackOrder compacts to stay contiguous from 0. Closing the
// active node's last panel clears the active-group designation so a later
// interaction is not blocked by a stale one.
func (r *Registry) ClosePanel(nodeID graph.NodeID, t Type) {
	open := r.panels[nodeID]
	kept := open[:0]
	for _, p := range open {
		if p.Type != t {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(open) {
		return
	}
	for i, p := range kept {
		p.StackOrder = i
	}
	if len(kept) == 0 {
		delete(r.panels, nodeID)
		if r.active == nodeID {
			r.active = ""
		}
		return
	}
	r.panels[nodeID] = kept
	if r.active == nodeID {
		// Re-pack the remaining panels into the reserved block.
		r.assignActiveBlock(nodeID)
	}
}

// IsPanelOpen reports whether a panel of the given type is open for a node.
func (r *Registry) IsPanelOpen(nodeID graph.NodeID, t Type) bool {
	for _, p := range r.panels[nodeID] {
		if p.Type == t {
			return true
		}
	}
	return false
}

// NodePanels returns a node's open panels in stack order.
func (r *Registry) NodePanels(nodeID graph.NodeID) []*Panel {
	return r.panels[nodeID]
}

// OpenPanelCount returns the number of open panels for a node. It satisfies
// the interaction controller's PanelCounter.
func (r *Registry) OpenPanelCount(nodeID graph.NodeID) int {
	return len(r.panels[nodeID])
}

// PromoteNodeGroup makes the node the sole active group: the node and its
// open panels receive a contiguous z-index block starting at the reserved
// active base, and the previously active node (if any) is demoted below that
// base. It returns the node's newly assigned z-index.
func (r *Registry) PromoteNodeGroup(nodeID graph.NodeID) int {
	if r.active != "" && r.active != nodeID {
		r.zIndex[r.active] = r.settings.DemotedZ
		for _, p := range r.panels[r.active] {
			p.ZIndex = r.settings.DemotedZ + 1 + p.StackOrder
		}
	}
	r.active = nodeID
	return r.assignActiveBlock(nodeID)
}

// assignActiveBlock writes the reserved block onto a node and its panels:
// node at base, panels at base+1, base+2, ... in stack order.
func (r *Registry) assignActiveBlock(nodeID graph.NodeID) int {
	r.zIndex[nodeID] = r.settings.ActiveBase
	for _, p := range r.panels[nodeID] {
		p.ZIndex = r.settings.ActiveBase + 1 + p.StackOrder
	}
	return r.settings.ActiveBase
}

// ActiveNode returns the currently active node group, or the zero id.
func (r *Registry) ActiveNode() graph.NodeID { return r.active }

// NodeZIndex returns the registry-assigned z-index for a node. Nodes never
// promoted report zero; the renderer falls back to the interaction
// controller's value for those.
func (r *Registry) NodeZIndex(nodeID graph.NodeID) int {
	return r.zIndex[nodeID]
}

// PanelPosition computes a panel's screen position relative to its owning
// node: the first panel sits immediately to the right of the node at the
// node's vertical offset, and each further panel stacks horizontally with
// fixed spacing. Panels accumulate to the right only; they never overlap
// vertically. Returns the zero position when the panel is not open.
func (r *Registry) PanelPosition(nodeID graph.NodeID, t Type, nodeScreen graph.Position) graph.Position {
	for _, p := range r.panels[nodeID] {
		if p.Type == t {
			return graph.Position{
				X: nodeScreen.X + r.settings.OffsetX + float64(p.StackOrder)*(r.settings.Width+r.settings.Gap),
				Y: nodeScreen.Y,
			}
		}
	}
	return graph.Position{}
}

// RemoveNodePanels force-closes every panel for a node and clears the
// active-group designation if the node held it. Called on node deletion.
func (r *Registry) RemoveNodePanels(nodeID graph.NodeID) {
	delete(r.panels, nodeID)
	delete(r.zIndex, nodeID)
	if r.active == nodeID {
		r.active = ""
	}
}
