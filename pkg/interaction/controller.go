// Package interaction tracks per-node ephemeral UI state (hover, focus,
// selection) and derives each node's interaction state and z-index for the
// renderer. The z-index for selected and elevated nodes is recomputed from
// the live set of assigned z-indexes every time a node enters one of those
// states, so the newest interaction always renders on top regardless of
// stacking history.
package interaction

import "flowcanvas/pkg/graph"

// State is a node's interaction state. When multiple conditions hold the
// highest-priority state wins: Elevated > Selected > Hover/Focus > Inactive.
type State int

const (
	Inactive State = iota
	Hover
	Focus
	Selected
	Elevated
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Hover:
		return "hover"
	case Focus:
		return "focus"
	case Selected:
		return "selected"
	case Elevated:
		return "elevated"
	default:
		return "unknown"
	}
}

// PanelCounter reports how many panels a node has open. Satisfied by
// panel.Registry.
type PanelCounter interface {
	OpenPanelCount(graph.NodeID) int
}

// Settings holds the fixed z-index values for the low-priority states plus
// the floor of the reserved active block. Dynamic assignments always stay
// below ActiveBase; values at or above it are pushed in by the panel
// registry and are authoritative.
type Settings struct {
	InactiveZ  int
	HoverZ     int
	ActiveBase int
}

// DefaultSettings returns the stock z-index values.
func DefaultSettings() Settings {
	return Settings{InactiveZ: 10, HoverZ: 50, ActiveBase: 3000}
}

// Controller is the per-canvas interaction state machine. Not a singleton;
// each canvas session owns one.
type Controller struct {
	settings Settings
	panels   PanelCounter

	hovered map[graph.NodeID]bool
	focused map[graph.NodeID]bool
	selects map[graph.NodeID]bool

	// assigned is the live table of z-index values handed out on the
	// canvas, both our own dynamic assignments and values observed from
	// the panel registry's promotions. Its maximum replaces the original
	// design's scan of rendered elements.
	assigned map[graph.NodeID]int
}

// NewController creates a Controller reading open-panel counts from panels.
func NewController(settings Settings, panels PanelCounter) *Controller {
	return &Controller{
		settings: settings,
		panels:   panels,
		hovered:  make(map[graph.NodeID]bool),
		focused:  make(map[graph.NodeID]bool),
		selects:  make(map[graph.NodeID]bool),
		assigned: make(map[graph.NodeID]int),
	}
}

// StateOf derives a node's current interaction state.
func (c *Controller) StateOf(id graph.NodeID) State {
	switch {
	case c.panels.OpenPanelCount(id) > 0:
		return Elevated
	case c.selects[id]:
		return Selected
	case c.hovered[id]:
		return Hover
	case c.focused[id]:
		return Focus
	default:
		return Inactive
	}
}

// SetHover records pointer presence over a node.
func (c *Controller) SetHover(id graph.NodeID, on bool) {
	if on {
		c.hovered[id] = true
	} else {
		delete(c.hovered, id)
	}
}

// SetFocus records keyboard focus on a node.
func (c *Controller) SetFocus(id graph.NodeID, on bool) {
	if on {
		c.focused[id] = true
	} else {
		delete(c.focused, id)
	}
}

// Select marks a node selected and assigns it a fresh top z-index.
func (c *Controller) Select(id graph.NodeID) {
	c.selects[id] = true
	c.assignTop(id)
}

// Deselect clears a node's selection. The z assignment survives while the
// node still owns open panels, so an elevated node never drops below the
// dynamic band on deselect.
func (c *Controller) Deselect(id graph.NodeID) {
	delete(c.selects, id)
	if c.panels.OpenPanelCount(id) == 0 {
		delete(c.assigned, id)
	}
}

// PanelsChanged must be called whenever a node's open-panel set changes. A
// node entering the elevated state receives a fresh top z-index unless the
// registry has already placed it in the reserved active block, which is
// never recomputed over. A node whose last panel closed loses any block
// value: it keeps a fresh dynamic assignment while selected and drops the
// assignment entirely otherwise.
func (c *Controller) PanelsChanged(id graph.NodeID) {
	switch {
	case c.panels.OpenPanelCount(id) > 0:
		if c.assigned[id] < c.settings.ActiveBase {
			c.assignTop(id)
		}
	case c.selects[id]:
		c.assignTop(id)
	default:
		delete(c.assigned, id)
	}
}

// SetZ records a z-index assigned by the panel registry. The value is
// authoritative and overwrites any dynamic assignment, in both directions:
// promotion raises a node into the reserved block, demotion pulls a
// formerly active node back below it.
func (c *Controller) SetZ(id graph.NodeID, z int) {
	c.assigned[id] = z
}

// Forget drops all state for a node. Called on node deletion.
func (c *Controller) Forget(id graph.NodeID) {
	delete(c.hovered, id)
	delete(c.focused, id)
	delete(c.selects, id)
	delete(c.assigned, id)
}

// ZIndexOf returns the z-index the renderer should paint a node at.
func (c *Controller) ZIndexOf(id graph.NodeID) int {
	switch c.StateOf(id) {
	case Selected, Elevated:
		if z, ok := c.assigned[id]; ok {
			return z
		}
		return c.settings.HoverZ
	case Hover, Focus:
		return c.settings.HoverZ
	default:
		return c.settings.InactiveZ
	}
}

// assignTop recomputes max(all currently observed z-indexes)+1 and assigns
// it. The recomputation happens on every entry into selected or elevated,
// never once at mount, so ties between nodes with equal history still
// resolve in favor of the most recent interaction. Values in the reserved
// active block are excluded from the scan: the active group must stay
// strictly above every non-active node, so dynamic assignments never climb
// past it.
func (c *Controller) assignTop(id graph.NodeID) {
	max := c.settings.HoverZ
	for _, z := range c.assigned {
		if z >= c.settings.ActiveBase {
			continue
		}
		if z > max {
			max = z
		}
	}
	c.assigned[id] = max + 1
}
