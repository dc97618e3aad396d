// Package canvas composes the diagram store, panel registry, interaction
// controller, and scroll arbiter into one session object. Nothing here is
// process-global: every Canvas owns its own state, so multiple canvases can
// coexist and tests run in isolation.
package canvas

import (
	"time"

	"flowcanvas/pkg/config"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/interaction"
	"flowcanvas/pkg/panel"
	"flowcanvas/pkg/scroll"
)

// Canvas is one interactive canvas session.
type Canvas struct {
	cfg config.Config

	Store       *graph.Store
	Panels      *panel.Registry
	Interaction *interaction.Controller
	Arbiter     *scroll.Arbiter
	Viewport    *Viewport

	sampler   *scroll.Sampler
	matcher   scroll.Matcher
	overPanel bool

	drag struct {
		active  bool
		nodeID  graph.NodeID
		pending graph.Position
	}
}

// Option configures a Canvas.
type Option func(*options)

type options struct {
	sched     scroll.Scheduler
	matcher   scroll.Matcher
	now       func() time.Time
	storeOpts []graph.Option
}

// WithScheduler overrides the edge-buffer scheduler, for tests.
func WithScheduler(s scroll.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// WithMatcher overrides the scrollable-panel predicate.
func WithMatcher(m scroll.Matcher) Option {
	return func(o *options) { o.matcher = m }
}

// WithClock overrides the pointer-sampler clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithStoreOptions forwards options to the underlying store.
func WithStoreOptions(opts ...graph.Option) Option {
	return func(o *options) { o.storeOpts = append(o.storeOpts, opts...) }
}

// New creates a Canvas session from the given configuration.
func New(cfg config.Config, opts ...Option) *Canvas {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sched == nil {
		o.sched = scroll.NewScheduler(time.Duration(cfg.Scroll.EdgeBufferMS) * time.Millisecond)
	}
	if o.matcher == nil {
		o.matcher = scroll.NewClassMatcher("node-panel")
	}

	panels := panel.NewRegistry(panel.Settings{
		ActiveBase: cfg.ZIndex.ActiveBase,
		DemotedZ:   cfg.ZIndex.Demoted,
		Width:      cfg.Panel.Width,
		Gap:        cfg.Panel.Gap,
		OffsetX:    cfg.Panel.OffsetX,
	})

	return &Canvas{
		cfg:    cfg,
		Store:  graph.NewStore(o.storeOpts...),
		Panels: panels,
		Interaction: interaction.NewController(interaction.Settings{
			InactiveZ:  cfg.ZIndex.Inactive,
			HoverZ:     cfg.ZIndex.Hover,
			ActiveBase: cfg.ZIndex.ActiveBase,
		}, panels),
		Arbiter:  scroll.NewArbiter(o.sched),
		Viewport: NewViewport(cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom, cfg.Viewport.ZoomStep),
		sampler:  scroll.NewSampler(time.Second/time.Duration(cfg.Scroll.SampleHz), o.now),
		matcher:  o.matcher,
	}
}

// ---------------------------------------------------------------------------
// Node lifecycle fan-out
// ---------------------------------------------------------------------------

// AddNode adds a node and returns its id.
func (c *Canvas) AddNode(t graph.NodeType, pos graph.Position) graph.NodeID {
	return c.Store.AddNode(t, pos)
}

// DeleteNode removes a node, its incident connections, its open panels, and
// its interaction state. Missing id is a no-op.
func (c *Canvas) DeleteNode(id graph.NodeID) {
	c.Store.DeleteNode(id)
	c.Panels.RemoveNodePanels(id)
	c.Interaction.Forget(id)
}

// ---------------------------------------------------------------------------
// Panels
// ---------------------------------------------------------------------------

// OpenPanel opens a panel for an existing node and promotes that node's
// group to the top of the stack. Opening an already-open panel still
// promotes; the panel set is unchanged.
func (c *Canvas) OpenPanel(id graph.NodeID, t panel.Type) bool {
	if c.Store.Node(id) == nil {
		return false
	}
	c.Panels.OpenPanel(id, t)
	c.PromoteNodeGroup(id)
	c.Interaction.PanelsChanged(id)
	return true
}

// ClosePanel closes a panel and updates the node's interaction state.
func (c *Canvas) ClosePanel(id graph.NodeID, t panel.Type) {
	c.Panels.ClosePanel(id, t)
	c.Interaction.PanelsChanged(id)
}

// PromoteNodeGroup raises a node and its panels into the reserved active
// block. Both the promoted value and the previous active node's demoted
// value are pushed into the interaction controller, so the render z always
// reflects the registry's decision for every node the registry has touched.
func (c *Canvas) PromoteNodeGroup(id graph.NodeID) {
	prev := c.Panels.ActiveNode()
	z := c.Panels.PromoteNodeGroup(id)
	if prev != "" && prev != id {
		c.Interaction.SetZ(prev, c.Panels.NodeZIndex(prev))
	}
	c.Interaction.SetZ(id, z)
}

// NodeZIndex returns the z-index the renderer should paint a node at,
// preferring the registry's reserved block when the node is the active
// group.
func (c *Canvas) NodeZIndex(id graph.NodeID) int {
	if c.Panels.ActiveNode() == id {
		return c.Panels.NodeZIndex(id)
	}
	return c.Interaction.ZIndexOf(id)
}

// ---------------------------------------------------------------------------
// Pointer interaction
// ---------------------------------------------------------------------------

// ClickNode selects a node and, when it already owns open panels, promotes
// its group so the most recently interacted-with node wins.
func (c *Canvas) ClickNode(id graph.NodeID) {
	if c.Store.Node(id) == nil {
		return
	}
	c.Store.SelectNode(id)
	c.Interaction.Select(id)
	if c.Panels.OpenPanelCount(id) > 0 {
		c.PromoteNodeGroup(id)
	}
}

// HoverNode records pointer presence over a node.
func (c *Canvas) HoverNode(id graph.NodeID, on bool) {
	c.Interaction.SetHover(id, on)
}

// FocusNode records keyboard focus on a node.
func (c *Canvas) FocusNode(id graph.NodeID, on bool) {
	c.Interaction.SetFocus(id, on)
}

// ---------------------------------------------------------------------------
// Dragging
// ---------------------------------------------------------------------------

// BeginDrag starts repositioning a node. Intermediate positions are held in
// the session; the store is only written on EndDrag.
func (c *Canvas) BeginDrag(id graph.NodeID) bool {
	n := c.Store.Node(id)
	if n == nil {
		return false
	}
	c.drag.active = true
	c.drag.nodeID = id
	c.drag.pending = n.Position
	return true
}

// DragTo records an intermediate drag position without touching the store.
func (c *Canvas) DragTo(pos graph.Position) {
	if !c.drag.active {
		return
	}
	c.drag.pending = pos
}

// EndDrag commits the final drag position to the store.
func (c *Canvas) EndDrag() {
	if !c.drag.active {
		return
	}
	c.Store.SetPosition(c.drag.nodeID, c.drag.pending)
	c.drag.active = false
	c.drag.nodeID = ""
}

// ---------------------------------------------------------------------------
// Wheel routing
// ---------------------------------------------------------------------------

// PointerSample feeds one "element under the pointer" sample, described by
// the hovered element's class attribute. Samples are coalesced to the
// configured rate; entering or leaving a scrollable panel region resets the
// arbitration session.
func (c *Canvas) PointerSample(classAttr string) {
	if !c.sampler.Allow() {
		return
	}
	over := c.matcher.Matches(classAttr)
	if over == c.overPanel {
		return
	}
	c.overPanel = over
	if over {
		c.Arbiter.PointerEnter()
	} else {
		c.Arbiter.PointerLeave()
	}
}

// HandleWheel routes one wheel event. When the pointer is over a scrollable
// panel the arbiter decides; otherwise the event drives the viewport
// directly. zoom selects pinch/ctrl-zoom instead of panning, anchored at
// the screen point. The returned decision tells the renderer whether to
// apply the delta to the panel's native scroll.
func (c *Canvas) HandleWheel(w scroll.Wheel, m scroll.Metrics, zoom bool, at graph.Position) scroll.Decision {
	if c.overPanel {
		d := c.Arbiter.Decide(w, m)
		if d != scroll.PanCanvas {
			return d
		}
	}
	if zoom {
		c.Viewport.ZoomAt(-w.DeltaY, at.X, at.Y)
	} else {
		c.Viewport.PanBy(-w.DeltaX, -w.DeltaY)
	}
	return scroll.PanCanvas
}
