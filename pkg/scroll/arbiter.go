// Package scroll decides, per wheel event, whether a scroll gesture belongs
// to the scrollable panel under the pointer or to canvas pan/zoom.
//
// A panel that can still scroll in the requested direction absorbs the
// event. A panel at its boundary also absorbs the event, for a buffer
// window, so that a user scrolling to the end of a long panel does not
// overshoot into canvas panning on the very next wheel tick. Only once the
// buffer elapses without further qualifying scrolling does the canvas become
// reachable again.
package scroll

import "sync"

// State is the arbitration state of the current hover session.
type State int

const (
	// Idle is the neutral default before any wheel event in a session.
	Idle State = iota
	// PanelScrolling forwards wheel deltas to the panel's native scroll.
	PanelScrolling
	// EdgeAbsorption swallows boundary-hitting wheel events while the
	// buffer timer runs.
	EdgeAbsorption
	// CanvasReady lets boundary wheel events propagate to pan/zoom.
	CanvasReady
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PanelScrolling:
		return "panel-scrolling"
	case EdgeAbsorption:
		return "edge-absorption"
	case CanvasReady:
		return "canvas-ready"
	default:
		return "unknown"
	}
}

// Decision is the arbiter's verdict for one wheel event.
type Decision int

const (
	// ScrollPanel: forward the delta to the panel, consume the event.
	ScrollPanel Decision = iota
	// Absorb: consume the event without scrolling anything.
	Absorb
	// PanCanvas: let the event drive canvas pan/zoom.
	PanCanvas
)

func (d Decision) String() string {
	switch d {
	case ScrollPanel:
		return "scroll-panel"
	case Absorb:
		return "absorb"
	case PanCanvas:
		return "pan-canvas"
	default:
		return "unknown"
	}
}

// Wheel is one wheel event in panel-local terms.
type Wheel struct {
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
}

// Metrics is the hovered panel's scroll geometry, sampled by the frontend
// at event time.
type Metrics struct {
	ScrollTop    float64 `json:"scrollTop"`
	ScrollLeft   float64 `json:"scrollLeft"`
	ScrollHeight float64 `json:"scrollHeight"`
	ScrollWidth  float64 `json:"scrollWidth"`
	ClientHeight float64 `json:"clientHeight"`
	ClientWidth  float64 `json:"clientWidth"`
}

// EdgeTolerance absorbs sub-pixel rounding in reported scroll offsets.
const EdgeTolerance = 1.0

// Arbiter is the per-canvas wheel arbitration state machine.
//
// The buffer callback may fire on a timer goroutine, so the small amount of
// shared state is mutex-guarded; everything else in the engine stays on the
// event loop. Stale timer fires from an earlier hover session are discarded
// via the generation token, never by error handling.
type Arbiter struct {
	mu         sync.Mutex
	sched      Scheduler
	state      State
	generation uint64
}

// NewArbiter creates an Arbiter using sched for the edge-absorption buffer.
func NewArbiter(sched Scheduler) *Arbiter {
	return &Arbiter{sched: sched}
}

// Decide runs one wheel event through the state machine and returns where
// the event should go. m describes the hovered scrollable panel.
func (a *Arbiter) Decide(w Wheel, m Metrics) Decision {
	a.mu.Lock()
	defer a.mu.Unlock()

	if canScroll(w, m) {
		a.state = PanelScrolling
		return ScrollPanel
	}

	if a.state == CanvasReady {
		return PanCanvas
	}

	// At the boundary: absorb, and (re)arm the buffer. Continued insistent
	// scrolling keeps re-arming it, keeping the canvas suppressed.
	a.state = EdgeAbsorption
	gen := a.generation
	a.sched.Schedule(func() { a.bufferElapsed(gen) })
	return Absorb
}

// bufferElapsed is the buffer-timer callback.
func (a *Arbiter) bufferElapsed(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		// Timer from a hover session that already ended.
		return
	}
	if a.state == EdgeAbsorption {
		a.state = CanvasReady
	}
}

// PointerEnter begins a new hover session over a scrollable panel.
func (a *Arbiter) PointerEnter() {
	a.reset()
}

// PointerLeave ends the hover session. No absorption memory carries over to
// the next hover.
func (a *Arbiter) PointerLeave() {
	a.reset()
}

func (a *Arbiter) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	a.state = Idle
}

// State returns the current arbitration state.
func (a *Arbiter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// canScroll reports whether the panel can still move in the direction the
// wheel event requests. When both axes carry a delta the dominant axis
// decides.
func canScroll(w Wheel, m Metrics) bool {
	dx, dy := w.DeltaX, w.DeltaY
	if abs(dy) >= abs(dx) {
		if dy == 0 {
			return false
		}
		if dy > 0 {
			return m.ScrollTop+m.ClientHeight < m.ScrollHeight-EdgeTolerance
		}
		return m.ScrollTop > EdgeTolerance
	}
	if dx > 0 {
		return m.ScrollLeft+m.ClientWidth < m.ScrollWidth-EdgeTolerance
	}
	return m.ScrollLeft > EdgeTolerance
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
