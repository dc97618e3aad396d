package canvas

import "flowcanvas/pkg/graph"

// Viewport is the canvas pan/zoom state.
type Viewport struct {
	Pan  graph.Position `json:"pan"`
	Zoom float64        `json:"zoom"`

	minZoom, maxZoom, zoomStep float64
}

// NewViewport creates a Viewport at the origin with zoom 1.
func NewViewport(minZoom, maxZoom, zoomStep float64) *Viewport {
	return &Viewport{
		Zoom:     1,
		minZoom:  minZoom,
		maxZoom:  maxZoom,
		zoomStep: zoomStep,
	}
}

// PanBy shifts the viewport by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan.X += dx
	v.Pan.Y += dy
}

// ZoomAt applies one zoom step in the given direction, keeping the canvas
// point under (cx, cy) fixed on screen. Zoom is clamped to the configured
// bounds.
func (v *Viewport) ZoomAt(direction float64, cx, cy float64) {
	old := v.Zoom
	next := old
	if direction > 0 {
		next = old + v.zoomStep
	} else if direction < 0 {
		next = old - v.zoomStep
	}
	if next < v.minZoom {
		next = v.minZoom
	}
	if next > v.maxZoom {
		next = v.maxZoom
	}
	if next == old {
		return
	}
	// Keep the focal point stationary: screen = canvas*zoom + pan.
	scale := next / old
	v.Pan.X = cx - (cx-v.Pan.X)*scale
	v.Pan.Y = cy - (cy-v.Pan.Y)*scale
	v.Zoom = next
}

// ToCanvas converts a screen point to canvas coordinates.
func (v *Viewport) ToCanvas(p graph.Position) graph.Position {
	return graph.Position{
		X: (p.X - v.Pan.X) / v.Zoom,
		Y: (p.Y - v.Pan.Y) / v.Zoom,
	}
}

// ToScreen converts a canvas point to screen coordinates.
func (v *Viewport) ToScreen(p graph.Position) graph.Position {
	return graph.Position{
		X: p.X*v.Zoom + v.Pan.X,
		Y: p.Y*v.Zoom + v.Pan.Y,
	}
}
