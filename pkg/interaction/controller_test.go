package interaction

import (
	"testing"

	"flowcanvas/pkg/graph"
)

// fakePanels satisfies PanelCounter with a plain map.
type fakePanels map[graph.NodeID]int

func (f fakePanels) OpenPanelCount(id graph.NodeID) int { return f[id] }

func newTestController(panels fakePanels) *Controller {
	return NewController(DefaultSettings(), panels)
}

func TestStatePriority(t *testing.T) {
	panels := fakePanels{}
	c := newTestController(panels)

	if got := c.StateOf("n"); got != Inactive {
		t.Errorf("default state = %v, want inactive", got)
	}

	c.SetHover("n", true)
	if got := c.StateOf("n"); got != Hover {
		t.Errorf("state = %v, want hover", got)
	}

	// Selected outranks hover.
	c.Select("n")
	if got := c.StateOf("n"); got != Selected {
		t.Errorf("state = %v, want selected", got)
	}

	// Elevated outranks everything.
	panels["n"] = 1
	if got := c.StateOf("n"); got != Elevated {
		t.Errorf("state = %v, want elevated", got)
	}

	// Dropping conditions falls back down the priority ladder.
	delete(panels, "n")
	if got := c.StateOf("n"); got != Selected {
		t.Errorf("state = %v, want selected again", got)
	}
	c.Deselect("n")
	if got := c.StateOf("n"); got != Hover {
		t.Errorf("state = %v, want hover again", got)
	}
	c.SetHover("n", false)
	c.SetFocus("n", true)
	if got := c.StateOf("n"); got != Focus {
		t.Errorf("state = %v, want focus", got)
	}
}

func TestFixedZValues(t *testing.T) {
	c := newTestController(fakePanels{})

	if got := c.ZIndexOf("n"); got != 10 {
		t.Errorf("inactive z = %d, want 10", got)
	}
	c.SetHover("n", true)
	if got := c.ZIndexOf("n"); got != 50 {
		t.Errorf("hover z = %d, want 50", got)
	}
}

func TestSelectionAssignsFreshTop(t *testing.T) {
	c := newTestController(fakePanels{})

	c.Select("a")
	za := c.ZIndexOf("a")
	if za <= 50 {
		t.Errorf("selected z = %d, want above hover", za)
	}

	// Each later selection lands strictly above every observed value,
	// ties included.
	c.Select("b")
	zb := c.ZIndexOf("b")
	if zb <= za {
		t.Errorf("b z = %d, want > %d", zb, za)
	}

	// Re-entering selected recomputes; a now beats b again.
	c.Select("a")
	if got := c.ZIndexOf("a"); got <= zb {
		t.Errorf("re-selected a z = %d, want > %d", got, zb)
	}
}

func TestElevationRecomputesOnEntry(t *testing.T) {
	panels := fakePanels{}
	c := newTestController(panels)

	c.Select("a")
	za := c.ZIndexOf("a")

	panels["b"] = 1
	c.PanelsChanged("b")
	if got := c.ZIndexOf("b"); got <= za {
		t.Errorf("elevated b z = %d, want > %d", got, za)
	}

	// Last panel closing drops the dynamic assignment.
	delete(panels, "b")
	c.PanelsChanged("b")
	if got := c.ZIndexOf("b"); got != 10 {
		t.Errorf("b z after panels close = %d, want inactive", got)
	}
}

func TestSelectionStaysBelowActiveBlock(t *testing.T) {
	panels := fakePanels{"active": 1}
	c := newTestController(panels)

	// The registry promoted another node into the reserved block; a later
	// selection must not climb past it.
	c.SetZ("active", 3000)
	c.Select("n")
	if got := c.ZIndexOf("n"); got >= 3000 {
		t.Errorf("selected z = %d, want below the active block", got)
	}
	if got := c.ZIndexOf("n"); got <= 50 {
		t.Errorf("selected z = %d, want above hover", got)
	}
}

func TestSetZIsAuthoritative(t *testing.T) {
	panels := fakePanels{"a": 1}
	c := newTestController(panels)

	c.SetZ("a", 3000)
	if got := c.ZIndexOf("a"); got != 3000 {
		t.Fatalf("promoted z = %d, want 3000", got)
	}

	// PanelsChanged must not recompute over a reserved-block assignment.
	c.PanelsChanged("a")
	if got := c.ZIndexOf("a"); got != 3000 {
		t.Errorf("z after PanelsChanged = %d, want 3000", got)
	}

	// Demotion overwrites downward too.
	c.SetZ("a", 100)
	if got := c.ZIndexOf("a"); got != 100 {
		t.Errorf("demoted z = %d, want 100", got)
	}
}

func TestDeselectKeepsElevatedAssignment(t *testing.T) {
	panels := fakePanels{"n": 1}
	c := newTestController(panels)

	c.Select("n")
	z := c.ZIndexOf("n")
	if z <= 50 {
		t.Fatalf("z = %d, want above hover", z)
	}

	// Deselecting a node that still has open panels keeps it elevated at
	// its assigned z; it must not fall back to the hover value.
	c.Deselect("n")
	if got := c.StateOf("n"); got != Elevated {
		t.Fatalf("state = %v, want elevated", got)
	}
	if got := c.ZIndexOf("n"); got != z {
		t.Errorf("z after deselect = %d, want %d", got, z)
	}
}

func TestLastPanelCloseLeavesDynamicSelection(t *testing.T) {
	panels := fakePanels{"n": 1}
	c := newTestController(panels)

	c.Select("n")
	c.SetZ("n", 3000)

	// The last panel closes: the node is no longer part of any active
	// group, so its stale block value is replaced by a fresh dynamic one.
	delete(panels, "n")
	c.PanelsChanged("n")
	if got := c.StateOf("n"); got != Selected {
		t.Fatalf("state = %v, want selected", got)
	}
	got := c.ZIndexOf("n")
	if got >= 3000 || got <= 50 {
		t.Errorf("z = %d, want dynamic below the active block", got)
	}
}

func TestForget(t *testing.T) {
	c := newTestController(fakePanels{})
	c.SetHover("n", true)
	c.Select("n")

	c.Forget("n")

	if got := c.StateOf("n"); got != Inactive {
		t.Errorf("state after forget = %v", got)
	}
	if got := c.ZIndexOf("n"); got != 10 {
		t.Errorf("z after forget = %d", got)
	}
}

func TestStateStrings(t *testing.T) {
	want := map[State]string{
		Inactive: "inactive",
		Hover:    "hover",
		Focus:    "focus",
		Selected: "selected",
		Elevated: "elevated",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), name)
		}
	}
}
