// Package panel manages the auxiliary panels attached to diagram nodes:
// which panels are open, their stacking order within a node's row, their
// z-indexes, and the promotion of a single "active" node group above
// everything else on the canvas.
package panel

import (
	"fmt"

	"flowcanvas/pkg/graph"
)

// Type enumerates the kinds of auxiliary panels a node can open.
type Type int

const (
	Summary Type = iota
	Editor
	AIChat
	Share
	Tools
)

func (t Type) String() string {
	switch t {
	case Summary:
		return "summary"
	case Editor:
		return "editor"
	case AIChat:
		return "ai-chat"
	case Share:
		return "share"
	case Tools:
		return "tools"
	default:
		return "unknown"
	}
}

// ParseType converts a panel type name to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "summary":
		return Summary, nil
	case "editor":
		return Editor, nil
	case "ai-chat":
		return AIChat, nil
	case "share":
		return Share, nil
	case "tools":
		return Tools, nil
	}
	return 0, fmt.Errorf("unknown panel type %q", s)
}

// Panel is one open auxiliary panel, keyed by (node, type).
type Panel struct {
	NodeID     graph.NodeID `json:"nodeId"`
	Type       Type         `json:"panelType"`
	Visible    bool         `json:"isVisible"`
	StackOrder int          `json:"stackOrder"`
	ZIndex     int          `json:"zIndex"`
}
