package script

import (
	"fmt"

	"flowcanvas/pkg/canvas"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/panel"

	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource adapts diagram-script source for zygomys:
//
//  1. ';' line comments become '//' (zygomys has no Lisp-style comments).
//  2. Kebab-case identifiers become underscore form (open-panel ->
//     open_panel); zygomys reads the hyphen as subtraction.
//
// Both transformations skip string literals, so panel type names such as
// "ai-chat" pass through untouched.
func preprocessSource(source string) string {
	out := make([]byte, 0, len(source))
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals verbatim.
		if b[i] == '"' {
			out = append(out, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					out = append(out, b[i], b[i+1])
					i += 2
					continue
				}
				out = append(out, b[i])
				i++
			}
			if i < len(b) {
				out = append(out, b[i])
				i++
			}
			continue
		}
		// ';' comments become '//' comments.
		if b[i] == ';' {
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
			continue
		}
		// Hyphen between identifier characters is kebab-case, not minus.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			out = append(out, '_')
			i++
			continue
		}
		out = append(out, b[i])
		i++
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpNodeRef carries a graph.NodeID between builtins.
type sexpNodeRef struct {
	id graph.NodeID
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(noderef %s)", n.id)
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpConnRef carries a graph.ConnectionID between builtins.
type sexpConnRef struct {
	id graph.ConnectionID
}

func (c *sexpConnRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(connref %s)", c.id)
}
func (c *sexpConnRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return "", fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

func toConnRef(s zygo.Sexp) (graph.ConnectionID, error) {
	if ref, ok := s.(*sexpConnRef); ok {
		return ref.id, nil
	}
	return "", fmt.Errorf("expected connection reference, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// newSandbox creates a sandboxed zygomys environment whose builtins drive
// the given canvas. Sandbox mode keeps scripts away from the filesystem and
// syscalls.
func newSandbox(cv *canvas.Canvas) *zygo.Zlisp {
	env := zygo.NewZlispSandbox()

	// (node "usecase" x y) or (node "usecase" x y "Title") -> noderef
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("node: want (node \"type\" x y), got %d args", len(args))
		}
		typeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: %w", err)
		}
		t, err := graph.ParseNodeType(typeName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: %w", err)
		}
		x, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: x: %w", err)
		}
		y, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: y: %w", err)
		}
		id := cv.AddNode(t, graph.Position{X: x, Y: y})
		if len(args) > 3 {
			title, err := toString(args[3])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("node: title: %w", err)
			}
			cv.Store.UpdateNode(id, graph.NodeUpdate{Title: &title})
		}
		return &sexpNodeRef{id: id}, nil
	})

	// (title ref "...") sets a node's title.
	env.AddFunction("title", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, title, err := nodeAndString("title", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		cv.Store.UpdateNode(id, graph.NodeUpdate{Title: &title})
		return zygo.SexpNull, nil
	})

	// (describe ref "...") sets a node's description.
	env.AddFunction("describe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, desc, err := nodeAndString("describe", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		cv.Store.UpdateNode(id, graph.NodeUpdate{Description: &desc})
		return zygo.SexpNull, nil
	})

	// (connect a b) or (connect a b "control") -> connref
	env.AddFunction("connect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("connect: want (connect from to), got %d args", len(args))
		}
		from, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: %w", err)
		}
		to, err := toNodeRef(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: %w", err)
		}
		if from == to {
			return zygo.SexpNull, fmt.Errorf("connect: self-loops are not allowed")
		}
		connType := graph.ConnData
		if len(args) > 2 {
			typeName, err := toString(args[2])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("connect: %w", err)
			}
			connType, err = graph.ParseConnectionType(typeName)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("connect: %w", err)
			}
		}
		for _, c := range cv.Store.Connections() {
			if c.Type != connType {
				continue
			}
			samePair := (c.SourceNodeID == from && c.TargetNodeID == to) ||
				(c.SourceNodeID == to && c.TargetNodeID == from)
			if samePair {
				return zygo.SexpNull, fmt.Errorf("connect: duplicate %s connection", connType)
			}
		}
		id := cv.Store.AddConnection(from, to, connType)
		if id.IsZero() {
			return zygo.SexpNull, fmt.Errorf("connect: endpoint does not exist")
		}
		return &sexpConnRef{id: id}, nil
	})

	// (label conn "...") sets a connection label.
	env.AddFunction("label", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("label: want (label conn \"text\"), got %d args", len(args))
		}
		id, err := toConnRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("label: %w", err)
		}
		text, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("label: %w", err)
		}
		cv.Store.UpdateConnection(id, graph.ConnectionUpdate{Label: &text})
		return zygo.SexpNull, nil
	})

	// (swap conn) reverses a connection's direction -> bool
	env.AddFunction("swap", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("swap: want (swap conn), got %d args", len(args))
		}
		id, err := toConnRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("swap: %w", err)
		}
		return &zygo.SexpBool{Val: cv.Store.SwapConnection(id)}, nil
	})

	// (open-panel ref "summary") opens a panel and promotes the node group.
	env.AddFunction("open_panel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, t, err := nodeAndPanelType("open-panel", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		cv.OpenPanel(id, t)
		return zygo.SexpNull, nil
	})

	// (close-panel ref "summary") closes a panel.
	env.AddFunction("close_panel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, t, err := nodeAndPanelType("close-panel", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		cv.ClosePanel(id, t)
		return zygo.SexpNull, nil
	})

	// (promote ref) raises a node group to the top of the stack.
	env.AddFunction("promote", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("promote: want (promote ref), got %d args", len(args))
		}
		id, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("promote: %w", err)
		}
		cv.PromoteNodeGroup(id)
		return zygo.SexpNull, nil
	})

	// (select-node ref) selects a node.
	env.AddFunction("select_node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("select-node: want (select-node ref), got %d args", len(args))
		}
		id, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select-node: %w", err)
		}
		cv.ClickNode(id)
		return zygo.SexpNull, nil
	})

	// (validate) -> bool, true when the diagram has no dangling references.
	env.AddFunction("validate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpBool{Val: cv.Store.ValidateConnections().Valid}, nil
	})

	return env
}

func nodeAndString(fn string, args []zygo.Sexp) (graph.NodeID, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("%s: want (%s ref \"text\"), got %d args", fn, fn, len(args))
	}
	id, err := toNodeRef(args[0])
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", fn, err)
	}
	text, err := toString(args[1])
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", fn, err)
	}
	return id, text, nil
}

func nodeAndPanelType(fn string, args []zygo.Sexp) (graph.NodeID, panel.Type, error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("%s: want (%s ref \"panel-type\"), got %d args", fn, fn, len(args))
	}
	id, err := toNodeRef(args[0])
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", fn, err)
	}
	typeName, err := toString(args[1])
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", fn, err)
	}
	t, err := panel.ParseType(typeName)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", fn, err)
	}
	return id, t, nil
}
