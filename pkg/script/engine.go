// Package script provides a small Lisp DSL for building diagrams
// programmatically. It wraps zygomys in a sandboxed environment; evaluating
// a source string produces a fresh canvas session populated by the script's
// commands.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"flowcanvas/pkg/canvas"
	"flowcanvas/pkg/config"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in the script.
type EvalError struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// Evaluate call builds a fresh sandboxed environment and a fresh canvas for
// determinism.
type Engine struct {
	cfg config.Config

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine whose evaluations build canvases from cfg.
func NewEngine(cfg config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate runs a diagram script and returns the canvas it built.
//
// Return semantics:
//   - On success: canvas + nil errors + nil error
//   - On parse/eval failure: nil canvas + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Evaluate(source string) (*canvas.Canvas, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		cv, evalErrs := e.evaluate(source)
		ch <- evalResult{canvas: cv, errors: evalErrs}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox
// against a fresh canvas.
func (e *Engine) evaluate(source string) (*canvas.Canvas, []EvalError) {
	cv := canvas.New(e.cfg)

	// Empty source is a valid script that produces an empty canvas.
	if strings.TrimSpace(source) == "" {
		return cv, nil
	}

	env := newSandbox(cv)
	defer env.Stop()

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygoError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygoError(err)
	}
	return cv, nil
}

// linePattern matches zygomys error messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches the simpler "line N: ..." form.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygoError converts a zygomys error into an EvalError, extracting line
// information when the message carries it.
func parseZygoError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
