package scroll

import (
	"time"

	"github.com/bep/debounce"
)

// DefaultEdgeBuffer is the stock edge-absorption buffer duration.
const DefaultEdgeBuffer = 300 * time.Millisecond

// Scheduler arms the edge-absorption buffer. Each Schedule call supersedes
// the previous one: the callback runs once, the buffer duration after the
// most recent call. Tests inject a manual implementation so the transition
// table is checked without wall-clock delays.
type Scheduler interface {
	Schedule(fn func())
}

// debounceScheduler is the production Scheduler, a re-armable single-shot
// timer.
type debounceScheduler struct {
	debounced func(func())
}

// NewScheduler creates the production Scheduler with the given buffer
// duration.
func NewScheduler(buffer time.Duration) Scheduler {
	return &debounceScheduler{debounced: debounce.New(buffer)}
}

func (d *debounceScheduler) Schedule(fn func()) {
	d.debounced(fn)
}
