package navigation

import (
	"sync"

	"github.com/azyu/bibleview/pkg/types"
)

// Tracker orders asynchronous steps. Every step is issued a generation and
// starts from the last committed position; a finished step is applied only if
// no newer step was issued in the meantime.
type Tracker struct {
	mu        sync.Mutex
	gen       uint64
	committed types.VersePosition
}

// NewTracker creates a tracker positioned at start.
func NewTracker(start types.VersePosition) *Tracker {
	return &Tracker{committed: start}
}

// Issue starts a new step and returns its generation and starting position.
// Any step issued earlier becomes stale.
func (t *Tracker) Issue() (uint64, types.VersePosition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	return t.gen, t.committed
}

// Commit applies the result of step gen. It returns false, leaving the
// position unchanged, when gen is stale.
func (t *Tracker) Commit(gen uint64, pos types.VersePosition) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		return false
	}
	t.committed = pos
	return true
}

// Reset moves to pos directly and invalidates every in-flight step.
func (t *Tracker) Reset(pos types.VersePosition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.committed = pos
}

// Current reports whether gen is still the newest issued step.
func (t *Tracker) Current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gen == t.gen
}

// Position returns the last committed position.
func (t *Tracker) Position() types.VersePosition {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}
