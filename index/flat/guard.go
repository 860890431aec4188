package flat

import "sync/atomic"

// guard is a non-blocking single-writer/multi-reader gate. Acquisition fails
// instead of waiting, so overlapping Insert and Query calls are reported to
// the caller rather than serialized.
//
// tryWrite claims the writer flag before checking for readers and releases
// it when readers are present. A tryRead racing that short window also
// fails, so a Query overlapping a rejected Insert may report
// ErrConcurrentMutation although nothing was mutated. Neither side blocks
// and the flag is always released.
type guard struct {
	writing atomic.Bool
	readers atomic.Int64
}

func (g *guard) tryWrite() bool {
	if !g.writing.CompareAndSwap(false, true) {
		return false
	}
	if g.readers.Load() > 0 {
		g.writing.Store(false)
		return false
	}
	return true
}

func (g *guard) doneWrite() { g.writing.Store(false) }

func (g *guard) tryRead() bool {
	g.readers.Add(1)
	if g.writing.Load() {
		g.readers.Add(-1)
		return false
	}
	return true
}

func (g *guard) doneRead() { g.readers.Add(-1) }
