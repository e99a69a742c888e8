package interp

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// GILState records whether the global execution lock was already held at
// acquisition time. Its only valid use is a single matching GILRelease
// call on the same goroutine.
type GILState uint8

const (
	// GILUnlocked means the call newly acquired the lock.
	GILUnlocked GILState = iota
	// GILLocked means the calling goroutine already held the lock and the
	// acquisition only nested.
	GILLocked
)

// gil is the interpreter's global execution lock: a mutex made reentrant
// per goroutine by tracking the owning goroutine id.
type gil struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int // nested acquisitions; guarded by ownership of mu
}

func (g *gil) ensure() GILState {
	id := goid.Get()
	if g.owner.Load() == id {
		g.depth++
		return GILLocked
	}
	g.mu.Lock()
	g.owner.Store(id)
	return GILUnlocked
}

func (g *gil) release(state GILState) {
	if g.owner.Load() != goid.Get() {
		panic("interp: GILRelease on a goroutine that does not hold the lock")
	}
	switch state {
	case GILLocked:
		if g.depth == 0 {
			panic("interp: unbalanced GILRelease")
		}
		g.depth--
	case GILUnlocked:
		if g.depth != 0 {
			panic("interp: GILRelease out of nesting order")
		}
		g.owner.Store(0)
		g.mu.Unlock()
	default:
		panic("interp: GILRelease with invalid state")
	}
}

// held reports whether the calling goroutine owns the lock.
func (g *gil) held() bool {
	return g.owner.Load() == goid.Get()
}

// GILEnsure acquires the interpreter's global execution lock, nesting if
// the calling goroutine already holds it. The returned state must be
// passed to exactly one matching GILRelease on the same goroutine.
// Blocks while another goroutine holds the lock.
func (i *Interpreter) GILEnsure() GILState {
	return i.gil.ensure()
}

// GILRelease releases or unnests the global execution lock according to
// the state returned by the matching GILEnsure. Releases must be strictly
// nested; misuse panics rather than corrupting the lock.
func (i *Interpreter) GILRelease(state GILState) {
	i.gil.release(state)
}
