// Package core provides the entity substrate shared by every navigation and
// combat-AI component store: a generational handle plus a compact slot
// arena. Component data itself lives in the packages that own it (world,
// agent, pathfinding); this package only owns identity.
package core

import "fmt"

// Handle is an opaque, stable reference to an entity slot. Index addresses a
// slot in an Arena; Generation is bumped on every release so a handle copied
// before a Destroy never aliases whatever gets allocated into the same slot
// afterward.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Nil is the zero Handle. No live entity is ever assigned it because Arena
// generations start at 1.
var Nil = Handle{}

func (h Handle) IsNil() bool {
	return h == Nil
}

func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.Index, h.Generation)
}

type slot struct {
	generation uint32
	alive      bool
}

// Arena allocates and recycles Handles. It does not store component data;
// callers keep their own per-kind slices/maps indexed by Handle.Index and
// consult Alive before trusting a stored Handle.
type Arena struct {
	slots     []slot
	freeList  []uint32
	liveCount int
}

// NewArena constructs an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Create allocates a new Handle, reusing a freed slot when available.
func (a *Arena) Create() Handle {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.slots[idx].alive = true
		a.liveCount++
		return Handle{Index: idx, Generation: a.slots[idx].generation}
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot{generation: 1, alive: true})
	a.liveCount++
	return Handle{Index: idx, Generation: 1}
}

// Destroy releases a handle's slot. Subsequent handles into the same slot
// carry a bumped generation so stale copies of h fail Alive.
func (a *Arena) Destroy(h Handle) {
	if !a.Alive(h) {
		return
	}
	s := &a.slots[h.Index]
	s.alive = false
	s.generation++
	a.freeList = append(a.freeList, h.Index)
	a.liveCount--
}

// Alive reports whether h still refers to a live slot at its recorded
// generation.
func (a *Arena) Alive(h Handle) bool {
	if int(h.Index) >= len(a.slots) {
		return false
	}
	s := a.slots[h.Index]
	return s.alive && s.generation == h.Generation
}

// Len reports the number of live handles.
func (a *Arena) Len() int {
	return a.liveCount
}

// Cap reports the number of slots ever allocated (live + freed), useful for
// callers sizing dense per-kind arrays keyed by Handle.Index.
func (a *Arena) Cap() int {
	return len(a.slots)
}

// Live returns every currently-alive handle, in ascending index order.
func (a *Arena) Live() []Handle {
	out := make([]Handle, 0, a.liveCount)
	for i, s := range a.slots {
		if s.alive {
			out = append(out, Handle{Index: uint32(i), Generation: s.generation})
		}
	}
	return out
}
