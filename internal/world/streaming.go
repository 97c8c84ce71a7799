package world

import "navcore/internal/core"

// StreamingAnchor draws chunks into Active/Ghost state around its current
// position. Multiple anchors union (spec §4.1); lifetime is external (a
// player, a camera, a scripted point of interest).
type StreamingAnchor struct {
	Handle           core.Handle
	WorldPosition    core.Vec2
	CurrentChunkCoord core.ChunkCoord
	Priority         int // >= 1
}

// UpdateChunkCoord recomputes CurrentChunkCoord from WorldPosition. This is
// the Streaming Anchor Tracker stage (spec §2 step 1).
func (a *StreamingAnchor) UpdateChunkCoord(chunkWorldSize float64) {
	if chunkWorldSize <= 0 {
		return
	}
	a.CurrentChunkCoord = core.ChunkCoord{
		X: floorDiv(a.WorldPosition.X, chunkWorldSize),
		Z: floorDiv(a.WorldPosition.Z, chunkWorldSize),
	}
}

func floorDiv(value, size float64) int32 {
	q := value / size
	i := int32(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}

// ChunkManager owns the set of live GridChunk records and drives the
// Unloaded <-> Ghost <-> Active state machine from the union of streaming
// anchors (spec §4.1).
type ChunkManager struct {
	cfg    NavigationConfig
	baker  *Baker
	arena  *core.Arena
	chunks map[core.ChunkCoord]*GridChunk
	onBake func(core.ChunkCoord)
}

func NewChunkManager(cfg NavigationConfig, baker *Baker) *ChunkManager {
	return &ChunkManager{
		cfg:    cfg,
		baker:  baker,
		arena:  core.NewArena(),
		chunks: make(map[core.ChunkCoord]*GridChunk),
	}
}

// SetBakeHook registers fn to be called whenever stepToward bakes a chunk's
// static data (the Unloaded -> Ghost transition), letting callers observe
// bake events without ChunkManager depending on any particular publisher.
func (m *ChunkManager) SetBakeHook(fn func(core.ChunkCoord)) {
	m.onBake = fn
}

func (m *ChunkManager) ChunkWorldSize() float64 {
	return m.baker.ChunkWorldSize()
}

// Get returns the chunk record at coord, if any.
func (m *ChunkManager) Get(coord core.ChunkCoord) (*GridChunk, bool) {
	c, ok := m.chunks[coord]
	return c, ok
}

// All returns every live chunk record. Callers must not retain the slice
// across a Tick call.
func (m *ChunkManager) All() []*GridChunk {
	out := make([]*GridChunk, 0, len(m.chunks))
	for _, c := range m.chunks {
		out = append(out, c)
	}
	return out
}

// desiredStates computes, for every chunk touched by any anchor's ghost
// ring, the maximum desired ChunkState across all anchors (spec §4.1
// "desired-state union").
func (m *ChunkManager) desiredStates(anchors []*StreamingAnchor) map[core.ChunkCoord]ChunkState {
	desired := make(map[core.ChunkCoord]ChunkState)
	for _, a := range anchors {
		priority := a.Priority
		if priority < 1 {
			priority = 1
		}
		activeR := m.cfg.ActiveRingRadius * max1(priority)
		ghostR := m.cfg.GhostRingRadius * max1(priority)
		if ghostR < activeR {
			ghostR = activeR
		}
		for dz := -ghostR; dz <= ghostR; dz++ {
			for dx := -ghostR; dx <= ghostR; dx++ {
				coord := core.ChunkCoord{X: a.CurrentChunkCoord.X + int32(dx), Z: a.CurrentChunkCoord.Z + int32(dz)}
				state := ChunkGhost
				if dx >= -activeR && dx <= activeR && dz >= -activeR && dz <= activeR {
					state = ChunkActive
				}
				if existing, ok := desired[coord]; !ok || state > existing {
					desired[coord] = state
				}
			}
		}
	}
	return desired
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// Tick runs one Chunk Manager pass: compute the desired-state union, create
// new chunk records, drive every touched chunk's transition one step toward
// its desired state, and destroy chunks that have fully unloaded.
func (m *ChunkManager) Tick(anchors []*StreamingAnchor) {
	desired := m.desiredStates(anchors)

	for coord, state := range desired {
		chunk, ok := m.chunks[coord]
		if !ok {
			chunk = &GridChunk{Handle: m.arena.Create(), Coord: coord, State: ChunkUnloaded}
			m.chunks[coord] = chunk
		}
		m.stepToward(chunk, state)
	}

	for coord, chunk := range m.chunks {
		if _, wanted := desired[coord]; wanted {
			continue
		}
		m.stepToward(chunk, ChunkUnloaded)
		if chunk.State == ChunkUnloaded {
			m.arena.Destroy(chunk.Handle)
			delete(m.chunks, coord)
		}
	}
}

// stepToward advances chunk one lifecycle transition toward target,
// matching spec §4.1's single-step transition table. Multi-level gaps (e.g.
// Unloaded -> Active) are closed one Tick at a time so bake/dispose side
// effects happen in isolation.
func (m *ChunkManager) stepToward(chunk *GridChunk, target ChunkState) {
	if chunk.State == target {
		return
	}
	if target > chunk.State {
		switch chunk.State {
		case ChunkUnloaded:
			chunk.Static = m.baker.Bake(chunk.Coord)
			chunk.StaticReady = true
			chunk.State = ChunkGhost
			if m.onBake != nil {
				m.onBake(chunk.Coord)
			}
		case ChunkGhost:
			chunk.Dynamic = newChunkDynamicData(chunk.Static.CellCount)
			chunk.State = ChunkActive
		}
	} else {
		switch chunk.State {
		case ChunkActive:
			chunk.Dynamic = nil
			chunk.State = ChunkGhost
		case ChunkGhost:
			chunk.Static = nil
			chunk.StaticReady = false
			chunk.State = ChunkUnloaded
		}
	}
}
