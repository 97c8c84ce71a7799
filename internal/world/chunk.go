package world

import "navcore/internal/core"

// ChunkState is the lifecycle stage of a grid chunk.
type ChunkState int

const (
	ChunkUnloaded ChunkState = iota
	ChunkGhost
	ChunkActive
)

func (s ChunkState) String() string {
	switch s {
	case ChunkGhost:
		return "Ghost"
	case ChunkActive:
		return "Active"
	default:
		return "Unloaded"
	}
}

// maxChunkState returns the higher-priority of two chunk states (Active > Ghost >
// Unloaded), used when unioning desired state across streaming anchors.
func maxChunkState(a, b ChunkState) ChunkState {
	if a > b {
		return a
	}
	return b
}

// NodeStatic is the 4-byte per-cell static bake result.
type NodeStatic struct {
	WalkableLayerMask uint8 // 0 => blocked
	TerrainCostMask   uint8
	SlopeFlags        uint8 // bit0: too steep for ground
	Reserved          uint8
}

const slopeTooSteep uint8 = 1

// IsWalkableFor reports whether this node is traversable by an agent with
// the given layer permissions, per spec §4.4's walkability predicate.
func (n NodeStatic) IsWalkableFor(walkableLayers uint8, isFlying bool) bool {
	if n.WalkableLayerMask == 0 {
		return false
	}
	if n.WalkableLayerMask&walkableLayers == 0 {
		return false
	}
	if n.SlopeFlags&slopeTooSteep != 0 && !isFlying {
		return false
	}
	return true
}

// MacroDirection indexes the 8 outward edges of a chunk in the fixed order
// N, NE, E, SE, S, SW, W, NW, matching the persisted layout in spec §6.
type MacroDirection int

const (
	MacroN MacroDirection = iota
	MacroNE
	MacroE
	MacroSE
	MacroS
	MacroSW
	MacroW
	MacroNW
	macroDirectionCount
)

// macroDelta returns the chunk-coordinate delta for a macro direction.
func macroDelta(d MacroDirection) (dx, dz int32) {
	switch d {
	case MacroN:
		return 0, -1
	case MacroNE:
		return 1, -1
	case MacroE:
		return 1, 0
	case MacroSE:
		return 1, 1
	case MacroS:
		return 0, 1
	case MacroSW:
		return -1, 1
	case MacroW:
		return -1, 0
	case MacroNW:
		return -1, -1
	}
	return 0, 0
}

func macroDirectionCost(d MacroDirection) int32 {
	switch d {
	case MacroNE, MacroSE, MacroSW, MacroNW:
		return 14
	default:
		return 10
	}
}

func opposite(d MacroDirection) MacroDirection {
	return (d + 4) % macroDirectionCount
}

// ChunkStaticBlob is the immutable, once-baked per-chunk payload: the flat
// per-cell NodeStatic array (row-major, z-major: index = z*N + x) plus the
// 8-way macro connectivity used by macro A*. It is the only persisted,
// versionable artifact the core produces (spec §6).
type ChunkStaticBlob struct {
	ChunkCoord         core.ChunkCoord
	CellCount          int
	Nodes              []NodeStatic
	MacroConnectivity  [macroDirectionCount]uint8 // 10 = open straight-equivalent, 0 = blocked
}

func (b *ChunkStaticBlob) index(x, z int) int {
	return z*b.CellCount + x
}

func (b *ChunkStaticBlob) At(x, z int) NodeStatic {
	return b.Nodes[b.index(x, z)]
}

// ChunkDynamicData exists only while a chunk is Active: per-cell runtime
// occupancy used by crowd-threshold checks and dynamic blocking.
type ChunkDynamicData struct {
	Occupancy   []uint8 // occupancy_count
	BlockFlags  []uint8 // dynamic_block_flags
}

func newChunkDynamicData(cellCount int) *ChunkDynamicData {
	n := cellCount * cellCount
	return &ChunkDynamicData{
		Occupancy:  make([]uint8, n),
		BlockFlags: make([]uint8, n),
	}
}

// GridChunk is the per-chunk entity record. Handle identifies it in the
// ChunkManager's arena; entity-style optional components (the blob, the
// dynamic data) are nil until the corresponding transition has run.
type GridChunk struct {
	Handle      core.Handle
	Coord       core.ChunkCoord
	State       ChunkState
	StaticReady bool

	Static  *ChunkStaticBlob
	Dynamic *ChunkDynamicData
}

// invariant (spec §3): Active => static_ready && dynamic != nil;
// Ghost => static_ready && dynamic == nil; Unloaded => neither.
func (c *GridChunk) checkInvariant() bool {
	switch c.State {
	case ChunkActive:
		return c.StaticReady && c.Dynamic != nil
	case ChunkGhost:
		return c.StaticReady && c.Dynamic == nil
	default:
		return !c.StaticReady && c.Dynamic == nil
	}
}
