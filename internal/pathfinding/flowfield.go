package pathfinding

import (
	"navcore/internal/core"
	"navcore/internal/world"
)

// FieldKey identifies a flow field by quantized destination cell hash and
// the chunk it covers, per spec §4.5.
type FieldKey struct {
	DestinationHash uint64
	ChunkCoord      core.ChunkCoord
}

// DestinationHash quantizes a world destination to its cell coordinate and
// packs it into a single uint64, per spec §4.5: (x<<32) | z.
func DestinationHash(dest core.Vec2, cellSize float64) uint64 {
	cx := int32(dest.X / cellSize)
	cz := int32(dest.Z / cellSize)
	return uint64(uint32(cx))<<32 | uint64(uint32(cz))
}

// Field is one built flow-field record: per-cell integration distance and
// gradient unit vector toward the destination, plus bookkeeping for
// expiry.
type Field struct {
	Key         FieldKey
	Destination core.Vec2
	CellCount   int
	Integration []int32 // +inf represented as math.MaxInt32
	Vectors     []core.Vec2
	Ready       bool
	BuiltAtSec  float64
}

const infIntegration = int32(1<<31 - 1)

func (f *Field) index(x, z int) int { return z*f.CellCount + x }

// Sample returns the flow vector at local cell (x, z) if the field is ready
// and the vector has non-trivial length, per spec §4.5's sampling rule.
func (f *Field) Sample(x, z int) (core.Vec2, bool) {
	if f == nil || !f.Ready {
		return core.Vec2{}, false
	}
	if x < 0 || z < 0 || x >= f.CellCount || z >= f.CellCount {
		return core.Vec2{}, false
	}
	v := f.Vectors[f.index(x, z)]
	if v.Length() < 1e-6 {
		return core.Vec2{}, false
	}
	return v, true
}

// BuildField runs the Dijkstra wavefront + gradient pass described in spec
// §4.5 for a single (destination, chunk) pair.
func BuildField(blob *world.ChunkStaticBlob, coord core.ChunkCoord, destination core.Vec2, cellSize float64, perms AgentPermissions, cost CostModel, nowSec float64) *Field {
	n := blob.CellCount
	field := &Field{
		Key:         FieldKey{DestinationHash: DestinationHash(destination, cellSize), ChunkCoord: coord},
		Destination: destination,
		CellCount:   n,
		Integration: make([]int32, n*n),
		Vectors:     make([]core.Vec2, n*n),
		BuiltAtSec:  nowSec,
	}
	for i := range field.Integration {
		field.Integration[i] = infIntegration
	}

	goalX, goalZ := worldToCell(coord, destination, cellSize, n)
	if goalX < 0 || goalZ < 0 || goalX >= n || goalZ >= n {
		field.Ready = true
		return field
	}
	grid := &chunkGrid{blob: blob, perms: perms, cost: cost}
	if !grid.walkable(goalX, goalZ) {
		field.Ready = true
		return field
	}

	goalIdx := field.index(goalX, goalZ)
	field.Integration[goalIdx] = 0
	queue := []int{goalIdx}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		cx, cz := idx%n, idx/n
		curCost := field.Integration[idx]
		for _, step := range neighborSteps {
			nx, nz := cx+step.dx, cz+step.dz
			if !grid.inBounds(nx, nz) || !grid.walkable(nx, nz) {
				continue
			}
			if step.diagonal && !grid.canCutDiagonal(cx, cz, step.dx, step.dz) {
				continue
			}
			nIdx := field.index(nx, nz)
			moveCost := grid.stepCost(step, nx, nz)
			candidate := curCost + moveCost
			if candidate < field.Integration[nIdx] {
				field.Integration[nIdx] = candidate
				queue = append(queue, nIdx)
			}
		}
	}

	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			idx := field.index(x, z)
			if field.Integration[idx] == infIntegration {
				continue
			}
			bestCost := field.Integration[idx]
			var best core.Vec2
			found := false
			for _, step := range neighborSteps {
				nx, nz := x+step.dx, z+step.dz
				if !grid.inBounds(nx, nz) || !grid.walkable(nx, nz) {
					continue
				}
				if step.diagonal && !grid.canCutDiagonal(x, z, step.dx, step.dz) {
					continue
				}
				nIdx := field.index(nx, nz)
				nCost := field.Integration[nIdx]
				if nCost == infIntegration {
					continue
				}
				if !found || nCost < bestCost {
					bestCost = nCost
					best = core.Vec2{X: float64(step.dx), Z: float64(step.dz)}.Normalized()
					found = true
				}
			}
			if found {
				field.Vectors[idx] = best
			}
		}
	}
	field.Ready = true
	return field
}

// Registry owns every live flow field, keyed by FieldKey, and expires
// records that have gone FieldExpiry seconds without a rebuild (spec §4.5).
type Registry struct {
	fields map[FieldKey]*Field
}

func NewRegistry() *Registry {
	return &Registry{fields: make(map[FieldKey]*Field)}
}

func (r *Registry) Get(key FieldKey) (*Field, bool) {
	f, ok := r.fields[key]
	return f, ok
}

func (r *Registry) Put(f *Field) {
	r.fields[f.Key] = f
}

// Expire removes fields last built more than expirySeconds before nowSec.
func (r *Registry) Expire(nowSec, expirySeconds float64) {
	for key, f := range r.fields {
		if nowSec-f.BuiltAtSec > expirySeconds {
			delete(r.fields, key)
		}
	}
}

// NeighborChunkKeys returns the FieldKeys for destination's own chunk plus
// its 8 neighbors, per spec §4.5: "fields are built for the destination's
// chunk and its 8 neighbors."
func NeighborChunkKeys(destination core.Vec2, cellSize float64, destChunk core.ChunkCoord) []FieldKey {
	hash := DestinationHash(destination, cellSize)
	keys := make([]FieldKey, 0, 9)
	keys = append(keys, FieldKey{DestinationHash: hash, ChunkCoord: destChunk})
	for d := MacroDirectionIdx(0); d < 8; d++ {
		dx, dz := macroDeltaPublic(d)
		keys = append(keys, FieldKey{DestinationHash: hash, ChunkCoord: core.ChunkCoord{X: destChunk.X + dx, Z: destChunk.Z + dz}})
	}
	return keys
}
