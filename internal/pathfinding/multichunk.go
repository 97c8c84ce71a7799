package pathfinding

import (
	"navcore/internal/core"
	"navcore/internal/world"
)

// LoadedSnapshot is a per-frame index of every currently loaded chunk's
// static blob. Per spec §9, "the global cell index must be a pure function
// of (chunk_index_within_loaded_set, local_cell_index); the set of loaded
// chunks can change between frames, so a per-frame snapshot is taken and
// indexed locally." Callers build one snapshot per A* stage invocation and
// discard it at the stage barrier.
type LoadedSnapshot struct {
	coords       []core.ChunkCoord
	blobs        []*world.ChunkStaticBlob
	indexByCoord map[core.ChunkCoord]int
	cellCount    int
}

// NewLoadedSnapshot builds a snapshot from the chunk coordinates currently
// Active or Ghost (static_ready). All blobs must share the same CellCount.
func NewLoadedSnapshot(loaded map[core.ChunkCoord]*world.ChunkStaticBlob) *LoadedSnapshot {
	snap := &LoadedSnapshot{indexByCoord: make(map[core.ChunkCoord]int, len(loaded))}
	for coord, blob := range loaded {
		idx := len(snap.coords)
		snap.coords = append(snap.coords, coord)
		snap.blobs = append(snap.blobs, blob)
		snap.indexByCoord[coord] = idx
		snap.cellCount = blob.CellCount
	}
	return snap
}

func (s *LoadedSnapshot) chunkIndex(coord core.ChunkCoord) (int, bool) {
	idx, ok := s.indexByCoord[coord]
	return idx, ok
}

// globalIndex is the pure (chunk_index, local_index) -> dense-array mapping
// spec §9 requires for multi-chunk A*.
func (s *LoadedSnapshot) globalIndex(chunkIdx, localX, localZ int) int {
	return chunkIdx*s.cellCount*s.cellCount + localZ*s.cellCount + localX
}

func (s *LoadedSnapshot) totalCells() int {
	return len(s.coords) * s.cellCount * s.cellCount
}

// resolveNeighbor wraps a local coordinate across a chunk boundary and
// resolves which loaded chunk (if any) owns the resulting cell, per spec
// §4.4's multi-chunk neighbor model.
func (s *LoadedSnapshot) resolveNeighbor(chunkIdx, x, z, dx, dz int) (neighborChunkIdx, nx, nz int, ok bool) {
	n := s.cellCount
	nx, nz = x+dx, z+dz
	coord := s.coords[chunkIdx]
	coordDX, coordDZ := int32(0), int32(0)
	if nx < 0 {
		nx += n
		coordDX = -1
	} else if nx >= n {
		nx -= n
		coordDX = 1
	}
	if nz < 0 {
		nz += n
		coordDZ = -1
	} else if nz >= n {
		nz -= n
		coordDZ = 1
	}
	if coordDX == 0 && coordDZ == 0 {
		return chunkIdx, nx, nz, true
	}
	neighborCoord := core.ChunkCoord{X: coord.X + coordDX, Z: coord.Z + coordDZ}
	idx, exists := s.chunkIndex(neighborCoord)
	if !exists {
		return 0, 0, 0, false
	}
	return idx, nx, nz, true
}

func (s *LoadedSnapshot) walkable(chunkIdx, x, z int, perms AgentPermissions) bool {
	node := s.blobs[chunkIdx].At(x, z)
	return node.IsWalkableFor(perms.WalkableLayers, perms.IsFlying)
}

func (s *LoadedSnapshot) terrainCost(chunkIdx, x, z int, cost CostModel) int32 {
	node := s.blobs[chunkIdx].At(x, z)
	return cost.terrainCost(node.TerrainCostMask)
}

// locate resolves a world position to (chunkIdx, localX, localZ) within the
// snapshot, if that chunk is loaded.
func (s *LoadedSnapshot) locate(pos core.Vec2, cellSize float64) (int, int, int, bool) {
	for idx, coord := range s.coords {
		x, z := worldToCell(coord, pos, cellSize, s.cellCount)
		if x >= 0 && z >= 0 && x < s.cellCount && z < s.cellCount {
			_ = idx
		}
		// A position may nominally fall in more than one chunk's local
		// range only at float rounding edges; prefer the chunk whose
		// coord actually matches the position's containing chunk.
		size := float64(s.cellCount) * cellSize
		want := core.ChunkCoord{X: floorDivPF(pos.X, size), Z: floorDivPF(pos.Z, size)}
		if coord == want {
			return idx, x, z, true
		}
	}
	return 0, 0, 0, false
}

func floorDivPF(value, size float64) int32 {
	q := value / size
	i := int32(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}

func (s *LoadedSnapshot) canCutDiagonal(chunkIdx, x, z, dx, dz int, perms AgentPermissions) bool {
	idxH, hx, hz, okH := s.resolveNeighbor(chunkIdx, x, z, dx, 0)
	idxV, vx, vz, okV := s.resolveNeighbor(chunkIdx, x, z, 0, dz)
	horizOpen := okH && s.walkable(idxH, hx, hz, perms)
	vertOpen := okV && s.walkable(idxV, vx, vz, perms)
	return horizOpen || vertOpen
}

// snapToWalkableMulti BFS-searches outward across chunk boundaries for the
// nearest walkable cell.
func snapToWalkableMulti(s *LoadedSnapshot, chunkIdx, x, z int, perms AgentPermissions) (int, int, int, bool) {
	if s.walkable(chunkIdx, x, z, perms) {
		return chunkIdx, x, z, true
	}
	type key struct{ c, x, z int }
	type item struct {
		c, x, z, depth int
	}
	visited := map[key]bool{{chunkIdx, x, z}: true}
	queue := []item{{chunkIdx, x, z, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= snapSearchRadius {
			continue
		}
		for _, step := range neighborSteps {
			ncIdx, nx, nz, ok := s.resolveNeighbor(cur.c, cur.x, cur.z, step.dx, step.dz)
			if !ok {
				continue
			}
			k := key{ncIdx, nx, nz}
			if visited[k] {
				continue
			}
			visited[k] = true
			if s.walkable(ncIdx, nx, nz, perms) {
				return ncIdx, nx, nz, true
			}
			queue = append(queue, item{ncIdx, nx, nz, cur.depth + 1})
		}
	}
	return 0, 0, 0, false
}

type multiNode struct {
	chunkIdx, x, z int
	g, f           int32
	parent         int // global index of parent, -1 for start
}

// MultiChunk runs A* over every currently loaded chunk's cells, indexed by
// (chunk_index_within_loaded_set, local_index), per spec §4.4. This is the
// variant that prevents walls in intermediate chunks from being ignored:
// neighbor traversal only crosses into chunks present in the snapshot.
func MultiChunk(snapshot *LoadedSnapshot, cellSize float64, req Request, cost CostModel) Outcome {
	startChunkIdx, startX, startZ, ok := snapshot.locate(req.Start, cellSize)
	if !ok {
		return Outcome{Success: false}
	}
	endChunkIdx, endX, endZ, ok := snapshot.locate(req.End, cellSize)
	if !ok {
		return Outcome{Success: false}
	}

	startChunkIdx, startX, startZ, ok = snapToWalkableMulti(snapshot, startChunkIdx, startX, startZ, req.Perms)
	if !ok {
		return Outcome{Success: false}
	}
	destWalkable := snapshot.walkable(endChunkIdx, endX, endZ, req.Perms)
	goalChunkIdx, goalX, goalZ := endChunkIdx, endX, endZ
	if !destWalkable {
		goalChunkIdx, goalX, goalZ, ok = snapToWalkableMulti(snapshot, endChunkIdx, endX, endZ, req.Perms)
		if !ok {
			return Outcome{Success: false}
		}
	}

	startGlobal := snapshot.globalIndex(startChunkIdx, startX, startZ)
	goalGlobal := snapshot.globalIndex(goalChunkIdx, goalX, goalZ)
	if startGlobal == goalGlobal {
		return Outcome{Success: true, Waypoints: nil}
	}

	nodes := make(map[int]*multiNode)
	open := newOpenQueue()
	heuristic := func(cIdx, x, z int) int32 {
		gc, gx, gz := goalChunkIdx, goalX, goalZ
		dx := chunkCellDelta(snapshot, cIdx, x, gc, gx)
		dz := chunkCellDeltaZ(snapshot, cIdx, z, gc, gz)
		return Octile(dx, dz)
	}

	startSearch := &searchNode{cellIndex: startGlobal, g: 0, f: heuristic(startChunkIdx, startX, startZ), parent: -1}
	nodes[startGlobal] = &multiNode{chunkIdx: startChunkIdx, x: startX, z: startZ, g: 0, f: startSearch.f, parent: -1}
	open.push(startSearch)
	closed := make(map[int]bool)

	for open.Len() > 0 {
		cur := open.pop()
		if closed[cur.cellIndex] {
			continue
		}
		closed[cur.cellIndex] = true
		if cur.cellIndex == goalGlobal {
			return Outcome{Success: true, Waypoints: reconstructMultiPath(snapshot, nodes, cur.cellIndex, cellSize, req.End, destWalkable)}
		}
		curNode := nodes[cur.cellIndex]
		for _, step := range neighborSteps {
			ncIdx, nx, nz, ok := snapshot.resolveNeighbor(curNode.chunkIdx, curNode.x, curNode.z, step.dx, step.dz)
			if !ok || !snapshot.walkable(ncIdx, nx, nz, req.Perms) {
				continue
			}
			if step.diagonal && !snapshot.canCutDiagonal(curNode.chunkIdx, curNode.x, curNode.z, step.dx, step.dz, req.Perms) {
				continue
			}
			nGlobal := snapshot.globalIndex(ncIdx, nx, nz)
			if closed[nGlobal] {
				continue
			}
			terrain := snapshot.terrainCost(ncIdx, nx, nz, cost)
			tentativeG := curNode.g + step.cost + (terrain - world.BaseTerrainCost)
			existing, seen := nodes[nGlobal]
			if seen && tentativeG >= existing.g {
				continue
			}
			h := heuristic(ncIdx, nx, nz)
			nodes[nGlobal] = &multiNode{chunkIdx: ncIdx, x: nx, z: nz, g: tentativeG, f: tentativeG + h, parent: cur.cellIndex}
			open.push(&searchNode{cellIndex: nGlobal, g: tentativeG, f: tentativeG + h})
		}
	}
	return Outcome{Success: false}
}

func chunkCellDelta(s *LoadedSnapshot, chunkIdxA, localXA, chunkIdxB, localXB int) int {
	coordA, coordB := s.coords[chunkIdxA], s.coords[chunkIdxB]
	return int(coordB.X-coordA.X)*s.cellCount + (localXB - localXA)
}

func chunkCellDeltaZ(s *LoadedSnapshot, chunkIdxA, localZA, chunkIdxB, localZB int) int {
	coordA, coordB := s.coords[chunkIdxA], s.coords[chunkIdxB]
	return int(coordB.Z-coordA.Z)*s.cellCount + (localZB - localZA)
}

func reconstructMultiPath(snapshot *LoadedSnapshot, nodes map[int]*multiNode, goalGlobal int, cellSize float64, destination core.Vec2, destWalkable bool) []core.Vec2 {
	var rev []int
	for idx := goalGlobal; idx != -1; {
		rev = append(rev, idx)
		node := nodes[idx]
		idx = node.parent
	}
	waypoints := make([]core.Vec2, 0, len(rev)-1)
	for i := len(rev) - 2; i >= 0; i-- {
		node := nodes[rev[i]]
		coord := snapshot.coords[node.chunkIdx]
		waypoints = append(waypoints, cellCenterWorld(coord, node.x, node.z, cellSize, snapshot.cellCount))
	}
	if len(waypoints) == 0 {
		if destWalkable {
			return []core.Vec2{destination}
		}
		return waypoints
	}
	if destWalkable {
		waypoints[len(waypoints)-1] = destination
	}
	return waypoints
}
