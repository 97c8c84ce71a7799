package pathfinding

import (
	"navcore/internal/core"
	"navcore/internal/world"
)

type neighborStep struct {
	dx, dz   int
	cost     int32
	diagonal bool
}

var neighborSteps = [8]neighborStep{
	{0, -1, 10, false},
	{1, 0, 10, false},
	{0, 1, 10, false},
	{-1, 0, 10, false},
	{1, -1, 14, true},
	{1, 1, 14, true},
	{-1, 1, 14, true},
	{-1, -1, 14, true},
}

// chunkGrid adapts a *world.ChunkStaticBlob plus permissions/cost model
// into the flat cell-space single-chunk A* operates over.
type chunkGrid struct {
	blob  *world.ChunkStaticBlob
	perms AgentPermissions
	cost  CostModel
}

func (g *chunkGrid) n() int { return g.blob.CellCount }

func (g *chunkGrid) inBounds(x, z int) bool {
	n := g.n()
	return x >= 0 && z >= 0 && x < n && z < n
}

func (g *chunkGrid) index(x, z int) int {
	return z*g.n() + x
}

func (g *chunkGrid) walkable(x, z int) bool {
	if !g.inBounds(x, z) {
		return false
	}
	node := g.blob.At(x, z)
	return node.IsWalkableFor(g.perms.WalkableLayers, g.perms.IsFlying)
}

// canCutDiagonal forbids a diagonal step whose two orthogonal corners are
// both blocked, matching the teacher's navGrid.canTraverseDiagonal so
// diagonal moves never cut through a wall corner.
func (g *chunkGrid) canCutDiagonal(x, z, dx, dz int) bool {
	return g.walkable(x+dx, z) || g.walkable(x, z+dz)
}

func (g *chunkGrid) stepCost(step neighborStep, toX, toZ int) int32 {
	node := g.blob.At(toX, toZ)
	return step.cost + (g.cost.terrainCost(node.TerrainCostMask) - world.BaseTerrainCost)
}

// worldToCell converts a world position into this chunk's local cell coords.
func worldToCell(coord core.ChunkCoord, pos core.Vec2, cellSize float64, cellCount int) (int, int) {
	size := float64(cellCount) * cellSize
	localX := pos.X - float64(coord.X)*size
	localZ := pos.Z - float64(coord.Z)*size
	return int(localX / cellSize), int(localZ / cellSize)
}

func cellCenterWorld(coord core.ChunkCoord, x, z int, cellSize float64, cellCount int) core.Vec2 {
	size := float64(cellCount) * cellSize
	return core.Vec2{
		X: float64(coord.X)*size + (float64(x)+0.5)*cellSize,
		Z: float64(coord.Z)*size + (float64(z)+0.5)*cellSize,
	}
}

// snapToWalkableChunk BFS-searches outward up to snapSearchRadius cells for
// the nearest walkable cell, per spec §4.4's snap-to-walkable rule.
func snapToWalkableChunk(g *chunkGrid, x, z int) (int, int, bool) {
	if g.walkable(x, z) {
		return x, z, true
	}
	visited := map[[2]int]bool{{x, z}: true}
	type item struct{ x, z, depth int }
	queue := []item{{x, z, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= snapSearchRadius {
			continue
		}
		for _, step := range neighborSteps {
			nx, nz := cur.x+step.dx, cur.z+step.dz
			key := [2]int{nx, nz}
			if visited[key] {
				continue
			}
			visited[key] = true
			if !g.inBounds(nx, nz) {
				continue
			}
			if g.walkable(nx, nz) {
				return nx, nz, true
			}
			queue = append(queue, item{nx, nz, cur.depth + 1})
		}
	}
	return 0, 0, false
}

// SingleChunk runs A* within one loaded chunk, per spec §4.4. start_chunk
// must equal end_chunk for this variant to apply; the dispatcher is
// responsible for that routing decision.
func SingleChunk(blob *world.ChunkStaticBlob, coord core.ChunkCoord, cellSize float64, req Request, cost CostModel) Outcome {
	grid := &chunkGrid{blob: blob, perms: req.Perms, cost: cost}
	n := grid.n()

	startX, startZ := worldToCell(coord, req.Start, cellSize, n)
	endX, endZ := worldToCell(coord, req.End, cellSize, n)

	startX, startZ, ok := snapToWalkableChunk(grid, startX, startZ)
	if !ok {
		return Outcome{Success: false}
	}
	destWalkable := grid.inBounds(endX, endZ) && grid.walkable(endX, endZ)
	goalX, goalZ := endX, endZ
	if !destWalkable {
		goalX, goalZ, ok = snapToWalkableChunk(grid, endX, endZ)
		if !ok {
			return Outcome{Success: false}
		}
	}
	if startX == goalX && startZ == goalZ {
		return Outcome{Success: true, Waypoints: nil}
	}

	cells := make([]searchNode, n*n)
	for i := range cells {
		cells[i].g = -1
	}
	open := newOpenQueue()
	startIdx := grid.index(startX, startZ)
	goalIdx := grid.index(goalX, goalZ)
	cells[startIdx] = searchNode{cellIndex: startIdx, g: 0, f: Octile(goalX-startX, goalZ-startZ), parent: -1}
	open.push(&cells[startIdx])
	closed := make([]bool, n*n)

	for open.Len() > 0 {
		cur := open.pop()
		if closed[cur.cellIndex] {
			continue
		}
		closed[cur.cellIndex] = true
		if cur.cellIndex == goalIdx {
			return Outcome{Success: true, Waypoints: reconstructChunkPath(cells, cur.cellIndex, coord, cellSize, n, req.End, destWalkable)}
		}
		cx, cz := cur.cellIndex%n, cur.cellIndex/n
		for _, step := range neighborSteps {
			nx, nz := cx+step.dx, cz+step.dz
			if !grid.inBounds(nx, nz) || !grid.walkable(nx, nz) {
				continue
			}
			if step.diagonal && !grid.canCutDiagonal(cx, cz, step.dx, step.dz) {
				continue
			}
			nIdx := grid.index(nx, nz)
			if closed[nIdx] {
				continue
			}
			tentativeG := cur.g + grid.stepCost(step, nx, nz)
			if cells[nIdx].g != -1 && tentativeG >= cells[nIdx].g {
				continue
			}
			cells[nIdx] = searchNode{
				cellIndex: nIdx,
				g:         tentativeG,
				f:         tentativeG + Octile(goalX-nx, goalZ-nz),
				parent:    cur.cellIndex,
			}
			open.push(&cells[nIdx])
		}
	}
	return Outcome{Success: false}
}

func reconstructChunkPath(cells []searchNode, goalIdx int, coord core.ChunkCoord, cellSize float64, n int, destination core.Vec2, destWalkable bool) []core.Vec2 {
	var rev []int
	for idx := goalIdx; idx != -1; {
		rev = append(rev, idx)
		idx = cells[idx].parent
	}
	waypoints := make([]core.Vec2, 0, len(rev)-1)
	for i := len(rev) - 2; i >= 0; i-- {
		idx := rev[i]
		x, z := idx%n, idx/n
		waypoints = append(waypoints, cellCenterWorld(coord, x, z, cellSize, n))
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
