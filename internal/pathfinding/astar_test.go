package pathfinding

import (
	"testing"

	"navcore/internal/core"
	"navcore/internal/world"
)

// openChunk builds an n x n fully-walkable ChunkStaticBlob at the origin
// chunk, with optional blocked cells punched in.
func openChunk(n int, blocked ...[2]int) *world.ChunkStaticBlob {
	blob := &world.ChunkStaticBlob{
		ChunkCoord: core.ChunkCoord{X: 0, Z: 0},
		CellCount:  n,
		Nodes:      make([]world.NodeStatic, n*n),
	}
	for i := range blob.Nodes {
		blob.Nodes[i] = world.NodeStatic{WalkableLayerMask: 1}
	}
	for _, b := range blocked {
		blob.Nodes[b[1]*n+b[0]] = world.NodeStatic{WalkableLayerMask: 0}
	}
	return blob
}

func straightCostModel() CostModel {
	return CostModel{Terrain: world.DefaultTerrainCostTable()}
}

func TestSingleChunkStraightPath(t *testing.T) {
	blob := openChunk(8)
	req := Request{
		Start: core.Vec2{X: 0.5, Z: 0.5},
		End:   core.Vec2{X: 5.5, Z: 0.5},
		Perms: AgentPermissions{WalkableLayers: 1},
	}
	out := SingleChunk(blob, blob.ChunkCoord, 1, req, straightCostModel())
	if !out.Success {
		t.Fatal("expected success on an open grid")
	}
	if len(out.Waypoints) == 0 {
		t.Fatal("expected at least one waypoint")
	}
	last := out.Waypoints[len(out.Waypoints)-1]
	if last != req.End {
		t.Fatalf("last waypoint = %v, want destination %v", last, req.End)
	}
}

func TestSingleChunkRoutesAroundObstacle(t *testing.T) {
	// Wall across z=3 except a gap at x=6, forcing a detour.
	var blocked [][2]int
	for x := 0; x < 8; x++ {
		if x == 6 {
			continue
		}
		blocked = append(blocked, [2]int{x, 3})
	}
	blockedArr := make([][2]int, len(blocked))
	copy(blockedArr, blocked)
	blob := openChunk(8, blockedArr...)

	req := Request{
		Start: core.Vec2{X: 0.5, Z: 0.5},
		End:   core.Vec2{X: 0.5, Z: 6.5},
		Perms: AgentPermissions{WalkableLayers: 1},
	}
	out := SingleChunk(blob, blob.ChunkCoord, 1, req, straightCostModel())
	if !out.Success {
		t.Fatal("expected a path through the gap at x=6")
	}
	for _, wp := range out.Waypoints {
		cellX := int(wp.X)
		cellZ := int(wp.Z)
		if cellZ == 3 && cellX != 6 {
			t.Fatalf("path crosses the wall at blocked cell (%d,3): %v", cellX, wp)
		}
	}
}

func TestSingleChunkUnreachableDestination(t *testing.T) {
	// Destination cell fully enclosed by blocked cells on all 8 sides.
	blob := openChunk(8,
		[2]int{4, 4}, [2]int{5, 4}, [2]int{6, 4},
		[2]int{4, 5}, [2]int{6, 5},
		[2]int{4, 6}, [2]int{5, 6}, [2]int{6, 6},
	)
	req := Request{
		Start: core.Vec2{X: 0.5, Z: 0.5},
		End:   core.Vec2{X: 5.5, Z: 5.5},
		Perms: AgentPermissions{WalkableLayers: 1},
	}
	out := SingleChunk(blob, blob.ChunkCoord, 1, req, straightCostModel())
	if out.Success {
		t.Fatal("expected failure: destination cell is fully enclosed")
	}
}

func TestSingleChunkSnapsUnwalkableStart(t *testing.T) {
	blob := openChunk(8, [2]int{0, 0})
	req := Request{
		Start: core.Vec2{X: 0.5, Z: 0.5}, // lands on the blocked cell
		End:   core.Vec2{X: 3.5, Z: 0.5},
		Perms: AgentPermissions{WalkableLayers: 1},
	}
	out := SingleChunk(blob, blob.ChunkCoord, 1, req, straightCostModel())
	if !out.Success {
		t.Fatal("expected the snap-to-walkable BFS to rescue an unwalkable start cell")
	}
}

func TestCanCutDiagonalRejectsWallCorner(t *testing.T) {
	// Block the two orthogonal cells adjacent to a diagonal step; the corner
	// must be impassable even though the diagonal cell itself is open.
	blob := openChunk(8, [2]int{1, 0}, [2]int{0, 1})
	grid := &chunkGrid{blob: blob, perms: AgentPermissions{WalkableLayers: 1}, cost: straightCostModel()}
	if grid.canCutDiagonal(0, 0, 1, 1) {
		t.Fatal("diagonal step across two blocked orthogonal corners must be rejected")
	}
}

func TestCanCutDiagonalAllowsOpenCorner(t *testing.T) {
	blob := openChunk(8)
	grid := &chunkGrid{blob: blob, perms: AgentPermissions{WalkableLayers: 1}, cost: straightCostModel()}
	if !grid.canCutDiagonal(0, 0, 1, 1) {
		t.Fatal("diagonal step with both corners open must be allowed")
	}
}
