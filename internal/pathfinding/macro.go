package pathfinding

import (
	"navcore/internal/core"
	"navcore/internal/world"
)

// MacroGraph is the chunk-level graph macro A* searches: every chunk that
// has published a static blob (Ghost or Active), connected by its 8-way
// macro connectivity values.
type MacroGraph struct {
	coords       []core.ChunkCoord
	macroConn    [][8]uint8
	indexByCoord map[core.ChunkCoord]int
}

// NewMacroGraph builds a macro graph from every chunk with a published
// static blob.
func NewMacroGraph(blobs map[core.ChunkCoord]*world.ChunkStaticBlob) *MacroGraph {
	g := &MacroGraph{indexByCoord: make(map[core.ChunkCoord]int, len(blobs))}
	for coord, blob := range blobs {
		idx := len(g.coords)
		g.coords = append(g.coords, coord)
		g.macroConn = append(g.macroConn, blob.MacroConnectivity)
		g.indexByCoord[coord] = idx
	}
	return g
}

func (g *MacroGraph) chunkIndex(coord core.ChunkCoord) (int, bool) {
	idx, ok := g.indexByCoord[coord]
	return idx, ok
}

type macroSearchNode struct {
	chunkIdx int
	g, f     int32
	parent   int
}

// MacroPath runs A* on the chunk graph using macro connectivity values (0 =
// blocked, else straight=10/diag=14 step) and the same octile heuristic, per
// spec §4.4's macro variant. On success, returns chunk-center world points
// excluding the start chunk, as spec §4.4 and the macro follower expect.
func MacroPath(graph *MacroGraph, baker *world.Baker, startCoord, endCoord core.ChunkCoord) ([]core.Vec2, bool) {
	startIdx, ok := graph.chunkIndex(startCoord)
	if !ok {
		return nil, false
	}
	endIdx, ok := graph.chunkIndex(endCoord)
	if !ok {
		return nil, false
	}
	if startIdx == endIdx {
		return nil, true
	}

	nodes := make(map[int]*macroSearchNode)
	open := newOpenQueue()
	heuristic := func(idx int) int32 {
		a, b := graph.coords[idx], endCoord
		return Octile(int(b.X-a.X), int(b.Z-a.Z))
	}
	nodes[startIdx] = &macroSearchNode{chunkIdx: startIdx, g: 0, f: heuristic(startIdx), parent: -1}
	open.push(&searchNode{cellIndex: startIdx, g: 0, f: heuristic(startIdx)})
	closed := make(map[int]bool)

	for open.Len() > 0 {
		cur := open.pop()
		if closed[cur.cellIndex] {
			continue
		}
		closed[cur.cellIndex] = true
		if cur.cellIndex == endIdx {
			return reconstructMacroPath(graph, baker, nodes, cur.cellIndex), true
		}
		for d := MacroDirectionIdx(0); d < 8; d++ {
			conn := graph.macroConn[cur.cellIndex][d]
			if conn == 0 {
				continue
			}
			dx, dz := macroDeltaPublic(d)
			neighborCoord := core.ChunkCoord{X: graph.coords[cur.cellIndex].X + dx, Z: graph.coords[cur.cellIndex].Z + dz}
			nIdx, ok := graph.chunkIndex(neighborCoord)
			if !ok || closed[nIdx] {
				continue
			}
			stepCost := int32(10)
			if dx != 0 && dz != 0 {
				stepCost = 14
			}
			curNode := nodes[cur.cellIndex]
			tentativeG := curNode.g + stepCost
			existing, seen := nodes[nIdx]
			if seen && tentativeG >= existing.g {
				continue
			}
			h := heuristic(nIdx)
			nodes[nIdx] = &macroSearchNode{chunkIdx: nIdx, g: tentativeG, f: tentativeG + h, parent: cur.cellIndex}
			open.push(&searchNode{cellIndex: nIdx, g: tentativeG, f: tentativeG + h})
		}
	}
	return nil, false
}

func reconstructMacroPath(graph *MacroGraph, baker *world.Baker, nodes map[int]*macroSearchNode, endIdx int) []core.Vec2 {
	var rev []int
	for idx := endIdx; idx != -1; {
		rev = append(rev, idx)
		idx = nodes[idx].parent
	}
	waypoints := make([]core.Vec2, 0, len(rev)-1)
	// rev is end..start; emit start+1..end (excluding the start chunk).
	for i := len(rev) - 2; i >= 0; i-- {
		coord := graph.coords[rev[i]]
		waypoints = append(waypoints, baker.ChunkCenter(coord))
	}
	return waypoints
}

// MacroDirectionIdx mirrors world.MacroDirection without importing the
// unexported constant across package boundaries.
type MacroDirectionIdx int

func macroDeltaPublic(d MacroDirectionIdx) (int32, int32) {
	switch d {
	case 0:
		return 0, -1
	case 1:
		return 1, -1
	case 2:
		return 1, 0
	case 3:
		return 1, 1
	case 4:
		return 0, 1
	case 5:
		return -1, 1
	case 6:
		return -1, 0
	case 7:
		return -1, -1
	}
	return 0, 0
}
