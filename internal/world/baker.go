package world

import (
	"math"

	"navcore/internal/core"
)

// Baker produces a ChunkStaticBlob for a chunk coordinate by casting the two
// bake-time physics queries spec §4.1 describes: a downward ground ray per
// cell plus a clearance sphere check, and one downward ray per edge midpoint
// for macro connectivity. It never mutates dynamic chunk state.
type Baker struct {
	cfg     NavigationConfig
	physics PhysicsQuerier
}

func NewBaker(cfg NavigationConfig, physics PhysicsQuerier) *Baker {
	return &Baker{cfg: cfg, physics: physics}
}

// cellWorldCenter returns the world-space (x, z) center of cell (x, z)
// within chunk coord.
func (bk *Baker) cellWorldCenter(coord core.ChunkCoord, cx, cz int) core.Vec2 {
	chunkWorldSize := float64(bk.cfg.ChunkCellCount) * bk.cfg.CellSize
	originX := float64(coord.X) * chunkWorldSize
	originZ := float64(coord.Z) * chunkWorldSize
	return core.Vec2{
		X: originX + (float64(cx)+0.5)*bk.cfg.CellSize,
		Z: originZ + (float64(cz)+0.5)*bk.cfg.CellSize,
	}
}

// ChunkWorldSize returns the world-space width/depth of one chunk.
func (bk *Baker) ChunkWorldSize() float64 {
	return float64(bk.cfg.ChunkCellCount) * bk.cfg.CellSize
}

// ChunkCenter returns the world-space center of chunk coord, used by macro
// waypoint emission.
func (bk *Baker) ChunkCenter(coord core.ChunkCoord) core.Vec2 {
	size := bk.ChunkWorldSize()
	return core.Vec2{
		X: float64(coord.X)*size + size/2,
		Z: float64(coord.Z)*size + size/2,
	}
}

// Bake builds a ChunkStaticBlob for the given chunk coordinate.
func (bk *Baker) Bake(coord core.ChunkCoord) *ChunkStaticBlob {
	n := bk.cfg.ChunkCellCount
	blob := &ChunkStaticBlob{
		ChunkCoord: coord,
		CellCount:  n,
		Nodes:      make([]NodeStatic, n*n),
	}
	rayLength := bk.cfg.BakeRaycastHeight + 2
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			center := bk.cellWorldCenter(coord, x, z)
			origin := center
			hit := bk.physics.GroundRay(origin, bk.cfg.BakeRaycastHeight, rayLength, bk.cfg.GroundLayer)
			node := NodeStatic{}
			if !hit.Hit {
				blob.Nodes[z*n+x] = node // blocked: WalkableLayerMask stays 0
				continue
			}
			slopeAngleCos := hit.NormalY
			if slopeAngleCos < cosDegrees(bk.cfg.MaxSlopeAngle) {
				node.SlopeFlags = slopeTooSteep
				node.WalkableLayerMask = 0b0000_0010 // flying only
			} else {
				node.SlopeFlags = 0
				node.WalkableLayerMask = 0xFF
			}
			clearancePoint := core.Vec2{X: hit.Point.X, Z: hit.Point.Z}
			if bk.physics.ClearanceCheck(clearancePoint, hit.Height+bk.cfg.AgentRadius, bk.cfg.AgentRadius*0.9, bk.cfg.UnwalkableLayer) {
				node.WalkableLayerMask = 0
			}
			node.TerrainCostMask = 0
			blob.Nodes[z*n+x] = node
		}
	}
	blob.MacroConnectivity = bk.bakeMacroConnectivity(coord)
	return blob
}

func (bk *Baker) bakeMacroConnectivity(coord core.ChunkCoord) [macroDirectionCount]uint8 {
	var conn [macroDirectionCount]uint8
	size := bk.ChunkWorldSize()
	center := bk.ChunkCenter(coord)
	half := size / 2
	rayLength := bk.cfg.BakeRaycastHeight + 2
	for d := MacroDirection(0); d < macroDirectionCount; d++ {
		dx, dz := macroDelta(d)
		midpoint := core.Vec2{
			X: center.X + float64(dx)*half,
			Z: center.Z + float64(dz)*half,
		}
		hit := bk.physics.GroundRay(midpoint, bk.cfg.BakeRaycastHeight, rayLength, bk.cfg.GroundLayer)
		if hit.Hit {
			conn[d] = 10
		} else {
			conn[d] = 0
		}
	}
	return conn
}

// cosDegrees converts a max-slope-angle in degrees to the minimum acceptable
// cosine of the surface normal's y component.
func cosDegrees(deg float64) float64 {
	return math.Cos(deg * math.Pi / 180)
}
