package pathfinding

import (
	"navcore/internal/core"
	"navcore/internal/world"
)

// AgentPermissions is the subset of UnitLayerPermissions the pathfinder
// needs to evaluate NodeStatic.IsWalkableFor.
type AgentPermissions struct {
	WalkableLayers uint8
	IsFlying       bool
}

// CostModel bundles the terrain cost table consulted by every A* variant
// and the flow field builder.
type CostModel struct {
	Terrain world.TerrainCostTable
}

func (c CostModel) terrainCost(mask uint8) int32 {
	return c.Terrain[mask]
}

// Request captures a single pathfinding request (spec §4.4's PathRequest).
type Request struct {
	Start    core.Vec2
	End      core.Vec2
	Perms    AgentPermissions
	Priority int
}

// Outcome is the result of running any A* variant: either a populated
// waypoint list (cell-center world positions, forward order, the literal
// destination or the snapped cell center as the final entry per spec §4.4)
// or a failure.
type Outcome struct {
	Success       bool
	Waypoints     []core.Vec2
	MacroWaypoints []core.Vec2 // populated only for the macro variant
	UsedMacro     bool
}

const snapSearchRadius = 4
