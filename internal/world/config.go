package world

// NavigationConfig is the immutable world singleton driving chunk
// streaming, bake, and pathfinding. It is normalized once at startup and
// never mutated afterward; every stage reads it by value.
type NavigationConfig struct {
	CellSize          float64 `json:"cellSize" jsonschema:"title=Cell size,description=World units per navigation cell,minimum=0.01"`
	ChunkCellCount    int     `json:"chunkCellCount" jsonschema:"title=Chunk cell count,description=Cells per chunk side (N x N),minimum=1"`
	ActiveRingRadius  int     `json:"activeRingRadius" jsonschema:"title=Active ring radius,description=Chunks simulated Active around each anchor,minimum=0"`
	GhostRingRadius   int     `json:"ghostRingRadius" jsonschema:"title=Ghost ring radius,description=Chunks kept Ghost around each anchor,minimum=0"`
	AgentRadius       float64 `json:"agentRadius" jsonschema:"title=Agent radius,description=World units used for bake clearance checks"`
	GroundLayer       uint32  `json:"groundLayer" jsonschema:"title=Ground physics layer mask"`
	UnwalkableLayer   uint32  `json:"unwalkableLayer" jsonschema:"title=Unwalkable physics layer mask"`
	MaxSlopeAngle     float64 `json:"maxSlopeAngle" jsonschema:"title=Max slope angle,description=Degrees; steeper cells require flight"`
	BakeRaycastHeight float64 `json:"bakeRaycastHeight" jsonschema:"title=Bake raycast height,description=World units above cell center the downward bake ray starts from"`

	CrowdThreshold        int     `json:"crowdThreshold" jsonschema:"title=Crowd threshold,description=Agents sharing a destination cell before flow-field mode is used,minimum=1"`
	MaxRequestsPerFrame   int     `json:"maxRequestsPerFrame" jsonschema:"title=Max A* requests per frame,minimum=1"`
	FieldExpirySeconds    float64 `json:"fieldExpirySeconds" jsonschema:"title=Flow field expiry seconds,minimum=0"`
	RepathCooldownSeconds float64 `json:"repathCooldownSeconds" jsonschema:"title=Repath cooldown seconds,minimum=0"`
	TargetSwitchMargin    float64 `json:"targetSwitchMargin" jsonschema:"title=Target switch hysteresis margin"`
}

// TerrainTier names the default terrain-cost lookup entries. Index 0..3 are
// named; the remainder of the 256-entry table defaults to BaseTerrainCost.
type TerrainTier uint8

const (
	TerrainRoad  TerrainTier = 0
	TerrainGrass TerrainTier = 1
	TerrainMud   TerrainTier = 2
	TerrainFast  TerrainTier = 3
)

// BaseTerrainCost is the default integer-tenths-of-a-cell cost applied when a
// terrain_cost_mask entry has no override.
const BaseTerrainCost int32 = 10

// TerrainCostTable is a 256-entry lookup from NodeStatic.TerrainCostMask to
// an additive pathfinding cost (integer tenths of a cell, same units as the
// octile heuristic and straight/diagonal step costs).
type TerrainCostTable [256]int32

// DefaultTerrainCostTable returns the baseline table described in spec §6:
// default 10, with named tiers 0->10, 1->15, 2->25, 3->5.
func DefaultTerrainCostTable() TerrainCostTable {
	var table TerrainCostTable
	for i := range table {
		table[i] = BaseTerrainCost
	}
	table[TerrainRoad] = 10
	table[TerrainGrass] = 15
	table[TerrainMud] = 25
	table[TerrainFast] = 5
	return table
}

// Normalized clamps/defaults fields the way the teacher's Config.normalized
// does, so callers never need to hand-validate a config literal.
func (c NavigationConfig) Normalized() NavigationConfig {
	n := c
	if n.CellSize <= 0 {
		n.CellSize = 1
	}
	if n.ChunkCellCount <= 0 {
		n.ChunkCellCount = 16
	}
	if n.ActiveRingRadius < 0 {
		n.ActiveRingRadius = 0
	}
	if n.GhostRingRadius < n.ActiveRingRadius {
		n.GhostRingRadius = n.ActiveRingRadius + 1
	}
	if n.AgentRadius <= 0 {
		n.AgentRadius = 0.4
	}
	if n.MaxSlopeAngle <= 0 {
		n.MaxSlopeAngle = 50
	}
	if n.BakeRaycastHeight <= 0 {
		n.BakeRaycastHeight = 5
	}
	if n.CrowdThreshold <= 0 {
		n.CrowdThreshold = 12
	}
	if n.MaxRequestsPerFrame <= 0 {
		n.MaxRequestsPerFrame = 16
	}
	if n.FieldExpirySeconds <= 0 {
		n.FieldExpirySeconds = 5
	}
	if n.RepathCooldownSeconds <= 0 {
		n.RepathCooldownSeconds = 0.5
	}
	if n.TargetSwitchMargin <= 0 {
		n.TargetSwitchMargin = 15
	}
	return n
}

// DefaultNavigationConfig returns the spec's named defaults.
func DefaultNavigationConfig() NavigationConfig {
	return NavigationConfig{
		CellSize:              1,
		ChunkCellCount:        16,
		ActiveRingRadius:      2,
		GhostRingRadius:       4,
		AgentRadius:           0.4,
		GroundLayer:           1,
		UnwalkableLayer:       2,
		MaxSlopeAngle:         50,
		BakeRaycastHeight:     5,
		CrowdThreshold:        12,
		MaxRequestsPerFrame:   16,
		FieldExpirySeconds:    5,
		RepathCooldownSeconds: 0.5,
		TargetSwitchMargin:    15,
	}.Normalized()
}
