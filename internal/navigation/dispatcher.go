package navigation

import (
	"navcore/internal/agent"
	"navcore/internal/core"
	"navcore/internal/world"
)

// DestCellKey quantizes a destination to its containing chunk + local cell,
// used both for the dispatcher's crowd check and the flow field registry.
type DestCellKey struct {
	Chunk core.ChunkCoord
	X, Z  int
}

// QuantizeDestination resolves a world position to its chunk + local cell.
func QuantizeDestination(pos core.Vec2, chunkWorldSize, cellSize float64, cellsPerChunk int) DestCellKey {
	coord := core.ChunkCoord{X: floorDiv(pos.X, chunkWorldSize), Z: floorDiv(pos.Z, chunkWorldSize)}
	localX := int((pos.X - float64(coord.X)*chunkWorldSize) / cellSize)
	localZ := int((pos.Z - float64(coord.Z)*chunkWorldSize) / cellSize)
	return DestCellKey{Chunk: coord, X: localX, Z: localZ}
}

func floorDiv(value, size float64) int32 {
	q := value / size
	i := int32(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}

// DispatchContext bundles the read-only inputs the dispatcher needs beyond
// the agent's own components: chunk state and a pre-aggregated count of how
// many agents currently target each quantized destination cell (spec §4.3
// step 4's crowd check).
type DispatchContext struct {
	Cfg              world.NavigationConfig
	Chunks           *world.ChunkManager
	Now              float64
	DestinationCounts map[DestCellKey]int
}

// BuildDestinationCounts aggregates HasDestination agents by quantized
// destination cell, for the crowd-threshold check in Dispatch.
func BuildDestinationCounts(store *agent.Store, cfg world.NavigationConfig, chunkWorldSize float64) map[DestCellKey]int {
	counts := make(map[DestCellKey]int)
	for _, h := range store.Live() {
		nav := store.Nav[h.Index]
		if !nav.HasDestination {
			continue
		}
		key := QuantizeDestination(nav.Destination, chunkWorldSize, cfg.CellSize, cfg.ChunkCellCount)
		counts[key]++
	}
	return counts
}

// DispatchResult describes a follow-up action (a new PathRequest, or none).
// Dispatch does not return one; it stages requests on the store itself.
type DispatchResult struct {
	IssuePathRequest bool
	RequestEnd       core.Vec2
	UseMacro         bool
}

// Dispatch runs the Navigation Dispatcher for one agent (spec §4.3). It
// mutates the agent's Nav/Tags/Movement components directly and, when a
// fresh PathRequest is needed this frame, stages it on the store itself; it
// returns nothing.
func Dispatch(store *agent.Store, h core.Handle, ctx DispatchContext, chunkWorldSize float64) {
	idx := h.Index
	nav := &store.Nav[idx]
	if !nav.HasDestination {
		return
	}
	tags := &store.Tags[idx]
	move := &store.Movement[idx]
	pos := store.Transform[idx].Position

	arrival := nav.ArrivalThreshold
	if arrival < 1.5 {
		arrival = 1.5
	}
	if core.Distance(pos, nav.Destination) <= arrival {
		nav.Mode = agent.ModeIdle
		nav.HasDestination = false
		move.IsFollowingPath = false
		tags.FlowFieldFollower = false
		return
	}

	if nav.MacroPathDone {
		nav.MacroPathDone = false
		nav.Mode = agent.ModeAStar
		stageRequest(store, idx, pos, nav.Destination, 1, ctx.Now)
		nav.RepathCooldown = ctx.Now + ctx.Cfg.RepathCooldownSeconds
		return
	}

	if move.IsFollowingPath && nav.Mode != agent.ModeIdle {
		return
	}

	destChunk := core.ChunkCoord{X: floorDiv(nav.Destination.X, chunkWorldSize), Z: floorDiv(nav.Destination.Z, chunkWorldSize)}
	destChunkRec, destLoaded := ctx.Chunks.Get(destChunk)

	var desired agent.NavMode
	switch {
	case !destLoaded || !destChunkRec.StaticReady:
		desired = agent.ModeMacroOnly
	default:
		key := QuantizeDestination(nav.Destination, chunkWorldSize, ctx.Cfg.CellSize, ctx.Cfg.ChunkCellCount)
		if ctx.DestinationCounts[key] >= ctx.Cfg.CrowdThreshold {
			desired = agent.ModeFlowField
		} else {
			desired = agent.ModeAStar
		}
	}

	modeChanged := desired != nav.Mode
	cooldownElapsed := ctx.Now >= nav.RepathCooldown
	if !modeChanged && move.IsFollowingPath {
		return
	}
	if !modeChanged && !cooldownElapsed {
		return
	}

	nav.Mode = desired
	switch desired {
	case agent.ModeFlowField:
		move.IsFollowingPath = false
		tags.FlowFieldFollower = true
		tags.PathRequest = false
	case agent.ModeAStar, agent.ModeMacroOnly:
		tags.FlowFieldFollower = false
		stageRequest(store, idx, pos, nav.Destination, 1, ctx.Now)
	}
	nav.RepathCooldown = ctx.Now + ctx.Cfg.RepathCooldownSeconds
}

func stageRequest(store *agent.Store, idx uint32, start, end core.Vec2, priority int, now float64) {
	store.Tags[idx].PathRequest = true
	store.PathRequest[idx] = agent.PathRequestData{Start: start, End: end, Priority: priority, RequestTime: now}
}

// RunStuckDetection implements spec §4.3's stuck-detection pass, run
// alongside the dispatcher. It never issues a PathRequest directly;
// NeedsRepath is converted to a fresh request by RepathNeedy.
func RunStuckDetection(store *agent.Store, h core.Handle, now float64) {
	idx := h.Index
	move := store.Movement[idx]
	if !move.IsFollowingPath {
		return
	}
	stuck := &store.Stuck[idx]
	if now < stuck.NextCheckTime {
		return
	}
	pos := store.Transform[idx].Position
	moved := core.Distance(pos, stuck.LastCheckedPosition)
	if moved < stuck.StuckDistanceThreshold {
		stuck.StuckCount++
		if stuck.StuckCount >= stuck.MaxStuckCount {
			store.Movement[idx].IsFollowingPath = false
			store.Waypoints[idx] = nil
			store.MacroWaypoints[idx] = nil
			store.Tags[idx].NeedsRepath = true
			stuck.StuckCount = 0
		}
	} else {
		stuck.StuckCount = 0
	}
	stuck.LastCheckedPosition = pos
	stuck.NextCheckTime = now + stuck.CheckInterval
}

// RepathNeedy converts NeedsRepath into a fresh PathRequest at elevated
// priority (spec §4.3 / §7 "Stuck").
func RepathNeedy(store *agent.Store, h core.Handle, now float64) {
	idx := h.Index
	if !store.Tags[idx].NeedsRepath {
		return
	}
	store.Tags[idx].NeedsRepath = false
	nav := store.Nav[idx]
	if !nav.HasDestination {
		return
	}
	stageRequest(store, idx, store.Transform[idx].Position, nav.Destination, 2, now)
}
