package navigation

import (
	"math"

	"navcore/internal/agent"
	"navcore/internal/core"
	"navcore/internal/pathfinding"
	"navcore/internal/world"
)

// turnToward rotates heading toward the direction of desired at turnSpeed
// radians/sec (spec §4.6's slerp-rate turning), taking the shorter way round:
// the turn delta is wrapped into [-pi, pi]. The returned heading itself is
// not normalized.
func turnToward(heading float64, desired core.Vec2, turnSpeed, dt float64) float64 {
	if desired.Length() < 1e-9 {
		return heading
	}
	targetHeading := math.Atan2(desired.X, desired.Z)
	delta := targetHeading - heading
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}
	maxStep := turnSpeed * dt
	if delta > maxStep {
		delta = maxStep
	} else if delta < -maxStep {
		delta = -maxStep
	}
	return heading + delta
}

func headingVector(heading float64) core.Vec2 {
	return core.Vec2{X: math.Sin(heading), Z: math.Cos(heading)}
}

// advance applies spec §4.6's shared kinematic step: turn toward desired,
// scale speed by clamped forward/desired alignment, and integrate position.
// minAlignment is 0.25 for path followers and 0.5 for the flow-field
// follower per spec.
func advance(transform *agent.LocalTransform, move *agent.UnitMovement, desired core.Vec2, minAlignment, dt float64) {
	transform.Rotation = turnToward(transform.Rotation, desired, move.TurnSpeed, dt)
	forward := headingVector(transform.Rotation)
	alignment := forward.Dot(desired.Normalized())
	if alignment < minAlignment {
		alignment = minAlignment
	}
	if alignment > 1 {
		alignment = 1
	}
	step := forward.Scale(move.Speed * alignment * dt)
	transform.Position = transform.Position.Add(step)
}

// RunAStarFollower advances one agent along store.Waypoints[idx], for
// agents in ModeAStar with IsFollowingPath set (spec §4.6).
func RunAStarFollower(store *agent.Store, h core.Handle, dt float64) {
	idx := h.Index
	move := &store.Movement[idx]
	if !move.IsFollowingPath || store.Nav[idx].Mode != agent.ModeAStar {
		return
	}
	waypoints := store.Waypoints[idx]
	if move.CurrentWaypointIndex >= len(waypoints) {
		finishPath(store, idx)
		return
	}
	transform := &store.Transform[idx]
	target := waypoints[move.CurrentWaypointIndex]
	toTarget := target.Sub(transform.Position)
	isFinal := move.CurrentWaypointIndex == len(waypoints)-1
	if isFinal {
		scaled := *move
		scaled.Speed *= arrivalSpeedScale(core.Distance(transform.Position, target), move.TurnDistance)
		advance(transform, &scaled, toTarget, 0.25, dt)
	} else {
		advance(transform, move, toTarget, 0.25, dt)
	}

	if core.Distance(transform.Position, target) <= move.TurnDistance {
		move.CurrentWaypointIndex++
		if move.CurrentWaypointIndex >= len(waypoints) {
			finishPath(store, idx)
		}
	}
}

// arrivalSpeedScale implements spec §4.6's final-waypoint slowdown:
// saturate(dist / (3*turn_distance)).
func arrivalSpeedScale(dist, turnDistance float64) float64 {
	if turnDistance <= 0 {
		return 1
	}
	scale := dist / (3 * turnDistance)
	if scale > 1 {
		return 1
	}
	if scale < 0 {
		return 0
	}
	return scale
}

func finishPath(store *agent.Store, idx uint32) {
	store.Movement[idx].IsFollowingPath = false
	store.Waypoints[idx] = nil
}

// macroChunkReachDist is how close an agent must get to a macro waypoint's
// chunk center before advancing to the next one (spec §4.6).
const macroChunkReachDist = 10.0

// RunMacroFollower advances one agent along store.MacroWaypoints[idx], for
// agents in ModeMacroOnly (spec §4.6).
func RunMacroFollower(store *agent.Store, h core.Handle, dt float64) {
	idx := h.Index
	nav := &store.Nav[idx]
	if nav.Mode != agent.ModeMacroOnly {
		return
	}
	waypoints := store.MacroWaypoints[idx]
	move := &store.Movement[idx]
	transform := &store.Transform[idx]

	if len(waypoints) == 0 {
		nav.MacroPathDone = true
		nav.Mode = agent.ModeAStar
		move.IsFollowingPath = false
		return
	}

	target := waypoints[0]
	toTarget := target.Sub(transform.Position)
	advance(transform, move, toTarget, 0.25, dt)

	if core.Distance(transform.Position, target) <= macroChunkReachDist {
		store.MacroWaypoints[idx] = waypoints[1:]
		if len(store.MacroWaypoints[idx]) == 0 {
			nav.MacroPathDone = true
			nav.Mode = agent.ModeAStar
			move.IsFollowingPath = false
		}
	}
}

// RunFlowFieldFollower advances one agent by sampling the flow field
// registered for its current chunk and quantized destination, per spec
// §4.5/§4.6. If no ready field covers the agent's cell, it falls back to
// direct steering toward the destination.
func RunFlowFieldFollower(store *agent.Store, h core.Handle, registry *pathfinding.Registry, cfg world.NavigationConfig, chunkWorldSize float64, dt float64) {
	idx := h.Index
	if !store.Tags[idx].FlowFieldFollower {
		return
	}
	nav := &store.Nav[idx]
	transform := &store.Transform[idx]
	move := &store.Movement[idx]

	chunkCoord := core.ChunkCoord{X: floorDiv(transform.Position.X, chunkWorldSize), Z: floorDiv(transform.Position.Z, chunkWorldSize)}
	hash := pathfinding.DestinationHash(nav.Destination, cfg.CellSize)
	key := pathfinding.FieldKey{DestinationHash: hash, ChunkCoord: chunkCoord}

	var desired core.Vec2
	if field, ok := registry.Get(key); ok {
		localX := int((transform.Position.X - float64(chunkCoord.X)*chunkWorldSize) / cfg.CellSize)
		localZ := int((transform.Position.Z - float64(chunkCoord.Z)*chunkWorldSize) / cfg.CellSize)
		if v, ok := field.Sample(localX, localZ); ok {
			desired = v
		}
	}
	if desired.Length() < 1e-9 {
		desired = nav.Destination.Sub(transform.Position)
	}
	advance(transform, move, desired, 0.5, dt)
}

// RunFlowFieldEngine builds or refreshes the fields covering every
// currently-active flow-field destination's chunk and its 8 neighbors, and
// expires stale records, per spec §4.5. It must run on the main thread,
// never concurrently with a follower sampling the same registry.
func RunFlowFieldEngine(store *agent.Store, chunks *world.ChunkManager, registry *pathfinding.Registry, cfg world.NavigationConfig, cost pathfinding.CostModel, chunkWorldSize, nowSec float64) {
	registry.Expire(nowSec, cfg.FieldExpirySeconds)

	seen := make(map[pathfinding.FieldKey]bool)
	for _, h := range store.Live() {
		idx := h.Index
		if !store.Tags[idx].FlowFieldFollower {
			continue
		}
		nav := store.Nav[idx]
		destChunk := core.ChunkCoord{X: floorDiv(nav.Destination.X, chunkWorldSize), Z: floorDiv(nav.Destination.Z, chunkWorldSize)}
		for _, key := range pathfinding.NeighborChunkKeys(nav.Destination, cfg.CellSize, destChunk) {
			if seen[key] {
				continue
			}
			seen[key] = true
			if existing, ok := registry.Get(key); ok && existing.BuiltAtSec == nowSec {
				continue
			}
			record, loaded := chunks.Get(key.ChunkCoord)
			if !loaded || !record.StaticReady {
				continue
			}
			field := pathfinding.BuildField(record.Static, key.ChunkCoord, nav.Destination, cfg.CellSize, pathfinding.AgentPermissions{
				WalkableLayers: store.Permissions[idx].WalkableLayers,
				IsFlying:       store.Permissions[idx].IsFlying,
			}, cost, nowSec)
			registry.Put(field)
		}
	}
}
