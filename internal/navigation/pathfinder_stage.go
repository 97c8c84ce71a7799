package navigation

import (
	"sort"

	"navcore/internal/agent"
	"navcore/internal/core"
	"navcore/internal/pathfinding"
	"navcore/internal/world"
)

// RunPathfinder implements spec §4.4: gather every agent with an enabled
// PathRequest (and no PathfindingSuccess already pending), sort by
// descending priority, process the top MaxRequestsPerFrame, and for each
// pick the single-chunk/multi-chunk/macro variant based on which end-chunks
// are loaded.
func RunPathfinder(store *agent.Store, chunks *world.ChunkManager, cfg world.NavigationConfig, cost pathfinding.CostModel, baker *world.Baker) {
	type pending struct {
		handle core.Handle
		prio   int
		time   float64
	}
	var queue []pending
	for _, h := range store.Live() {
		idx := h.Index
		if !store.Tags[idx].PathRequest || store.Tags[idx].PathfindingSuccess {
			continue
		}
		req := store.PathRequest[idx]
		queue = append(queue, pending{handle: h, prio: req.Priority, time: req.RequestTime})
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].prio != queue[j].prio {
			return queue[i].prio > queue[j].prio
		}
		return queue[i].time < queue[j].time
	})

	limit := cfg.MaxRequestsPerFrame
	if limit > len(queue) {
		limit = len(queue)
	}

	var loadedBlobs map[core.ChunkCoord]*world.ChunkStaticBlob
	var snapshot *pathfinding.LoadedSnapshot
	var macroGraph *pathfinding.MacroGraph

	for i := 0; i < limit; i++ {
		h := queue[i].handle
		idx := h.Index
		req := store.PathRequest[idx]
		perms := store.Permissions[idx]

		startChunk := core.ChunkCoord{X: floorDiv(req.Start.X, chunks.ChunkWorldSize()), Z: floorDiv(req.Start.Z, chunks.ChunkWorldSize())}
		endChunk := core.ChunkCoord{X: floorDiv(req.End.X, chunks.ChunkWorldSize()), Z: floorDiv(req.End.Z, chunks.ChunkWorldSize())}
		startRec, startLoaded := chunks.Get(startChunk)
		endRec, endLoaded := chunks.Get(endChunk)
		startReady := startLoaded && startRec.StaticReady
		endReady := endLoaded && endRec.StaticReady

		var outcome pathfinding.Outcome
		switch {
		case startReady && endReady && startChunk == endChunk:
			outcome = pathfinding.SingleChunk(startRec.Static, startChunk, cfg.CellSize, pathfinding.Request{
				Start: req.Start, End: req.End, Perms: pathfinding.AgentPermissions{WalkableLayers: perms.WalkableLayers, IsFlying: perms.IsFlying},
			}, cost)
		case startReady && endReady:
			if loadedBlobs == nil {
				loadedBlobs = collectStaticBlobs(chunks)
				snapshot = pathfinding.NewLoadedSnapshot(loadedBlobs)
			}
			outcome = pathfinding.MultiChunk(snapshot, cfg.CellSize, pathfinding.Request{
				Start: req.Start, End: req.End, Perms: pathfinding.AgentPermissions{WalkableLayers: perms.WalkableLayers, IsFlying: perms.IsFlying},
			}, cost)
		default:
			if loadedBlobs == nil {
				loadedBlobs = collectStaticBlobs(chunks)
			}
			if macroGraph == nil {
				macroGraph = pathfinding.NewMacroGraph(loadedBlobs)
			}
			macroWaypoints, ok := pathfinding.MacroPath(macroGraph, baker, startChunk, endChunk)
			outcome = pathfinding.Outcome{Success: ok, MacroWaypoints: macroWaypoints, UsedMacro: true}
		}

		applyOutcome(store, idx, outcome)
	}
}

func collectStaticBlobs(chunks *world.ChunkManager) map[core.ChunkCoord]*world.ChunkStaticBlob {
	out := make(map[core.ChunkCoord]*world.ChunkStaticBlob)
	for _, c := range chunks.All() {
		if c.StaticReady {
			out[c.Coord] = c.Static
		}
	}
	return out
}

func applyOutcome(store *agent.Store, idx uint32, outcome pathfinding.Outcome) {
	tags := &store.Tags[idx]
	tags.PathRequest = false
	if !outcome.Success {
		store.Waypoints[idx] = nil
		store.MacroWaypoints[idx] = nil
		tags.PathfindingFailed = true
		tags.PathfindingSuccess = false
		return
	}
	if outcome.UsedMacro {
		store.MacroWaypoints[idx] = outcome.MacroWaypoints
		store.Waypoints[idx] = nil
		store.Nav[idx].Mode = agent.ModeMacroOnly
	} else {
		store.Waypoints[idx] = outcome.Waypoints
		store.MacroWaypoints[idx] = nil
	}
	tags.PathfindingSuccess = true
	tags.PathfindingFailed = false
}

// RunPathSuccessHandler implements spec §4.4's Path Success Handler: for
// every agent with PathfindingSuccess enabled, start following from
// waypoint 0 and clear the tag.
func RunPathSuccessHandler(store *agent.Store, h core.Handle) {
	idx := h.Index
	if !store.Tags[idx].PathfindingSuccess {
		return
	}
	nav := store.Nav[idx]
	if nav.Mode == agent.ModeAStar || nav.Mode == agent.ModeMacroOnly {
		store.Movement[idx].IsFollowingPath = true
		store.Movement[idx].CurrentWaypointIndex = 0
	}
	store.Tags[idx].PathfindingSuccess = false
}
