package navigation

import (
	"testing"

	"navcore/internal/agent"
	"navcore/internal/core"
	"navcore/internal/world"
)

func testChunkManager() *world.ChunkManager {
	cfg := world.NavigationConfig{CellSize: 1, ChunkCellCount: 8, ActiveRingRadius: 1, GhostRingRadius: 2}.Normalized()
	baker := world.NewBaker(cfg, &world.FlatGroundPhysics{Width: 1000, Depth: 1000})
	return world.NewChunkManager(cfg, baker)
}

func TestQuantizeDestinationRoundTrip(t *testing.T) {
	key := QuantizeDestination(core.Vec2{X: 20.5, Z: -3.2}, 8, 1, 8)
	if key.Chunk.X != 2 {
		t.Fatalf("Chunk.X = %d, want 2 for world x 20.5 with chunk size 8", key.Chunk.X)
	}
	if key.Chunk.Z != -1 {
		t.Fatalf("Chunk.Z = %d, want -1 for world z -3.2 with chunk size 8", key.Chunk.Z)
	}
}

func TestDispatchArrivalStopsAgent(t *testing.T) {
	store, h := newStoreWithAgent()
	idx := h.Index
	store.Transform[idx] = agent.LocalTransform{Position: core.Vec2{X: 0, Z: 0}}
	store.Nav[idx] = agent.AgentNavigation{Destination: core.Vec2{X: 1, Z: 0}, HasDestination: true, Mode: agent.ModeAStar, ArrivalThreshold: 1.5}
	store.Movement[idx] = agent.UnitMovement{IsFollowingPath: true}

	ctx := DispatchContext{Cfg: world.DefaultNavigationConfig(), Chunks: testChunkManager(), Now: 1}
	Dispatch(store, h, ctx, 8)

	if store.Nav[idx].HasDestination {
		t.Fatal("an agent within its arrival threshold should clear HasDestination")
	}
	if store.Movement[idx].IsFollowingPath {
		t.Fatal("arrival should stop path following")
	}
}

func TestDispatchUnloadedDestinationChunkUsesMacroOnly(t *testing.T) {
	store, h := newStoreWithAgent()
	idx := h.Index
	store.Transform[idx] = agent.LocalTransform{Position: core.Vec2{X: 0, Z: 0}}
	store.Nav[idx] = agent.AgentNavigation{Destination: core.Vec2{X: 500, Z: 500}, HasDestination: true, ArrivalThreshold: 1.5}

	ctx := DispatchContext{Cfg: world.DefaultNavigationConfig(), Chunks: testChunkManager(), Now: 0}
	Dispatch(store, h, ctx, 8)

	if store.Nav[idx].Mode != agent.ModeMacroOnly {
		t.Fatalf("Mode = %v, want ModeMacroOnly when the destination chunk isn't loaded", store.Nav[idx].Mode)
	}
	if !store.Tags[idx].PathRequest {
		t.Fatal("ModeMacroOnly selection should still stage a PathRequest")
	}
}

func TestDispatchCrowdedDestinationUsesFlowField(t *testing.T) {
	store, h := newStoreWithAgent()
	idx := h.Index
	dest := core.Vec2{X: 3, Z: 3}
	store.Transform[idx] = agent.LocalTransform{Position: core.Vec2{X: 0, Z: 0}}
	store.Nav[idx] = agent.AgentNavigation{Destination: dest, HasDestination: true, ArrivalThreshold: 1.5}

	cfg := world.DefaultNavigationConfig()
	chunks := testChunkManager()
	anchor := &world.StreamingAnchor{CurrentChunkCoord: core.ChunkCoord{X: 0, Z: 0}, Priority: 1}
	chunks.Tick([]*world.StreamingAnchor{anchor})
	chunks.Tick([]*world.StreamingAnchor{anchor}) // reach Active so StaticReady is true

	chunkWorldSize := float64(cfg.ChunkCellCount) * cfg.CellSize
	key := QuantizeDestination(dest, chunkWorldSize, cfg.CellSize, cfg.ChunkCellCount)
	counts := map[DestCellKey]int{key: cfg.CrowdThreshold}

	ctx := DispatchContext{Cfg: cfg, Chunks: chunks, Now: 0, DestinationCounts: counts}
	Dispatch(store, h, ctx, chunkWorldSize)

	if store.Nav[idx].Mode != agent.ModeFlowField {
		t.Fatalf("Mode = %v, want ModeFlowField once the crowd threshold is met", store.Nav[idx].Mode)
	}
	if !store.Tags[idx].FlowFieldFollower {
		t.Fatal("FlowFieldFollower tag should be set")
	}
}

func TestRunStuckDetectionTriggersRepathAfterThreshold(t *testing.T) {
	store, h := newStoreWithAgent()
	idx := h.Index
	store.Movement[idx] = agent.UnitMovement{IsFollowingPath: true}
	store.Transform[idx] = agent.LocalTransform{Position: core.Vec2{X: 0, Z: 0}}
	store.Stuck[idx] = agent.StuckDetection{CheckInterval: 1, StuckDistanceThreshold: 1, MaxStuckCount: 2}
	store.Waypoints[idx] = []core.Vec2{{X: 100, Z: 100}}

	RunStuckDetection(store, h, 1) // first check: establishes baseline, count 0->1
	if store.Tags[idx].NeedsRepath {
		t.Fatal("should not need a repath after only one stuck check")
	}
	RunStuckDetection(store, h, 2) // second check, still hasn't moved: count reaches MaxStuckCount
	if !store.Tags[idx].NeedsRepath {
		t.Fatal("expected NeedsRepath once StuckCount reaches MaxStuckCount")
	}
	if store.Movement[idx].IsFollowingPath {
		t.Fatal("a confirmed stuck agent should stop following its stale path")
	}
}

func TestRepathNeedyStagesElevatedPriorityRequest(t *testing.T) {
	store, h := newStoreWithAgent()
	idx := h.Index
	store.Tags[idx].NeedsRepath = true
	store.Nav[idx] = agent.AgentNavigation{Destination: core.Vec2{X: 9, Z: 9}, HasDestination: true}
	store.Transform[idx] = agent.LocalTransform{Position: core.Vec2{X: 0, Z: 0}}

	RepathNeedy(store, h, 5)

	if store.Tags[idx].NeedsRepath {
		t.Fatal("NeedsRepath should be cleared once converted to a request")
	}
	if !store.Tags[idx].PathRequest {
		t.Fatal("expected a fresh PathRequest")
	}
	if store.PathRequest[idx].Priority != 2 {
		t.Fatalf("Priority = %d, want the elevated priority 2", store.PathRequest[idx].Priority)
	}
}
