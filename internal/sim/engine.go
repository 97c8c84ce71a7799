package sim

import (
	"context"
	"time"

	"navcore/internal/agent"
	"navcore/internal/combat"
	"navcore/internal/core"
	"navcore/internal/navigation"
	"navcore/internal/pathfinding"
	"navcore/internal/world"
	"navcore/logging"
)

// Engine owns the full navigation + combat-AI pipeline state: the agent
// component store, chunk manager, flow-field registry, and the config/cost
// model/physics collaborators every stage reads. Step runs exactly one
// frame's worth of the totally ordered stage sequence from spec §5.
type Engine struct {
	Store     *agent.Store
	Chunks    *world.ChunkManager
	Baker     *world.Baker
	Physics   world.PhysicsQuerier
	Cfg       world.NavigationConfig
	Cost      pathfinding.CostModel
	Registry  *pathfinding.Registry
	Deps      Deps

	nowSeconds float64
	tick       uint64
	lastEvents []StepEvent
}

// NewEngine wires a fresh Engine from its collaborators.
func NewEngine(cfg world.NavigationConfig, physics world.PhysicsQuerier, cost pathfinding.CostModel, deps Deps) *Engine {
	cfg = cfg.Normalized()
	baker := world.NewBaker(cfg, physics)
	e := &Engine{
		Store:    agent.NewStore(core.NewArena()),
		Chunks:   world.NewChunkManager(cfg, baker),
		Baker:    baker,
		Physics:  physics,
		Cfg:      cfg,
		Cost:     cost,
		Registry: pathfinding.NewRegistry(),
		Deps:     deps,
	}
	e.Chunks.SetBakeHook(e.onChunkBaked)
	return e
}

// onChunkBaked fires whenever the Chunk Manager bakes a chunk's static data,
// publishing a streaming Event and recording it for this frame's observers
// (spec §2/§10's "event publisher for every stage").
func (e *Engine) onChunkBaked(coord core.ChunkCoord) {
	id := coord.String()
	e.lastEvents = append(e.lastEvents, StepEvent{Kind: StepEventChunkBaked, EntityID: id})
	e.publishEvent(logging.Event{
		Type:     "chunk_baked",
		Actor:    logging.EntityRef{ID: id, Kind: logging.EntityKindChunk},
		Category: logging.CategoryStreaming,
	})
}

// publishEvent forwards evt to Deps.Publisher, stamping tick/time, unless no
// publisher was configured.
func (e *Engine) publishEvent(evt logging.Event) {
	if e.Deps.Publisher == nil {
		return
	}
	evt.Tick = e.tick
	evt.Time = time.Now()
	e.Deps.Publisher.Publish(context.Background(), evt)
}

// LastEvents reports the one-shot occurrences observed during the most
// recent Step call.
func (e *Engine) LastEvents() []StepEvent {
	return e.lastEvents
}

// SpawnAgent allocates a fresh agent handle with the store's zero-valued
// components, for callers to populate.
func (e *Engine) SpawnAgent() core.Handle {
	return e.Store.Spawn()
}

// Apply stages external commands directly onto the Command Intake tags, so
// they're visible to this frame's Command Intake stage (spec §5's ordering
// guarantee for externally observed commands).
func (e *Engine) Apply(cmds []Command) {
	for _, cmd := range cmds {
		if !e.Store.Arena.Alive(cmd.Handle) {
			continue
		}
		switch cmd.Type {
		case CommandMove:
			if cmd.Move == nil {
				continue
			}
			navigation.IssueMove(e.Store, cmd.Handle, cmd.Move.Destination, cmd.Move.Priority)
		case CommandStop:
			navigation.IssueStop(e.Store, cmd.Handle)
		}
	}
}

// Step advances the simulation by dt seconds, running every stage in the
// authoritative per-frame order from spec §5.
func (e *Engine) Step(dt float64, anchors []*world.StreamingAnchor) {
	e.tick++
	e.nowSeconds += dt
	now := e.nowSeconds
	chunkWorldSize := e.Chunks.ChunkWorldSize()
	e.lastEvents = e.lastEvents[:0]

	for _, a := range anchors {
		a.UpdateChunkCoord(chunkWorldSize)
	}
	e.Chunks.Tick(anchors)

	live := e.Store.Live()

	for _, h := range live {
		navigation.IntakeCommand(e.Store, h, now)
	}

	combat.RunThreatScan(e.Store, e.Physics, now)
	pings := combat.BuildPings(e.Store, dt)
	combat.RunAllyPing(e.Store, pings)

	for _, h := range live {
		combat.RunMeleeSlotRelease(e.Store, h)
	}
	for _, h := range live {
		combat.RunMeleeSlotAcquire(e.Store, h)
	}
	for _, h := range live {
		combat.RunAIDecision(e.Store, h, now, dt)
	}
	for _, h := range live {
		e.collectAttackHit(h)
	}

	destCounts := navigation.BuildDestinationCounts(e.Store, e.Cfg, chunkWorldSize)
	dispatchCtx := navigation.DispatchContext{Cfg: e.Cfg, Chunks: e.Chunks, Now: now, DestinationCounts: destCounts}
	for _, h := range live {
		navigation.Dispatch(e.Store, h, dispatchCtx, chunkWorldSize)
		navigation.RunStuckDetection(e.Store, h, now)
	}
	for _, h := range live {
		navigation.RepathNeedy(e.Store, h, now)
	}

	navigation.RunPathfinder(e.Store, e.Chunks, e.Cfg, e.Cost, e.Baker)
	for _, h := range live {
		e.collectPathOutcome(h)
	}
	for _, h := range live {
		navigation.RunPathSuccessHandler(e.Store, h)
	}

	navigation.RunFlowFieldEngine(e.Store, e.Chunks, e.Registry, e.Cfg, e.Cost, chunkWorldSize, now)

	for _, h := range live {
		navigation.RunAStarFollower(e.Store, h, dt)
		navigation.RunMacroFollower(e.Store, h, dt)
		navigation.RunFlowFieldFollower(e.Store, h, e.Registry, e.Cfg, chunkWorldSize, dt)
	}

	for _, h := range live {
		navigation.RunMovementEvents(e.Store, h)
		e.collectMovementEvents(h)
	}

	for _, h := range live {
		e.collectAndRunDamage(h)
		combat.RunRegen(e.Store, h, dt)
	}
	for _, h := range live {
		combat.RunHitRecovery(e.Store, h)
	}

	e.lateCleanup(live)
}

// lateCleanup clears the remaining one-shot event tags that no stage reads
// past this point, guaranteeing exactly one frame of visibility (spec §5).
func (e *Engine) lateCleanup(live []core.Handle) {
	for _, h := range live {
		idx := h.Index
		tags := &e.Store.Tags[idx]
		tags.PathfindingFailed = false
		tags.NeedsRepath = false
		events := &e.Store.Events[idx]
		events.AttackHit = false
		events.AttackHitDamage = 0
		events.Dead = false
	}
}

// collectAttackHit records and publishes a landed-hit event while
// CombatEvents.AttackHit is still set (cleared by lateCleanup).
func (e *Engine) collectAttackHit(h core.Handle) {
	idx := h.Index
	events := e.Store.Events[idx]
	if !events.AttackHit {
		return
	}
	id := h.String()
	e.lastEvents = append(e.lastEvents, StepEvent{Kind: StepEventAttackHit, EntityID: id, Amount: events.AttackHitDamage})
	e.publishEvent(logging.Event{
		Type:     "attack_hit",
		Actor:    logging.EntityRef{ID: id, Kind: logging.EntityKindAgent},
		Category: logging.CategoryCombat,
		Payload:  events.AttackHitDamage,
	})
}

// collectPathOutcome records a path request's success/failure (and
// publishes failures only) while the tags that carry it are still set: Success is
// read before RunPathSuccessHandler clears it, Failed before lateCleanup
// does.
func (e *Engine) collectPathOutcome(h core.Handle) {
	idx := h.Index
	tags := e.Store.Tags[idx]
	switch {
	case tags.PathfindingSuccess:
		macro := e.Store.Nav[idx].Mode == agent.ModeMacroOnly
		id := h.String()
		e.lastEvents = append(e.lastEvents, StepEvent{Kind: StepEventPathOutcome, EntityID: id, Success: true, Macro: macro})
	case tags.PathfindingFailed:
		id := h.String()
		e.lastEvents = append(e.lastEvents, StepEvent{Kind: StepEventPathOutcome, EntityID: id, Success: false})
		e.publishEvent(logging.Event{
			Type:     "path_failed",
			Actor:    logging.EntityRef{ID: id, Kind: logging.EntityKindAgent},
			Severity: logging.SeverityWarn,
			Category: logging.CategoryNavigation,
		})
	}
}

// collectMovementEvents records the StartedMoving/StoppedMoving edges
// RunMovementEvents just computed for h.
func (e *Engine) collectMovementEvents(h core.Handle) {
	idx := h.Index
	tags := e.Store.Tags[idx]
	id := h.String()
	if tags.StartedMoving {
		e.lastEvents = append(e.lastEvents, StepEvent{Kind: StepEventStartedMoving, EntityID: id})
	}
	if tags.StoppedMoving {
		e.lastEvents = append(e.lastEvents, StepEvent{Kind: StepEventStoppedMoving, EntityID: id})
	}
}

// collectAndRunDamage captures the pending DamageReceivedEvent's details
// before RunDamage consumes it, then records and publishes the resulting
// damage and (if this hit was lethal) death events.
func (e *Engine) collectAndRunDamage(h core.Handle) {
	idx := h.Index
	pending := e.Store.Events[idx]

	combat.RunDamage(e.Store, h)

	if !pending.DamageReceived {
		return
	}
	id := h.String()
	attackerID := pending.DamageAttacker.String()
	healthAfter := e.Store.Health[idx].Current
	e.lastEvents = append(e.lastEvents, StepEvent{
		Kind: StepEventDamageReceived, EntityID: id, TargetID: attackerID,
		Amount: pending.DamageAmount, HealthAfter: healthAfter,
	})
	e.publishEvent(logging.Event{
		Type:     "damage_received",
		Actor:    logging.EntityRef{ID: id, Kind: logging.EntityKindAgent},
		Targets:  []logging.EntityRef{{ID: attackerID, Kind: logging.EntityKindAgent}},
		Category: logging.CategoryCombat,
		Payload:  pending.DamageAmount,
	})

	if e.Store.Events[idx].Dead {
		e.lastEvents = append(e.lastEvents, StepEvent{Kind: StepEventDead, EntityID: id, TargetID: attackerID})
		e.publishEvent(logging.Event{
			Type:     "dead",
			Actor:    logging.EntityRef{ID: id, Kind: logging.EntityKindAgent},
			Targets:  []logging.EntityRef{{ID: attackerID, Kind: logging.EntityKindAgent}},
			Severity: logging.SeverityInfo,
			Category: logging.CategoryCombat,
		})
	}
}

// Tick reports the number of frames Step has run.
func (e *Engine) Tick() uint64 {
	return e.tick
}

// NowSeconds reports accumulated simulation time.
func (e *Engine) NowSeconds() float64 {
	return e.nowSeconds
}
