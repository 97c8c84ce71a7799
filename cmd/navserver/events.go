package main

import (
	"strconv"
	"strings"

	"navcore/internal/journal"
	"navcore/internal/sim"
	"navcore/internal/stream"
)

// observerEvents translates the subset of a tick's StepEvents the observer
// feed promises (spec §4.12: StartedMoving/StoppedMoving/AttackHitEvent/
// DamageReceivedEvent/DeadTag) into stream.Events.
func observerEvents(events []sim.StepEvent) []stream.Event {
	var out []stream.Event
	for _, evt := range events {
		kind, ok := observerKind(evt.Kind)
		if !ok {
			continue
		}
		out = append(out, stream.Event{
			Kind:     kind,
			EntityID: evt.EntityID,
			TargetID: evt.TargetID,
			Amount:   evt.Amount,
		})
	}
	return out
}

func observerKind(kind string) (string, bool) {
	switch kind {
	case sim.StepEventStartedMoving:
		return stream.EventStartedMoving, true
	case sim.StepEventStoppedMoving:
		return stream.EventStoppedMoving, true
	case sim.StepEventAttackHit:
		return stream.EventAttackHit, true
	case sim.StepEventDamageReceived:
		return stream.EventDamageReceived, true
	case sim.StepEventDead:
		return stream.EventDead, true
	default:
		return "", false
	}
}

// journalPatch translates a StepEvent into the journal.Patch the resync log
// records for it, if any. Movement edges aren't part of the resync log; a
// reconnecting observer only needs chunk/path/damage/death history.
func journalPatch(evt sim.StepEvent) (journal.Patch, bool) {
	switch evt.Kind {
	case sim.StepEventChunkBaked:
		x, z := parseChunkID(evt.EntityID)
		return journal.Patch{
			Kind:     journal.PatchChunkState,
			EntityID: evt.EntityID,
			Payload:  journal.ChunkStatePayload{ChunkX: x, ChunkZ: z, State: "ghost"},
		}, true
	case sim.StepEventPathOutcome:
		return journal.Patch{
			Kind:     journal.PatchPathOutcome,
			EntityID: evt.EntityID,
			Payload:  journal.PathOutcomePayload{Success: evt.Success, Macro: evt.Macro},
		}, true
	case sim.StepEventDamageReceived:
		return journal.Patch{
			Kind:     journal.PatchAgentDamaged,
			EntityID: evt.EntityID,
			Payload:  journal.DamagePayload{Amount: evt.Amount, AttackerID: evt.TargetID, HealthAfter: evt.HealthAfter},
		}, true
	case sim.StepEventDead:
		return journal.Patch{Kind: journal.PatchAgentDied, EntityID: evt.EntityID}, true
	default:
		return journal.Patch{}, false
	}
}

// parseChunkID parses the "x,z" form core.ChunkCoord.String() produces.
func parseChunkID(id string) (x, z int32) {
	xs, zs, _ := strings.Cut(id, ",")
	xi, _ := strconv.ParseInt(xs, 10, 32)
	zi, _ := strconv.ParseInt(zs, 10, 32)
	return int32(xi), int32(zi)
}

// snapshotAgents builds a journal.Keyframe's agent list from the engine's
// live store, for periodic resync snapshots.
func snapshotAgents(engine *sim.Engine) []journal.AgentFrame {
	store := engine.Store
	live := store.Live()
	out := make([]journal.AgentFrame, 0, len(live))
	for _, h := range live {
		idx := h.Index
		transform := store.Transform[idx]
		health := store.Health[idx]
		out = append(out, journal.AgentFrame{
			EntityID:  h.String(),
			X:         transform.Position.X,
			Z:         transform.Position.Z,
			Mode:      store.Nav[idx].Mode.String(),
			AIState:   store.AI[idx].State.String(),
			Health:    health.Current,
			MaxHealth: health.Max,
		})
	}
	return out
}
