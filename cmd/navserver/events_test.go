package main

import (
	"testing"

	"navcore/internal/journal"
	"navcore/internal/sim"
	"navcore/internal/stream"
)

func TestObserverEventsOnlyKeepsTheFiveObservableKinds(t *testing.T) {
	events := []sim.StepEvent{
		{Kind: sim.StepEventStartedMoving, EntityID: "#1.1"},
		{Kind: sim.StepEventChunkBaked, EntityID: "0,0"},
		{Kind: sim.StepEventDamageReceived, EntityID: "#2.1", TargetID: "#1.1", Amount: 12},
		{Kind: sim.StepEventPathOutcome, EntityID: "#1.1", Success: true},
	}

	got := observerEvents(events)
	if len(got) != 2 {
		t.Fatalf("observerEvents returned %d events, want 2 (chunk_baked and path_outcome are not part of the observer feed)", len(got))
	}
	if got[0].Kind != stream.EventStartedMoving || got[1].Kind != stream.EventDamageReceived {
		t.Fatalf("observerEvents = %+v, want started_moving then damage_received in order", got)
	}
	if got[1].Amount != 12 || got[1].TargetID != "#1.1" {
		t.Fatalf("observerEvents dropped fields translating damage_received: %+v", got[1])
	}
}

func TestJournalPatchMapsEachKnownKind(t *testing.T) {
	cases := []struct {
		evt      sim.StepEvent
		wantKind journal.PatchKind
	}{
		{sim.StepEvent{Kind: sim.StepEventChunkBaked, EntityID: "3,-2"}, journal.PatchChunkState},
		{sim.StepEvent{Kind: sim.StepEventPathOutcome, EntityID: "#1.1", Success: false}, journal.PatchPathOutcome},
		{sim.StepEvent{Kind: sim.StepEventDamageReceived, EntityID: "#1.1", TargetID: "#2.1", Amount: 5, HealthAfter: 25}, journal.PatchAgentDamaged},
		{sim.StepEvent{Kind: sim.StepEventDead, EntityID: "#1.1"}, journal.PatchAgentDied},
	}
	for _, c := range cases {
		patch, ok := journalPatch(c.evt)
		if !ok {
			t.Fatalf("journalPatch(%+v) reported no patch, want one", c.evt)
		}
		if patch.Kind != c.wantKind {
			t.Fatalf("journalPatch(%+v).Kind = %v, want %v", c.evt, patch.Kind, c.wantKind)
		}
	}
}

func TestJournalPatchIgnoresKindsOutsideTheResyncLog(t *testing.T) {
	for _, kind := range []string{sim.StepEventStartedMoving, sim.StepEventStoppedMoving, sim.StepEventAttackHit} {
		if _, ok := journalPatch(sim.StepEvent{Kind: kind, EntityID: "#1.1"}); ok {
			t.Fatalf("journalPatch should not record a patch for %q; the resync log only carries chunk/path/damage/death history", kind)
		}
	}
}

func TestJournalPatchChunkBakedRoundTripsCoordinate(t *testing.T) {
	patch, ok := journalPatch(sim.StepEvent{Kind: sim.StepEventChunkBaked, EntityID: "-4,7"})
	if !ok {
		t.Fatal("expected a chunk_state patch")
	}
	payload, ok := patch.Payload.(journal.ChunkStatePayload)
	if !ok {
		t.Fatalf("Payload type = %T, want journal.ChunkStatePayload", patch.Payload)
	}
	if payload.ChunkX != -4 || payload.ChunkZ != 7 {
		t.Fatalf("payload coord = (%d,%d), want (-4,7)", payload.ChunkX, payload.ChunkZ)
	}
}
