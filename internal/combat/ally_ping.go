package combat

import (
	"navcore/internal/agent"
	"navcore/internal/core"
)

// Ping is one frame's ally-ping broadcast, enqueued when a unit just
// acquired a target this frame (spec §4.7 "Ally ping").
type Ping struct {
	PingerPosition core.Vec2
	PingRadius     float64
	FactionID      int
	TargetHandle   core.Handle
	TargetPosition core.Vec2
}

// BuildPings collects one ping per unit whose AIState just re-entered a
// target-acquired frame (state_timer < 1.5*dt).
func BuildPings(store *agent.Store, dt float64) []Ping {
	var pings []Ping
	threshold := 1.5 * dt
	for _, h := range store.Live() {
		idx := h.Index
		if !store.HasCombat[idx] {
			continue
		}
		if !store.Target[idx].HasTarget {
			continue
		}
		if store.AI[idx].StateTimer >= threshold {
			continue
		}
		pings = append(pings, Ping{
			PingerPosition: store.Transform[idx].Position,
			PingRadius:     store.Detection[idx].PingRadius,
			FactionID:      store.Unit[idx].FactionID,
			TargetHandle:   store.Target[idx].TargetHandle,
			TargetPosition: store.Target[idx].LastKnownPosition,
		})
	}
	return pings
}

// RunAllyPing applies every ping built this frame to every targetless
// same-faction unit within ping_radius whose target isn't itself (spec
// §4.7).
func RunAllyPing(store *agent.Store, pings []Ping) {
	if len(pings) == 0 {
		return
	}
	for _, h := range store.Live() {
		idx := h.Index
		if !store.HasCombat[idx] {
			continue
		}
		target := &store.Target[idx]
		if target.HasTarget {
			continue
		}
		pos := store.Transform[idx].Position
		faction := store.Unit[idx].FactionID
		for _, ping := range pings {
			if ping.FactionID != faction {
				continue
			}
			if ping.TargetHandle == h {
				continue
			}
			if core.Distance(pos, ping.PingerPosition) > ping.PingRadius {
				continue
			}
			target.TargetHandle = ping.TargetHandle
			target.LastKnownPosition = ping.TargetPosition
			target.HasTarget = true
			break
		}
	}
}
