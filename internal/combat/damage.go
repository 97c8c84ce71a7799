package combat

import (
	"math"

	"navcore/internal/agent"
	"navcore/internal/core"
	"navcore/internal/navigation"
)

// hitAnimDuration is how long a unit stays in the Hit state before
// recovering (spec §4.10).
const hitAnimDuration = 0.4

// RunDamage applies one agent's pending DamageReceivedEvent, handling health
// loss, the Hit transition, and death (spec §4.10).
func RunDamage(store *agent.Store, h core.Handle) {
	idx := h.Index
	events := &store.Events[idx]
	if !events.DamageReceived {
		return
	}
	health := &store.Health[idx]
	health.Current = math.Max(0, health.Current-events.DamageAmount)
	store.Regen[idx].TimeSinceLastDamage = 0

	ai := &store.AI[idx]
	if health.Current > 0 {
		if ai.State != agent.AIDead {
			ai.State = agent.AIHit
			ai.StateTimer = 0
		}
	} else if ai.State != agent.AIDead {
		ai.State = agent.AIDead
		store.Tags[idx].Dead = true
		events.Dead = true
		navigation.IssueStop(store, h)
		store.Assignment[idx].Enabled = false
	}

	events.DamageReceived = false
}

// RunRegen advances out-of-combat health regeneration for one non-dead
// agent (spec §4.10 "Regen").
func RunRegen(store *agent.Store, h core.Handle, dt float64) {
	idx := h.Index
	if store.AI[idx].State == agent.AIDead {
		return
	}
	regen := &store.Regen[idx]
	regen.TimeSinceLastDamage += dt
	health := &store.Health[idx]
	if regen.TimeSinceLastDamage < regen.OutOfCombatDelay || health.Current >= health.Max {
		return
	}
	health.Current = math.Min(health.Max, health.Current+math.Round(regen.RegenRate*dt))
}

// RunHitRecovery returns a unit from Hit to Attacking (if it still has a
// target) or Idle, once hitAnimDuration has elapsed (spec §4.10).
func RunHitRecovery(store *agent.Store, h core.Handle) {
	idx := h.Index
	ai := &store.AI[idx]
	if ai.State != agent.AIHit || ai.StateTimer < hitAnimDuration {
		return
	}
	if store.Target[idx].HasTarget {
		ai.State = agent.AIAttacking
	} else {
		ai.State = agent.AIIdle
	}
	ai.StateTimer = 0
}
