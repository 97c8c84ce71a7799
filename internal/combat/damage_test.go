package combat

import (
	"testing"

	"navcore/internal/agent"
	"navcore/internal/core"
)

func TestRunDamageAppliesHealthLossAndHitState(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.Events[h.Index] = agent.CombatEvents{DamageReceived: true, DamageAmount: 30}

	RunDamage(store, h)

	if store.Health[h.Index].Current != 70 {
		t.Fatalf("Health.Current = %v, want 70", store.Health[h.Index].Current)
	}
	if store.AI[h.Index].State != agent.AIHit {
		t.Fatalf("State = %v, want AIHit after surviving damage", store.AI[h.Index].State)
	}
	if store.Events[h.Index].DamageReceived {
		t.Fatal("DamageReceived must be cleared after processing")
	}
}

func TestRunDamageLethalTransitionsToDead(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.Assignment[h.Index].Enabled = true
	store.Events[h.Index] = agent.CombatEvents{DamageReceived: true, DamageAmount: 1000}

	RunDamage(store, h)

	if store.Health[h.Index].Current != 0 {
		t.Fatalf("Health.Current = %v, want 0 (clamped)", store.Health[h.Index].Current)
	}
	if store.AI[h.Index].State != agent.AIDead {
		t.Fatalf("State = %v, want AIDead", store.AI[h.Index].State)
	}
	if !store.Tags[h.Index].Dead {
		t.Fatal("Dead tag should be set")
	}
	if !store.Events[h.Index].Dead {
		t.Fatal("CombatEvents.Dead one-shot should fire alongside the Dead tag")
	}
	if store.Assignment[h.Index].Enabled {
		t.Fatal("a dead unit's melee slot assignment should be cleared")
	}
}

func TestRunDamageNoOpWithoutPendingEvent(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	before := store.Health[h.Index]
	RunDamage(store, h)
	if store.Health[h.Index] != before {
		t.Fatal("RunDamage without a pending DamageReceived event must not mutate health")
	}
}

func TestRunRegenWaitsForOutOfCombatDelay(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.Health[h.Index].Current = 50
	store.Regen[h.Index] = agent.RegenComponent{OutOfCombatDelay: 2, RegenRate: 10}

	RunRegen(store, h, 1) // only 1s since damage, delay is 2s
	if store.Health[h.Index].Current != 50 {
		t.Fatalf("Health.Current = %v, want unchanged 50 before the out-of-combat delay elapses", store.Health[h.Index].Current)
	}

	RunRegen(store, h, 1.5) // cumulative 2.5s, past the 2s delay
	if store.Health[h.Index].Current <= 50 {
		t.Fatal("expected health to regenerate once out-of-combat delay has elapsed")
	}
}

func TestRunRegenNeverExceedsMax(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.Health[h.Index] = agent.HealthComponent{Current: 99, Max: 100}
	store.Regen[h.Index] = agent.RegenComponent{TimeSinceLastDamage: 10, OutOfCombatDelay: 0, RegenRate: 50}

	RunRegen(store, h, 1)
	if store.Health[h.Index].Current != 100 {
		t.Fatalf("Health.Current = %v, want clamped to Max 100", store.Health[h.Index].Current)
	}
}

func TestRunRegenSkipsDeadUnits(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.AI[h.Index].State = agent.AIDead
	store.Health[h.Index] = agent.HealthComponent{Current: 0, Max: 100}
	store.Regen[h.Index] = agent.RegenComponent{TimeSinceLastDamage: 100, OutOfCombatDelay: 0, RegenRate: 50}

	RunRegen(store, h, 1)
	if store.Health[h.Index].Current != 0 {
		t.Fatal("a dead unit must never regenerate")
	}
}

func TestRunHitRecoveryReturnsToAttackingWithTarget(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.AI[h.Index] = agent.AIStateComponent{State: agent.AIHit, StateTimer: 1}
	store.Target[h.Index].HasTarget = true

	RunHitRecovery(store, h)

	if store.AI[h.Index].State != agent.AIAttacking {
		t.Fatalf("State = %v, want AIAttacking after hit recovery with a live target", store.AI[h.Index].State)
	}
}

func TestRunHitRecoveryReturnsToIdleWithoutTarget(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.AI[h.Index] = agent.AIStateComponent{State: agent.AIHit, StateTimer: 1}

	RunHitRecovery(store, h)

	if store.AI[h.Index].State != agent.AIIdle {
		t.Fatalf("State = %v, want AIIdle after hit recovery with no target", store.AI[h.Index].State)
	}
}

func TestRunHitRecoveryWaitsForAnimDuration(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.AI[h.Index] = agent.AIStateComponent{State: agent.AIHit, StateTimer: 0.1}

	RunHitRecovery(store, h)

	if store.AI[h.Index].State != agent.AIHit {
		t.Fatal("recovery must not fire before hitAnimDuration has elapsed")
	}
}
