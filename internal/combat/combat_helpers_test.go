package combat

import (
	"navcore/internal/agent"
	"navcore/internal/core"
)

// spawnCombatant is a test-only helper that allocates an agent and fills in
// just enough combat component state for the stage under test; callers
// overwrite fields afterward as needed.
func spawnCombatant(store *agent.Store, faction int, pos core.Vec2, weapon agent.WeaponType) core.Handle {
	h := store.Spawn()
	idx := h.Index
	store.HasCombat[idx] = true
	store.Transform[idx] = agent.LocalTransform{Position: pos}
	store.Unit[idx] = agent.UnitData{FactionID: faction, Radius: 0.5}
	store.Health[idx] = agent.HealthComponent{Current: 100, Max: 100}
	store.Weapon[idx] = agent.Weapon{Type: weapon, Range: 2, DamageMult: 1, SpeedMult: 1, DetectionRange: 50}
	store.Attack[idx] = agent.AttackComponent{BaseDamage: 10, BaseAttackSpeed: 1}
	store.Detection[idx] = agent.DetectionComponent{DetectionRadius: 50, ChaseRange: 60, PingRadius: 10, ScanInterval: 1}
	store.MeleeSlots[idx] = agent.MeleeSlotComponent{MaxMeleeSlots: 2}
	store.Regen[idx] = agent.RegenComponent{OutOfCombatDelay: 2, RegenRate: 5}
	return h
}
