package combat

import (
	"math"

	"navcore/internal/agent"
	"navcore/internal/core"
	"navcore/internal/navigation"
)

// RunAIDecision advances one live agent's combat state machine (spec §4.9):
// idle/lost-target handling, desired-position computation, attack-range
// state transitions, and cooldown-gated damage event emission.
func RunAIDecision(store *agent.Store, h core.Handle, now, dt float64) {
	idx := h.Index
	if !store.HasCombat[idx] {
		return
	}
	ai := &store.AI[idx]
	ai.StateTimer += dt
	if ai.State == agent.AIDead {
		return
	}

	target := &store.Target[idx]
	if !target.HasTarget {
		if ai.State != agent.AIIdle {
			ai.State = agent.AIIdle
			ai.StateTimer = 0
			navigation.IssueStop(store, h)
		}
		return
	}
	if !store.Arena.Alive(target.TargetHandle) || store.AI[target.TargetHandle.Index].State == agent.AIDead {
		target.HasTarget = false
		ai.State = agent.AIIdle
		ai.StateTimer = 0
		navigation.IssueStop(store, h)
		return
	}

	targetIdx := target.TargetHandle.Index
	target.LastKnownPosition = store.Transform[targetIdx].Position

	self := store.Transform[idx].Position
	weapon := store.Weapon[idx]
	effectiveRange := weapon.Range + store.Unit[idx].Radius + store.Unit[targetIdx].Radius

	var desired core.Vec2
	if weapon.Type == agent.WeaponMelee {
		offset := OrbitOffset(store.Assignment[idx], store.Unit[idx].Radius, store.Unit[targetIdx].Radius, weapon.Range)
		desired = target.LastKnownPosition.Add(offset)
	} else {
		away := self.Sub(target.LastKnownPosition)
		if away.Length() < 1e-6 {
			away = core.Vec2{X: 1, Z: 0}
		} else {
			away = away.Normalized()
		}
		desired = target.LastKnownPosition.Add(away.Scale(effectiveRange - 0.2))
	}

	dist := core.Distance(self, target.LastKnownPosition)
	var inRange bool
	if weapon.Type == agent.WeaponMelee {
		inRange = dist <= effectiveRange+0.5
	} else {
		inRange = dist <= effectiveRange
	}

	if inRange {
		if ai.State != agent.AIAttacking {
			ai.State = agent.AIAttacking
			ai.StateTimer = 0
		}
		navigation.IssueStop(store, h)
	} else {
		if ai.State != agent.AIMoving {
			ai.State = agent.AIMoving
			ai.StateTimer = 0
		}
		navigation.IssueMove(store, h, desired, 1)
	}

	if ai.State == agent.AIAttacking {
		attack := &store.Attack[idx]
		cooldown := attack.CooldownFor(weapon)
		if now >= attack.LastAttackTime+cooldown {
			attack.LastAttackTime = now
			damage := math.Round(attack.BaseDamage * weapon.DamageMult)
			store.Events[idx].AttackHit = true
			store.Events[idx].AttackHitDamage = damage
			store.Events[targetIdx].DamageReceived = true
			store.Events[targetIdx].DamageAmount = damage
			store.Events[targetIdx].DamageAttacker = h
		}
	}
}

// InitialLastAttackTime returns the spawn-time last_attack_time so a unit
// can attack immediately on spawn (spec §4.9).
func InitialLastAttackTime(attack agent.AttackComponent, weapon agent.Weapon) float64 {
	return -attack.CooldownFor(weapon)
}
