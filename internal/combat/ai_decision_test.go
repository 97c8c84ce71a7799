package combat

import (
	"testing"

	"navcore/internal/agent"
	"navcore/internal/core"
)

func TestRunAIDecisionGoesIdleWithoutTarget(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.AI[h.Index].State = agent.AIMoving

	RunAIDecision(store, h, 0, 0.1)

	if store.AI[h.Index].State != agent.AIIdle {
		t.Fatalf("State = %v, want AIIdle with no target", store.AI[h.Index].State)
	}
}

func TestRunAIDecisionMovesWhenOutOfRange(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	self := spawnCombatant(store, 1, core.Vec2{X: 0, Z: 0}, agent.WeaponMelee)
	target := spawnCombatant(store, 2, core.Vec2{X: 50, Z: 0}, agent.WeaponMelee)
	store.Target[self.Index] = agent.CurrentTarget{TargetHandle: target, HasTarget: true}

	RunAIDecision(store, self, 0, 0.1)

	if store.AI[self.Index].State != agent.AIMoving {
		t.Fatalf("State = %v, want AIMoving when far from target", store.AI[self.Index].State)
	}
	if !store.Tags[self.Index].NavigationMoveCmd {
		t.Fatal("expected a staged NavigationMoveCmd toward the target")
	}
}

func TestRunAIDecisionAttacksWhenInRangeAndOffCooldown(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	self := spawnCombatant(store, 1, core.Vec2{X: 0, Z: 0}, agent.WeaponMelee)
	target := spawnCombatant(store, 2, core.Vec2{X: 1, Z: 0}, agent.WeaponMelee)
	store.Target[self.Index] = agent.CurrentTarget{TargetHandle: target, HasTarget: true}
	store.Attack[self.Index].LastAttackTime = -100

	RunAIDecision(store, self, 0, 0.1)

	if store.AI[self.Index].State != agent.AIAttacking {
		t.Fatalf("State = %v, want AIAttacking once within range", store.AI[self.Index].State)
	}
	if !store.Events[target.Index].DamageReceived {
		t.Fatal("expected a damage event on the target once off cooldown")
	}
	if store.Events[target.Index].DamageAttacker != self {
		t.Fatalf("DamageAttacker = %v, want %v", store.Events[target.Index].DamageAttacker, self)
	}
}

func TestRunAIDecisionRespectsAttackCooldown(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	self := spawnCombatant(store, 1, core.Vec2{X: 0, Z: 0}, agent.WeaponMelee)
	target := spawnCombatant(store, 2, core.Vec2{X: 1, Z: 0}, agent.WeaponMelee)
	store.Target[self.Index] = agent.CurrentTarget{TargetHandle: target, HasTarget: true}
	store.Attack[self.Index].LastAttackTime = 0 // attacked at t=0

	RunAIDecision(store, self, 0.01, 0.01) // cooldown (1s) hasn't elapsed

	if store.Events[target.Index].DamageReceived {
		t.Fatal("no damage event expected while still on cooldown")
	}
}

func TestRunAIDecisionDropsTargetOnTargetDeath(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	self := spawnCombatant(store, 1, core.Vec2{X: 0, Z: 0}, agent.WeaponMelee)
	target := spawnCombatant(store, 2, core.Vec2{X: 1, Z: 0}, agent.WeaponMelee)
	store.Target[self.Index] = agent.CurrentTarget{TargetHandle: target, HasTarget: true}
	store.AI[target.Index].State = agent.AIDead

	RunAIDecision(store, self, 0, 0.1)

	if store.Target[self.Index].HasTarget {
		t.Fatal("a dead target must be dropped")
	}
	if store.AI[self.Index].State != agent.AIIdle {
		t.Fatalf("State = %v, want AIIdle after dropping a dead target", store.AI[self.Index].State)
	}
}

func TestRunAIDecisionSkipsNonCombatAgents(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	h := store.Spawn() // HasCombat stays false
	RunAIDecision(store, h, 0, 0.1) // must not panic on zero-valued combat components
}

func TestInitialLastAttackTimeAllowsImmediateAttack(t *testing.T) {
	attack := agent.AttackComponent{BaseAttackSpeed: 1}
	weapon := agent.Weapon{SpeedMult: 1}
	lastAttack := InitialLastAttackTime(attack, weapon)
	cooldown := attack.CooldownFor(weapon)
	if lastAttack+cooldown > 1e-9 {
		t.Fatalf("InitialLastAttackTime = %v, want a unit able to attack at t=0", lastAttack)
	}
}
