package combat

import (
	"testing"

	"navcore/internal/agent"
	"navcore/internal/core"
	"navcore/internal/world"
)

func TestBuildSnapshotSkipsDeadAndNonCombat(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	alive := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	dead := spawnCombatant(store, 1, core.Vec2{}, agent.WeaponMelee)
	store.AI[dead.Index].State = agent.AIDead
	store.Spawn() // non-combat agent, HasCombat stays false

	snap := BuildSnapshot(store)
	if len(snap) != 1 || snap[0].Handle != alive {
		t.Fatalf("BuildSnapshot = %v, want only the one live combatant", snap)
	}
}

func TestScoreFavorsLowHealthAndOccupiedSlots(t *testing.T) {
	farHealthy := score(10, 0, 4, 1.0)
	nearWoundedOpen := score(10, 0, 4, 0.1)
	if nearWoundedOpen >= farHealthy {
		t.Fatal("a wounded candidate at the same distance should score lower (more attractive)")
	}
	full := score(10, 4, 4, 1.0)
	open := score(10, 0, 4, 1.0)
	if full >= open {
		t.Fatal("a candidate with occupied melee slots should score lower than one with open slots")
	}
}

func TestRunThreatScanAcquiresNearestEnemy(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	self := spawnCombatant(store, 1, core.Vec2{X: 0, Z: 0}, agent.WeaponMelee)
	enemy := spawnCombatant(store, 2, core.Vec2{X: 5, Z: 0}, agent.WeaponMelee)
	ally := spawnCombatant(store, 1, core.Vec2{X: 1, Z: 0}, agent.WeaponMelee)
	_ = ally

	physics := &world.FlatGroundPhysics{Width: 1000, Depth: 1000}
	RunThreatScan(store, physics, 0)

	target := store.Target[self.Index]
	if !target.HasTarget || target.TargetHandle != enemy {
		t.Fatalf("Target = %+v, want the enemy faction unit acquired", target)
	}
}

func TestRunThreatScanRangedRequiresLineOfSight(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	self := spawnCombatant(store, 1, core.Vec2{X: 0, Z: 0}, agent.WeaponRanged)
	store.Detection[self.Index].ObstacleLayers = 1
	blockedEnemy := spawnCombatant(store, 2, core.Vec2{X: 10, Z: 0}, agent.WeaponMelee)
	_ = blockedEnemy

	physics := &world.FlatGroundPhysics{
		Width: 1000, Depth: 1000,
		Unwalkable: []world.Obstacle{{MinX: 4, MinZ: -1, MaxX: 6, MaxZ: 1}},
	}
	RunThreatScan(store, physics, 0)

	if store.Target[self.Index].HasTarget {
		t.Fatal("a ranged scanner should not acquire a target with no clear line of sight")
	}
}

func TestRunThreatScanDropsTargetBeyondChaseRange(t *testing.T) {
	store := agent.NewStore(core.NewArena())
	self := spawnCombatant(store, 1, core.Vec2{X: 0, Z: 0}, agent.WeaponMelee)
	enemy := spawnCombatant(store, 2, core.Vec2{X: 50, Z: 0}, agent.WeaponMelee)
	store.Target[self.Index] = agent.CurrentTarget{TargetHandle: enemy, HasTarget: true, LastKnownPosition: core.Vec2{X: 50, Z: 0}}
	store.Detection[self.Index].ChaseRange = 10
	store.Detection[self.Index].DetectionRadius = 20 // enemy stays out of re-acquisition range too

	physics := &world.FlatGroundPhysics{Width: 2000, Depth: 2000}
	RunThreatScan(store, physics, 0)

	if store.Target[self.Index].HasTarget {
		t.Fatal("a target 50 units away with a 10-unit chase range must be dropped")
	}
}
