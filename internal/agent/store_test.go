package agent

import (
	"testing"

	"navcore/internal/core"
)

func TestSpawnGrowsComponentSlots(t *testing.T) {
	store := NewStore(core.NewArena())
	h := store.Spawn()
	if int(h.Index) >= len(store.Transform) {
		t.Fatalf("Transform slice not grown to cover index %d (len %d)", h.Index, len(store.Transform))
	}
	if int(h.Index) >= len(store.Health) {
		t.Fatalf("Health slice not grown to cover index %d (len %d)", h.Index, len(store.Health))
	}
}

func TestDespawnThenLive(t *testing.T) {
	store := NewStore(core.NewArena())
	a := store.Spawn()
	b := store.Spawn()
	store.Despawn(a)

	live := store.Live()
	if len(live) != 1 {
		t.Fatalf("Live() returned %d handles, want 1", len(live))
	}
	if live[0] != b {
		t.Fatalf("Live() = %v, want [%v]", live, b)
	}
}

func TestSpawnManyHandlesAreUnique(t *testing.T) {
	store := NewStore(core.NewArena())
	seen := make(map[core.Handle]bool)
	for i := 0; i < 50; i++ {
		h := store.Spawn()
		if seen[h] {
			t.Fatalf("duplicate handle %v returned by Spawn", h)
		}
		seen[h] = true
	}
}

func TestSpawnFromArchetypePopulatesCombatComponents(t *testing.T) {
	store := NewStore(core.NewArena())
	def := UnitArchetype{
		ID:              "skeleton-grunt",
		FactionID:       2,
		Radius:          0.5,
		MaxHealth:       80,
		WeaponType:      "ranged",
		WeaponRange:     12,
		DamageMult:      1.2,
		SpeedMult:       1,
		DetectionRange:  15,
		BaseDamage:      10,
		BaseAttackSpeed: 1.5,
		DetectionRadius: 20,
		ChaseRange:      30,
		PingRadius:      10,
		ScanInterval:    0.5,
		MaxMeleeSlots:   4,
		RegenRate:       2,
		OutOfCombat:     5,
	}
	h := store.SpawnFromArchetype(def)
	idx := h.Index

	if !store.HasCombat[idx] {
		t.Fatal("HasCombat must be set for an archetype spawn")
	}
	if store.Unit[idx].Name != "skeleton-grunt" || store.Unit[idx].FactionID != 2 {
		t.Fatalf("Unit = %+v, want name skeleton-grunt faction 2", store.Unit[idx])
	}
	if store.Health[idx].Current != 80 || store.Health[idx].Max != 80 {
		t.Fatalf("Health = %+v, want full 80 hp", store.Health[idx])
	}
	if store.Weapon[idx].Type != WeaponRanged {
		t.Fatalf("Weapon.Type = %v, want WeaponRanged", store.Weapon[idx].Type)
	}
	if store.AI[idx].State != AIIdle {
		t.Fatalf("AI.State = %v, want AIIdle", store.AI[idx].State)
	}
	if store.MeleeSlots[idx].MaxMeleeSlots != 4 {
		t.Fatalf("MeleeSlots.MaxMeleeSlots = %d, want 4", store.MeleeSlots[idx].MaxMeleeSlots)
	}
	wantCooldown := store.Attack[idx].CooldownFor(store.Weapon[idx])
	if store.Attack[idx].LastAttackTime != -wantCooldown {
		t.Fatalf("LastAttackTime = %v, want %v so the unit can attack immediately once off cooldown", store.Attack[idx].LastAttackTime, -wantCooldown)
	}
}

func TestWeaponTypeFromStringDefaultsToMelee(t *testing.T) {
	cases := map[string]WeaponType{
		"melee":      WeaponMelee,
		"ranged":     WeaponRanged,
		"ranged_aoe": WeaponRangedAOE,
		"unknown":    WeaponMelee,
		"":           WeaponMelee,
	}
	for in, want := range cases {
		if got := WeaponTypeFromString(in); got != want {
			t.Errorf("WeaponTypeFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCooldownForClampsDenominator(t *testing.T) {
	attack := AttackComponent{BaseAttackSpeed: 0}
	weapon := Weapon{SpeedMult: 0}
	cooldown := attack.CooldownFor(weapon)
	if cooldown != 100 {
		t.Fatalf("CooldownFor with zero speed = %v, want the clamped 1/0.01 = 100", cooldown)
	}
}
