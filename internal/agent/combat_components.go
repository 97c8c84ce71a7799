package agent

import "navcore/internal/core"

// WeaponType distinguishes melee and ranged engagement rules (spec §3, §4.8, §4.9).
type WeaponType int

const (
	WeaponMelee WeaponType = iota
	WeaponRanged
	WeaponRangedAOE
)

type UnitData struct {
	Name      string
	Radius    float64
	FactionID int
}

type HealthComponent struct {
	Current float64
	Max     float64
}

type Weapon struct {
	Type           WeaponType
	Range          float64
	DamageMult     float64
	SpeedMult      float64
	DetectionRange float64
}

type AttackComponent struct {
	BaseDamage      float64
	BaseAttackSpeed float64
	Cooldown        float64
	LastAttackTime  float64
}

// AIState is the per-agent combat state machine (spec §4.9).
type AIState int

const (
	AIIdle AIState = iota
	AIMoving
	AIAttacking
	AIHit
	AIDead
)

func (s AIState) String() string {
	switch s {
	case AIIdle:
		return "idle"
	case AIMoving:
		return "moving"
	case AIAttacking:
		return "attacking"
	case AIHit:
		return "hit"
	case AIDead:
		return "dead"
	default:
		return "unknown"
	}
}

type AIStateComponent struct {
	State      AIState
	StateTimer float64
}

type DetectionComponent struct {
	DetectionRadius float64
	ChaseRange      float64
	PingRadius      float64
	ObstacleLayers  uint32
	ScanInterval    float64
	NextScanTime    float64
}

// CurrentTarget is the output of Threat Scan / Ally Ping (spec §4.7).
type CurrentTarget struct {
	TargetHandle      core.Handle
	LastKnownPosition core.Vec2
	HasTarget         bool
}

// MeleeSlotComponent lives on the *target*, tracking how many attackers of
// each weapon class currently hold a slot (spec §4.8).
type MeleeSlotComponent struct {
	CurrentMelee   int
	CurrentRanged  int
	MaxMeleeSlots  int
}

// RangedSlotCapacity is the undocumented "total = 8 logical ring positions"
// constant from spec §4.8/§9. It is a fixed ring size: every target uses it,
// and there is no per-target override.
const RangedSlotCapacity = 8

// MeleeSlotAssignment lives on the *attacker* (enableable tag + payload).
type MeleeSlotAssignment struct {
	Enabled      bool
	TargetHandle core.Handle
	SlotIndex    int
	TotalSlots   int
}

// CombatEvents bundles the one-shot combat tags (spec §3).
type CombatEvents struct {
	AttackHit       bool
	AttackHitDamage float64
	DamageReceived  bool
	DamageAmount    float64
	DamageAttacker  core.Handle
	Dead            bool
}

type RegenComponent struct {
	TimeSinceLastDamage float64
	OutOfCombatDelay    float64
	RegenRate           float64
}

// CooldownFor derives the attack cooldown per spec §4.9:
// cooldown = 1 / max(0.01, base_attack_speed * weapon.speed_mult).
func (a AttackComponent) CooldownFor(w Weapon) float64 {
	denom := a.BaseAttackSpeed * w.SpeedMult
	if denom < 0.01 {
		denom = 0.01
	}
	return 1 / denom
}
