package agent

import "navcore/internal/core"

// SpawnFromArchetype allocates a new agent and populates its combat
// components from a designer-authored UnitArchetype, leaving navigation
// components (Transform, Movement, Nav) for the caller to set since those
// depend on world placement the archetype doesn't carry.
func (s *Store) SpawnFromArchetype(def UnitArchetype) core.Handle {
	h := s.Spawn()
	idx := h.Index

	s.HasCombat[idx] = true
	s.Unit[idx] = UnitData{Name: def.ID, Radius: def.Radius, FactionID: def.FactionID}
	s.Health[idx] = HealthComponent{Current: def.MaxHealth, Max: def.MaxHealth}
	s.Weapon[idx] = Weapon{
		Type:           WeaponTypeFromString(def.WeaponType),
		Range:          def.WeaponRange,
		DamageMult:     def.DamageMult,
		SpeedMult:      def.SpeedMult,
		DetectionRange: def.DetectionRange,
	}
	attack := AttackComponent{BaseDamage: def.BaseDamage, BaseAttackSpeed: def.BaseAttackSpeed}
	attack.LastAttackTime = -attack.CooldownFor(s.Weapon[idx])
	s.Attack[idx] = attack
	s.AI[idx] = AIStateComponent{State: AIIdle}
	s.Detection[idx] = DetectionComponent{
		DetectionRadius: def.DetectionRadius,
		ChaseRange:      def.ChaseRange,
		PingRadius:      def.PingRadius,
		ScanInterval:    def.ScanInterval,
	}
	s.MeleeSlots[idx] = MeleeSlotComponent{MaxMeleeSlots: def.MaxMeleeSlots}
	s.Regen[idx] = RegenComponent{OutOfCombatDelay: def.OutOfCombat, RegenRate: def.RegenRate}

	return h
}
