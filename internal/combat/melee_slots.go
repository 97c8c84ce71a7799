package combat

import (
	"math"

	"navcore/internal/agent"
	"navcore/internal/core"
)

// RunMeleeSlotRelease releases a held slot for any agent whose assignment's
// target has changed or been lost (spec §4.8 "Release"). It must run before
// RunMeleeSlotAcquire in the same frame.
func RunMeleeSlotRelease(store *agent.Store, h core.Handle) {
	idx := h.Index
	assignment := &store.Assignment[idx]
	if !assignment.Enabled {
		return
	}
	target := store.Target[idx]
	stillValid := target.HasTarget && target.TargetHandle == assignment.TargetHandle
	if stillValid {
		return
	}
	releaseSlot(store, assignment.TargetHandle, store.Weapon[idx].Type)
	assignment.Enabled = false
}

func releaseSlot(store *agent.Store, targetHandle core.Handle, weapon agent.WeaponType) {
	if !store.Arena.Alive(targetHandle) {
		return
	}
	slots := &store.MeleeSlots[targetHandle.Index]
	if weapon == agent.WeaponMelee {
		if slots.CurrentMelee > 0 {
			slots.CurrentMelee--
		}
	} else {
		if slots.CurrentRanged > 0 {
			slots.CurrentRanged--
		}
	}
}

// RunMeleeSlotAcquire admits agents with a target and no assignment (spec
// §4.8 "Acquire"). Ranged weapons are always admitted; melee weapons only
// when the target's melee slots aren't full.
func RunMeleeSlotAcquire(store *agent.Store, h core.Handle) {
	idx := h.Index
	target := store.Target[idx]
	assignment := &store.Assignment[idx]
	if !target.HasTarget || assignment.Enabled {
		return
	}
	if !store.Arena.Alive(target.TargetHandle) {
		return
	}
	slots := &store.MeleeSlots[target.TargetHandle.Index]
	weapon := store.Weapon[idx].Type

	if weapon == agent.WeaponMelee {
		if slots.CurrentMelee >= slots.MaxMeleeSlots {
			return
		}
		slots.CurrentMelee++
		assignment.SlotIndex = slots.CurrentMelee - 1
		assignment.TotalSlots = slots.MaxMeleeSlots
	} else {
		slots.CurrentRanged++
		assignment.SlotIndex = slots.CurrentRanged - 1
		assignment.TotalSlots = agent.RangedSlotCapacity
	}
	assignment.TargetHandle = target.TargetHandle
	assignment.Enabled = true
}

// OrbitOffset computes the melee-slot orbit position described in spec §4.8:
// target_pos + (cos(angle), 0, sin(angle)) * (attacker_radius + target_radius + weapon_range*0.5).
func OrbitOffset(assignment agent.MeleeSlotAssignment, attackerRadius, targetRadius, weaponRange float64) core.Vec2 {
	if assignment.TotalSlots <= 0 {
		return core.Vec2{}
	}
	angle := (float64(assignment.SlotIndex) / float64(assignment.TotalSlots)) * 2 * math.Pi
	radius := attackerRadius + targetRadius + weaponRange*0.5
	return core.Vec2{X: math.Cos(angle) * radius, Z: math.Sin(angle) * radius}
}
