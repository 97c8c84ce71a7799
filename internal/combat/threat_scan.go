// Package combat implements Threat Scan, Ally Ping, Melee Slot Manager, AI
// Decision, and Damage/Health/Recovery (spec §4.7–§4.10). It depends on
// agent for component storage, world for the PhysicsQuerier boundary, and
// navigation only for its IssueMove/IssueStop command entry points (used by
// ai_decision.go and damage.go); it never depends on pathfinding. Desired
// positions are handed off as plain move commands.
package combat

import (
	"navcore/internal/agent"
	"navcore/internal/core"
	"navcore/internal/world"
)

// ScanSnapshot is one live unit's state at Threat Scan time.
type ScanSnapshot struct {
	Handle        core.Handle
	Position      core.Vec2
	FactionID     int
	Radius        float64
	HealthFrac    float64
	MeleeSlots    int
	MaxMeleeSlots int
}

// BuildSnapshot collects every live, non-dead unit into a flat scan array.
func BuildSnapshot(store *agent.Store) []ScanSnapshot {
	var out []ScanSnapshot
	for _, h := range store.Live() {
		idx := h.Index
		if !store.HasCombat[idx] || store.AI[idx].State == agent.AIDead {
			continue
		}
		health := store.Health[idx]
		frac := 0.0
		if health.Max > 0 {
			frac = health.Current / health.Max
		}
		out = append(out, ScanSnapshot{
			Handle:        h,
			Position:      store.Transform[idx].Position,
			FactionID:     store.Unit[idx].FactionID,
			Radius:        store.Unit[idx].Radius,
			HealthFrac:    frac,
			MeleeSlots:    store.MeleeSlots[idx].CurrentMelee,
			MaxMeleeSlots: store.MeleeSlots[idx].MaxMeleeSlots,
		})
	}
	return out
}

type losPair struct {
	scanner core.Handle
	target  core.Handle
}

// buildLoSSet ray-casts from every due-to-scan ranged unit toward each
// candidate within its detection radius, and records the clear pairs (spec
// §4.7 "Line of sight"). Melee units never need LoS.
func buildLoSSet(store *agent.Store, snapshot []ScanSnapshot, physics world.PhysicsQuerier, now float64) map[losPair]bool {
	clear := make(map[losPair]bool)
	for _, scanner := range snapshot {
		idx := scanner.Handle.Index
		if store.Weapon[idx].Type == agent.WeaponMelee {
			continue
		}
		detect := store.Detection[idx]
		if now < detect.NextScanTime {
			continue
		}
		for _, target := range snapshot {
			if target.Handle == scanner.Handle {
				continue
			}
			dist := core.Distance(scanner.Position, target.Position)
			if dist > detect.DetectionRadius {
				continue
			}
			if physics.LineOfSight(scanner.Position, target.Position, 1, 1, detect.ObstacleLayers) {
				clear[losPair{scanner: scanner.Handle, target: target.Handle}] = true
			}
		}
	}
	return clear
}

// score implements spec §4.7's candidate scoring formula; lower is better.
func score(dist float64, meleeSlots, maxMeleeSlots int, healthFrac float64) float64 {
	ratio := 0.0
	if maxMeleeSlots > 0 {
		ratio = float64(meleeSlots) / float64(maxMeleeSlots)
	}
	return dist - 30*ratio - 20*(1-healthFrac)
}

// RunThreatScan runs the full Snapshot -> LoS -> Score pass for every due
// scanner, writing CurrentTarget and advancing NextScanTime (spec §4.7).
func RunThreatScan(store *agent.Store, physics world.PhysicsQuerier, now float64) {
	snapshot := BuildSnapshot(store)
	losSet := buildLoSSet(store, snapshot, physics, now)

	byHandle := make(map[core.Handle]ScanSnapshot, len(snapshot))
	for _, s := range snapshot {
		byHandle[s.Handle] = s
	}

	for _, self := range snapshot {
		idx := self.Handle.Index
		detect := &store.Detection[idx]
		if now < detect.NextScanTime {
			continue
		}

		isRanged := store.Weapon[idx].Type != agent.WeaponMelee
		var best ScanSnapshot
		bestScore := 0.0
		found := false

		for _, cand := range snapshot {
			if cand.Handle == self.Handle || cand.FactionID == self.FactionID {
				continue
			}
			dist := core.Distance(self.Position, cand.Position)
			if dist > detect.DetectionRadius {
				continue
			}
			if isRanged && !losSet[losPair{scanner: self.Handle, target: cand.Handle}] {
				continue
			}
			s := score(dist, cand.MeleeSlots, cand.MaxMeleeSlots, cand.HealthFrac)
			if !found || s < bestScore {
				found = true
				bestScore = s
				best = cand
			}
		}

		target := &store.Target[idx]
		if target.HasTarget {
			if cur, ok := byHandle[target.TargetHandle]; ok {
				dist := core.Distance(self.Position, cur.Position)
				if dist > detect.ChaseRange {
					target.HasTarget = false
				}
			} else {
				target.HasTarget = false
			}
		}

		if found {
			switch {
			case !target.HasTarget:
				target.TargetHandle = best.Handle
				target.LastKnownPosition = best.Position
				target.HasTarget = true
			case target.TargetHandle != best.Handle:
				curDist := core.Distance(self.Position, target.LastKnownPosition)
				curScore := score(curDist, byHandle[target.TargetHandle].MeleeSlots, byHandle[target.TargetHandle].MaxMeleeSlots, byHandle[target.TargetHandle].HealthFrac)
				if bestScore <= curScore-15 {
					target.TargetHandle = best.Handle
					target.LastKnownPosition = best.Position
				}
			default:
				target.LastKnownPosition = best.Position
			}
		}

		detect.NextScanTime = now + detect.ScanInterval
	}
}
