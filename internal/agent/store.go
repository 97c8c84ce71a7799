package agent

import "navcore/internal/core"

// Store is the dense, per-kind component table for every agent entity. All
// slices are indexed by Handle.Index and grown to match the arena; callers
// must check Arena.Alive before trusting a slot's contents.
type Store struct {
	Arena *core.Arena

	Transform   []LocalTransform
	Movement    []UnitMovement
	Permissions []UnitLayerPermissions
	Nav         []AgentNavigation
	Stuck       []StuckDetection
	Tags        []Tags
	PathRequest []PathRequestData
	MoveCommand []MoveCommandData
	Waypoints   [][]core.Vec2
	MacroWaypoints [][]core.Vec2

	HasCombat   []bool
	Unit        []UnitData
	Health      []HealthComponent
	Weapon      []Weapon
	Attack      []AttackComponent
	AI          []AIStateComponent
	Detection   []DetectionComponent
	Target      []CurrentTarget
	MeleeSlots  []MeleeSlotComponent
	Assignment  []MeleeSlotAssignment
	Events      []CombatEvents
	Regen       []RegenComponent
}

func NewStore(arena *core.Arena) *Store {
	return &Store{Arena: arena}
}

// grow extends every slice to at least n entries, zero-valued.
func (s *Store) grow(n int) {
	grow(&s.Transform, n)
	grow(&s.Movement, n)
	grow(&s.Permissions, n)
	grow(&s.Nav, n)
	grow(&s.Stuck, n)
	grow(&s.Tags, n)
	grow(&s.PathRequest, n)
	grow(&s.MoveCommand, n)
	growSlice(&s.Waypoints, n)
	growSlice(&s.MacroWaypoints, n)
	grow(&s.HasCombat, n)
	grow(&s.Unit, n)
	grow(&s.Health, n)
	grow(&s.Weapon, n)
	grow(&s.Attack, n)
	grow(&s.AI, n)
	grow(&s.Detection, n)
	grow(&s.Target, n)
	grow(&s.MeleeSlots, n)
	grow(&s.Assignment, n)
	grow(&s.Events, n)
	grow(&s.Regen, n)
}

func grow[T any](slice *[]T, n int) {
	if len(*slice) >= n {
		return
	}
	*slice = append(*slice, make([]T, n-len(*slice))...)
}

func growSlice[T any](slice *[][]T, n int) {
	if len(*slice) >= n {
		return
	}
	*slice = append(*slice, make([][]T, n-len(*slice))...)
}

// Spawn allocates a new agent handle and ensures its component slot exists.
func (s *Store) Spawn() core.Handle {
	h := s.Arena.Create()
	s.grow(int(h.Index) + 1)
	return h
}

// Despawn releases the handle; component slots are left in place (zeroed on
// next Spawn reuse is not guaranteed, so stage code must always gate on
// Arena.Alive rather than assuming zero values after a despawn).
func (s *Store) Despawn(h core.Handle) {
	s.Arena.Destroy(h)
}

// Live returns every currently-alive handle in ascending index order.
func (s *Store) Live() []core.Handle {
	return s.Arena.Live()
}
