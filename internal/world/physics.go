package world

import "navcore/internal/core"

// GroundHit describes the result of a downward ray cast during bake.
type GroundHit struct {
	Hit      bool
	Point    core.Vec2 // x/z of the hit, world space
	Height   float64   // world-space y of the hit surface
	NormalY  float64   // y component of the surface normal, [0,1]
}

// PhysicsQuerier is the only runtime dependency the core has on a physics
// collaborator (spec §6): a downward ground ray, an obstacle-clearance
// sphere check, and a line-of-sight ray. Rendering/scene authoring and the
// physics runtime beyond these three queries are out of scope (spec §1);
// production callers provide their own implementation backed by whatever
// physics engine owns the authored geometry. This package ships only a
// deterministic fake used by bake/pathfinding tests.
type PhysicsQuerier interface {
	// GroundRay casts a ray of the given length straight down from origin
	// against groundLayer, returning the first hit (if any).
	GroundRay(origin core.Vec2, originHeight, length float64, groundLayer uint32) GroundHit

	// ClearanceCheck performs a sphere overlap test of the given radius at
	// point (at the given height) against unwalkableLayer, reporting
	// whether anything blocks agent clearance there.
	ClearanceCheck(point core.Vec2, height, radius float64, unwalkableLayer uint32) bool

	// LineOfSight casts a ray from origin to target against obstacleLayers,
	// reporting whether the path is clear (no blocking hit before target).
	LineOfSight(origin, target core.Vec2, originHeight, targetHeight float64, obstacleLayers uint32) bool
}

// FlatGroundPhysics is a deterministic PhysicsQuerier over a rectangular
// world of flat, fully walkable ground punctuated by named obstacle
// footprints. It exists for tests and for headless simulation runs where no
// real physics/scene collaborator is wired up; it never approximates actual
// authored geometry.
type FlatGroundPhysics struct {
	Width, Depth float64
	// Blocked cells, in world space, mark ground as absent (hole/void): the
	// ground ray misses entirely there.
	Holes []Obstacle
	// Steep marks cells whose surface normal exceeds any plausible walk
	// angle, forcing SlopeFlags during bake.
	SteepZones []Obstacle
	// Unwalkable marks clearance-blocking footprints (props, walls) that
	// still have valid ground beneath them.
	Unwalkable []Obstacle
}

// Obstacle is an axis-aligned world-space footprint used by the fake
// physics implementation (holes, steep zones, unwalkable clutter).
type Obstacle struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

func (o Obstacle) contains(p core.Vec2) bool {
	return p.X >= o.MinX && p.X <= o.MaxX && p.Z >= o.MinZ && p.Z <= o.MaxZ
}

func (fg *FlatGroundPhysics) GroundRay(origin core.Vec2, originHeight, length float64, groundLayer uint32) GroundHit {
	if origin.X < 0 || origin.Z < 0 || origin.X > fg.Width || origin.Z > fg.Depth {
		return GroundHit{}
	}
	for _, hole := range fg.Holes {
		if hole.contains(origin) {
			return GroundHit{}
		}
	}
	normalY := 1.0
	for _, steep := range fg.SteepZones {
		if steep.contains(origin) {
			normalY = 0.3
			break
		}
	}
	return GroundHit{Hit: true, Point: origin, Height: 0, NormalY: normalY}
}

func (fg *FlatGroundPhysics) ClearanceCheck(point core.Vec2, height, radius float64, unwalkableLayer uint32) bool {
	for _, blocker := range fg.Unwalkable {
		expanded := Obstacle{
			MinX: blocker.MinX - radius,
			MinZ: blocker.MinZ - radius,
			MaxX: blocker.MaxX + radius,
			MaxZ: blocker.MaxZ + radius,
		}
		if expanded.contains(point) {
			return true
		}
	}
	return false
}

func (fg *FlatGroundPhysics) LineOfSight(origin, target core.Vec2, originHeight, targetHeight float64, obstacleLayers uint32) bool {
	const steps = 16
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := core.Vec2{X: origin.X + (target.X-origin.X)*t, Z: origin.Z + (target.Z-origin.Z)*t}
		for _, blocker := range fg.Unwalkable {
			if blocker.contains(p) {
				return false
			}
		}
	}
	return true
}
