// Package agent holds the per-agent component set described in spec §3:
// movement, permissions, navigation state, and the one-shot request/event
// tags consumed across the frame pipeline. Agents are entities identified
// by a core.Handle; components are stored in the parallel slices of Store.
package agent

import "navcore/internal/core"

// NavMode selects which navigation subsystem is driving an agent.
type NavMode int

const (
	ModeIdle NavMode = iota
	ModeAStar
	ModeFlowField
	ModeMacroOnly
)

func (m NavMode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeAStar:
		return "astar"
	case ModeFlowField:
		return "flow_field"
	case ModeMacroOnly:
		return "macro_only"
	default:
		return "unknown"
	}
}

// LocalTransform is exclusively mutated by movers (spec §3).
type LocalTransform struct {
	Position core.Vec2
	Height   float64 // world-space y, flattened for ground units during heading calc
	Rotation float64 // radians, heading around the vertical axis
	Scale    float64
}

// UnitMovement carries kinematic tuning and path-follow cursor state.
type UnitMovement struct {
	Speed               float64
	TurnSpeed           float64
	TurnDistance        float64
	CurrentWaypointIndex int
	IsFollowingPath      bool
	PrevIsFollowingPath  bool
}

// UnitLayerPermissions gates which NodeStatic cells an agent may occupy.
type UnitLayerPermissions struct {
	WalkableLayers   uint8
	CostLayerWeights uint8
	IsFlying         bool
}

// AgentNavigation is the dispatcher's primary state record.
type AgentNavigation struct {
	Destination       core.Vec2
	LastKnownPosition core.Vec2
	Mode              NavMode
	FlowFieldID       uint64 // destination hash; vestigial per spec §9 open question, kept for observability
	RepathCooldown    float64 // absolute sim time, seconds
	StuckTimer        float64
	ArrivalThreshold  float64
	HasDestination    bool
	MacroPathDone     bool
}

// StuckDetection runs alongside the dispatcher (spec §4.3).
type StuckDetection struct {
	LastCheckedPosition   core.Vec2
	NextCheckTime         float64
	CheckInterval         float64
	StuckDistanceThreshold float64
	StuckCount            int
	MaxStuckCount         int
}

// Tags are one-shot/request booleans enabled by one stage and consumed (and
// cleared) by a later one. They are modeled as plain bools rather than a
// bitset since agent counts here are in the thousands, not millions; a
// dedicated bitset would only pay off at a scale this core doesn't target.
type Tags struct {
	PathRequest         bool
	PathfindingSuccess  bool
	PathfindingFailed   bool
	NeedsRepath         bool
	NavigationMoveCmd   bool
	NavigationStopCmd   bool
	FlowFieldFollower   bool
	StartedMoving       bool
	StoppedMoving       bool
	Dead                bool
}

// PathRequestData carries the request payload while PathRequest is enabled.
type PathRequestData struct {
	Start       core.Vec2
	End         core.Vec2
	Priority    int
	RequestTime float64
}

// MoveCommandData carries the pending NavigationMoveCommand payload.
type MoveCommandData struct {
	Destination core.Vec2
	Priority    int
}
