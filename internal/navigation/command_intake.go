// Package navigation implements the Command Intake, Navigation Dispatcher,
// A* Pathfinder batching/dispatch, Flow Field build/sample, and the three
// movers described in spec §4.2–§4.6. It is the glue between the agent
// component store, the chunk/world model, and the pathfinding package's
// pure algorithms.
package navigation

import (
	"navcore/internal/agent"
	"navcore/internal/core"
)

// Clock reports the current simulation time in seconds, injected so tests
// can drive deterministic timelines.
type Clock interface {
	NowSeconds() float64
}

// IntakeCommand processes one agent's pending NavigationMoveCommand or
// NavigationStopCommand, per spec §4.2. AI Decision (combat package) issues
// its chase/stop orders through the same IssueMove/IssueStop entry points,
// so they flow through this one intake path on the following frame.
func IntakeCommand(store *agent.Store, h core.Handle, now float64) {
	idx := h.Index
	tags := &store.Tags[idx]

	if tags.NavigationMoveCmd {
		cmd := store.MoveCommand[idx]
		nav := &store.Nav[idx]
		nav.Destination = cmd.Destination
		nav.HasDestination = true
		nav.Mode = agent.ModeAStar
		nav.RepathCooldown = 0
		nav.MacroPathDone = false
		tags.FlowFieldFollower = false
		tags.PathRequest = true
		store.PathRequest[idx] = agent.PathRequestData{
			Start:       store.Transform[idx].Position,
			End:         cmd.Destination,
			Priority:    cmd.Priority,
			RequestTime: now,
		}
		tags.NavigationMoveCmd = false
	}

	if tags.NavigationStopCmd {
		nav := &store.Nav[idx]
		nav.HasDestination = false
		nav.Mode = agent.ModeIdle
		store.Movement[idx].IsFollowingPath = false
		store.Movement[idx].CurrentWaypointIndex = 0
		tags.FlowFieldFollower = false
		tags.PathRequest = false
		tags.NavigationStopCmd = false
	}
}

// IssueMove stages a NavigationMoveCommand for the next Command Intake pass.
func IssueMove(store *agent.Store, h core.Handle, destination core.Vec2, priority int) {
	idx := h.Index
	store.MoveCommand[idx] = agent.MoveCommandData{Destination: destination, Priority: priority}
	store.Tags[idx].NavigationMoveCmd = true
}

// IssueStop stages a NavigationStopCommand for the next Command Intake pass.
func IssueStop(store *agent.Store, h core.Handle) {
	store.Tags[h.Index].NavigationStopCmd = true
}
