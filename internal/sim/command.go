// Package sim drives the fixed-timestep frame loop over the navigation +
// combat-AI pipeline (spec §5): a totally ordered sequence of stages run
// each tick against an agent.Store, with external move/stop orders staged
// through a command buffer between ticks.
package sim

import (
	"time"

	"navcore/internal/core"
)

// CommandType enumerates the external orders a caller may enqueue between
// ticks (spec §6).
type CommandType string

const (
	CommandMove CommandType = "Move"
	CommandStop CommandType = "Stop"
)

// MoveCommand carries the destination and priority for a CommandMove.
type MoveCommand struct {
	Destination core.Vec2
	Priority    int
}

// Command is one staged external order for a single agent.
type Command struct {
	Handle     core.Handle
	Type       CommandType
	Move       *MoveCommand
	IssuedAt   time.Time
	OriginTick uint64
}
