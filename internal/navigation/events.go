package navigation

import (
	"navcore/internal/agent"
	"navcore/internal/core"
)

// RunMovementEvents implements spec §4.6's movement-event bookkeeping: clear
// whatever fired last frame, then flip StartedMoving/StoppedMoving one-shot
// tags on the IsFollowingPath edge, so each tag is visible for exactly one
// frame.
func RunMovementEvents(store *agent.Store, h core.Handle) {
	idx := h.Index
	tags := &store.Tags[idx]
	move := &store.Movement[idx]

	tags.StartedMoving = false
	tags.StoppedMoving = false

	if move.IsFollowingPath && !move.PrevIsFollowingPath {
		tags.StartedMoving = true
	}
	if !move.IsFollowingPath && move.PrevIsFollowingPath {
		tags.StoppedMoving = true
	}
	move.PrevIsFollowingPath = move.IsFollowingPath
}
