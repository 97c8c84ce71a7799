package sim

// StepEvent is one observable one-shot occurrence produced by a Step call:
// a movement edge, a landed hit, received damage, a death, a chunk bake, or
// a pathfinding outcome. cmd/navserver fans these out to internal/stream
// subscribers and folds them into internal/journal patches; Engine itself
// has no opinion on where they go.
type StepEvent struct {
	Kind        string
	EntityID    string
	TargetID    string
	Amount      float64
	HealthAfter float64
	Success     bool
	Macro       bool
}

const (
	StepEventStartedMoving  = "started_moving"
	StepEventStoppedMoving  = "stopped_moving"
	StepEventAttackHit      = "attack_hit"
	StepEventDamageReceived = "damage_received"
	StepEventDead           = "dead"
	StepEventPathOutcome    = "path_outcome"
	StepEventChunkBaked     = "chunk_baked"
)
