// Package journal records per-tick navigation/combat patches and periodic
// keyframes so a reconnecting observer (internal/stream) or offline
// debugging tooling can resync without replaying the whole run, grounded on
// the host simulation's own patch+keyframe journal (spec §4.11,
// supplemental).
package journal

import (
	"sync"
	"time"
)

// PatchKind identifies the type of per-tick diff entry.
type PatchKind string

const (
	PatchChunkState      PatchKind = "chunk_state"
	PatchAgentPosition   PatchKind = "agent_position"
	PatchPathOutcome     PatchKind = "path_outcome"
	PatchCombatState     PatchKind = "combat_state"
	PatchAgentDamaged    PatchKind = "agent_damaged"
	PatchAgentDied       PatchKind = "agent_died"
)

// Patch is one diff entry produced during a tick.
type Patch struct {
	Kind     PatchKind `json:"kind"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload,omitempty"`
}

// ChunkStatePayload describes a chunk lifecycle transition.
type ChunkStatePayload struct {
	ChunkX int32  `json:"chunkX"`
	ChunkZ int32  `json:"chunkZ"`
	State  string `json:"state"`
}

// PositionPayload describes an agent's refreshed world position.
type PositionPayload struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// PathOutcomePayload describes an A*/macro pathfinding result.
type PathOutcomePayload struct {
	Success bool `json:"success"`
	Macro   bool `json:"macro"`
}

// CombatStatePayload describes an AI state machine transition.
type CombatStatePayload struct {
	State string `json:"state"`
}

// DamagePayload describes a resolved attack.
type DamagePayload struct {
	Amount       float64 `json:"amount"`
	AttackerID   string  `json:"attackerId"`
	HealthAfter  float64 `json:"healthAfter"`
}

// Keyframe captures a periodic full snapshot of navigation + combat state
// for every live agent, for resync recovery.
type Keyframe struct {
	Tick       uint64        `json:"tick"`
	Sequence   uint64        `json:"sequence"`
	Agents     []AgentFrame  `json:"agents,omitempty"`
	RecordedAt time.Time     `json:"recordedAt"`
}

// AgentFrame is one agent's state within a Keyframe.
type AgentFrame struct {
	EntityID   string  `json:"entityId"`
	X          float64 `json:"x"`
	Z          float64 `json:"z"`
	Mode       string  `json:"mode"`
	AIState    string  `json:"aiState"`
	Health     float64 `json:"health"`
	MaxHealth  float64 `json:"maxHealth"`
}

// KeyframeEviction describes a keyframe removed from the retention buffer.
type KeyframeEviction struct {
	Sequence uint64 `json:"sequence"`
	Tick     uint64 `json:"tick"`
	Reason   string `json:"reason,omitempty"`
}

// KeyframeRecordResult reports the journal's keyframe buffer state after a
// RecordKeyframe call.
type KeyframeRecordResult struct {
	Size           int                `json:"size"`
	OldestSequence uint64             `json:"oldestSequence"`
	NewestSequence uint64             `json:"newestSequence"`
	Evicted        []KeyframeEviction `json:"evicted,omitempty"`
}

// Journal accumulates per-tick patches and keeps a rolling keyframe buffer.
type Journal struct {
	mu        sync.RWMutex
	patches   []Patch
	keyframes []Keyframe
	maxFrames int
	maxAge    time.Duration
}

// New constructs a Journal retaining up to keyframeCapacity keyframes, each
// evicted once older than maxAge (0 disables age-based eviction).
func New(keyframeCapacity int, maxAge time.Duration) *Journal {
	if keyframeCapacity < 0 {
		keyframeCapacity = 0
	}
	if maxAge < 0 {
		maxAge = 0
	}
	return &Journal{
		patches:   make([]Patch, 0),
		keyframes: make([]Keyframe, 0, keyframeCapacity),
		maxFrames: keyframeCapacity,
		maxAge:    maxAge,
	}
}

// AppendPatch records a patch for the current tick.
func (j *Journal) AppendPatch(p Patch) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.patches = append(j.patches, p)
}

// DrainPatches returns every staged patch and clears the buffer.
func (j *Journal) DrainPatches() []Patch {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.patches) == 0 {
		return nil
	}
	drained := make([]Patch, len(j.patches))
	copy(drained, j.patches)
	j.patches = j.patches[:0]
	return drained
}

// RecordKeyframe appends frame to the retention buffer, evicting by age and
// then by count.
func (j *Journal) RecordKeyframe(frame Keyframe) KeyframeRecordResult {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.maxFrames == 0 {
		j.keyframes = j.keyframes[:0]
		return KeyframeRecordResult{}
	}

	frame.RecordedAt = time.Now()
	j.keyframes = append(j.keyframes, frame)

	var evicted []KeyframeEviction
	cutoff := time.Time{}
	if j.maxAge > 0 {
		cutoff = frame.RecordedAt.Add(-j.maxAge)
	}
	if !cutoff.IsZero() {
		idx := 0
		for idx < len(j.keyframes) && j.keyframes[idx].RecordedAt.Before(cutoff) {
			evicted = append(evicted, KeyframeEviction{Sequence: j.keyframes[idx].Sequence, Tick: j.keyframes[idx].Tick, Reason: "expired"})
			idx++
		}
		if idx > 0 {
			copy(j.keyframes, j.keyframes[idx:])
			j.keyframes = j.keyframes[:len(j.keyframes)-idx]
		}
	}

	if len(j.keyframes) > j.maxFrames {
		overflow := len(j.keyframes) - j.maxFrames
		for i := 0; i < overflow; i++ {
			evicted = append(evicted, KeyframeEviction{Sequence: j.keyframes[i].Sequence, Tick: j.keyframes[i].Tick, Reason: "count"})
		}
		copy(j.keyframes, j.keyframes[overflow:])
		j.keyframes = j.keyframes[:len(j.keyframes)-overflow]
	}

	result := KeyframeRecordResult{Size: len(j.keyframes), Evicted: evicted}
	if result.Size > 0 {
		result.OldestSequence = j.keyframes[0].Sequence
		result.NewestSequence = j.keyframes[result.Size-1].Sequence
	}
	return result
}

// KeyframeBySequence returns the keyframe matching sequence, if retained.
func (j *Journal) KeyframeBySequence(sequence uint64) (Keyframe, bool) {
	if sequence == 0 {
		return Keyframe{}, false
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	for _, frame := range j.keyframes {
		if frame.Sequence == sequence {
			return frame, true
		}
	}
	return Keyframe{}, false
}

// KeyframeWindow reports the current retention window.
func (j *Journal) KeyframeWindow() (size int, oldest, newest uint64) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	size = len(j.keyframes)
	if size == 0 {
		return size, 0, 0
	}
	return size, j.keyframes[0].Sequence, j.keyframes[size-1].Sequence
}
