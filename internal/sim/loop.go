package sim

import (
	"sync"
	"time"

	"navcore/internal/world"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to
	// per-actor queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is
	// saturated.
	CommandRejectQueueFull = "queue_full"
)

// LoopConfig tunes the tick rate and command buffer of a Loop.
type LoopConfig struct {
	TickRate        int
	CommandCapacity int
	PerActorLimit   int
}

// LoopHooks lets a caller observe loop lifecycle events without the Loop
// depending on any particular transport.
type LoopHooks struct {
	AfterStep     func(StepResult)
	OnCommandDrop func(reason string, cmd Command)
}

// StepResult summarizes one Advance call.
type StepResult struct {
	Tick     uint64
	Now      float64
	Delta    float64
	Commands []Command
	Events   []StepEvent
}

// Loop wraps an Engine with a concurrent-safe command buffer and a
// fixed-timestep ticker, grounded on the host simulation's own tick-rate
// loop over an EngineCore.
type Loop struct {
	engine *Engine
	buffer *CommandBuffer
	hooks  LoopHooks
	cfg    LoopConfig

	anchorsMu sync.Mutex
	anchors   []*world.StreamingAnchor

	queueMu       sync.Mutex
	perActorCount map[string]int
}

// NewLoop constructs a Loop around engine.
func NewLoop(engine *Engine, cfg LoopConfig, hooks LoopHooks) *Loop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	if cfg.CommandCapacity <= 0 {
		cfg.CommandCapacity = 1024
	}
	return &Loop{
		engine:        engine,
		buffer:        NewCommandBuffer(cfg.CommandCapacity, engine.Deps.Metrics),
		hooks:         hooks,
		cfg:           cfg,
		perActorCount: make(map[string]int),
	}
}

// Engine exposes the wrapped engine for callers that need direct component
// access (spawning agents, inspecting components between ticks).
func (l *Loop) Engine() *Engine {
	return l.engine
}

// SetAnchors replaces the streaming anchors driving chunk loading. Safe to
// call concurrently with Run.
func (l *Loop) SetAnchors(anchors []*world.StreamingAnchor) {
	l.anchorsMu.Lock()
	defer l.anchorsMu.Unlock()
	l.anchors = anchors
}

// Enqueue stages a command for the next Advance, enforcing per-actor
// throttling and overall capacity.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	actorKey := cmd.Handle.String()
	l.queueMu.Lock()
	if l.cfg.PerActorLimit > 0 {
		if l.perActorCount[actorKey] >= l.cfg.PerActorLimit {
			l.queueMu.Unlock()
			l.reportDrop(CommandRejectQueueLimit, cmd)
			return false, CommandRejectQueueLimit
		}
		l.perActorCount[actorKey]++
	}
	l.queueMu.Unlock()

	if !l.buffer.Push(cmd) {
		l.reportDrop(CommandRejectQueueFull, cmd)
		return false, CommandRejectQueueFull
	}
	return true, ""
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	return l.buffer.Len()
}

// Capacity reports the command buffer's fixed ring size.
func (l *Loop) Capacity() int {
	return l.buffer.Capacity()
}

// Advance drains staged commands, applies them, and steps the engine once.
func (l *Loop) Advance(tick uint64, now, dt float64) StepResult {
	commands := l.drainCommands()
	l.anchorsMu.Lock()
	anchors := l.anchors
	l.anchorsMu.Unlock()

	l.engine.Apply(commands)
	l.engine.Step(dt, anchors)

	return StepResult{Tick: tick, Now: now, Delta: dt, Commands: commands, Events: l.engine.LastEvents()}
}

// Run drives the fixed-timestep loop until stop closes.
func (l *Loop) Run(stop <-chan struct{}) {
	tickRate := l.cfg.TickRate
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	budgetSeconds := 1.0 / float64(tickRate)
	last := time.Now()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = budgetSeconds
			}
			last = now

			result := l.Advance(l.engine.Tick()+1, l.engine.NowSeconds()+dt, dt)
			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}

func (l *Loop) drainCommands() []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.buffer.Drain()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[string]int)
	}
	return commands
}

func (l *Loop) reportDrop(reason string, cmd Command) {
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
}
