// Command navserver hosts the navigation + combat-AI frame loop behind a
// small HTTP surface: a health check, a diagnostics snapshot, and a
// websocket observer feed, grounded on the teacher's main.go Hub/RunSimulation
// split between simulation ownership and transport.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"navcore/internal/agent"
	"navcore/internal/core"
	"navcore/internal/journal"
	"navcore/internal/pathfinding"
	"navcore/internal/sim"
	"navcore/internal/stream"
	"navcore/internal/telemetry"
	"navcore/internal/world"
	"navcore/logging"
)

func main() {
	var addr string
	var tickRate int
	flag.StringVar(&addr, "addr", ":8090", "HTTP listen address")
	flag.IntVar(&tickRate, "tick-rate", 30, "simulation ticks per second")
	flag.Parse()

	stdLogger := log.Default()
	metrics := &logging.Metrics{}
	eventLog := logging.PublisherFunc(func(_ context.Context, evt logging.Event) {
		stdLogger.Printf("event type=%s actor=%s tick=%d category=%s extra=%v", evt.Type, evt.Actor.ID, evt.Tick, evt.Category, evt.Extra)
	})
	deps := sim.Deps{
		Logger:    telemetry.WrapLogger(stdLogger),
		Metrics:   metrics,
		Publisher: logging.WithFields(eventLog, map[string]any{"addr": addr}),
	}

	cfg := world.DefaultNavigationConfig()
	physics := &world.FlatGroundPhysics{Width: 4096, Depth: 4096}
	cost := pathfinding.CostModel{Terrain: world.DefaultTerrainCostTable()}

	engine := sim.NewEngine(cfg, physics, cost, deps)
	jrnl := journal.New(64, 5*time.Minute)
	hub := stream.NewHub(deps.Logger, deps.Metrics)

	var keyframeSeq uint64
	loop := sim.NewLoop(engine, sim.LoopConfig{TickRate: tickRate}, sim.LoopHooks{
		AfterStep: func(result sim.StepResult) {
			frame := stream.Frame{Type: "tick", Tick: result.Tick, Events: observerEvents(result.Events)}
			hub.Broadcast(frame)

			for _, evt := range result.Events {
				if patch, ok := journalPatch(evt); ok {
					jrnl.AppendPatch(patch)
				}
			}

			if result.Tick%uint64(tickRate) == 0 {
				keyframeSeq++
				jrnl.RecordKeyframe(journal.Keyframe{
					Tick:     result.Tick,
					Sequence: keyframeSeq,
					Agents:   snapshotAgents(engine),
				})
			}
		},
		OnCommandDrop: func(reason string, cmd sim.Command) {
			stdLogger.Printf("dropping command for %s: %s", cmd.Handle.String(), reason)
		},
	})

	anchor := &world.StreamingAnchor{Handle: core.Handle{}, WorldPosition: core.Vec2{}, Priority: 1}
	loop.SetAnchors([]*world.StreamingAnchor{anchor})

	stop := make(chan struct{})
	go loop.Run(stop)
	defer close(stop)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	http.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		size, oldest, newest := jrnl.KeyframeWindow()
		payload := struct {
			ServerTime      int64  `json:"serverTime"`
			Tick            uint64 `json:"tick"`
			PendingCommands int    `json:"pendingCommands"`
			CommandCapacity int    `json:"commandCapacity"`
			Subscribers     int    `json:"subscribers"`
			KeyframeWindow  int    `json:"keyframeWindow"`
			OldestSequence  uint64 `json:"oldestSequence"`
			NewestSequence  uint64 `json:"newestSequence"`
		}{
			ServerTime:      time.Now().UnixMilli(),
			Tick:            loop.Engine().Tick(),
			PendingCommands: loop.Pending(),
			CommandCapacity: loop.Capacity(),
			Subscribers:     hub.Count(),
			KeyframeWindow:  size,
			OldestSequence:  oldest,
			NewestSequence:  newest,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	http.HandleFunc("/replay", func(w http.ResponseWriter, r *http.Request) {
		patches := jrnl.DrainPatches()
		data, err := json.Marshal(patches)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	http.HandleFunc("/spawn", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var def agent.UnitArchetype
		if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
			http.Error(w, "malformed archetype", http.StatusBadRequest)
			return
		}
		h := loop.Engine().Store.SpawnFromArchetype(def)
		json.NewEncoder(w).Encode(struct {
			Handle string `json:"handle"`
		}{Handle: h.String()})
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	http.HandleFunc("/observe", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			stdLogger.Printf("observer upgrade failed for %s: %v", id, err)
			return
		}
		hub.Subscribe(id, conn)
	})

	stdLogger.Printf("navserver listening on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		stdLogger.Fatalf("server failed: %v", err)
	}
}
