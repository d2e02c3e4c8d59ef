package main

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/beatoven/dspcoffee-bridge/internal/bridge"
	"github.com/beatoven/dspcoffee-bridge/internal/journal"
	"github.com/beatoven/dspcoffee-bridge/internal/preset"
	"github.com/beatoven/dspcoffee-bridge/internal/resonance"
	"github.com/beatoven/dspcoffee-bridge/internal/transport"
)

// #region event
// event is one JSONL line read from stdin.
type event struct {
	Type  string           `json:"type"` // "frame" | "delta"
	Frame *resonance.Frame `json:"frame,omitempty"`
	Delta *resonance.Delta `json:"delta,omitempty"`
}

// #endregion event

// #region main
func main() {
	packPath := os.Getenv("PRESET_PACK")
	rtAddr := envOr("RT_ADDR", "127.0.0.1:9000")
	opsDevice := envOr("OPS_DEVICE", "/dev/ttyACM0")
	opsBaud := envIntOr("OPS_BAUD", 115200)
	dbPath := envOr("BRIDGE_DB", "bridge.db")

	registry := preset.DefaultRegistry()
	if packPath != "" {
		var err error
		registry, err = preset.LoadRegistry(packPath)
		if err != nil {
			log.Fatalf("failed to load preset pack: %v", err)
		}
	}

	rt, err := transport.NewUDPLane(rtAddr)
	if err != nil {
		log.Fatalf("failed to open realtime lane: %v", err)
	}
	defer rt.Close()

	ops, err := transport.OpenSerialOps(opsDevice, opsBaud)
	if err != nil {
		log.Fatalf("failed to open ops lane: %v", err)
	}

	jnl, err := journal.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open journal: %v", err)
	}
	defer jnl.Close()

	cfg := bridge.DefaultConfig()
	cfg.Recorder = jnl
	runtime := bridge.NewRuntime(registry, rt, ops, cfg)

	log.Printf("[BRIDGE] ready: presets=%d rt=%s ops=%s@%d db=%s",
		registry.Len(), rtAddr, opsDevice, opsBaud, dbPath)

	// All ingestion flows through this single loop, which is what keeps
	// the runtime's single-threaded contract intact.
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev event
		if err := json.Unmarshal(line, &ev); err != nil {
			log.Printf("[BRIDGE] skipping malformed line: %v", err)
			continue
		}
		switch {
		case ev.Type == "frame" && ev.Frame != nil:
			runtime.OnFrame(*ev.Frame)
		case ev.Type == "delta" && ev.Delta != nil:
			runtime.OnDelta(*ev.Delta)
		default:
			log.Printf("[BRIDGE] skipping event with type %q", ev.Type)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("stdin read error: %v", err)
	}
}

// #endregion main

// #region env-helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// #endregion env-helpers
