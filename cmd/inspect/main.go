package main

import (
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/beatoven/dspcoffee-bridge/internal/journal"
	"github.com/beatoven/dspcoffee-bridge/internal/preset"
)

// #region main
func main() {
	dbPath := envOr("BRIDGE_DB", "bridge.db")
	packPath := os.Getenv("PRESET_PACK")
	limit := envIntOr("INSPECT_LIMIT", 20)

	registry := preset.DefaultRegistry()
	if packPath != "" {
		var err error
		registry, err = preset.LoadRegistry(packPath)
		if err != nil {
			log.Fatalf("failed to load preset pack: %v", err)
		}
	}

	jnl, err := journal.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open journal: %v", err)
	}
	defer jnl.Close()

	recent, err := jnl.Recent(limit)
	if err != nil {
		log.Fatalf("failed to read journal: %v", err)
	}

	out := map[string]any{
		"presets":   registry.Export(),
		"decisions": recent,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode: %v", err)
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
