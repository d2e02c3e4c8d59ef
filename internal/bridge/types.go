package bridge

import (
	"github.com/beatoven/dspcoffee-bridge/internal/journal"
	"github.com/beatoven/dspcoffee-bridge/internal/scoring"
)

// #region lanes
// RealtimeLane is the best-effort channel for continuous parameter nudges.
type RealtimeLane interface {
	SendMacros(presetID string, values map[string]float64)
	SendMeta(key string, value float64)
}

// OpsLane is the reliable, acknowledged channel for configuration-changing
// commands. Send reports delivery as a boolean; transient link failures
// are expected and must never surface as errors.
type OpsLane interface {
	Send(kind string, payload map[string]any, retries int) bool
}

// #endregion lanes

// #region recorder
// Recorder receives one decision entry per processed frame.
// A nil Recorder disables journaling.
type Recorder interface {
	Record(e journal.Entry) error
}

// #endregion recorder

// #region config
// Config holds the runtime's tunables.
type Config struct {
	Thresholds scoring.Thresholds
	OpsRetries int      // attempts per ops command
	Recorder   Recorder // optional decision journal
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Thresholds: scoring.DefaultThresholds(),
		OpsRetries: 3,
	}
}

// #endregion config
