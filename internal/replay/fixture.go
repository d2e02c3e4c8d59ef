package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/beatoven/dspcoffee-bridge/internal/preset"
	"github.com/beatoven/dspcoffee-bridge/internal/resonance"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a recorded bridge session.
type Fixture struct {
	Description string             `json:"description"`
	Presets     []preset.Bank      `json:"presets"`
	Thresholds  *FixtureThresholds `json:"thresholds,omitempty"`
	Events      []Event            `json:"events"`
}

// FixtureThresholds overrides the default hysteresis band for a run.
type FixtureThresholds struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Event is one recorded ingestion step: exactly one of Frame or Delta,
// plus optional expectations checked after processing.
type Event struct {
	Frame *resonance.Frame `json:"frame,omitempty"`
	Delta *resonance.Delta `json:"delta,omitempty"`

	ExpectAction string `json:"expect_action,omitempty"`
	ExpectPreset string `json:"expect_preset,omitempty"` // current preset after the event
}

// #endregion fixture-types

// #region load

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var fx Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	for i, ev := range fx.Events {
		if (ev.Frame == nil) == (ev.Delta == nil) {
			return Fixture{}, fmt.Errorf("event %d: exactly one of frame or delta is required", i)
		}
	}
	return fx, nil
}

// #endregion load
