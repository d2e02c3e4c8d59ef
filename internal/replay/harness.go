package replay

import (
	"fmt"

	"github.com/beatoven/dspcoffee-bridge/internal/bridge"
	"github.com/beatoven/dspcoffee-bridge/internal/journal"
	"github.com/beatoven/dspcoffee-bridge/internal/preset"
	"github.com/beatoven/dspcoffee-bridge/internal/scoring"
)

// #region capture-lanes

// CaptureRealtime records realtime directives instead of sending them.
type CaptureRealtime struct {
	MacroBatches int
	Metas        []string
}

func (c *CaptureRealtime) SendMacros(presetID string, values map[string]float64) {
	c.MacroBatches++
}

func (c *CaptureRealtime) SendMeta(key string, value float64) {
	c.Metas = append(c.Metas, key)
}

// CaptureOps records ops commands and acknowledges every one.
type CaptureOps struct {
	Kinds []string
}

func (c *CaptureOps) Send(kind string, payload map[string]any, retries int) bool {
	c.Kinds = append(c.Kinds, kind)
	return true
}

// captureRecorder keeps the decision entry of the latest cycle.
type captureRecorder struct {
	last *journal.Entry
}

func (c *captureRecorder) Record(e journal.Entry) error {
	c.last = &e
	return nil
}

// #endregion capture-lanes

// #region results

// Result captures the outcome of replaying one event.
type Result struct {
	Index         int
	Action        string
	BestPresetID  string
	BestScore     float64
	CurrentPreset string
	OpsKinds      []string
	Matched       bool
	Note          string
}

// Summary aggregates a replay run.
type Summary struct {
	Total      int
	Matched    int
	Mismatched int
}

// #endregion results

// #region run

// Run replays every event through a real runtime wired to capture lanes
// and checks each event's expectations.
func Run(fx Fixture) ([]Result, Summary, error) {
	reg, err := preset.NewRegistry(fx.Presets...)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("fixture presets: %w", err)
	}

	cfg := bridge.DefaultConfig()
	if fx.Thresholds != nil {
		cfg.Thresholds = scoring.Thresholds{Low: fx.Thresholds.Low, High: fx.Thresholds.High}
	}
	rec := &captureRecorder{}
	cfg.Recorder = rec

	rt := &CaptureRealtime{}
	ops := &CaptureOps{}
	runtime := bridge.NewRuntime(reg, rt, ops, cfg)

	var results []Result
	var summary Summary
	for i, ev := range fx.Events {
		opsBefore := len(ops.Kinds)
		rec.last = nil

		if ev.Frame != nil {
			runtime.OnFrame(*ev.Frame)
		} else {
			runtime.OnDelta(*ev.Delta)
		}

		res := Result{
			Index:         i,
			CurrentPreset: runtime.CurrentPresetID(),
			OpsKinds:      append([]string(nil), ops.Kinds[opsBefore:]...),
			Matched:       true,
		}
		if rec.last != nil {
			res.Action = rec.last.Action
			res.BestPresetID = rec.last.BestPresetID
			res.BestScore = rec.last.BestScore
		}

		if ev.ExpectAction != "" && res.Action != ev.ExpectAction {
			res.Matched = false
			res.Note = fmt.Sprintf("expected action %s, got %s", ev.ExpectAction, res.Action)
		}
		if ev.ExpectPreset != "" && res.CurrentPreset != ev.ExpectPreset {
			res.Matched = false
			res.Note = fmt.Sprintf("expected preset %s, got %s", ev.ExpectPreset, res.CurrentPreset)
		}

		summary.Total++
		if res.Matched {
			summary.Matched++
		} else {
			summary.Mismatched++
		}
		results = append(results, res)
	}
	return results, summary, nil
}

// #endregion run
