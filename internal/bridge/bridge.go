package bridge

import (
	"log"

	"github.com/beatoven/dspcoffee-bridge/internal/journal"
	"github.com/beatoven/dspcoffee-bridge/internal/preset"
	"github.com/beatoven/dspcoffee-bridge/internal/resonance"
	"github.com/beatoven/dspcoffee-bridge/internal/scoring"
	"github.com/beatoven/dspcoffee-bridge/internal/transport"
)

// #region runtime

// Runtime is the stateful core of the bridge: it merges deltas into a
// cached frame, scores the frame against the registry, selects an action,
// and dispatches over the two lanes.
//
// Runtime is single-threaded by contract. OnDelta and OnFrame mutate the
// cached frame and current preset without locking; the host must serialize
// calls, e.g. by routing all ingestion through one consumer of a channel.
type Runtime struct {
	presets    *preset.Registry
	rt         RealtimeLane
	ops        OpsLane
	thresholds scoring.Thresholds
	opsRetries int
	recorder   Recorder

	cache           *resonance.Frame
	currentPresetID string // empty until a stage or load succeeds
}

// NewRuntime wires a runtime over a read-only registry and the two lanes.
func NewRuntime(presets *preset.Registry, rt RealtimeLane, ops OpsLane, cfg Config) *Runtime {
	if cfg.OpsRetries < 1 {
		cfg.OpsRetries = DefaultConfig().OpsRetries
	}
	if cfg.Thresholds.High <= cfg.Thresholds.Low {
		cfg.Thresholds = scoring.DefaultThresholds()
	}
	return &Runtime{
		presets:    presets,
		rt:         rt,
		ops:        ops,
		thresholds: cfg.Thresholds,
		opsRetries: cfg.OpsRetries,
		recorder:   cfg.Recorder,
	}
}

// CurrentPresetID returns the preset the hardware is believed to run,
// or empty when none has been confirmed.
func (r *Runtime) CurrentPresetID() string {
	return r.currentPresetID
}

// #endregion runtime

// #region ingestion

// OnDelta merges a partial update into the cached frame and processes the
// result. The first delta before any full frame merges into a minimal
// self-rendered placeholder; producers should ideally send a full frame
// first.
func (r *Runtime) OnDelta(d resonance.Delta) {
	if r.cache == nil {
		f := resonance.NewFrame(resonance.SourceSelfRender, resonance.Frame{TsMs: d.TsMs})
		r.cache = &f
	}
	merged := mergeDelta(*r.cache, d)
	r.cache = &merged
	r.process(merged)
}

// OnFrame replaces the cached frame wholesale, bypassing delta merge.
func (r *Runtime) OnFrame(f resonance.Frame) {
	f = f.WithProvenanceHash()
	r.cache = &f
	r.process(f)
}

// mergeDelta applies replace-if-present semantics for genre, subgenre,
// metrics, and rhythm, shallow key-merge for extras, always adopts the
// delta's timestamp, and recomputes the provenance hash.
func mergeDelta(base resonance.Frame, d resonance.Delta) resonance.Frame {
	if d.Genre != nil {
		base.Genre = *d.Genre
	}
	if d.Subgenre != nil {
		base.Subgenre = *d.Subgenre
	}
	if d.Metrics != nil {
		m := *d.Metrics
		base.Metrics = &m
	}
	if d.Rhythm != nil {
		rh := *d.Rhythm
		base.Rhythm = &rh
	}
	if d.Extras != nil {
		merged := make(map[string]any, len(base.Extras)+len(d.Extras))
		for k, v := range base.Extras {
			merged[k] = v
		}
		for k, v := range d.Extras {
			merged[k] = v
		}
		base.Extras = merged
	}
	base.TsMs = d.TsMs
	return base.WithProvenanceHash()
}

// #endregion ingestion

// #region processing

// process runs one decision cycle: score, choose, dispatch, journal.
func (r *Runtime) process(frame resonance.Frame) {
	best, bestScore := r.bestPreset(frame)
	bestID := ""
	if best != nil {
		bestID = best.PresetID
	}

	action := scoring.ChooseAction(frame, r.currentPresetID, bestID, bestScore, r.thresholds)
	dispatchOK := true

	switch {
	case action == scoring.ActionNoop || best == nil:
		// Nothing actionable this cycle.

	case action == scoring.ActionSceneChange:
		ok := r.ops.Send(transport.KindLoadPreset, scenePayload(*best, string(best.SceneChangeQuantize), frame), r.opsRetries)
		if ok {
			r.currentPresetID = best.PresetID
		} else {
			// Leave the current preset untouched so the next cycle retries
			// the same transition instead of assuming success.
			dispatchOK = false
			log.Printf("[BRIDGE] LOAD_PRESET %s failed, keeping %q", best.PresetID, r.currentPresetID)
		}

	default:
		// The target preset must be loaded before nudging it; stage it
		// safely at a bar boundary when it is not current yet.
		if r.currentPresetID != best.PresetID {
			ok := r.ops.Send(transport.KindStageNext, scenePayload(*best, string(preset.QuantizeBar), frame), r.opsRetries)
			if ok {
				r.currentPresetID = best.PresetID
			} else {
				dispatchOK = false
				log.Printf("[BRIDGE] STAGE_NEXT %s failed, keeping %q", best.PresetID, r.currentPresetID)
			}
		}

		if action == scoring.ActionPatternInject && frame.Rhythm != nil {
			if !r.ops.Send(transport.KindCommitPattern, patternPayload(*best, frame), r.opsRetries) {
				dispatchOK = false
				log.Printf("[BRIDGE] COMMIT_PATTERN %s failed", best.PresetID)
			}
			r.rt.SendMeta("bpm", frame.Rhythm.BPM)
			if frame.Metrics != nil {
				r.rt.SendMeta("swing", frame.Metrics.Swing)
			}
		} else if action == scoring.ActionParamNudge && frame.Metrics != nil {
			r.rt.SendMacros(best.PresetID, macroSet(*frame.Metrics, *best))
		}
	}

	r.journal(frame, bestID, bestScore, action, dispatchOK)
}

// bestPreset scans the registry in insertion order and keeps the first
// maximum, which makes equal top scores resolve deterministically.
func (r *Runtime) bestPreset(frame resonance.Frame) (*preset.Bank, float64) {
	var best *preset.Bank
	bestScore := 0.0
	for _, b := range r.presets.All() {
		s := scoring.PresetFit(frame, b)
		if s > bestScore {
			bestScore = s
			bank := b
			best = &bank
		}
	}
	return best, bestScore
}

func (r *Runtime) journal(frame resonance.Frame, bestID string, bestScore float64, action scoring.Action, dispatchOK bool) {
	if r.recorder == nil {
		return
	}
	err := r.recorder.Record(journal.Entry{
		FrameID:        frame.ID,
		ProvenanceHash: frame.ProvenanceHash,
		Source:         string(frame.Source),
		Genre:          frame.Genre,
		BestPresetID:   bestID,
		BestScore:      bestScore,
		Action:         string(action),
		DispatchOK:     dispatchOK,
	})
	if err != nil {
		log.Printf("[BRIDGE] journal write failed: %v", err)
	}
}

// #endregion processing

// #region payloads

// scenePayload builds the LOAD_PRESET / STAGE_NEXT command payload.
func scenePayload(b preset.Bank, quantize string, frame resonance.Frame) map[string]any {
	var kit any
	if b.KitID != nil {
		kit = *b.KitID
	}
	return map[string]any{
		"preset_id":       b.PresetID,
		"patch_graph_id":  b.PatchGraphID,
		"kit_id":          kit,
		"quantize":        quantize,
		"crossfade_ms":    b.CrossfadeMs,
		"provenance_hash": frame.ProvenanceHash,
	}
}

// patternPayload builds the COMMIT_PATTERN command payload.
func patternPayload(b preset.Bank, frame resonance.Frame) map[string]any {
	rh := frame.Rhythm
	return map[string]any{
		"preset_id":       b.PresetID,
		"bpm":             rh.BPM,
		"meter":           []int{rh.Meter[0], rh.Meter[1]},
		"kick":            rh.Kick,
		"snare":           rh.Snare,
		"hat":             rh.Hat,
		"perc":            rh.Perc,
		"provenance_hash": frame.ProvenanceHash,
	}
}

// macroSet maps metrics to macro values, filtered to the bank's macro
// contract when one is declared.
func macroSet(m resonance.Metrics, b preset.Bank) map[string]float64 {
	values := m.MacroValues()
	if len(b.Macros) == 0 {
		return values
	}
	filtered := make(map[string]float64, len(b.Macros))
	for name, v := range values {
		if b.HasMacro(name) {
			filtered[name] = v
		}
	}
	return filtered
}

// #endregion payloads
