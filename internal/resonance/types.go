package resonance

// #region source-kind
// SourceKind tags where a frame's feature data came from.
type SourceKind string

const (
	SourceLiveStream SourceKind = "live_stream" // derived from a live analysis stream
	SourceStructured SourceKind = "structured"  // derived from structured analysis input
	SourceSelfRender SourceKind = "self_render" // synthesized by the engine itself
)

// #endregion source-kind

// #region metrics
// Metrics is a snapshot of normalized musical features.
// Every field is semantically in [0, 1]; Clamp enforces the range.
type Metrics struct {
	Complexity         float64 `json:"complexity"`
	EmotionalIntensity float64 `json:"emotional_intensity"`
	Groove             float64 `json:"groove"`
	Energy             float64 `json:"energy"`
	Density            float64 `json:"density"`
	Swing              float64 `json:"swing"`
	Brightness         float64 `json:"brightness"`
	Tension            float64 `json:"tension"`
}

// Clamp returns a copy with every field clipped into [0, 1].
func (m Metrics) Clamp() Metrics {
	return Metrics{
		Complexity:         clamp01(m.Complexity),
		EmotionalIntensity: clamp01(m.EmotionalIntensity),
		Groove:             clamp01(m.Groove),
		Energy:             clamp01(m.Energy),
		Density:            clamp01(m.Density),
		Swing:              clamp01(m.Swing),
		Brightness:         clamp01(m.Brightness),
		Tension:            clamp01(m.Tension),
	}
}

// ByName returns the metric with the given wire name.
// The second return is false for unknown names.
func (m Metrics) ByName(name string) (float64, bool) {
	switch name {
	case "complexity":
		return m.Complexity, true
	case "emotional_intensity":
		return m.EmotionalIntensity, true
	case "groove":
		return m.Groove, true
	case "energy":
		return m.Energy, true
	case "density":
		return m.Density, true
	case "swing":
		return m.Swing, true
	case "brightness":
		return m.Brightness, true
	case "tension":
		return m.Tension, true
	}
	return 0, false
}

// MacroValues maps metrics to macro names with clamped values.
// The identity mapping is the stable contract with the firmware macro table.
func (m Metrics) MacroValues() map[string]float64 {
	c := m.Clamp()
	return map[string]float64{
		"complexity": c.Complexity,
		"intensity":  c.EmotionalIntensity,
		"groove":     c.Groove,
		"energy":     c.Energy,
		"density":    c.Density,
		"swing":      c.Swing,
		"brightness": c.Brightness,
		"tension":    c.Tension,
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// #endregion metrics

// #region rhythm
// RhythmTokens carries tempo, meter, and optional per-voice step grids.
// Each grid value is a velocity or trigger probability in [0, 1] on a shared
// implicit step grid; a nil slice means no pattern data for that voice.
type RhythmTokens struct {
	BPM   float64   `json:"bpm"`
	Meter [2]int    `json:"meter"`
	Kick  []float64 `json:"kick,omitempty"`
	Snare []float64 `json:"snare,omitempty"`
	Hat   []float64 `json:"hat,omitempty"`
	Perc  []float64 `json:"perc,omitempty"`
}

// HasVoices reports whether any voice grid is non-empty.
func (r RhythmTokens) HasVoices() bool {
	return len(r.Kick) > 0 || len(r.Snare) > 0 || len(r.Hat) > 0 || len(r.Perc) > 0
}

// #endregion rhythm

// #region frame
// Frame is a hashed, immutable snapshot of musical-feature state at one moment.
type Frame struct {
	ID     string     `json:"id"`
	TsMs   int64      `json:"ts_ms"`
	Source SourceKind `json:"source"`

	Genre    string `json:"genre,omitempty"`
	Subgenre string `json:"subgenre,omitempty"`

	Metrics *Metrics      `json:"metrics,omitempty"`
	Rhythm  *RhythmTokens `json:"rhythm,omitempty"`

	// Extras holds forward-compatible descriptors; values must be
	// JSON-serializable so the provenance hash stays well defined.
	Extras map[string]any `json:"extras,omitempty"`

	UpstreamVersion string `json:"upstream_version,omitempty"`
	EngineVersion   string `json:"engine_version,omitempty"`

	ProvenanceHash string `json:"provenance_hash,omitempty"`
}

// #endregion frame

// #region delta
// Delta is a partial frame update. Genre, subgenre, metrics, and rhythm
// replace the cached value when present; extras shallow-merge key by key.
type Delta struct {
	TsMs     int64          `json:"ts_ms"`
	Genre    *string        `json:"genre,omitempty"`
	Subgenre *string        `json:"subgenre,omitempty"`
	Metrics  *Metrics       `json:"metrics,omitempty"`
	Rhythm   *RhythmTokens  `json:"rhythm,omitempty"`
	Extras   map[string]any `json:"extras,omitempty"`
}

// #endregion delta
