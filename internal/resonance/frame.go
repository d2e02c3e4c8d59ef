package resonance

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// #region factory

// NewFrame finalizes a frame under the given source kind: it fills in the
// id and timestamp when absent, then computes and attaches the provenance
// hash. Frames must only be built through this factory (or
// WithProvenanceHash) so no unhashed frame escapes construction.
func NewFrame(source SourceKind, f Frame) Frame {
	f.Source = source
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.TsMs == 0 {
		f.TsMs = time.Now().UnixMilli()
	}
	return f.WithProvenanceHash()
}

// #endregion factory

// #region hashing

// WithProvenanceHash returns a copy of the frame with the provenance hash
// recomputed from all other fields. Recomputation is idempotent: equal
// content always yields an equal hash.
func (f Frame) WithProvenanceHash() Frame {
	f.ProvenanceHash = stableHash(f.canonicalPayload())
	return f
}

// canonicalPayload builds the hash input as nested string-keyed maps.
// encoding/json marshals map keys in sorted order with fixed separators,
// which makes the serialization canonical. The hash itself is excluded.
func (f Frame) canonicalPayload() map[string]any {
	var metrics any
	if f.Metrics != nil {
		metrics = map[string]any{
			"complexity":          f.Metrics.Complexity,
			"emotional_intensity": f.Metrics.EmotionalIntensity,
			"groove":              f.Metrics.Groove,
			"energy":              f.Metrics.Energy,
			"density":             f.Metrics.Density,
			"swing":               f.Metrics.Swing,
			"brightness":          f.Metrics.Brightness,
			"tension":             f.Metrics.Tension,
		}
	}
	var rhythm any
	if f.Rhythm != nil {
		rhythm = map[string]any{
			"bpm":   f.Rhythm.BPM,
			"meter": []int{f.Rhythm.Meter[0], f.Rhythm.Meter[1]},
			"kick":  nullableGrid(f.Rhythm.Kick),
			"snare": nullableGrid(f.Rhythm.Snare),
			"hat":   nullableGrid(f.Rhythm.Hat),
			"perc":  nullableGrid(f.Rhythm.Perc),
		}
	}
	extras := f.Extras
	if extras == nil {
		extras = map[string]any{}
	}
	return map[string]any{
		"id":               f.ID,
		"ts_ms":            f.TsMs,
		"source":           string(f.Source),
		"genre":            nullableStr(f.Genre),
		"subgenre":         nullableStr(f.Subgenre),
		"metrics":          metrics,
		"rhythm":           rhythm,
		"extras":           extras,
		"upstream_version": nullableStr(f.UpstreamVersion),
		"engine_version":   nullableStr(f.EngineVersion),
	}
}

// stableHash computes the SHA-256 hex digest of the canonical JSON form.
func stableHash(obj any) string {
	payload, err := json.Marshal(obj)
	if err != nil {
		// Only reachable with non-serializable extras; hash the error text
		// so the frame still carries a deterministic marker.
		payload = []byte("unhashable:" + err.Error())
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func nullableStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableGrid(g []float64) any {
	if g == nil {
		return nil
	}
	return g
}

// #endregion hashing
