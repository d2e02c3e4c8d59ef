package scoring

import (
	"testing"

	"github.com/beatoven/dspcoffee-bridge/internal/preset"
	"github.com/beatoven/dspcoffee-bridge/internal/resonance"
)

func frameWithMetrics(genre string, m resonance.Metrics) resonance.Frame {
	return resonance.NewFrame(resonance.SourceStructured, resonance.Frame{
		ID:      "test-frame",
		TsMs:    1000,
		Genre:   genre,
		Metrics: &m,
	})
}

func TestPresetFitInsideRangeHigh(t *testing.T) {
	f := frameWithMetrics("techno", resonance.Metrics{
		Complexity: 0.6, EmotionalIntensity: 0.7, Groove: 0.8, Energy: 0.9,
		Density: 0.7, Swing: 0.4, Brightness: 0.5, Tension: 0.8,
	})
	b := preset.Bank{
		PresetID: "p1",
		Name:     "Techno Driver",
		Selector: preset.Selector{
			Genre: "techno",
			Targets: map[string]preset.Range{
				"groove": {Lo: 0.7, Hi: 0.95},
				"energy": {Lo: 0.8, Hi: 1.0},
			},
			Weights: map[string]float64{"groove": 2.0, "energy": 1.0},
		},
		PatchGraphID: 1,
	}

	s := PresetFit(f, b)
	if s <= 0.9 {
		t.Fatalf("expected score > 0.9, got %f", s)
	}
}

func TestPresetFitWrongGenreZero(t *testing.T) {
	f := frameWithMetrics("house", resonance.Metrics{Groove: 1, Energy: 1})
	b := preset.Bank{
		PresetID: "p2",
		Selector: preset.Selector{
			Genre: "techno",
			Targets: map[string]preset.Range{
				"groove": {Lo: 0, Hi: 1},
			},
		},
	}
	if s := PresetFit(f, b); s != 0 {
		t.Fatalf("genre gate must return 0, got %f", s)
	}
}

func TestPresetFitGenreCaseInsensitive(t *testing.T) {
	f := frameWithMetrics("Techno", resonance.Metrics{})
	b := preset.Bank{Selector: preset.Selector{Genre: "techno"}}
	if s := PresetFit(f, b); s != genreOnlyScore {
		t.Fatalf("expected neutral genre-only score, got %f", s)
	}
}

func TestPresetFitSubgenreGate(t *testing.T) {
	f := resonance.NewFrame(resonance.SourceStructured, resonance.Frame{
		ID: "f", TsMs: 1, Genre: "techno", Subgenre: "melodic",
	})
	b := preset.Bank{Selector: preset.Selector{Genre: "techno", Subgenre: "dark"}}
	if s := PresetFit(f, b); s != 0 {
		t.Fatalf("subgenre gate must return 0, got %f", s)
	}
}

func TestPresetFitNoTargetedMetricFallback(t *testing.T) {
	// Selector targets metrics, frame carries none.
	f := resonance.NewFrame(resonance.SourceStructured, resonance.Frame{
		ID: "f", TsMs: 1, Genre: "techno",
	})
	b := preset.Bank{
		Selector: preset.Selector{
			Targets: map[string]preset.Range{"energy": {Lo: 0.5, Hi: 1}},
		},
	}
	if s := PresetFit(f, b); s != noMetricScore {
		t.Fatalf("expected fallback %f, got %f", noMetricScore, s)
	}
}

func TestPresetFitOutOfBandDecay(t *testing.T) {
	b := preset.Bank{
		Selector: preset.Selector{
			Targets: map[string]preset.Range{"energy": {Lo: 0.5, Hi: 0.5}},
		},
	}

	// 0.25 outside the band decays to 0.5; 0.5 outside decays to exactly 0.
	half := frameWithMetrics("", resonance.Metrics{Energy: 0.75})
	if s := PresetFit(half, b); s != 0.5 {
		t.Fatalf("expected 0.5, got %f", s)
	}
	edge := frameWithMetrics("", resonance.Metrics{Energy: 1.0})
	if s := PresetFit(edge, b); s != 0 {
		t.Fatalf("expected 0, got %f", s)
	}
}

func TestPresetFitBounds(t *testing.T) {
	frames := []resonance.Frame{
		frameWithMetrics("techno", resonance.Metrics{Energy: -3, Groove: 7}),
		frameWithMetrics("", resonance.Metrics{}),
		resonance.NewFrame(resonance.SourceLiveStream, resonance.Frame{ID: "f", TsMs: 1}),
	}
	banks := []preset.Bank{
		{Selector: preset.Selector{}},
		{Selector: preset.Selector{Genre: "house"}},
		{Selector: preset.Selector{
			Targets: map[string]preset.Range{"energy": {Lo: 0.2, Hi: 0.4}},
			Weights: map[string]float64{"energy": 9.5},
		}},
	}
	for _, f := range frames {
		for _, b := range banks {
			s := PresetFit(f, b)
			if s < 0 || s > 1 {
				t.Fatalf("score out of bounds: %f", s)
			}
		}
	}
}
