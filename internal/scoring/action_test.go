package scoring

import (
	"testing"

	"github.com/beatoven/dspcoffee-bridge/internal/resonance"
)

func metricsFrame() resonance.Frame {
	m := resonance.Metrics{Groove: 0.8, Energy: 0.9}
	return resonance.NewFrame(resonance.SourceStructured, resonance.Frame{
		ID: "f", TsMs: 1, Metrics: &m,
	})
}

func rhythmFrame() resonance.Frame {
	r := resonance.RhythmTokens{BPM: 130, Meter: [2]int{4, 4}, Kick: []float64{1, 0, 1, 0}}
	return resonance.NewFrame(resonance.SourceLiveStream, resonance.Frame{
		ID: "f", TsMs: 1, Rhythm: &r,
	})
}

func TestChooseActionNoopOnEmptyFrame(t *testing.T) {
	f := resonance.NewFrame(resonance.SourceSelfRender, resonance.Frame{ID: "f", TsMs: 1})
	got := ChooseAction(f, "", "best", 0.99, DefaultThresholds())
	if got != ActionNoop {
		t.Fatalf("empty frame must NOOP, got %s", got)
	}
}

func TestChooseActionNoopBelowLow(t *testing.T) {
	got := ChooseAction(metricsFrame(), "current", "best", 0.5, DefaultThresholds())
	if got != ActionNoop {
		t.Fatalf("score below low must NOOP, got %s", got)
	}
}

func TestChooseActionNoopWithoutBest(t *testing.T) {
	got := ChooseAction(metricsFrame(), "current", "", 0.95, DefaultThresholds())
	if got != ActionNoop {
		t.Fatalf("no best preset must NOOP, got %s", got)
	}
}

func TestChooseActionSceneChangeAboveHigh(t *testing.T) {
	got := ChooseAction(metricsFrame(), "current", "other", 0.9, DefaultThresholds())
	if got != ActionSceneChange {
		t.Fatalf("expected SCENE_CHANGE, got %s", got)
	}
}

func TestChooseActionHysteresisBand(t *testing.T) {
	// 0.80 sits between low 0.72 and high 0.88: good enough to keep using,
	// never confident enough to switch scenes.
	got := ChooseAction(metricsFrame(), "current", "other", 0.80, Thresholds{Low: 0.72, High: 0.88})
	if got == ActionSceneChange || got == ActionNoop {
		t.Fatalf("mid-band score must nudge or inject, got %s", got)
	}

	got = ChooseAction(rhythmFrame(), "current", "other", 0.80, Thresholds{Low: 0.72, High: 0.88})
	if got != ActionPatternInject {
		t.Fatalf("mid-band score with rhythm must PATTERN_INJECT, got %s", got)
	}
}

func TestChooseActionPatternInjectWithVoices(t *testing.T) {
	got := ChooseAction(rhythmFrame(), "best", "best", 0.95, DefaultThresholds())
	if got != ActionPatternInject {
		t.Fatalf("expected PATTERN_INJECT, got %s", got)
	}
}

func TestChooseActionParamNudgeDefault(t *testing.T) {
	got := ChooseAction(metricsFrame(), "best", "best", 0.95, DefaultThresholds())
	if got != ActionParamNudge {
		t.Fatalf("expected PARAM_NUDGE, got %s", got)
	}
}

func TestChooseActionEmptyVoicesFallToNudge(t *testing.T) {
	// Rhythm present but all voice grids empty: not injectable.
	r := resonance.RhythmTokens{BPM: 120, Meter: [2]int{4, 4}}
	m := resonance.Metrics{Energy: 0.9}
	f := resonance.NewFrame(resonance.SourceStructured, resonance.Frame{
		ID: "f", TsMs: 1, Metrics: &m, Rhythm: &r,
	})
	got := ChooseAction(f, "best", "best", 0.95, DefaultThresholds())
	if got != ActionParamNudge {
		t.Fatalf("expected PARAM_NUDGE, got %s", got)
	}
}
