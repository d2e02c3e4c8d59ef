package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beatoven/dspcoffee-bridge/internal/preset"
	"github.com/beatoven/dspcoffee-bridge/internal/resonance"
)

func sessionFixture() Fixture {
	m := resonance.Metrics{Energy: 0.9}
	frame := resonance.NewFrame(resonance.SourceStructured, resonance.Frame{
		ID: "f1", TsMs: 1000, Metrics: &m,
	})

	weak := resonance.Metrics{Energy: 0.3}
	emptyish := resonance.NewFrame(resonance.SourceStructured, resonance.Frame{
		ID: "f2", TsMs: 2000, Metrics: &weak,
	})

	return Fixture{
		Description: "scene change then weak match",
		Presets: []preset.Bank{
			{
				PresetID: "alpha",
				Name:     "Alpha",
				Selector: preset.Selector{
					Targets: map[string]preset.Range{"energy": {Lo: 0.8, Hi: 1.0}},
				},
				PatchGraphID:        1,
				SceneChangeQuantize: preset.QuantizeBar,
				CrossfadeMs:         150,
			},
		},
		Events: []Event{
			{Frame: &frame, ExpectAction: "SCENE_CHANGE", ExpectPreset: "alpha"},
			{Frame: &emptyish, ExpectAction: "NOOP", ExpectPreset: "alpha"},
		},
	}
}

func TestRunMatchesExpectations(t *testing.T) {
	results, summary, err := Run(sessionFixture())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 2 || summary.Mismatched != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if results[0].Action != "SCENE_CHANGE" || results[0].BestPresetID != "alpha" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if len(results[0].OpsKinds) != 1 || results[0].OpsKinds[0] != "LOAD_PRESET" {
		t.Fatalf("unexpected ops trace: %+v", results[0].OpsKinds)
	}
	if len(results[1].OpsKinds) != 0 {
		t.Fatalf("noop event must issue no ops commands: %+v", results[1].OpsKinds)
	}
}

func TestRunReportsMismatch(t *testing.T) {
	fx := sessionFixture()
	fx.Events[1].ExpectAction = "SCENE_CHANGE"

	results, summary, err := Run(fx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Mismatched != 1 {
		t.Fatalf("expected one mismatch: %+v", summary)
	}
	if results[1].Matched || results[1].Note == "" {
		t.Fatalf("mismatch not reported: %+v", results[1])
	}
}

func TestRunWithDeltas(t *testing.T) {
	m := resonance.Metrics{Energy: 0.9}
	fx := sessionFixture()
	fx.Events = []Event{
		{Delta: &resonance.Delta{TsMs: 100, Metrics: &m}, ExpectAction: "SCENE_CHANGE", ExpectPreset: "alpha"},
	}

	_, summary, err := Run(fx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Mismatched != 0 {
		t.Fatalf("delta event mismatched: %+v", summary)
	}
}

func TestLoadFixtureRoundTrip(t *testing.T) {
	body := `{
		"description": "minimal",
		"presets": [{
			"preset_id": "alpha",
			"name": "Alpha",
			"selector": {"targets": {"energy": {"lo": 0.8, "hi": 1.0}}},
			"patch_graph_id": 1,
			"scene_change_quantize": "bar",
			"crossfade_ms": 150
		}],
		"events": [
			{"frame": {"id": "f1", "ts_ms": 1000, "source": "structured",
				"metrics": {"complexity":0,"emotional_intensity":0,"groove":0,"energy":0.9,"density":0,"swing":0,"brightness":0,"tension":0}},
			 "expect_action": "SCENE_CHANGE"}
		]
	}`
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fx, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, summary, err := Run(fx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Mismatched != 0 {
		t.Fatalf("fixture run mismatched: %+v", summary)
	}
}

func TestLoadFixtureRejectsAmbiguousEvent(t *testing.T) {
	body := `{"description": "bad", "presets": [], "events": [{}]}`
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected error for event with neither frame nor delta")
	}
}
