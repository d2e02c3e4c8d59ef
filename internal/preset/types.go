package preset

// #region quantize
// Quantize is the scene-change quantization policy for a preset.
type Quantize string

const (
	QuantizeBar       Quantize = "bar"
	QuantizeBeat      Quantize = "beat"
	QuantizeImmediate Quantize = "immediate"
)

// Valid reports whether q is one of the known policies.
func (q Quantize) Valid() bool {
	switch q {
	case QuantizeBar, QuantizeBeat, QuantizeImmediate:
		return true
	}
	return false
}

// #endregion quantize

// #region selector
// Range is an inclusive [Lo, Hi] target band for one metric.
type Range struct {
	Lo float64 `yaml:"lo" json:"lo"`
	Hi float64 `yaml:"hi" json:"hi"`
}

// Selector describes the musical-feature region a preset is suited for.
// Genre and subgenre are hard equality gates when set; Targets map metric
// names to inclusive bands; Weights override the default per-metric weight
// of 1.0.
type Selector struct {
	Genre    string             `yaml:"genre,omitempty" json:"genre,omitempty"`
	Subgenre string             `yaml:"subgenre,omitempty" json:"subgenre,omitempty"`
	Targets  map[string]Range   `yaml:"targets,omitempty" json:"targets,omitempty"`
	Weights  map[string]float64 `yaml:"weights,omitempty" json:"weights,omitempty"`
}

// Weight returns the weight for a metric, defaulting to 1.0.
func (s Selector) Weight(metric string) float64 {
	if w, ok := s.Weights[metric]; ok {
		return w
	}
	return 1.0
}

// #endregion selector

// #region bank
// Bank declares one hardware configuration and its selector.
// Macros is the stable contract of controllable parameter names this
// preset exposes to the firmware; an empty list means no filtering.
type Bank struct {
	PresetID string   `yaml:"preset_id" json:"preset_id"`
	Name     string   `yaml:"name" json:"name"`
	Selector Selector `yaml:"selector" json:"selector"`

	PatchGraphID int  `yaml:"patch_graph_id" json:"patch_graph_id"`
	KitID        *int `yaml:"kit_id,omitempty" json:"kit_id,omitempty"`

	Macros []string `yaml:"macros,omitempty" json:"macros,omitempty"`

	SceneChangeQuantize Quantize `yaml:"scene_change_quantize" json:"scene_change_quantize"`
	CrossfadeMs         int      `yaml:"crossfade_ms" json:"crossfade_ms"`
}

// HasMacro reports whether name is part of the bank's macro contract.
func (b Bank) HasMacro(name string) bool {
	for _, m := range b.Macros {
		if m == name {
			return true
		}
	}
	return false
}

// #endregion bank
