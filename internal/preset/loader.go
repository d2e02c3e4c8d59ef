package preset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region pack-file
// PackFile is the YAML document shape for a preset pack on disk.
type PackFile struct {
	Presets []Bank `yaml:"presets"`
}

// #endregion pack-file

// #region load
// LoadPack reads and validates a YAML preset pack.
func LoadPack(path string) ([]Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack: %w", err)
	}
	var file PackFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse pack: %w", err)
	}
	for i := range file.Presets {
		b := &file.Presets[i]
		if b.SceneChangeQuantize == "" {
			b.SceneChangeQuantize = QuantizeBar
		}
		if b.CrossfadeMs == 0 {
			b.CrossfadeMs = 150
		}
		if err := validateBank(*b); err != nil {
			return nil, fmt.Errorf("pack entry %d: %w", i, err)
		}
	}
	return file.Presets, nil
}

// LoadRegistry builds a populated registry from a YAML preset pack.
func LoadRegistry(path string) (*Registry, error) {
	banks, err := LoadPack(path)
	if err != nil {
		return nil, err
	}
	return NewRegistry(banks...)
}

// #endregion load

// #region validation
func validateBank(b Bank) error {
	if b.PresetID == "" {
		return fmt.Errorf("preset_id is required")
	}
	if b.Name == "" {
		return fmt.Errorf("preset %q: name is required", b.PresetID)
	}
	if !b.SceneChangeQuantize.Valid() {
		return fmt.Errorf("preset %q: unknown quantize %q", b.PresetID, b.SceneChangeQuantize)
	}
	if b.CrossfadeMs < 0 {
		return fmt.Errorf("preset %q: negative crossfade", b.PresetID)
	}
	for metric, rng := range b.Selector.Targets {
		if rng.Lo > rng.Hi {
			return fmt.Errorf("preset %q: target %q has lo > hi", b.PresetID, metric)
		}
	}
	for metric, w := range b.Selector.Weights {
		if w <= 0 {
			return fmt.Errorf("preset %q: weight %q must be positive", b.PresetID, metric)
		}
	}
	return nil
}

// #endregion validation
