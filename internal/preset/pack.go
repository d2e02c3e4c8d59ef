package preset

// #region default-pack

// DefaultPack returns the built-in reference presets so the bridge can run
// before a site-specific pack exists.
func DefaultPack() []Bank {
	darkKit := 11
	houseKit := 7
	return []Bank{
		{
			PresetID: "techno_dark_driver",
			Name:     "Techno — Dark Driver",
			Selector: Selector{
				Genre:    "techno",
				Subgenre: "dark",
				Targets: map[string]Range{
					"energy":     {Lo: 0.75, Hi: 1.0},
					"tension":    {Lo: 0.65, Hi: 1.0},
					"groove":     {Lo: 0.60, Hi: 0.92},
					"brightness": {Lo: 0.00, Hi: 0.45},
				},
				Weights: map[string]float64{
					"energy":     1.5,
					"tension":    1.2,
					"groove":     1.0,
					"brightness": 0.6,
				},
			},
			PatchGraphID:        3,
			KitID:               &darkKit,
			Macros:              []string{"energy", "tension", "groove", "density", "swing", "brightness"},
			SceneChangeQuantize: QuantizeBar,
			CrossfadeMs:         180,
		},
		{
			PresetID: "house_swing_chop",
			Name:     "House — Swing Chop",
			Selector: Selector{
				Genre: "house",
				Targets: map[string]Range{
					"swing":      {Lo: 0.55, Hi: 0.90},
					"groove":     {Lo: 0.70, Hi: 1.0},
					"brightness": {Lo: 0.35, Hi: 0.85},
					"energy":     {Lo: 0.45, Hi: 0.85},
				},
				Weights: map[string]float64{
					"swing":      1.3,
					"groove":     1.2,
					"brightness": 0.8,
					"energy":     0.7,
				},
			},
			PatchGraphID:        4,
			KitID:               &houseKit,
			Macros:              []string{"groove", "swing", "brightness", "density", "energy"},
			SceneChangeQuantize: QuantizeBar,
			CrossfadeMs:         150,
		},
	}
}

// DefaultRegistry builds a registry from the built-in pack.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultPack()...)
	if err != nil {
		// The built-in pack has unique ids; this cannot fail.
		panic(err)
	}
	return r
}

// #endregion default-pack
