package scoring

import (
	"strings"

	"github.com/beatoven/dspcoffee-bridge/internal/preset"
	"github.com/beatoven/dspcoffee-bridge/internal/resonance"
)

// #region constants

const (
	// genreOnlyScore rewards genre-only matches modestly without claiming
	// metric precision.
	genreOnlyScore = 0.25
	// noMetricScore applies when the selector targets metrics the frame
	// does not carry.
	noMetricScore = 0.2
	// decayHalfWidth is the out-of-band distance at which a metric scores 0.
	decayHalfWidth = 0.5
)

// #endregion constants

// #region preset-fit

// PresetFit computes how well a frame matches a preset, in [0, 1].
// Genre and subgenre are hard gates when set on the selector; metrics
// contribute a weighted overlap with the selector's target bands.
// Pure function: identical inputs always produce an identical score.
func PresetFit(frame resonance.Frame, bank preset.Bank) float64 {
	sel := bank.Selector

	if sel.Genre != "" && frame.Genre != "" && !strings.EqualFold(sel.Genre, frame.Genre) {
		return 0
	}
	if sel.Subgenre != "" && frame.Subgenre != "" && !strings.EqualFold(sel.Subgenre, frame.Subgenre) {
		return 0
	}

	if len(sel.Targets) == 0 {
		return genreOnlyScore
	}

	var accum, totalWeight float64
	for metric, band := range sel.Targets {
		if frame.Metrics == nil {
			continue
		}
		v, ok := frame.Metrics.ByName(metric)
		if !ok {
			continue
		}
		w := sel.Weight(metric)
		totalWeight += w
		accum += w * bandScore(v, band)
	}

	if totalWeight <= 0 {
		return noMetricScore
	}
	return clamp01(accum / totalWeight)
}

// bandScore is 1 inside [lo, hi] and decays linearly to 0 at distance
// decayHalfWidth outside the nearest bound.
func bandScore(v float64, band preset.Range) float64 {
	if band.Lo <= v && v <= band.Hi {
		return 1
	}
	dist := v - band.Hi
	if v < band.Lo {
		dist = band.Lo - v
	}
	s := 1 - dist/decayHalfWidth
	if s < 0 {
		return 0
	}
	return s
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

// #endregion preset-fit
