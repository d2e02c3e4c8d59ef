package scoring

import "github.com/beatoven/dspcoffee-bridge/internal/resonance"

// #region action
// Action is what the bridge should do with the current frame.
type Action string

const (
	ActionNoop          Action = "NOOP"
	ActionParamNudge    Action = "PARAM_NUDGE"
	ActionSceneChange   Action = "SCENE_CHANGE"
	ActionPatternInject Action = "PATTERN_INJECT"
)

// #endregion action

// #region thresholds
// Thresholds holds the hysteresis band for action selection. A best score
// in [Low, High) keeps the current preset playing without triggering a
// disruptive scene change, which prevents oscillation when the score
// hovers near a single cutoff.
type Thresholds struct {
	Low  float64
	High float64
}

// DefaultThresholds returns the tuned production band.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 0.72, High: 0.88}
}

// #endregion thresholds

// #region choose-action

// ChooseAction turns the scoring result for one frame into an action.
// currentID and bestID are preset ids; empty means none.
func ChooseAction(
	frame resonance.Frame,
	currentID string,
	bestID string,
	bestScore float64,
	th Thresholds,
) Action {
	if frame.Metrics == nil && frame.Rhythm == nil {
		return ActionNoop
	}
	if bestID == "" || bestScore < th.Low {
		return ActionNoop
	}

	if currentID != bestID && bestScore >= th.High {
		return ActionSceneChange
	}

	if frame.Rhythm != nil && frame.Rhythm.HasVoices() {
		return ActionPatternInject
	}

	return ActionParamNudge
}

// #endregion choose-action
