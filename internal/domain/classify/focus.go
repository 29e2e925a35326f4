package classify

import (
	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

const (
	FocusDeep    = "deep_focus"
	FocusShallow = "shallow_focus"
	FocusRack    = "rack_focus"
	FocusUnknown = "unknown"
)

// FocusLabels returns the closed focus enumeration.
func FocusLabels() []string {
	return []string{FocusDeep, FocusShallow, FocusRack, FocusUnknown}
}

type FocusThresholds struct {
	// RackDeltaMin is the relative frame-to-frame sharpness delta that
	// counts as a rack-focus move.
	RackDeltaMin float64 `yaml:"rack_delta_min"`
	// BokehRatioMin is the subject/background sharpness ratio above which
	// the segment reads as shallow depth of field.
	BokehRatioMin   float64 `yaml:"bokeh_ratio_min"`
	ConfidenceFloor float64 `yaml:"confidence_floor"`
}

func DefaultFocusThresholds() FocusThresholds {
	return FocusThresholds{
		RackDeltaMin:    0.15,
		BokehRatioMin:   2.0,
		ConfidenceFloor: 0.2,
	}
}

// Focus detects rack-focus moves and shallow depth of field. The bokeh
// test needs a detected subject region; without one only the rack test
// runs.
func Focus(f signal.Features, t FocusThresholds) types.FocusResult {
	if f.Sharpness.N == 0 {
		return types.FocusResult{
			ClassificationResult: unknown(0.5, 0),
		}
	}

	hasChange := f.Sharpness.N >= 2 && f.MaxFocusDelta > t.RackDeltaMin
	changeAmount := clamp01(f.MaxFocusDelta)
	hasBokeh := f.SubjectSharpRatio.N > 0 && f.SubjectSharpRatio.Mean > t.BokehRatioMin

	res := types.FocusResult{
		HasFocusChange:    hasChange,
		FocusChangeAmount: changeAmount,
		HasShallowDOF:     hasBokeh,
	}

	switch {
	case hasChange:
		res.Label = FocusRack
		res.Quality = clamp01(0.7 + 0.3*f.Sharpness.Mean)
		res.Confidence = marginConfidence(f.MaxFocusDelta, t.RackDeltaMin, t.ConfidenceFloor)
	case hasBokeh:
		res.Label = FocusShallow
		res.Quality = clamp01(0.6 + 0.4*f.Sharpness.Mean)
		res.Confidence = marginConfidence(f.SubjectSharpRatio.Mean, t.BokehRatioMin, t.ConfidenceFloor)
	default:
		res.Label = FocusDeep
		res.Quality = clamp01(0.4 + 0.6*f.Sharpness.Mean)
		res.Confidence = marginConfidence(f.MaxFocusDelta, t.RackDeltaMin, t.ConfidenceFloor)
	}
	return res
}
