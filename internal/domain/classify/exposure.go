package classify

import (
	"math"

	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

const (
	ExposureProper  = "properly_exposed"
	ExposureOver    = "overexposed"
	ExposureUnder   = "underexposed"
	ExposureUnknown = "unknown"
)

// ExposureLabels returns the closed exposure enumeration.
func ExposureLabels() []string {
	return []string{ExposureProper, ExposureOver, ExposureUnder, ExposureUnknown}
}

type ExposureThresholds struct {
	OverClipMax     float64 `yaml:"over_clip_max"`
	UnderClipMax    float64 `yaml:"under_clip_max"`
	WellExposedMin  float64 `yaml:"well_exposed_min"`
	ConfidenceFloor float64 `yaml:"confidence_floor"`
}

func DefaultExposureThresholds() ExposureThresholds {
	return ExposureThresholds{
		OverClipMax:     0.10,
		UnderClipMax:    0.10,
		WellExposedMin:  0.6,
		ConfidenceFloor: 0.2,
	}
}

// Exposure judges exposure quality from the histogram clipping ratios at
// both ends. Without histogram data the result is unknown.
func Exposure(f signal.Features, t ExposureThresholds) types.ExposureResult {
	if f.ClippedHigh.N == 0 && f.CrushedLow.N == 0 {
		return types.ExposureResult{ClassificationResult: unknown(0.5, 0)}
	}

	clipHigh := f.ClippedHigh.Mean
	crushLow := f.CrushedLow.Mean

	score := 1.0 - 2*clipHigh - 2*crushLow
	if f.Brightness.N > 0 {
		score -= 0.4 * math.Abs(f.Brightness.Mean-0.5)
	}
	score = clamp01(score)

	res := types.ExposureResult{
		ClippedHighlights: clamp01(clipHigh),
		CrushedBlacks:     clamp01(crushLow),
	}

	switch {
	case clipHigh > t.OverClipMax:
		res.Label = ExposureOver
		res.Confidence = marginConfidence(clipHigh, t.OverClipMax, t.ConfidenceFloor)
	case crushLow > t.UnderClipMax:
		res.Label = ExposureUnder
		res.Confidence = marginConfidence(crushLow, t.UnderClipMax, t.ConfidenceFloor)
	default:
		res.Label = ExposureProper
		// Confidence from the larger of the two clip margins.
		worst := math.Max(clipHigh/t.OverClipMax, crushLow/t.UnderClipMax)
		res.Confidence = clamp01(t.ConfidenceFloor + (1-t.ConfidenceFloor)*(1-worst))
	}

	res.Quality = score
	res.IsWellExposed = res.Label == ExposureProper && score >= t.WellExposedMin
	return res
}
