package classify

import (
	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

const (
	FrameExtremeCloseUp = "extreme_close_up"
	FrameCloseUp        = "close_up"
	FrameMedium         = "medium"
	FrameWide           = "wide"
	FrameExtremeWide    = "extreme_wide"
	FrameInsert         = "insert"
	FrameUnknown        = "unknown"
)

// FramingLabels returns the closed shot framing enumeration.
func FramingLabels() []string {
	return []string{
		FrameExtremeCloseUp, FrameCloseUp, FrameMedium,
		FrameWide, FrameExtremeWide, FrameInsert, FrameUnknown,
	}
}

type FramingThresholds struct {
	ExtremeCloseUpMin float64 `yaml:"extreme_close_up_min"`
	CloseUpMin        float64 `yaml:"close_up_min"`
	MediumMin         float64 `yaml:"medium_min"`
	WideMin           float64 `yaml:"wide_min"`
	InsertRatioMin    float64 `yaml:"insert_ratio_min"`
	InsertMaxDim      float64 `yaml:"insert_max_dim"`
	InsertEdgeMin     float64 `yaml:"insert_edge_min"`
	// ThirdsTolerance is the centroid distance to a power point, as a
	// fraction of frame size, that still counts as rule-of-thirds.
	ThirdsTolerance float64 `yaml:"thirds_tolerance"`
	ConfidenceFloor float64 `yaml:"confidence_floor"`
}

func DefaultFramingThresholds() FramingThresholds {
	return FramingThresholds{
		ExtremeCloseUpMin: 0.60,
		CloseUpMin:        0.35,
		MediumMin:         0.15,
		WideMin:           0.05,
		InsertRatioMin:    0.30,
		InsertMaxDim:      0.60,
		InsertEdgeMin:     0.45,
		ThirdsTolerance:   0.10,
		ConfidenceFloor:   0.2,
	}
}

// Framing bands the detected-subject area ratio into shot sizes. Without
// a detected subject the label falls back to wide or insert from edge
// density alone, never a close-up, and rule-of-thirds is false.
func Framing(f signal.Features, t FramingThresholds) types.FramingResult {
	if f.SubjectRatio.N == 0 {
		label := FrameWide
		if f.EdgeDensity.N > 0 && f.EdgeDensity.Mean > t.InsertEdgeMin {
			label = FrameInsert
		}
		return types.FramingResult{
			ClassificationResult: types.ClassificationResult{
				Label: label, Quality: 0.5, Confidence: t.ConfidenceFloor,
			},
		}
	}

	ratio := f.SubjectRatio.Mean
	res := types.FramingResult{
		SubjectRatio:        clamp01(ratio),
		FollowsRuleOfThirds: f.ThirdsDistance.N > 0 && f.ThirdsDistance.Mean <= t.ThirdsTolerance,
	}

	var boundary float64
	switch {
	case ratio > t.InsertRatioMin &&
		f.SubjectWidth.Mean < t.InsertMaxDim && f.SubjectHeight.Mean < t.InsertMaxDim:
		// A big area ratio inside a small box is an object detail, not a
		// face filling the frame.
		res.Label = FrameInsert
		boundary = t.InsertRatioMin
	case ratio > t.ExtremeCloseUpMin:
		res.Label = FrameExtremeCloseUp
		boundary = t.ExtremeCloseUpMin
	case ratio > t.CloseUpMin:
		res.Label = FrameCloseUp
		boundary = t.CloseUpMin
	case ratio > t.MediumMin:
		res.Label = FrameMedium
		boundary = t.MediumMin
	case ratio > t.WideMin:
		res.Label = FrameWide
		boundary = t.WideMin
	default:
		res.Label = FrameExtremeWide
		boundary = t.WideMin
	}
	res.Confidence = marginConfidence(ratio, boundary, t.ConfidenceFloor)
	res.Quality = clamp01(0.4 + 0.6*f.Composition.Mean)
	return res
}
