package classify

import (
	"math"

	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

const (
	GradeNeutral     = "neutral"
	GradeWarm        = "warm"
	GradeCool        = "cool"
	GradeTealOrange  = "teal_orange"
	GradeDesaturated = "desaturated"
	GradeVibrant     = "vibrant"
	GradeVintage     = "vintage"
	GradeMonochrome  = "monochrome"
	GradeUnknown     = "unknown"
)

// GradingLabels returns the closed color grading enumeration.
func GradingLabels() []string {
	return []string{
		GradeNeutral, GradeWarm, GradeCool, GradeTealOrange,
		GradeDesaturated, GradeVibrant, GradeVintage, GradeMonochrome, GradeUnknown,
	}
}

type GradingThresholds struct {
	MonochromeMax float64 `yaml:"monochrome_max"`
	MutedMax      float64 `yaml:"muted_max"`
	VibrantMin    float64 `yaml:"vibrant_min"`
	WarmMin       float64 `yaml:"warm_min"`
	CoolMax       float64 `yaml:"cool_max"`
	VintageSatMax float64 `yaml:"vintage_sat_max"`
	// TealOrangeSplit is how far highlight warmth must sit above neutral
	// while shadow warmth sits below it by the same margin.
	TealOrangeSplit float64 `yaml:"teal_orange_split"`
	NeutralSat      float64 `yaml:"neutral_sat"`
	ConfidenceFloor float64 `yaml:"confidence_floor"`
}

func DefaultGradingThresholds() GradingThresholds {
	return GradingThresholds{
		MonochromeMax:   0.08,
		MutedMax:        0.31,
		VibrantMin:      0.59,
		WarmMin:         0.53,
		CoolMax:         0.47,
		VintageSatMax:   0.39,
		TealOrangeSplit: 0.06,
		NeutralSat:      0.35,
		ConfidenceFloor: 0.2,
	}
}

// Grading classifies the color grading style from saturation and warmth
// relative to neutral baselines. Strength is the normalized distance from
// neutral, independent of the label.
func Grading(f signal.Features, t GradingThresholds) types.GradingResult {
	if f.Saturation.N == 0 {
		return types.GradingResult{ClassificationResult: unknown(0.5, 0)}
	}

	sat := f.Saturation.Mean
	warmth := 0.5
	if f.Warmth.N > 0 {
		warmth = f.Warmth.Mean
	}

	strength := clamp01(math.Max(
		math.Abs(warmth-0.5)/0.5,
		math.Abs(sat-t.NeutralSat)/(1-t.NeutralSat),
	))

	res := types.GradingResult{
		GradingStrength: strength,
		IsMuted:         sat < t.MutedMax,
		IsColorful:      sat > t.VibrantMin,
	}

	tealOrange := f.HighlightWarmth.N > 0 && f.ShadowWarmth.N > 0 &&
		f.HighlightWarmth.Mean >= 0.5+t.TealOrangeSplit/2 &&
		f.ShadowWarmth.Mean <= 0.5-t.TealOrangeSplit/2 &&
		sat >= t.MutedMax

	switch {
	case sat < t.MonochromeMax:
		res.Label = GradeMonochrome
		res.Confidence = marginConfidence(sat, t.MonochromeMax, t.ConfidenceFloor)
	case tealOrange:
		res.Label = GradeTealOrange
		split := f.HighlightWarmth.Mean - f.ShadowWarmth.Mean
		res.Confidence = marginConfidence(split, t.TealOrangeSplit, t.ConfidenceFloor)
	case sat < t.VintageSatMax && warmth > t.WarmMin:
		res.Label = GradeVintage
		res.Confidence = 0.7
	case sat > t.VibrantMin:
		res.Label = GradeVibrant
		res.Confidence = marginConfidence(sat, t.VibrantMin, t.ConfidenceFloor)
	case sat < t.MutedMax:
		res.Label = GradeDesaturated
		res.Confidence = marginConfidence(sat, t.MutedMax, t.ConfidenceFloor)
	case warmth > t.WarmMin:
		res.Label = GradeWarm
		res.Confidence = marginConfidence(warmth, t.WarmMin, t.ConfidenceFloor)
	case warmth < t.CoolMax:
		res.Label = GradeCool
		res.Confidence = marginConfidence(warmth, t.CoolMax, t.ConfidenceFloor)
	default:
		res.Label = GradeNeutral
		res.Confidence = clamp01(1 - strength)
	}

	res.Quality = clamp01(0.5 + strength/2)
	return res
}
