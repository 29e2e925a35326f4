package classify

import (
	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

const (
	LightGoldenHour = "golden_hour"
	LightBlueHour   = "blue_hour"
	LightNatural    = "natural"
	LightHighKey    = "high_key"
	LightLowKey     = "low_key"
	LightBacklit    = "backlit"
	LightUnknown    = "unknown"
)

// LightingLabels returns the closed lighting enumeration.
func LightingLabels() []string {
	return []string{
		LightGoldenHour, LightBlueHour, LightNatural,
		LightHighKey, LightLowKey, LightBacklit, LightUnknown,
	}
}

// LightingThresholds operates on mean brightness, its standard deviation,
// and color warmth (0.5 neutral).
type LightingThresholds struct {
	WarmMin         float64 `yaml:"warm_min"`
	CoolMax         float64 `yaml:"cool_max"`
	MidLow          float64 `yaml:"mid_low"`
	MidHigh         float64 `yaml:"mid_high"`
	SoftStdMax      float64 `yaml:"soft_std_max"`
	HighKeyMin      float64 `yaml:"high_key_min"`
	HighKeyStdMax   float64 `yaml:"high_key_std_max"`
	LowKeyMax       float64 `yaml:"low_key_max"`
	LowKeyStdMin    float64 `yaml:"low_key_std_min"`
	BacklitDelta    float64 `yaml:"backlit_delta"`
	NaturalStdMin   float64 `yaml:"natural_std_min"`
	NaturalStdMax   float64 `yaml:"natural_std_max"`
	DramaticStdMin  float64 `yaml:"dramatic_std_min"`
	ConfidenceFloor float64 `yaml:"confidence_floor"`
}

func DefaultLightingThresholds() LightingThresholds {
	return LightingThresholds{
		WarmMin:         0.53,
		CoolMax:         0.47,
		MidLow:          0.39,
		MidHigh:         0.71,
		SoftStdMax:      0.20,
		HighKeyMin:      0.67,
		HighKeyStdMax:   0.16,
		LowKeyMax:       0.39,
		LowKeyStdMin:    0.18,
		BacklitDelta:    0.15,
		NaturalStdMin:   0.10,
		NaturalStdMax:   0.24,
		DramaticStdMin:  0.20,
		ConfidenceFloor: 0.2,
	}
}

// Lighting classifies the lighting style from mean brightness, brightness
// spread and warmth. The dramatic flag is independent of the label.
func Lighting(f signal.Features, t LightingThresholds) types.LightingResult {
	if f.Brightness.N == 0 {
		return types.LightingResult{ClassificationResult: unknown(0.5, 0)}
	}

	brightness := f.Brightness.Mean
	std := f.Brightness.Std()
	warmth := 0.5
	if f.Warmth.N > 0 {
		warmth = f.Warmth.Mean
	}

	res := types.LightingResult{
		IsWarm:     warmth > t.WarmMin,
		IsCool:     warmth < t.CoolMax,
		IsDramatic: std > t.DramaticStdMin,
	}

	backlit := f.SubjectLumaDelta.N > 0 && f.SubjectLumaDelta.Mean <= -t.BacklitDelta

	switch {
	case backlit:
		res.Label = LightBacklit
		res.Quality = 0.8
		res.Confidence = marginConfidence(-f.SubjectLumaDelta.Mean, t.BacklitDelta, t.ConfidenceFloor)

	case warmth > t.WarmMin && brightness > t.MidLow && brightness < t.MidHigh && std < t.SoftStdMax:
		res.Label = LightGoldenHour
		res.Quality = 0.85
		res.Confidence = marginConfidence(warmth, t.WarmMin, t.ConfidenceFloor)

	case warmth < t.CoolMax && brightness > t.MidLow-0.08 && brightness < t.MidHigh-0.12:
		res.Label = LightBlueHour
		res.Quality = 0.7
		res.Confidence = marginConfidence(warmth, t.CoolMax, t.ConfidenceFloor)

	case brightness > t.HighKeyMin && std < t.HighKeyStdMax:
		res.Label = LightHighKey
		res.Quality = 0.7
		res.Confidence = marginConfidence(brightness, t.HighKeyMin, t.ConfidenceFloor)

	case brightness < t.LowKeyMax && std > t.LowKeyStdMin:
		res.Label = LightLowKey
		res.Quality = 0.7
		res.Confidence = marginConfidence(brightness, t.LowKeyMax, t.ConfidenceFloor)

	case brightness > t.MidLow && brightness < t.MidHigh && std > t.NaturalStdMin && std < t.NaturalStdMax:
		res.Label = LightNatural
		res.Quality = 0.75
		res.Confidence = 0.75

	default:
		res.Label = LightUnknown
		res.Quality = 0.5
		res.Confidence = t.ConfidenceFloor
	}

	if res.IsDramatic && res.Label != LightUnknown {
		res.Quality = clamp01(res.Quality + 0.05)
	}
	return res
}
