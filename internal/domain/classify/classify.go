// Package classify holds the rule-based classifier families. Each
// classifier is a pure function of an immutable feature vector and a
// threshold table: it never errors and never panics, and absence of a
// required signal degrades to a low-confidence "unknown" result.
package classify

import (
	"math"

	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

// Family is one registered classifier: its wire name, its closed label
// enumeration, and a generic runner. The registry is the single
// registration point for adding or removing families.
type Family struct {
	Name   string
	Labels []string
	Run    func(f signal.Features, t Thresholds) types.ClassificationResult
}

// Families returns the registered classifier families in index order.
func Families() []Family {
	return []Family{
		{
			Name:   "camera_movement",
			Labels: MovementLabels(),
			Run: func(f signal.Features, t Thresholds) types.ClassificationResult {
				return Movement(f, t.Movement).ClassificationResult
			},
		},
		{
			Name:   "stabilization",
			Labels: StabilizationLabels(),
			Run: func(f signal.Features, t Thresholds) types.ClassificationResult {
				return Stabilization(f, Movement(f, t.Movement), t.Stabilization).ClassificationResult
			},
		},
		{
			Name:   "focus",
			Labels: FocusLabels(),
			Run: func(f signal.Features, t Thresholds) types.ClassificationResult {
				return Focus(f, t.Focus).ClassificationResult
			},
		},
		{
			Name:   "lighting",
			Labels: LightingLabels(),
			Run: func(f signal.Features, t Thresholds) types.ClassificationResult {
				return Lighting(f, t.Lighting).ClassificationResult
			},
		},
		{
			Name:   "color_grading",
			Labels: GradingLabels(),
			Run: func(f signal.Features, t Thresholds) types.ClassificationResult {
				return Grading(f, t.Grading).ClassificationResult
			},
		},
		{
			Name:   "exposure",
			Labels: ExposureLabels(),
			Run: func(f signal.Features, t Thresholds) types.ClassificationResult {
				return Exposure(f, t.Exposure).ClassificationResult
			},
		},
		{
			Name:   "shot_framing",
			Labels: FramingLabels(),
			Run: func(f signal.Features, t Thresholds) types.ClassificationResult {
				return Framing(f, t.Framing).ClassificationResult
			},
		},
	}
}

// Thresholds bundles every family's tunables. It is read-only for the
// lifetime of an index build and shared across workers without locks.
type Thresholds struct {
	Movement      MovementThresholds      `yaml:"camera_movement"`
	Stabilization StabilizationThresholds `yaml:"stabilization"`
	Focus         FocusThresholds         `yaml:"focus"`
	Lighting      LightingThresholds      `yaml:"lighting"`
	Grading       GradingThresholds       `yaml:"color_grading"`
	Exposure      ExposureThresholds      `yaml:"exposure"`
	Framing       FramingThresholds       `yaml:"shot_framing"`
}

// DefaultThresholds returns the documented defaults. Values live on the
// normalized [0,1] scales of the feature vector.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Movement:      DefaultMovementThresholds(),
		Stabilization: DefaultStabilizationThresholds(),
		Focus:         DefaultFocusThresholds(),
		Lighting:      DefaultLightingThresholds(),
		Grading:       DefaultGradingThresholds(),
		Exposure:      DefaultExposureThresholds(),
		Framing:       DefaultFramingThresholds(),
	}
}

// marginConfidence derives confidence from how far a statistic sits from
// the band boundary it cleared: floor at the boundary, 1 a full boundary
// width away.
func marginConfidence(stat, boundary, floor float64) float64 {
	if floor < 0 {
		floor = 0
	}
	if boundary == 0 {
		return 1
	}
	m := math.Abs(stat-boundary) / math.Abs(boundary)
	return floor + (1-floor)*clamp01(m)
}

func clamp01(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func unknown(quality, confidence float64) types.ClassificationResult {
	return types.ClassificationResult{Label: "unknown", Quality: quality, Confidence: confidence}
}
