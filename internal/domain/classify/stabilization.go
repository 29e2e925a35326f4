package classify

import (
	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

const (
	StabTripod       = "tripod"
	StabGimbal       = "gimbal"
	StabStabilized   = "handheld_stabilized"
	StabUnstabilized = "handheld_unstabilized"
	StabUnknown      = "unknown"
)

// StabilizationLabels returns the closed stabilization enumeration.
func StabilizationLabels() []string {
	return []string{StabTripod, StabGimbal, StabStabilized, StabUnstabilized, StabUnknown}
}

// StabilizationThresholds bands the trajectory jitter amplitude (RMS of
// second differences, fraction of frame size) in increasing order.
type StabilizationThresholds struct {
	TripodMax       float64 `yaml:"tripod_max"`
	GimbalMax       float64 `yaml:"gimbal_max"`
	StabilizedMax   float64 `yaml:"stabilized_max"`
	ConfidenceFloor float64 `yaml:"confidence_floor"`
}

func DefaultStabilizationThresholds() StabilizationThresholds {
	return StabilizationThresholds{
		TripodMax:       0.001,
		GimbalMax:       0.004,
		StabilizedMax:   0.012,
		ConfidenceFloor: 0.2,
	}
}

// Stabilization classifies the rig from jitter amplitude and the already
// classified movement. When the underlying movement classification sits
// below the confidence floor the result is unknown.
func Stabilization(f signal.Features, movement types.MovementResult, t StabilizationThresholds) types.StabilizationResult {
	if movement.Label == MoveUnknown || movement.Confidence < t.ConfidenceFloor {
		return types.StabilizationResult{
			ClassificationResult: types.ClassificationResult{
				Label: StabUnknown, Quality: 0.5, Confidence: 0,
			},
		}
	}

	jitter := f.JitterAmplitude
	consistency := 1 / (1 + jitter/t.GimbalMax)

	// Quality decays with jitter regardless of the chosen band.
	quality := clamp01(1 - jitter/(4*t.StabilizedMax))

	res := types.StabilizationResult{MotionConsistency: clamp01(consistency)}
	switch {
	case jitter <= t.TripodMax && movement.Label == MoveStatic:
		res.Label = StabTripod
		res.Confidence = marginConfidence(jitter, t.TripodMax, t.ConfidenceFloor)
	case jitter <= t.GimbalMax:
		res.Label = StabGimbal
		res.Confidence = marginConfidence(jitter, t.GimbalMax, t.ConfidenceFloor)
	case jitter <= t.StabilizedMax:
		res.Label = StabStabilized
		res.Confidence = marginConfidence(jitter, t.StabilizedMax, t.ConfidenceFloor)
	default:
		res.Label = StabUnstabilized
		res.Confidence = marginConfidence(jitter, t.StabilizedMax, t.ConfidenceFloor)
	}
	res.Quality = quality
	res.IsStable = res.Label == StabTripod || res.Label == StabGimbal
	return res
}
