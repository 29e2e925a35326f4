package classify

import (
	"math"

	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

// Camera movement labels. The literal values are part of the index
// contract and must not change.
const (
	MoveStatic      = "Static"
	MovePanLeft     = "Pan Left"
	MovePanRight    = "Pan Right"
	MoveTiltUp      = "Tilt Up"
	MoveTiltDown    = "Tilt Down"
	MoveZoomIn      = "Zoom In"
	MoveZoomOut     = "Zoom Out"
	MoveDollyIn     = "Dolly In"
	MoveDollyOut    = "Dolly Out"
	MoveRotationCW  = "Rotation CW"
	MoveRotationCCW = "Rotation CCW"
	MoveHandheld    = "Handheld/Shake"
	MoveComplex     = "Complex Movement"
	MoveUnknown     = "Unknown"
)

// MovementLabels returns the closed camera movement enumeration.
func MovementLabels() []string {
	return []string{
		MoveStatic, MovePanLeft, MovePanRight, MoveTiltUp, MoveTiltDown,
		MoveZoomIn, MoveZoomOut, MoveDollyIn, MoveDollyOut,
		MoveRotationCW, MoveRotationCCW, MoveHandheld, MoveComplex, MoveUnknown,
	}
}

// MovementThresholds tunes the camera movement bands. Displacement values
// are fractions of frame size per sampled interval; rotation is degrees.
type MovementThresholds struct {
	MagnitudeEps    float64 `yaml:"magnitude_eps"`
	RotationMin     float64 `yaml:"rotation_min"`
	PanMin          float64 `yaml:"pan_min"`
	TiltMin         float64 `yaml:"tilt_min"`
	DivergenceMin   float64 `yaml:"divergence_min"`
	ScaleDriftMin   float64 `yaml:"scale_drift_min"`
	HandheldJitter  float64 `yaml:"handheld_jitter"`
	ConfidenceFloor float64 `yaml:"confidence_floor"`
}

func DefaultMovementThresholds() MovementThresholds {
	return MovementThresholds{
		MagnitudeEps:    0.002,
		RotationMin:     0.8,
		PanMin:          0.004,
		TiltMin:         0.004,
		DivergenceMin:   0.002,
		ScaleDriftMin:   0.01,
		HandheldJitter:  1.5,
		ConfidenceFloor: 0.2,
	}
}

// Movement classifies the dominant camera movement of a segment from its
// motion trajectory. An empty trajectory is insufficient data, not a
// static camera, and yields Unknown with zero confidence.
func Movement(f signal.Features, t MovementThresholds) types.MovementResult {
	if len(f.Trajectory) == 0 {
		return types.MovementResult{
			ClassificationResult: types.ClassificationResult{
				Label: MoveUnknown, Quality: 0.5, Confidence: 0,
			},
			Smoothness:           1,
			DirectionConsistency: 1,
		}
	}

	mag := f.MeanMagnitude
	consistency := clamp01(1 - f.JitterRatio)
	smoothness := 1.0
	if mag > t.MagnitudeEps {
		smoothness = clamp01(1 - 0.3*f.JitterRatio)
	}

	res := types.MovementResult{
		Magnitude:            clamp01(mag),
		Smoothness:           smoothness,
		DirectionConsistency: consistency,
	}

	absDX, absDY := math.Abs(f.MeanDX), math.Abs(f.MeanDY)
	rot := f.Rotation.Mean
	div := f.Divergence.Mean
	zoomSignal := math.Abs(div) > t.DivergenceMin ||
		(f.HasScale && math.Abs(f.ScaleDrift) > t.ScaleDriftMin)

	switch {
	case mag < t.MagnitudeEps:
		res.Label = MoveStatic
		res.Quality = 0.5
		res.Confidence = marginConfidence(mag, t.MagnitudeEps, t.ConfidenceFloor)

	case math.Abs(rot) > t.RotationMin:
		if rot > 0 {
			res.Label = MoveRotationCCW
		} else {
			res.Label = MoveRotationCW
		}
		res.Quality = 0.75
		res.Confidence = marginConfidence(math.Abs(rot), t.RotationMin, t.ConfidenceFloor)

	case absDX > t.PanMin && absDX >= absDY && f.JitterRatio <= t.HandheldJitter && !zoomSignal:
		if f.MeanDX > 0 {
			res.Label = MovePanRight
		} else {
			res.Label = MovePanLeft
		}
		res.Quality = 0.75
		res.Confidence = marginConfidence(absDX, t.PanMin, t.ConfidenceFloor)

	case absDY > t.TiltMin && absDY > absDX && f.JitterRatio <= t.HandheldJitter && !zoomSignal:
		if f.MeanDY > 0 {
			res.Label = MoveTiltDown
		} else {
			res.Label = MoveTiltUp
		}
		res.Quality = 0.7
		res.Confidence = marginConfidence(absDY, t.TiltMin, t.ConfidenceFloor)

	case zoomSignal:
		res.Label, res.Quality = zoomOrDolly(f, t, div)
		strength := math.Abs(div) / t.DivergenceMin
		if f.HasScale {
			strength = math.Max(strength, math.Abs(f.ScaleDrift)/t.ScaleDriftMin)
		}
		res.Confidence = clamp01(t.ConfidenceFloor + (1-t.ConfidenceFloor)*clamp01(strength-1))

	case f.JitterRatio > t.HandheldJitter:
		res.Label = MoveHandheld
		res.Quality = 0.3
		res.Confidence = marginConfidence(f.JitterRatio, t.HandheldJitter, t.ConfidenceFloor)

	default:
		res.Label = MoveComplex
		res.Quality = 0.65
		res.Confidence = clamp01(t.ConfidenceFloor + 0.4*clamp01(mag/t.MagnitudeEps-1))
	}

	// Smooth execution of a deliberate move reads as more cinematic.
	if res.Label != MoveStatic && res.Label != MoveHandheld {
		res.Quality = clamp01(res.Quality + 0.25*smoothness)
	}
	return res
}

// zoomOrDolly disambiguates the optical-axis moves. A uniform affine
// scale change is a Zoom; radial divergence without a matching scale
// change is the perspective shift of a Dolly. Without the scale signal
// the label defaults to Zoom.
func zoomOrDolly(f signal.Features, t MovementThresholds, div float64) (string, float64) {
	in := div > 0
	if !in && f.HasScale && math.Abs(div) <= t.DivergenceMin {
		in = f.ScaleDrift > 0
	}

	isDolly := f.HasScale &&
		math.Abs(f.ScaleDrift) <= t.ScaleDriftMin &&
		math.Abs(div) > t.DivergenceMin

	switch {
	case isDolly && in:
		return MoveDollyIn, 0.9
	case isDolly:
		return MoveDollyOut, 0.8
	case in:
		return MoveZoomIn, 0.85
	default:
		return MoveZoomOut, 0.7
	}
}
