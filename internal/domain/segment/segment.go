// Package segment assembles the final per-segment metrics record from the
// aggregated scalar scores and every classifier family's result.
package segment

import (
	"errors"
	"fmt"

	"github.com/forPelevin/cinedex/internal/domain/classify"
	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

var (
	ErrEmptySegment  = errors.New("segment has no sampled frames")
	ErrNonMonotonic  = errors.New("segment timestamps are not ascending")
	ErrInvalidWindow = errors.New("segment end must be after start")
)

// Config is the read-only configuration shared by every segment pass.
type Config struct {
	CheapStride     int                 `yaml:"cheap_stride"`
	ExpensiveStride int                 `yaml:"expensive_stride"`
	Thresholds      classify.Thresholds `yaml:"thresholds"`
}

// DefaultConfig mirrors the sampling cadence of the reference indexer:
// basic features on every 3rd frame, expensive ones on every 6th.
func DefaultConfig() Config {
	return Config{
		CheapStride:     3,
		ExpensiveStride: 6,
		Thresholds:      classify.DefaultThresholds(),
	}
}

func (c Config) Validate() error {
	if c.CheapStride <= 0 {
		return fmt.Errorf("cheap stride must be > 0, got %d", c.CheapStride)
	}
	if c.ExpensiveStride < c.CheapStride {
		return fmt.Errorf("expensive stride must be >= cheap stride, got %d < %d",
			c.ExpensiveStride, c.CheapStride)
	}
	return nil
}

// Compute converts one segment's signal sequence into its metrics record.
// It is deterministic and idempotent: identical inputs produce identical
// output. The only errors are invalid-segment conditions; malformed
// scalars are sanitized, and missing families degrade classifier
// confidence instead of failing.
func Compute(seq types.SignalSequence, cfg Config) (types.SegmentMetrics, error) {
	if len(seq.Frames) == 0 {
		return types.SegmentMetrics{}, ErrEmptySegment
	}
	if seq.End <= seq.Start {
		return types.SegmentMetrics{}, ErrInvalidWindow
	}
	for i := 1; i < len(seq.Frames); i++ {
		if seq.Frames[i].Time < seq.Frames[i-1].Time {
			return types.SegmentMetrics{}, fmt.Errorf("%w: frame %d at %.3fs after %.3fs",
				ErrNonMonotonic, seq.Frames[i].Index, seq.Frames[i].Time, seq.Frames[i-1].Time)
		}
	}

	var sharpness, brightness, contrast, vibrancy, motion []float64
	for _, fr := range seq.Frames {
		if b := fr.Basic; b != nil {
			sharpness = append(sharpness, b.Sharpness)
			brightness = append(brightness, b.Brightness)
			contrast = append(contrast, b.Contrast)
			vibrancy = append(vibrancy, b.Saturation)
		}
		if m := fr.Motion; m != nil {
			// Full score at 5% of frame size per sampled interval.
			motion = append(motion, m.Magnitude/0.05)
		}
	}

	f := signal.BuildFeatures(seq)
	t := cfg.Thresholds

	movement := classify.Movement(f, t.Movement)

	m := types.SegmentMetrics{
		Sharpness:        signal.Mean(sharpness),
		Brightness:       signal.Mean(brightness),
		Contrast:         signal.Mean(contrast),
		ColorVibrancy:    signal.Mean(vibrancy),
		MotionScore:      signal.Mean(motion),
		CompositionScore: f.Composition.Mean,
		PersonScore:      f.SubjectPresence,
		CenterFocusScore: f.Centering.Mean,

		CameraMovement: movement,
		Stabilization:  classify.Stabilization(f, movement, t.Stabilization),
		Focus:          classify.Focus(f, t.Focus),
		Lighting:       classify.Lighting(f, t.Lighting),
		ColorGrading:   classify.Grading(f, t.Grading),
		Exposure:       classify.Exposure(f, t.Exposure),
		ShotFraming:    classify.Framing(f, t.Framing),
	}

	sanitize(&m)
	return m, nil
}

// ComputeSegment wraps Compute into an index-ready VideoSegment.
func ComputeSegment(seq types.SignalSequence, cfg Config) (types.VideoSegment, error) {
	m, err := Compute(seq, cfg)
	if err != nil {
		return types.VideoSegment{}, err
	}
	return types.VideoSegment{
		VideoFile: seq.VideoFile,
		StartTime: seq.Start,
		EndTime:   seq.End,
		Duration:  seq.Duration(),
		Metrics:   m,
	}, nil
}

// sanitize clamps every continuous field to [0,1]. Upstream feature
// extractors are untrusted, so out-of-range and non-finite values are
// silently squeezed rather than rejected.
func sanitize(m *types.SegmentMetrics) {
	for _, p := range []*float64{
		&m.Sharpness, &m.Brightness, &m.Contrast, &m.ColorVibrancy,
		&m.MotionScore, &m.CompositionScore, &m.PersonScore, &m.CenterFocusScore,

		&m.CameraMovement.Quality, &m.CameraMovement.Confidence,
		&m.CameraMovement.Magnitude, &m.CameraMovement.Smoothness,
		&m.CameraMovement.DirectionConsistency,

		&m.Stabilization.Quality, &m.Stabilization.Confidence,
		&m.Stabilization.MotionConsistency,

		&m.Focus.Quality, &m.Focus.Confidence, &m.Focus.FocusChangeAmount,

		&m.Lighting.Quality, &m.Lighting.Confidence,

		&m.ColorGrading.Quality, &m.ColorGrading.Confidence,
		&m.ColorGrading.GradingStrength,

		&m.Exposure.Quality, &m.Exposure.Confidence,
		&m.Exposure.ClippedHighlights, &m.Exposure.CrushedBlacks,

		&m.ShotFraming.Quality, &m.ShotFraming.Confidence,
		&m.ShotFraming.SubjectRatio,
	} {
		*p = clampUnit(*p)
	}
}

func clampUnit(x float64) float64 {
	if !types.Finite(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
