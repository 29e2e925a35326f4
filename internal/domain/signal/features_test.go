package signal

import (
	"math"
	"testing"

	"github.com/forPelevin/cinedex/internal/types"
)

func almost(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestBuildFeatures_SingleFrame(t *testing.T) {
	seq := types.SignalSequence{
		Start: 0, End: 1,
		Frames: []types.RawFrameSignal{
			{Basic: &types.BasicStats{Sharpness: 0.8, Brightness: 0.5, Contrast: 0.4, Saturation: 0.3, Warmth: 0.5, EdgeDensity: 0.2}},
		},
	}
	f := BuildFeatures(seq)
	almost(t, "sharpness mean", f.Sharpness.Mean, 0.8)
	if f.Sharpness.Variance != 0 {
		t.Fatalf("single sample variance = %v, want 0", f.Sharpness.Variance)
	}
	if f.Sharpness.N != 1 {
		t.Fatalf("sharpness N = %d, want 1", f.Sharpness.N)
	}
	if len(f.Trajectory) != 0 {
		t.Fatalf("expected empty trajectory, got %d steps", len(f.Trajectory))
	}
	if f.MaxFocusDelta != 0 {
		t.Fatalf("single frame cannot have a focus delta, got %v", f.MaxFocusDelta)
	}
}

func TestBuildFeatures_RunningStats(t *testing.T) {
	seq := types.SignalSequence{Start: 0, End: 1}
	for _, b := range []float64{0.2, 0.4, 0.6} {
		seq.Frames = append(seq.Frames, types.RawFrameSignal{
			Basic: &types.BasicStats{Brightness: b, Sharpness: math.NaN(), Warmth: math.NaN(), EdgeDensity: math.NaN()},
		})
	}
	f := BuildFeatures(seq)
	almost(t, "brightness mean", f.Brightness.Mean, 0.4)
	almost(t, "brightness variance", f.Brightness.Variance, 2.0/75)
	almost(t, "brightness first", f.Brightness.First, 0.2)
	almost(t, "brightness last", f.Brightness.Last, 0.6)
	if f.Brightness.N != 3 {
		t.Fatalf("brightness N = %d, want 3", f.Brightness.N)
	}
	// NaN scalars inside a present family read as absent.
	if f.Sharpness.N != 0 || f.Warmth.N != 0 {
		t.Fatalf("NaN scalars should not accumulate: sharp N=%d warm N=%d", f.Sharpness.N, f.Warmth.N)
	}
}

func TestBuildFeatures_SteadyMotionHasNoJitter(t *testing.T) {
	seq := types.SignalSequence{Start: 0, End: 1}
	for i := 0; i < 6; i++ {
		seq.Frames = append(seq.Frames, types.RawFrameSignal{
			Motion: &types.MotionSample{DX: 0.01, DY: 0, Magnitude: 0.01},
		})
	}
	f := BuildFeatures(seq)
	if len(f.Trajectory) != 6 {
		t.Fatalf("trajectory length = %d, want 6", len(f.Trajectory))
	}
	almost(t, "mean dx", f.MeanDX, 0.01)
	almost(t, "mean magnitude", f.MeanMagnitude, 0.01)
	almost(t, "jitter amplitude", f.JitterAmplitude, 0)
	if f.HasScale {
		t.Fatalf("no scale estimates were provided")
	}
}

func TestBuildFeatures_ShakyMotionHasJitter(t *testing.T) {
	seq := types.SignalSequence{Start: 0, End: 1}
	sign := 1.0
	for i := 0; i < 8; i++ {
		seq.Frames = append(seq.Frames, types.RawFrameSignal{
			Motion: &types.MotionSample{DX: 0.01 * sign, DY: -0.01 * sign, Magnitude: 0.014},
		})
		sign = -sign
	}
	f := BuildFeatures(seq)
	if f.JitterAmplitude <= 0.01 {
		t.Fatalf("alternating displacements should produce large jitter, got %v", f.JitterAmplitude)
	}
}

func TestBuildFeatures_ScaleDrift(t *testing.T) {
	seq := types.SignalSequence{Start: 0, End: 1}
	for i := 0; i < 4; i++ {
		seq.Frames = append(seq.Frames, types.RawFrameSignal{
			Motion: &types.MotionSample{Magnitude: 0.01, Scale: 1.05},
		})
	}
	f := BuildFeatures(seq)
	if !f.HasScale {
		t.Fatalf("expected scale signal")
	}
	almost(t, "scale drift", f.ScaleDrift, 0.05)
}

func TestBuildFeatures_FocusDelta(t *testing.T) {
	seq := types.SignalSequence{Start: 0, End: 1}
	for _, s := range []float64{0.5, 0.5, 0.8} {
		seq.Frames = append(seq.Frames, types.RawFrameSignal{Basic: &types.BasicStats{Sharpness: s}})
	}
	f := BuildFeatures(seq)
	want := 0.3 / (0.5 + 1e-6)
	almost(t, "max focus delta", f.MaxFocusDelta, want)
	almost(t, "peak sharpness", f.PeakSharpness, 0.8)
}

func TestBuildFeatures_SubjectPresence(t *testing.T) {
	box := &types.SubjectBox{X: 0.25, Y: 0.25, W: 0.2, H: 0.2, Sharpness: 0.9, BackgroundSharpness: 0.3, Luma: 0.6, BackgroundLuma: 0.4}
	seq := types.SignalSequence{Start: 0, End: 1, Frames: []types.RawFrameSignal{
		{SubjectChecked: true, Subject: box},
		{SubjectChecked: true},
		{SubjectChecked: true, Subject: box},
		{SubjectChecked: true},
		{}, // detection not sampled here: must not count
	}}
	f := BuildFeatures(seq)
	almost(t, "subject presence", f.SubjectPresence, 0.5)
	almost(t, "subject ratio", f.SubjectRatio.Mean, 0.04)
	almost(t, "sharp ratio", f.SubjectSharpRatio.Mean, 0.9/(0.3+1e-6))
	almost(t, "luma delta", f.SubjectLumaDelta.Mean, 0.2)
	if len(f.CentroidTrack) != 2 {
		t.Fatalf("centroid track length = %d, want 2", len(f.CentroidTrack))
	}
}

func TestBuildFeatures_ThirdsComposition(t *testing.T) {
	// Box centered exactly on the upper-left power point.
	box := &types.SubjectBox{X: 1.0/3 - 0.1, Y: 1.0/3 - 0.1, W: 0.2, H: 0.2}
	seq := types.SignalSequence{Start: 0, End: 1, Frames: []types.RawFrameSignal{
		{SubjectChecked: true, Subject: box},
	}}
	f := BuildFeatures(seq)
	almost(t, "thirds distance", f.ThirdsDistance.Mean, 0)
	almost(t, "composition", f.Composition.Mean, 1)
	if f.Centering.Mean <= 0 || f.Centering.Mean >= 1 {
		t.Fatalf("off-center subject should score in (0,1), got %v", f.Centering.Mean)
	}
}
