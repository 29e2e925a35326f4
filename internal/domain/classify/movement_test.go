package classify

import (
	"testing"

	"github.com/forPelevin/cinedex/internal/domain/signal"
)

func trajectory(n int) []signal.Displacement {
	return make([]signal.Displacement, n)
}

func TestMovement_Table(t *testing.T) {
	th := DefaultMovementThresholds()
	tests := []struct {
		name string
		f    signal.Features
		want string
	}{
		{
			name: "no trajectory is insufficient data",
			f:    signal.Features{},
			want: MoveUnknown,
		},
		{
			name: "static",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.0005},
			want: MoveStatic,
		},
		{
			name: "pan right",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.01, MeanDX: 0.01, JitterRatio: 0.2},
			want: MovePanRight,
		},
		{
			name: "pan left",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.01, MeanDX: -0.01, JitterRatio: 0.2},
			want: MovePanLeft,
		},
		{
			name: "tilt up",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.01, MeanDX: 0.001, MeanDY: -0.01, JitterRatio: 0.2},
			want: MoveTiltUp,
		},
		{
			name: "tilt down",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.01, MeanDY: 0.01, JitterRatio: 0.2},
			want: MoveTiltDown,
		},
		{
			name: "rotation ccw",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.005, Rotation: signal.Stat{Mean: 2, N: 5}},
			want: MoveRotationCCW,
		},
		{
			name: "rotation cw",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.005, Rotation: signal.Stat{Mean: -2, N: 5}},
			want: MoveRotationCW,
		},
		{
			name: "zoom in from divergence",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.005, Divergence: signal.Stat{Mean: 0.004, N: 5}},
			want: MoveZoomIn,
		},
		{
			name: "zoom out from divergence",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.005, Divergence: signal.Stat{Mean: -0.004, N: 5}},
			want: MoveZoomOut,
		},
		{
			name: "zoom in from scale drift alone",
			f: signal.Features{
				Trajectory: trajectory(5), MeanMagnitude: 0.005,
				Divergence: signal.Stat{Mean: 0.001, N: 5},
				HasScale:   true, ScaleDrift: 0.05,
			},
			want: MoveZoomIn,
		},
		{
			name: "dolly in when divergence has no matching scale change",
			f: signal.Features{
				Trajectory: trajectory(5), MeanMagnitude: 0.005,
				Divergence: signal.Stat{Mean: 0.004, N: 5},
				HasScale:   true, ScaleDrift: 0.001,
			},
			want: MoveDollyIn,
		},
		{
			name: "dolly out",
			f: signal.Features{
				Trajectory: trajectory(5), MeanMagnitude: 0.005,
				Divergence: signal.Stat{Mean: -0.004, N: 5},
				HasScale:   true, ScaleDrift: -0.001,
			},
			want: MoveDollyOut,
		},
		{
			name: "divergence suppresses pan",
			f: signal.Features{
				Trajectory: trajectory(5), MeanMagnitude: 0.01, MeanDX: 0.01,
				JitterRatio: 0.2, Divergence: signal.Stat{Mean: 0.004, N: 5},
			},
			want: MoveZoomIn,
		},
		{
			name: "handheld",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.01, MeanDX: 0.001, JitterRatio: 2.0},
			want: MoveHandheld,
		},
		{
			name: "complex",
			f:    signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.01, MeanDX: 0.001, MeanDY: 0.001, JitterRatio: 1.0},
			want: MoveComplex,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Movement(tt.f, th)
			if got.Label != tt.want {
				t.Fatalf("label = %q, want %q", got.Label, tt.want)
			}
			if got.Quality < 0 || got.Quality > 1 {
				t.Fatalf("quality out of range: %v", got.Quality)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Fatalf("confidence out of range: %v", got.Confidence)
			}
		})
	}
}

func TestMovement_UnknownHasZeroConfidence(t *testing.T) {
	got := Movement(signal.Features{}, DefaultMovementThresholds())
	if got.Confidence != 0 {
		t.Fatalf("insufficient data must carry zero confidence, got %v", got.Confidence)
	}
	if got.Quality != 0.5 {
		t.Fatalf("unknown quality = %v, want neutral 0.5", got.Quality)
	}
}

func TestMovement_ConfidenceGrowsWithDivergence(t *testing.T) {
	th := DefaultMovementThresholds()
	base := signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.005}

	weak := base
	weak.Divergence = signal.Stat{Mean: 0.0024, N: 5}
	strong := base
	strong.Divergence = signal.Stat{Mean: 0.0036, N: 5}

	rWeak := Movement(weak, th)
	rStrong := Movement(strong, th)
	if rWeak.Label != MoveZoomIn || rStrong.Label != MoveZoomIn {
		t.Fatalf("labels = %q, %q, want both %q", rWeak.Label, rStrong.Label, MoveZoomIn)
	}
	if rStrong.Confidence <= rWeak.Confidence {
		t.Fatalf("confidence should grow with divergence: %v then %v", rWeak.Confidence, rStrong.Confidence)
	}
}

func TestMovement_SmoothPanScoresHigherThanJerky(t *testing.T) {
	th := DefaultMovementThresholds()
	smooth := signal.Features{Trajectory: trajectory(5), MeanMagnitude: 0.01, MeanDX: 0.01, JitterRatio: 0}
	jerky := smooth
	jerky.JitterRatio = 1.2

	rs, rj := Movement(smooth, th), Movement(jerky, th)
	if rs.Label != MovePanRight || rj.Label != MovePanRight {
		t.Fatalf("labels = %q, %q, want both %q", rs.Label, rj.Label, MovePanRight)
	}
	if rs.Quality <= rj.Quality {
		t.Fatalf("smooth pan should outscore jerky pan: %v vs %v", rs.Quality, rj.Quality)
	}
	if rs.Smoothness <= rj.Smoothness {
		t.Fatalf("smoothness = %v vs %v", rs.Smoothness, rj.Smoothness)
	}
}
