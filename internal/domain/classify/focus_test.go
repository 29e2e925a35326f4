package classify

import (
	"testing"

	"github.com/forPelevin/cinedex/internal/domain/signal"
)

func TestFocus_Table(t *testing.T) {
	th := DefaultFocusThresholds()
	tests := []struct {
		name       string
		f          signal.Features
		want       string
		wantChange bool
		wantDOF    bool
	}{
		{
			name: "no sharpness data",
			f:    signal.Features{},
			want: FocusUnknown,
		},
		{
			name: "rack focus",
			f: signal.Features{
				Sharpness:     signal.Stat{Mean: 0.5, N: 5},
				MaxFocusDelta: 0.6,
			},
			want:       FocusRack,
			wantChange: true,
		},
		{
			name: "shallow depth of field",
			f: signal.Features{
				Sharpness:         signal.Stat{Mean: 0.7, N: 5},
				MaxFocusDelta:     0.05,
				SubjectSharpRatio: signal.Stat{Mean: 3.0, N: 2},
			},
			want:    FocusShallow,
			wantDOF: true,
		},
		{
			name: "rack wins over shallow",
			f: signal.Features{
				Sharpness:         signal.Stat{Mean: 0.7, N: 5},
				MaxFocusDelta:     0.4,
				SubjectSharpRatio: signal.Stat{Mean: 3.0, N: 2},
			},
			want:       FocusRack,
			wantChange: true,
			wantDOF:    true,
		},
		{
			name: "deep focus",
			f: signal.Features{
				Sharpness:     signal.Stat{Mean: 0.8, N: 5},
				MaxFocusDelta: 0.02,
			},
			want: FocusDeep,
		},
		{
			name: "single sample cannot be a rack",
			f: signal.Features{
				Sharpness:     signal.Stat{Mean: 0.8, N: 1},
				MaxFocusDelta: 0.9,
			},
			want: FocusDeep,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Focus(tt.f, th)
			if got.Label != tt.want {
				t.Fatalf("label = %q, want %q", got.Label, tt.want)
			}
			if got.HasFocusChange != tt.wantChange {
				t.Fatalf("has_focus_change = %v, want %v", got.HasFocusChange, tt.wantChange)
			}
			if got.HasShallowDOF != tt.wantDOF {
				t.Fatalf("has_shallow_dof = %v, want %v", got.HasShallowDOF, tt.wantDOF)
			}
		})
	}
}

func TestFocus_ChangeAmountClamped(t *testing.T) {
	f := signal.Features{
		Sharpness:     signal.Stat{Mean: 0.5, N: 5},
		MaxFocusDelta: 4.2,
	}
	got := Focus(f, DefaultFocusThresholds())
	if got.FocusChangeAmount != 1 {
		t.Fatalf("focus_change_amount = %v, want clamped 1", got.FocusChangeAmount)
	}
}
