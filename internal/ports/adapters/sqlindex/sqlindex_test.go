package sqlindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/forPelevin/cinedex/internal/types"
)

func seg(file string, start float64, movement, lighting string, sharpness float64) types.VideoSegment {
	s := types.VideoSegment{
		VideoFile: file,
		StartTime: start,
		EndTime:   start + 1,
		Duration:  1,
	}
	s.Metrics.Sharpness = sharpness
	s.Metrics.Brightness = 0.5
	s.Metrics.CameraMovement.Label = movement
	s.Metrics.Stabilization.Label = "tripod"
	s.Metrics.Lighting.Label = lighting
	s.Metrics.ColorGrading.Label = "neutral"
	s.Metrics.Exposure.Label = "properly_exposed"
	s.Metrics.ShotFraming.Label = "wide"
	return s
}

func testDoc() types.IndexDocument {
	return types.IndexDocument{
		Metadata: types.IndexMetadata{
			CreatedAt:       "2026-08-30T12:00:00Z",
			SegmentDuration: 1,
			TotalSegments:   3,
			TotalVideos:     2,
			IndexedVideos:   2,
		},
		Segments: []types.VideoSegment{
			seg("b.mp4", 0, "Static", "golden_hour", 0.9),
			seg("a.mp4", 1, "Pan Right", "natural", 0.3),
			seg("a.mp4", 0, "Static", "natural", 0.7),
		},
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWriteIndexAndSearch(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	if err := s.WriteIndex(ctx, testDoc()); err != nil {
		t.Fatalf("write: %v", err)
	}

	all, err := s.Search(ctx, Filter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("segments = %d, want 3", len(all))
	}
	// Ordered by file then start time.
	if all[0].VideoFile != "a.mp4" || all[0].StartTime != 0 ||
		all[1].VideoFile != "a.mp4" || all[1].StartTime != 1 ||
		all[2].VideoFile != "b.mp4" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[2].Metrics.Lighting.Label != "golden_hour" {
		t.Fatalf("stored metrics blob lost data: %+v", all[2].Metrics)
	}
}

func TestSearch_Filters(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	if err := s.WriteIndex(ctx, testDoc()); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"movement", Filter{Movement: "Static"}, 2},
		{"lighting", Filter{Lighting: "golden_hour"}, 1},
		{"movement and lighting", Filter{Movement: "Static", Lighting: "natural"}, 1},
		{"min sharpness", Filter{MinSharpness: 0.5}, 2},
		{"min sharpness and movement", Filter{Movement: "Pan Right", MinSharpness: 0.5}, 0},
		{"limit", Filter{Limit: 1}, 1},
		{"no match", Filter{Framing: "close_up"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.filter)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("results = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestWriteIndex_ReplacesPreviousRun(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.WriteIndex(ctx, testDoc()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	small := types.IndexDocument{
		Metadata: types.IndexMetadata{CreatedAt: "2026-08-30T13:00:00Z", TotalSegments: 1},
		Segments: []types.VideoSegment{seg("c.mp4", 0, "Static", "natural", 0.5)},
	}
	if err := s.WriteIndex(ctx, small); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := s.Search(ctx, Filter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].VideoFile != "c.mp4" {
		t.Fatalf("old run leaked into the new index: %+v", got)
	}
}
