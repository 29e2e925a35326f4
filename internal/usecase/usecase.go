package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/cinedex/internal/domain/classify"
	"github.com/forPelevin/cinedex/internal/domain/segment"
	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/ports"
	"github.com/forPelevin/cinedex/internal/types"
)

type Deps struct {
	Source ports.SignalSource
	Log    zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Folder          string
	SegmentDuration float64
	Workers         int
	Segment         segment.Config
}

type Result struct {
	Index types.IndexDocument
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".m4v": true, ".flv": true, ".wmv": true,
}

// FindVideos lists the supported video files directly inside folder.
func FindVideos(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if videoExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			out = append(out, filepath.Join(folder, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Run indexes every video in the folder. Per-video failures are recorded
// in the index document instead of aborting the run.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	videos, err := FindVideos(in.Folder)
	if err != nil {
		return Result{}, err
	}
	if len(videos) == 0 {
		return Result{}, fmt.Errorf("no video files found in %s", in.Folder)
	}

	doc := types.IndexDocument{
		Videos: make(map[string]types.VideoDocument, len(videos)),
	}

	for i, path := range videos {
		name := filepath.Base(path)
		log := u.d.Log.With().Str("video", name).Logger()
		log.Info().Int("n", i+1).Int("total", len(videos)).Msg("indexing")

		segs, err := u.IndexVideo(ctx, path, in)
		if err != nil {
			log.Warn().Err(err).Msg("indexing failed")
			doc.Videos[name] = types.VideoDocument{FilePath: path, Indexed: false, Error: err.Error()}
			continue
		}
		doc.Segments = append(doc.Segments, segs...)
		doc.Videos[name] = types.VideoDocument{
			SegmentCount: len(segs),
			FilePath:     path,
			Indexed:      true,
		}
		log.Info().Int("segments", len(segs)).Msg("indexed")
	}

	indexed := 0
	for _, v := range doc.Videos {
		if v.Indexed {
			indexed++
		}
	}
	doc.Metadata = types.IndexMetadata{
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
		SegmentDuration:  in.SegmentDuration,
		TotalSegments:    len(doc.Segments),
		TotalVideos:      len(videos),
		IndexedVideos:    indexed,
		AvailableMetrics: availableMetrics(),
	}
	return Result{Index: doc}, nil
}

// IndexVideo splits one video into contiguous segments and computes
// metrics for each, fanning segments out to a bounded worker pool.
// Segments are independent: an invalid one is dropped and counted, the
// rest of the video still indexes.
func (u Usecase) IndexVideo(ctx context.Context, path string, in Input) ([]types.VideoSegment, error) {
	info, err := u.d.Source.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	dur := in.SegmentDuration
	frameCount := int(info.FPS*dur + 0.5)
	plan := signal.BuildPlan(frameCount, in.Segment.CheapStride, in.Segment.ExpensiveStride)

	type window struct {
		n          int
		start, end float64
	}
	var windows []window
	for n, start := 0, 0.0; start+dur <= info.Duration+1e-9; n, start = n+1, start+dur {
		windows = append(windows, window{n: n, start: start, end: start + dur})
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("video shorter than one %gs segment", dur)
	}

	workers := in.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(windows) {
		workers = len(windows)
	}

	name := filepath.Base(path)
	results := make([]*types.VideoSegment, len(windows))
	jobs := make(chan window)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for win := range jobs {
				seq, err := u.d.Source.ExtractSignals(ctx, path, win.start, win.end, plan)
				if err != nil {
					u.d.Log.Warn().Err(err).Str("video", name).
						Float64("start", win.start).Msg("signal extraction failed, segment dropped")
					continue
				}
				seq.VideoFile = name
				seg, err := segment.ComputeSegment(seq, in.Segment)
				if err != nil {
					u.d.Log.Warn().Err(err).Str("video", name).
						Float64("start", win.start).Msg("invalid segment dropped")
					continue
				}
				results[win.n] = &seg
			}
		}()
	}

	for _, win := range windows {
		select {
		case jobs <- win:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	out := make([]types.VideoSegment, 0, len(windows))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func availableMetrics() []string {
	names := types.ScalarNames()
	for _, fam := range classify.Families() {
		names = append(names, fam.Name)
	}
	return names
}
