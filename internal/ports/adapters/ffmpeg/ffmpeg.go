// Package ffmpeg extracts per-frame signal statistics with ffprobe's
// lavfi signalstats filter. It covers the brightness/contrast/saturation/
// warmth and frame-difference motion families; sharpness, histograms and
// subject detection need a vision extractor and are reported absent.
package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/ports"
	"github.com/forPelevin/cinedex/internal/types"
)

type Adapter struct {
	ffprobe string
}

func New(ffprobePath string) *Adapter {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffprobe: ffprobePath}
}

func (a *Adapter) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate:format=duration",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("ffprobe %s: %w\n%s", path, err, string(b))
	}

	var info ports.VideoInfo
	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch k {
		case "duration":
			info.Duration, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return ports.VideoInfo{}, fmt.Errorf("parse duration %q: %w", v, err)
			}
		case "avg_frame_rate":
			info.FPS = parseRate(v)
		}
	}
	if info.Duration <= 0 {
		return ports.VideoInfo{}, fmt.Errorf("ffprobe %s: no duration", path)
	}
	if info.FPS <= 0 {
		info.FPS = 25
	}
	return info, nil
}

// ExtractSignals runs signalstats over [start,end) and converts the
// per-frame tags into raw signals, downsampled to the plan's cheap set.
func (a *Adapter) ExtractSignals(ctx context.Context, path string, start, end float64, plan signal.Plan) (types.SignalSequence, error) {
	graph := fmt.Sprintf(
		"movie=%s:seek_point=%.3f,trim=start=%.3f:end=%.3f,setpts=PTS-STARTPTS,signalstats",
		escapeFilterPath(path), start, start, end,
	)
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-f", "lavfi",
		"-i", graph,
		"-show_entries", "frame=pts_time,pkt_pts_time:frame_tags",
		"-print_format", "json",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.SignalSequence{}, fmt.Errorf("ffprobe signalstats %s: %w\n%s", path, err, string(b))
	}

	var out probeFrames
	if err := json.Unmarshal(b, &out); err != nil {
		return types.SignalSequence{}, fmt.Errorf("parse signalstats output: %w", err)
	}

	seq := types.SignalSequence{VideoFile: path, Start: start, End: end}
	cheap := make(map[int]bool, len(plan.Cheap))
	for _, i := range plan.Cheap {
		cheap[i] = true
	}

	sampled := 0
	for i, fr := range out.Frames {
		if !cheap[i] {
			continue
		}
		sig := types.RawFrameSignal{
			Index: i,
			Time:  fr.time(),
			Basic: fr.basicStats(),
		}
		// YDIF is a difference against the previous decoded frame, so the
		// first sampled frame has no displacement estimate.
		if sampled > 0 {
			sig.Motion = fr.motionSample()
		}
		seq.Frames = append(seq.Frames, sig)
		sampled++
	}
	return seq, nil
}

type probeFrames struct {
	Frames []probeFrame `json:"frames"`
}

type probeFrame struct {
	PTSTime    string            `json:"pts_time"`
	PktPTSTime string            `json:"pkt_pts_time"`
	Tags       map[string]string `json:"tags"`
}

func (f probeFrame) time() float64 {
	s := f.PTSTime
	if s == "" {
		s = f.PktPTSTime
	}
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return t
}

func (f probeFrame) tag(name string) float64 {
	v, ok := f.Tags["lavfi.signalstats."+name]
	if !ok {
		return math.NaN()
	}
	x, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN()
	}
	return x
}

func (f probeFrame) basicStats() *types.BasicStats {
	return &types.BasicStats{
		Sharpness:   math.NaN(), // needs a Laplacian pass, not in signalstats
		Brightness:  f.tag("YAVG") / 255,
		Contrast:    (f.tag("YHIGH") - f.tag("YLOW")) / 255,
		Saturation:  f.tag("SATAVG") / 181,
		Warmth:      warmthFromHue(f.tag("HUEMED")),
		EdgeDensity: math.NaN(),
	}
}

func (f probeFrame) motionSample() *types.MotionSample {
	return &types.MotionSample{
		DX:           math.NaN(),
		DY:           math.NaN(),
		Magnitude:    f.tag("YDIF") / 255,
		MagnitudeStd: math.NaN(),
		Divergence:   math.NaN(),
		Rotation:     math.NaN(),
		Scale:        0,
	}
}

// warmthFromHue maps the median hue angle onto the 0.5-neutral warmth
// axis: hues near the orange axis read warm, opposing hues read cool.
func warmthFromHue(hue float64) float64 {
	if math.IsNaN(hue) {
		return math.NaN()
	}
	const warmAxis = 30.0 // degrees
	return 0.5 + 0.5*math.Cos((hue-warmAxis)*math.Pi/180)
}

func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
