package types

import "math"

// RawFrameSignal holds one sampled frame's independent measurements.
// Feature families that were not extracted for the frame are nil; scalar
// values inside a family that the extractor could not compute are NaN.
// Both read as "signal absent" downstream, never as an error.
type RawFrameSignal struct {
	Index int     // frame index within the segment
	Time  float64 // seconds from segment start

	Basic    *BasicStats
	Exposure *ExposureStats
	Motion   *MotionSample
	Subject  *SubjectBox
	Tones    *ToneSplit

	// SubjectChecked is set when subject detection ran on this frame,
	// whether or not it found anything. It separates "no subject" from
	// "detection not sampled here" for the presence ratio.
	SubjectChecked bool
}

// BasicStats is the cheap per-frame family. All values are normalized to
// [0,1]; Warmth is centered so 0.5 is neutral, above is warm, below is cool.
type BasicStats struct {
	Sharpness   float64
	Brightness  float64
	Contrast    float64
	Saturation  float64
	Warmth      float64
	EdgeDensity float64
}

// ExposureStats carries luminance histogram clipping ratios in [0,1].
type ExposureStats struct {
	ClippedHigh float64 // fraction of pixels clipped at the top end
	CrushedLow  float64 // fraction of pixels crushed at the bottom end
}

// MotionSample summarizes the optical flow between this sampled frame and
// the previously sampled one. Displacements are fractions of frame size per
// sampled interval. Scale is the affine scale factor (1 = no scale change);
// 0 means the feature tracker produced no estimate.
type MotionSample struct {
	DX           float64
	DY           float64
	Magnitude    float64
	MagnitudeStd float64
	Divergence   float64 // radial flow from center, positive = outward
	Rotation     float64 // degrees, positive = counter-clockwise
	Scale        float64
}

// SubjectBox is a detected-subject bounding box in normalized frame
// coordinates, with region statistics used by the focus and lighting rules.
type SubjectBox struct {
	X float64
	Y float64
	W float64
	H float64

	Sharpness           float64
	BackgroundSharpness float64
	Luma                float64
	BackgroundLuma      float64
}

// CenterX returns the normalized x coordinate of the box centroid.
func (b SubjectBox) CenterX() float64 { return b.X + b.W/2 }

// CenterY returns the normalized y coordinate of the box centroid.
func (b SubjectBox) CenterY() float64 { return b.Y + b.H/2 }

// AreaRatio returns the box area as a fraction of the frame area.
func (b SubjectBox) AreaRatio() float64 { return b.W * b.H }

// ToneSplit is the mean color warmth measured separately over the bright
// and dark tonal sub-ranges of a frame. The highlight/shadow split is what
// the teal-orange grading rule keys on.
type ToneSplit struct {
	HighlightWarmth float64
	ShadowWarmth    float64
}

// SignalSequence is the ordered, possibly sparse set of sampled frame
// signals for one segment. Frames are ordered ascending by Time.
type SignalSequence struct {
	VideoFile string
	Start     float64 // seconds, inclusive
	End       float64 // seconds, exclusive
	Frames    []RawFrameSignal
}

// Duration returns the segment length in seconds.
func (s SignalSequence) Duration() float64 { return s.End - s.Start }

// ClassificationResult is one classifier family's terminal judgment.
type ClassificationResult struct {
	Label      string  `json:"label"`
	Quality    float64 `json:"quality_score"`
	Confidence float64 `json:"confidence"`
}

// MovementResult is the camera movement classification with its extras.
type MovementResult struct {
	ClassificationResult
	Magnitude            float64 `json:"magnitude"`
	Smoothness           float64 `json:"smoothness"`
	DirectionConsistency float64 `json:"direction_consistency"`
}

type StabilizationResult struct {
	ClassificationResult
	MotionConsistency float64 `json:"motion_consistency"`
	IsStable          bool    `json:"is_stable"`
}

type FocusResult struct {
	ClassificationResult
	HasFocusChange    bool    `json:"has_focus_change"`
	FocusChangeAmount float64 `json:"focus_change_amount"`
	HasShallowDOF     bool    `json:"has_shallow_dof"`
}

type LightingResult struct {
	ClassificationResult
	IsWarm     bool `json:"is_warm"`
	IsCool     bool `json:"is_cool"`
	IsDramatic bool `json:"is_dramatic"`
}

type GradingResult struct {
	ClassificationResult
	GradingStrength float64 `json:"grading_strength"`
	IsMuted         bool    `json:"is_muted"`
	IsColorful      bool    `json:"is_colorful"`
}

type ExposureResult struct {
	ClassificationResult
	ClippedHighlights float64 `json:"clipped_highlights"`
	CrushedBlacks     float64 `json:"crushed_blacks"`
	IsWellExposed     bool    `json:"is_well_exposed"`
}

type FramingResult struct {
	ClassificationResult
	SubjectRatio        float64 `json:"subject_ratio"`
	FollowsRuleOfThirds bool    `json:"follows_rule_of_thirds"`
}

// SegmentMetrics is the final immutable record for one segment: the eight
// aggregated scalar scores, all in [0,1], plus every classification keyed
// by family name. Field names and enum literals are an external contract
// consumed by downstream search/filter tooling.
type SegmentMetrics struct {
	Sharpness        float64 `json:"sharpness"`
	Brightness       float64 `json:"brightness"`
	Contrast         float64 `json:"contrast"`
	ColorVibrancy    float64 `json:"color_vibrancy"`
	MotionScore      float64 `json:"motion_score"`
	CompositionScore float64 `json:"composition_score"`
	PersonScore      float64 `json:"person_score"`
	CenterFocusScore float64 `json:"center_focus_score"`

	CameraMovement MovementResult      `json:"camera_movement"`
	Stabilization  StabilizationResult `json:"stabilization"`
	Focus          FocusResult         `json:"focus"`
	Lighting       LightingResult      `json:"lighting"`
	ColorGrading   GradingResult       `json:"color_grading"`
	Exposure       ExposureResult      `json:"exposure"`
	ShotFraming    FramingResult       `json:"shot_framing"`
}

// ScalarNames lists the aggregated scalar metric names in index order.
func ScalarNames() []string {
	return []string{
		"sharpness", "brightness", "contrast", "color_vibrancy",
		"motion_score", "composition_score", "person_score", "center_focus_score",
	}
}

// VideoSegment ties one SegmentMetrics to its time interval in a source
// video. Intervals for the same video are contiguous and non-overlapping.
type VideoSegment struct {
	VideoFile string         `json:"video_file"`
	StartTime float64        `json:"start_time"`
	EndTime   float64        `json:"end_time"`
	Duration  float64        `json:"duration"`
	Metrics   SegmentMetrics `json:"metrics"`
}

// OverlapsWith reports whether two segments of the same video overlap.
func (v VideoSegment) OverlapsWith(o VideoSegment) bool {
	if v.VideoFile != o.VideoFile {
		return false
	}
	return v.StartTime < o.EndTime && o.StartTime < v.EndTime
}

// VideoDocument is the per-video entry of the index.
type VideoDocument struct {
	SegmentCount int    `json:"segment_count"`
	FilePath     string `json:"file_path"`
	Indexed      bool   `json:"indexed"`
	Error        string `json:"error,omitempty"`
}

// IndexMetadata describes the whole index build.
type IndexMetadata struct {
	CreatedAt        string   `json:"created_at"`
	SegmentDuration  float64  `json:"segment_duration"`
	TotalSegments    int      `json:"total_segments"`
	TotalVideos      int      `json:"total_videos"`
	IndexedVideos    int      `json:"indexed_videos"`
	AvailableMetrics []string `json:"available_metrics"`
}

// IndexDocument is the full searchable index produced by one run.
type IndexDocument struct {
	Metadata IndexMetadata            `json:"metadata"`
	Videos   map[string]VideoDocument `json:"videos"`
	Segments []VideoSegment           `json:"segments"`
}

// Finite reports whether v is a usable measurement. NaN and infinities
// count as absent signals.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
