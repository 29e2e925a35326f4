package signal

import (
	"math"

	"github.com/forPelevin/cinedex/internal/types"
)

// Stat is a per-scalar segment summary: endpoint values plus running
// mean/variance over the frames where the scalar was present.
type Stat struct {
	First    float64
	Last     float64
	Mean     float64
	Variance float64
	N        int
}

// Std returns the standard deviation.
func (s Stat) Std() float64 { return math.Sqrt(s.Variance) }

// Point is a normalized frame coordinate.
type Point struct {
	X float64
	Y float64
}

// Displacement is one trajectory step.
type Displacement struct {
	DX        float64
	DY        float64
	Magnitude float64
}

// Features is the segment-scoped temporal feature vector consumed by the
// classifiers. Computed once per segment and never mutated afterwards.
type Features struct {
	Sharpness   Stat
	Brightness  Stat
	Contrast    Stat
	Saturation  Stat
	Warmth      Stat
	EdgeDensity Stat

	ClippedHigh Stat
	CrushedLow  Stat

	HighlightWarmth Stat
	ShadowWarmth    Stat

	// Motion trajectory and its derived statistics. An empty trajectory
	// means "insufficient data", not "static": classifiers that depend on
	// it must lower confidence rather than pick a band.
	Trajectory        []Displacement
	MeanDX            float64
	MeanDY            float64
	MeanMagnitude     float64
	MagnitudeVariance float64
	JitterRatio       float64 // flow spread relative to mean magnitude
	JitterAmplitude   float64 // RMS of trajectory second differences
	AccelVariance     float64 // variance of trajectory second differences
	Divergence        Stat
	Rotation          Stat
	ScaleDrift        float64 // mean affine scale factor minus 1
	HasScale          bool

	// Rack-focus signature: the largest frame-to-frame sharpness delta
	// relative to the preceding value, and the sequence peak.
	MaxFocusDelta float64
	PeakSharpness float64

	SubjectPresence   float64 // detected frames / frames where detection ran
	SubjectRatio      Stat
	SubjectWidth      Stat
	SubjectHeight     Stat
	SubjectSharpRatio Stat // subject sharpness over background sharpness
	SubjectLumaDelta  Stat // subject luma minus background luma
	CentroidTrack     []Point
	ThirdsDistance    Stat // centroid distance to nearest power point
	Composition       Stat // per-frame rule-of-thirds proximity score
	Centering         Stat // per-frame distance-from-center score
}

// welford is a numerically stable running mean/variance accumulator.
// Non-finite values are skipped, which makes absent and malformed scalars
// behave identically.
type welford struct {
	n     int
	mean  float64
	m2    float64
	first float64
	last  float64
}

func (w *welford) add(x float64) {
	if !types.Finite(x) {
		return
	}
	if w.n == 0 {
		w.first = x
	}
	w.last = x
	w.n++
	d := x - w.mean
	w.mean += d / float64(w.n)
	w.m2 += d * (x - w.mean)
}

func (w *welford) stat() Stat {
	s := Stat{First: w.first, Last: w.last, Mean: w.mean, N: w.n}
	if w.n > 1 {
		s.Variance = w.m2 / float64(w.n)
	}
	return s
}

// thirds power points in normalized coordinates.
var powerPoints = []Point{
	{1.0 / 3, 1.0 / 3}, {2.0 / 3, 1.0 / 3},
	{1.0 / 3, 2.0 / 3}, {2.0 / 3, 2.0 / 3},
}

// BuildFeatures reduces a signal sequence to its temporal feature vector
// in a single pass. A sequence of length 1 yields zero variances and an
// empty trajectory.
func BuildFeatures(seq types.SignalSequence) Features {
	var (
		sharp, bright, contrast, sat, warm, edge welford
		clipHigh, crushLow, hiWarm, shWarm       welford
		mag, magStd, div, rot                    welford
		subjRatio, subjW, subjH                  welford
		sharpRatio, lumaDelta                    welford
		thirdsDist, composition, centering       welford
		accel                                    welford
	)
	var (
		scaleSum      float64
		scaleN        int
		sumDX, sumDY  float64
		accelSumSq    float64
		accelN        int
		maxFocusDelta float64
		peakSharp     float64
	)
	var (
		subjectChecked, subjectFound int
		prevDisp                     *types.MotionSample
	)
	prevSharp := math.NaN()

	f := Features{}

	for _, fr := range seq.Frames {
		if b := fr.Basic; b != nil {
			sharp.add(b.Sharpness)
			bright.add(b.Brightness)
			contrast.add(b.Contrast)
			sat.add(b.Saturation)
			warm.add(b.Warmth)
			edge.add(b.EdgeDensity)

			if types.Finite(b.Sharpness) {
				if b.Sharpness > peakSharp {
					peakSharp = b.Sharpness
				}
				if types.Finite(prevSharp) {
					delta := math.Abs(b.Sharpness-prevSharp) / (prevSharp + 1e-6)
					if delta > maxFocusDelta {
						maxFocusDelta = delta
					}
				}
				prevSharp = b.Sharpness
			}
		}

		if e := fr.Exposure; e != nil {
			clipHigh.add(e.ClippedHigh)
			crushLow.add(e.CrushedLow)
		}

		if t := fr.Tones; t != nil {
			hiWarm.add(t.HighlightWarmth)
			shWarm.add(t.ShadowWarmth)
		}

		if m := fr.Motion; m != nil {
			f.Trajectory = append(f.Trajectory, Displacement{
				DX: m.DX, DY: m.DY, Magnitude: m.Magnitude,
			})
			mag.add(m.Magnitude)
			magStd.add(m.MagnitudeStd)
			div.add(m.Divergence)
			rot.add(m.Rotation)
			if types.Finite(m.DX) && types.Finite(m.DY) {
				sumDX += m.DX
				sumDY += m.DY
			}
			if m.Scale > 0 && types.Finite(m.Scale) {
				scaleSum += m.Scale
				scaleN++
			}
			if prevDisp != nil {
				ddx := m.DX - prevDisp.DX
				ddy := m.DY - prevDisp.DY
				step := math.Hypot(ddx, ddy)
				accel.add(step)
				accelSumSq += step * step
				accelN++
			}
			cp := *m
			prevDisp = &cp
		}

		if fr.SubjectChecked {
			subjectChecked++
		}
		if s := fr.Subject; s != nil {
			subjectFound++
			subjRatio.add(s.AreaRatio())
			subjW.add(s.W)
			subjH.add(s.H)
			if types.Finite(s.Sharpness) && types.Finite(s.BackgroundSharpness) {
				sharpRatio.add(s.Sharpness / (s.BackgroundSharpness + 1e-6))
			}
			if types.Finite(s.Luma) && types.Finite(s.BackgroundLuma) {
				lumaDelta.add(s.Luma - s.BackgroundLuma)
			}

			c := Point{X: s.CenterX(), Y: s.CenterY()}
			f.CentroidTrack = append(f.CentroidTrack, c)

			d := nearestPowerPoint(c)
			thirdsDist.add(d)
			composition.add(clamp01(1 - d/0.25))
			centering.add(clamp01(1 - math.Hypot(c.X-0.5, c.Y-0.5)/0.5))
		}
	}

	f.Sharpness = sharp.stat()
	f.Brightness = bright.stat()
	f.Contrast = contrast.stat()
	f.Saturation = sat.stat()
	f.Warmth = warm.stat()
	f.EdgeDensity = edge.stat()
	f.ClippedHigh = clipHigh.stat()
	f.CrushedLow = crushLow.stat()
	f.HighlightWarmth = hiWarm.stat()
	f.ShadowWarmth = shWarm.stat()

	magStat := mag.stat()
	f.MeanMagnitude = magStat.Mean
	f.MagnitudeVariance = magStat.Variance
	if n := len(f.Trajectory); n > 0 {
		f.MeanDX = sumDX / float64(n)
		f.MeanDY = sumDY / float64(n)
	}
	// Per-frame flow spread when the extractor provides it, temporal
	// spread otherwise.
	spread := magStd.stat()
	if spread.N > 0 {
		f.JitterRatio = spread.Mean / (f.MeanMagnitude + 1e-6)
	} else {
		f.JitterRatio = magStat.Std() / (f.MeanMagnitude + 1e-6)
	}
	if accelN > 0 {
		f.JitterAmplitude = math.Sqrt(accelSumSq / float64(accelN))
		f.AccelVariance = accel.stat().Variance
	}
	f.Divergence = div.stat()
	f.Rotation = rot.stat()
	if scaleN > 0 {
		f.ScaleDrift = scaleSum/float64(scaleN) - 1
		f.HasScale = true
	}

	f.MaxFocusDelta = maxFocusDelta
	f.PeakSharpness = peakSharp

	if subjectChecked > 0 {
		f.SubjectPresence = float64(subjectFound) / float64(subjectChecked)
	}
	f.SubjectRatio = subjRatio.stat()
	f.SubjectWidth = subjW.stat()
	f.SubjectHeight = subjH.stat()
	f.SubjectSharpRatio = sharpRatio.stat()
	f.SubjectLumaDelta = lumaDelta.stat()
	f.ThirdsDistance = thirdsDist.stat()
	f.Composition = composition.stat()
	f.Centering = centering.stat()

	return f
}

func nearestPowerPoint(c Point) float64 {
	min := math.Inf(1)
	for _, p := range powerPoints {
		if d := math.Hypot(c.X-p.X, c.Y-p.Y); d < min {
			min = d
		}
	}
	return min
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
