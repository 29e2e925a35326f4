package signal

// Plan holds the frame indices to measure within one segment, split by
// extraction cost. The cheap set feeds the basic scalar family; the
// expensive set feeds subject detection and histogram analysis.
type Plan struct {
	Cheap     []int
	Expensive []int
}

// BuildPlan selects which of frameCount frames get measured. Every
// cheapStride-th frame lands in the cheap set and every expensiveStride-th
// frame in the expensive set. Frame 0 is always in both, so any segment
// with at least one frame is sampled for each family even when a stride
// exceeds the segment length.
func BuildPlan(frameCount, cheapStride, expensiveStride int) Plan {
	if frameCount <= 0 {
		return Plan{}
	}
	if cheapStride < 1 {
		cheapStride = 1
	}
	if expensiveStride < cheapStride {
		expensiveStride = cheapStride
	}
	var p Plan
	for i := 0; i < frameCount; i += cheapStride {
		p.Cheap = append(p.Cheap, i)
	}
	for i := 0; i < frameCount; i += expensiveStride {
		p.Expensive = append(p.Expensive, i)
	}
	return p
}

// IsExpensive reports whether frame index i is in the expensive set.
func (p Plan) IsExpensive(i int) bool {
	for _, idx := range p.Expensive {
		if idx == i {
			return true
		}
	}
	return false
}
