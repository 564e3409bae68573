package aggregate

// statSampleCap bounds the per-metric value sample. The sample is kept
// for future percentile work and has no behavioral effect today.
const statSampleCap = 1000

// RunningStat tracks the running sum and count for one metric, plus a
// capped sample of the first observed values.
type RunningStat struct {
	Sum    float64
	Count  int64
	sample []float64
}

func (s *RunningStat) observe(v float64) {
	s.Sum += v
	s.Count++
	if len(s.sample) < statSampleCap {
		s.sample = append(s.sample, v)
	}
}

// Mean returns the running mean, or 0 with no observations.
func (s *RunningStat) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}
