package scroll

import "time"

// DefaultSampleInterval coalesces pointer-position sampling to roughly 60
// samples per second. Purely a performance measure; arbitration correctness
// does not depend on it.
const DefaultSampleInterval = time.Second / 60

// Sampler rate-limits "which element is under the pointer" queries.
type Sampler struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewSampler creates a Sampler with the given minimum interval between
// accepted samples. now may be nil, in which case time.Now is used.
func NewSampler(interval time.Duration, now func() time.Time) *Sampler {
	if now == nil {
		now = time.Now
	}
	return &Sampler{interval: interval, now: now}
}

// Allow reports whether a sample should be taken now, and if so records it.
func (s *Sampler) Allow() bool {
	t := s.now()
	if t.Sub(s.last) < s.interval {
		return false
	}
	s.last = t
	return true
}
