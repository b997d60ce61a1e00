package engine

import "time"

// Stats summarises the frames a controller has rendered. Elapsed is
// simulated time, the sum of clamped frame steps.
type Stats struct {
	Frames  int
	Clamped int
	Elapsed time.Duration
	MaxDT   time.Duration
}

func (s *Stats) observe(dt time.Duration, clamped bool) {
	s.Frames++
	s.Elapsed += dt
	if clamped {
		s.Clamped++
	}
	if dt > s.MaxDT {
		s.MaxDT = dt
	}
}

func (s Stats) MeanDT() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Frames)
}

func (s Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}
