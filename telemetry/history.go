package telemetry

import "github.com/pthm-cable/pasture/organism"

// Sample is one day of population history for charting.
type Sample struct {
	Day           int
	Counts        [3]int // by organism.Species
	Reserve       float64
	PredatorAlive bool
}

// Total returns the prey count across all species.
func (s Sample) Total() int {
	return s.Counts[organism.Cow] + s.Counts[organism.Goat] + s.Counts[organism.Rabbit]
}

// History is a fixed-size ring of daily samples. The oldest sample is
// overwritten once the ring is full.
type History struct {
	samples []Sample
	idx     int
	full    bool
}

// NewHistory creates a ring holding at most size samples.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{samples: make([]Sample, size)}
}

// Add appends a sample, evicting the oldest when full.
func (h *History) Add(s Sample) {
	h.samples[h.idx] = s
	h.idx = (h.idx + 1) % len(h.samples)
	if h.idx == 0 {
		h.full = true
	}
}

// Len returns the number of stored samples.
func (h *History) Len() int {
	if h.full {
		return len(h.samples)
	}
	return h.idx
}

// Cap returns the ring size.
func (h *History) Cap() int {
	return len(h.samples)
}

// Samples returns a copy of the stored samples, oldest first.
func (h *History) Samples() []Sample {
	if !h.full {
		return append([]Sample(nil), h.samples[:h.idx]...)
	}
	out := make([]Sample, 0, len(h.samples))
	out = append(out, h.samples[h.idx:]...)
	return append(out, h.samples[:h.idx]...)
}

// Latest returns the most recent sample.
func (h *History) Latest() (Sample, bool) {
	if h.Len() == 0 {
		return Sample{}, false
	}
	i := h.idx - 1
	if i < 0 {
		i = len(h.samples) - 1
	}
	return h.samples[i], true
}

// Max returns the largest per-species count in the ring, for chart scaling.
func (h *History) Max() int {
	max := 0
	for _, s := range h.Samples() {
		for _, c := range s.Counts {
			if c > max {
				max = c
			}
		}
	}
	return max
}
