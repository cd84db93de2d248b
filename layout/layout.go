// Package layout maps simulation state onto screen coordinates. It has no
// raylib dependency so the geometry can be tested headlessly.
package layout

import "math/rand"

// Point is a screen position in pixels.
type Point struct {
	X, Y float32
}

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Field is a fixed set of pseudo-random slots inside a pasture area.
// Prey are drawn at Slot(i) for their index in the population, so a
// square keeps its place while the animals before it survive.
type Field struct {
	Area  Rect
	slots []Point
}

// NewField scatters n slots over area, keeping margin pixels clear of the
// edges. The same seed always gives the same slots.
func NewField(area Rect, n int, margin float32, seed int64) *Field {
	if n < 1 {
		n = 1
	}
	inner := area
	if area.W > 2*margin && area.H > 2*margin {
		inner = Rect{X: area.X + margin, Y: area.Y + margin, W: area.W - 2*margin, H: area.H - 2*margin}
	}

	rng := rand.New(rand.NewSource(seed))
	slots := make([]Point, n)
	for i := range slots {
		slots[i] = Point{
			X: inner.X + rng.Float32()*inner.W,
			Y: inner.Y + rng.Float32()*inner.H,
		}
	}
	return &Field{Area: area, slots: slots}
}

// Len returns the number of slots.
func (f *Field) Len() int { return len(f.slots) }

// Slot returns the slot for population index i. Indices past the slot
// count wrap around.
func (f *Field) Slot(i int) Point {
	if i < 0 {
		i = -i
	}
	return f.slots[i%len(f.slots)]
}

// Center returns the middle of the field.
func (f *Field) Center() Point {
	return Point{X: f.Area.X + f.Area.W/2, Y: f.Area.Y + f.Area.H/2}
}

// Chart maps (day, count) samples into a plot rectangle.
type Chart struct {
	Plot    Rect
	MaxY    float32 // top of the value axis, at least 1
	Samples int     // number of x positions
}

// NewChart sizes the value axis to max with a little headroom.
func NewChart(plot Rect, samples int, max int) Chart {
	top := float32(max) * 1.1
	if top < 1 {
		top = 1
	}
	if samples < 2 {
		samples = 2
	}
	return Chart{Plot: plot, MaxY: top, Samples: samples}
}

// Point returns the screen position of sample i with value v.
func (c Chart) Point(i int, v float32) Point {
	x := c.Plot.X + c.Plot.W*float32(i)/float32(c.Samples-1)
	if v < 0 {
		v = 0
	}
	if v > c.MaxY {
		v = c.MaxY
	}
	y := c.Plot.Y + c.Plot.H - c.Plot.H*v/c.MaxY
	return Point{X: x, Y: y}
}

// Speed limits for days advanced per frame.
const (
	MinSpeed = 1
	MaxSpeed = 64
)

// ClampSpeed keeps a days-per-frame value inside [MinSpeed, MaxSpeed].
func ClampSpeed(v int) int {
	if v < MinSpeed {
		return MinSpeed
	}
	if v > MaxSpeed {
		return MaxSpeed
	}
	return v
}

// StepSpeed halves (dir < 0) or doubles (dir > 0) the speed.
func StepSpeed(v, dir int) int {
	switch {
	case dir > 0:
		return ClampSpeed(v * 2)
	case dir < 0:
		return ClampSpeed(v / 2)
	}
	return ClampSpeed(v)
}

// DaysThisFrame returns how many days to advance given the speed, the days
// already simulated and the run limit (0 = unlimited).
func DaysThisFrame(speed, day, limit int, paused bool) int {
	if paused {
		return 0
	}
	n := ClampSpeed(speed)
	if limit > 0 {
		if day >= limit {
			return 0
		}
		if day+n > limit {
			n = limit - day
		}
	}
	return n
}
