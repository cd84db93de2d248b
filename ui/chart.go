package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/layout"
	"github.com/pthm-cable/pasture/organism"
	"github.com/pthm-cable/pasture/telemetry"
)

// PopulationChart plots per-species counts from the history ring.
type PopulationChart struct {
	renderer *Renderer
	bounds   layout.Rect
}

// NewPopulationChart creates a chart drawn inside bounds.
func NewPopulationChart(r *Renderer, bounds layout.Rect) *PopulationChart {
	return &PopulationChart{renderer: r, bounds: bounds}
}

// Draw renders the chart. An empty history draws only the frame.
func (c *PopulationChart) Draw(h *telemetry.History) {
	r := c.renderer
	b := c.bounds
	r.DrawPanel(int32(b.X), int32(b.Y), int32(b.W), int32(b.H))

	p := float32(r.Theme.Padding)
	plot := layout.Rect{X: b.X + p, Y: b.Y + p + float32(r.Theme.LineHeight), W: b.W - 2*p, H: b.H - 2*p - float32(r.Theme.LineHeight)}
	rl.DrawText("Population", int32(b.X+p), int32(b.Y+p), r.Theme.FontSize, r.Theme.SectionHeader)

	samples := h.Samples()
	top := h.Max()
	rl.DrawText(fmt.Sprintf("%d", top), int32(b.X+b.W-p-40), int32(b.Y+p), r.Theme.FontSize, r.Theme.LabelColor)
	if len(samples) < 2 {
		return
	}

	chart := layout.NewChart(plot, h.Cap(), top)
	for _, sp := range organism.AllSpecies() {
		color := r.Theme.Series[sp]
		prev := chart.Point(0, float32(samples[0].Counts[sp]))
		for i := 1; i < len(samples); i++ {
			cur := chart.Point(i, float32(samples[i].Counts[sp]))
			rl.DrawLineEx(rl.Vector2{X: prev.X, Y: prev.Y}, rl.Vector2{X: cur.X, Y: cur.Y}, 2, color)
			prev = cur
		}
	}

	// Legend
	lx := int32(b.X + p + 100)
	for _, sp := range organism.AllSpecies() {
		rl.DrawRectangle(lx, int32(b.Y+p)+3, 10, 10, r.Theme.Series[sp])
		rl.DrawText(sp.String(), lx+14, int32(b.Y+p), r.Theme.FontSize, r.Theme.LabelColor)
		lx += 14 + rl.MeasureText(sp.String(), r.Theme.FontSize) + 12
	}
}
