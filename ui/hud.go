package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/organism"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Day           int
	Reserve       float64
	MinReserve    float64
	OptReserve    float64
	PredatorAlive bool
	Population    int
	Counts        map[string]int
	Speed         int
	FPS           int32
	Paused        bool
	Finished      bool
	ScreenWidth   int32
	ScreenHeight  int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD(r *Renderer) *HUD {
	return &HUD{renderer: r}
}

// StatusLine formats the headline shown at the top left.
func StatusLine(day int, reserve float64) string {
	return fmt.Sprintf("Day: %s | Reserve: %s", humanize.Comma(int64(day)), humanize.FormatFloat("#,###.#", reserve))
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	rl.DrawText(StatusLine(data.Day, data.Reserve), 20, 20, 24, rl.Black)

	status := fmt.Sprintf("Prey: %d | Speed: %dx | FPS: %d", data.Population, data.Speed, data.FPS)
	rl.DrawText(status, 20, 50, 16, rl.DarkGray)

	switch {
	case data.Finished:
		rl.DrawText("FINISHED", 20, 70, 16, rl.Maroon)
	case data.Paused:
		rl.DrawText("PAUSED", 20, 70, 16, rl.Maroon)
	}
	if !data.PredatorAlive {
		rl.DrawText("Predator down", 20, 90, 16, r.Theme.PredatorDown)
	}

	// Census and reserve panel, top right
	const width = 220
	x := data.ScreenWidth - width - 10
	y := int32(10)
	p := r.Theme.Padding
	r.DrawPanel(x, y, width, 6*r.Theme.LineHeight+2*p)
	cy := r.DrawSectionHeader(x+p, y+p, "Pasture")
	for _, sp := range organism.AllSpecies() {
		cy = r.DrawLabelValue(x+p, cy, sp.String(), fmt.Sprintf("%d", data.Counts[sp.String()]))
	}
	cy = r.DrawLevelBar(x+p, cy, "Reserve", float32(data.Reserve), float32(data.OptReserve), width-2*p)
	r.DrawLabelValue(x+p, cy, "Min", humanize.FormatFloat("#,###.#", data.MinReserve))
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("Space: pause | ,/.: slower/faster", 20, screenHeight-25, 14, rl.Gray)
}
