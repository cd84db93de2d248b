package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/layout"
)

// ControlsPanel renders the raygui pause button and speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(r *Renderer, x, y, width float32) *ControlsPanel {
	return &ControlsPanel{renderer: r, x: x, y: y, width: width}
}

// Draw renders the controls and returns the updated paused flag and speed.
func (c *ControlsPanel) Draw(paused bool, speed int) (bool, int) {
	label := "Pause"
	if paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: c.x, Y: c.y, Width: 100, Height: 28}, label) {
		paused = !paused
	}

	sliderWidth := c.width - 180
	if sliderWidth < 60 {
		sliderWidth = 60
	}
	v := gui.SliderBar(
		rl.Rectangle{X: c.x + 180, Y: c.y + 4, Width: sliderWidth, Height: 20},
		"Days/frame", fmt.Sprintf("%d", speed),
		float32(speed), layout.MinSpeed, layout.MaxSpeed,
	)
	return paused, layout.ClampSpeed(int(v + 0.5))
}
