package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/game"
	"github.com/pthm-cable/pasture/layout"
)

const (
	chartHeight = 160
	fieldMargin = 50
)

// Viewer drives a Simulation from the raylib frame loop.
type Viewer struct {
	sim      *game.Simulation
	cfg      *config.Config
	renderer *Renderer
	hud      *HUD
	chart    *PopulationChart
	controls *ControlsPanel
	field    *layout.Field

	width, height int32
	limit         int
	speed         int
	paused        bool
}

// NewViewer lays out the window for sim. The run stops after
// cfg.Simulation.Days days, or never when that is 0.
func NewViewer(sim *game.Simulation, cfg *config.Config) *Viewer {
	w, h := float32(cfg.Screen.Width), float32(cfg.Screen.Height)
	r := NewRenderer()

	fieldArea := layout.Rect{X: 0, Y: 110, W: w, H: h - 110 - chartHeight - 50}
	chartArea := layout.Rect{X: 10, Y: h - chartHeight - 40, W: w - 20, H: chartHeight}

	return &Viewer{
		sim:      sim,
		cfg:      cfg,
		renderer: r,
		hud:      NewHUD(r),
		chart:    NewPopulationChart(r, chartArea),
		controls: NewControlsPanel(r, 420, 20, w-420-240),
		field:    layout.NewField(fieldArea, cfg.Screen.Slots, fieldMargin, sim.Seed()),
		width:    int32(cfg.Screen.Width),
		height:   int32(cfg.Screen.Height),
		limit:    cfg.Simulation.Days,
		speed:    layout.ClampSpeed(cfg.Screen.DaysPerFrame),
	}
}

// Paused reports whether the simulation is paused.
func (v *Viewer) Paused() bool { return v.paused }

// Finished reports whether the day limit has been reached.
func (v *Viewer) Finished() bool {
	return v.limit > 0 && v.sim.Day() >= v.limit
}

// Update handles keyboard input and advances the simulation.
func (v *Viewer) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		v.speed = layout.StepSpeed(v.speed, -1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.speed = layout.StepSpeed(v.speed, 1)
	}

	n := layout.DaysThisFrame(v.speed, v.sim.Day(), v.limit, v.paused)
	for i := 0; i < n; i++ {
		v.sim.AdvanceOneDay()
	}
}

// Draw renders one frame. Call between rl.BeginDrawing and rl.EndDrawing.
func (v *Viewer) Draw() {
	t := v.renderer.Theme
	rl.ClearBackground(t.Background)

	v.drawPrey()
	v.drawPredator()

	census := v.sim.Census()
	v.hud.Draw(HUDData{
		Day:           v.sim.Day(),
		Reserve:       v.sim.PredatorReserve(),
		MinReserve:    v.cfg.Predator.MinReserve,
		OptReserve:    v.cfg.Predator.OptReserve,
		PredatorAlive: v.sim.PredatorAlive(),
		Population:    len(v.sim.Population()),
		Counts:        census,
		Speed:         v.speed,
		FPS:           rl.GetFPS(),
		Paused:        v.paused,
		Finished:      v.Finished(),
		ScreenWidth:   v.width,
		ScreenHeight:  v.height,
	})
	v.chart.Draw(v.sim.History())
	v.paused, v.speed = v.controls.Draw(v.paused, v.speed)
	v.hud.DrawControls(v.height)

	if v.Finished() {
		rl.DrawText("Simulation finished", v.width/2-180, v.height/2-100, 40, rl.Red)
	}
}

func (v *Viewer) drawPrey() {
	t := v.renderer.Theme
	for i, o := range v.sim.Population() {
		color := t.Unknown
		if o.HasSex {
			color = t.Female
			if o.Male {
				color = t.Male
			}
		}
		p := v.field.Slot(i)
		rl.DrawRectangleV(rl.Vector2{X: p.X, Y: p.Y}, rl.Vector2{X: t.PreySize, Y: t.PreySize}, color)
		if o.Sick {
			rl.DrawRectangleLines(int32(p.X), int32(p.Y), int32(t.PreySize), int32(t.PreySize), t.Sick)
		}
	}
}

func (v *Viewer) drawPredator() {
	t := v.renderer.Theme
	color := t.PredatorAlive
	if !v.sim.PredatorAlive() {
		color = t.PredatorDown
	}
	c := v.field.Center()
	rl.DrawCircleV(rl.Vector2{X: c.X, Y: c.Y}, t.PredatorRadius, color)
}
