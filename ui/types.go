// Package ui draws the pasture in a raylib window.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	Background    rl.Color
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFillLow    rl.Color
	BarFillMedium rl.Color
	BarFillHigh   rl.Color

	Male    rl.Color
	Female  rl.Color
	Unknown rl.Color
	Sick    rl.Color

	PredatorAlive rl.Color
	PredatorDown  rl.Color

	// Chart line per species, indexed by organism.Species
	Series [3]rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	PreySize       float32
	PredatorRadius float32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:    rl.LightGray,
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.RayWhite,
		BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFillLow:    rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium: rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:   rl.Color{R: 100, G: 200, B: 100, A: 255},

		Male:    rl.Green,
		Female:  rl.Pink,
		Unknown: rl.White,
		Sick:    rl.Color{R: 120, G: 60, B: 20, A: 255},

		PredatorAlive: rl.Red,
		PredatorDown:  rl.DarkGray,

		Series: [3]rl.Color{
			{R: 140, G: 90, B: 40, A: 255},
			{R: 230, G: 230, B: 230, A: 255},
			{R: 120, G: 180, B: 255, A: 255},
		},

		Padding:        10,
		LineHeight:     18,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       14,
		HeaderFontSize: 16,
		PreySize:       20,
		PredatorRadius: 25,
	}
}
