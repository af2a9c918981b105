// Package ui provides the raylib control panel, overlay toggles and HUD for
// the graphical front end.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds the palette and metrics shared by every panel, plus the
// primitives they are drawn with.
type Theme struct {
	Background rl.Color
	Border     rl.Color
	Accent     rl.Color // section titles
	Text       rl.Color
	Dim        rl.Color // hotkeys, inactive entries
	Track      rl.Color // meter background
	Fill       rl.Color

	Padding    int32
	Line       int32 // row height
	LabelWidth int32
	Font       int32
	TitleFont  int32
}

// DefaultTheme returns the dark theme used by the simulation window.
func DefaultTheme() Theme {
	return Theme{
		Background: rl.Color{R: 18, G: 22, B: 28, A: 235},
		Border:     rl.Color{R: 58, G: 68, B: 82, A: 255},
		Accent:     rl.Color{R: 120, G: 200, B: 255, A: 255},
		Text:       rl.Color{R: 210, G: 214, B: 220, A: 255},
		Dim:        rl.Color{R: 140, G: 146, B: 156, A: 255},
		Track:      rl.Color{R: 40, G: 44, B: 52, A: 255},
		Fill:       rl.Color{R: 90, G: 190, B: 120, A: 255},
		Padding:    10,
		Line:       16,
		LabelWidth: 90,
		Font:       12,
		TitleFont:  14,
	}
}

// Panel fills and outlines a panel.
func (t *Theme) Panel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, t.Background)
	rl.DrawRectangleLines(x, y, width, height, t.Border)
}

// Title draws a section title and returns the y of the next row.
func (t *Theme) Title(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, t.TitleFont, t.Accent)
	return y + t.Line
}

// Row draws "label: value" and returns the y of the next row.
func (t *Theme) Row(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, t.Font, t.Dim)
	rl.DrawText(value, x+t.LabelWidth, y, t.Font, t.Text)
	return y + t.Line
}

// Meter draws a labelled bar for a fraction in [0, 1] followed by its
// percentage, and returns the y of the next row.
func (t *Theme) Meter(x, y int32, label string, frac float32, width int32) int32 {
	frac = max(0, min(frac, 1))
	barX := x + t.LabelWidth
	barW := width - t.LabelWidth - 40
	barH := t.Line - 4

	rl.DrawText(label+":", x, y, t.Font, t.Dim)
	rl.DrawRectangle(barX, y+2, barW, barH, t.Track)
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*frac), barH, t.Fill)
	rl.DrawText(fmt.Sprintf("%.0f%%", frac*100), barX+barW+5, y, t.Font, t.Text)
	return y + t.Line + 2
}
