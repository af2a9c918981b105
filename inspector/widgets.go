package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorTrack  = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorHigh   = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorLow    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText   = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorDim    = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorDial   = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
)

// Row heights per widget.
const (
	labelHeight = 20
	rowHeight   = 18
	dialSize    = 40
	vecHeight   = dialSize + 4
	valueX      = 80 // offset of the value column
	smallFont   = 14
)

// DrawLabel renders "name: value" and returns its height.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	rl.DrawText(fmt.Sprintf("%s: %s", name, FormatValue(value, options["fmt"])), x, y, 16, ColorText)
	return labelHeight
}

// DrawBar renders value against the "max" option as a bar. Values under 30%
// of max draw in the low colour.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	const w, h = 120, 14
	frac := max(0, min(value/MaxOption(options), 1))
	fill := ColorHigh
	if frac < 0.3 {
		fill = ColorLow
	}

	barX := x + valueX
	rl.DrawText(name, x, y, smallFont, ColorDim)
	rl.DrawRectangle(barX, y, w, h, ColorTrack)
	rl.DrawRectangle(barX, y, int32(w*frac), h, fill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+w+5, y, smallFont, ColorDim)
	return rowHeight
}

// DrawVec renders a dial with a needle along (vx, vy) and the components as
// text. A zero vector draws no needle.
func DrawVec(x, y int32, name string, vx, vy float32) int32 {
	const r = dialSize / 2
	cx, cy := x+valueX+r, y+r
	textY := y + r - 7

	rl.DrawText(name, x, textY, smallFont, ColorDim)
	rl.DrawCircle(cx, cy, r, ColorDial)
	rl.DrawCircleLines(cx, cy, r, ColorDim)

	if l := rl.Vector2Length(rl.Vector2{X: vx, Y: vy}); l > 1e-6 {
		center := rl.Vector2{X: float32(cx), Y: float32(cy)}
		tip := rl.Vector2{X: center.X + vx/l*(r-4), Y: center.Y + vy/l*(r-4)}
		rl.DrawLineEx(center, tip, 2, ColorNeedle)
	}

	rl.DrawText(fmt.Sprintf("(%.2f, %.2f)", vx, vy), x+valueX+dialSize+5, textY, smallFont, ColorDim)
	return vecHeight
}

// DrawBool renders a coloured ON/OFF marker.
func DrawBool(x, y int32, name string, value bool) int32 {
	const size = 14
	color, text := ColorTrack, "OFF"
	if value {
		color, text = ColorHigh, "ON"
	}
	rl.DrawText(name, x, y, smallFont, ColorDim)
	rl.DrawRectangle(x+valueX, y, size, size, color)
	rl.DrawText(text, x+valueX+size+5, y, smallFont, color)
	return rowHeight
}

// resolve returns the widget a field is actually drawn with: fields whose
// value does not suit their widget fall back to a label.
func resolve(field Field) Widget {
	switch field.Widget {
	case WidgetBar:
		if _, ok := FloatValue(field.Value); ok {
			return WidgetBar
		}
	case WidgetVec:
		if _, ok := field.Value.([2]float32); ok {
			return WidgetVec
		}
	case WidgetBool:
		if _, ok := field.Value.(bool); ok {
			return WidgetBool
		}
	}
	return WidgetLabel
}

// DrawField renders field with its widget and returns the height used.
func DrawField(x, y int32, field Field) int32 {
	switch resolve(field) {
	case WidgetBar:
		v, _ := FloatValue(field.Value)
		return DrawBar(x, y, field.Name, v, field.Options)
	case WidgetVec:
		v := field.Value.([2]float32)
		return DrawVec(x, y, field.Name, v[0], v[1])
	case WidgetBool:
		return DrawBool(x, y, field.Name, field.Value.(bool))
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// fieldHeight returns the height DrawField will use for field.
func fieldHeight(field Field) int32 {
	switch resolve(field) {
	case WidgetVec:
		return vecHeight
	case WidgetBar, WidgetBool:
		return rowHeight
	}
	return labelHeight
}
