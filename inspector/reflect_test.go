package inspector

import (
	"testing"

	"github.com/MauroVanHoutte/FlowField/components"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar,max:20", WidgetBar, map[string]string{"max": "20"}},
		{"label, fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"vec", WidgetVec, map[string]string{}},
		{"skip", WidgetSkip, map[string]string{}},
		{"sparkline", WidgetAuto, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			widget, options := ParseTag(tt.tag)
			if widget != tt.widget {
				t.Errorf("widget = %v, want %v", widget, tt.widget)
			}
			if len(options) != len(tt.options) {
				t.Fatalf("options = %v, want %v", options, tt.options)
			}
			for k, v := range tt.options {
				if options[k] != v {
					t.Errorf("options[%q] = %q, want %q", k, options[k], v)
				}
			}
		})
	}
}

func TestFieldsAgent(t *testing.T) {
	agent := components.Agent{ID: 3, MaxSpeed: 10, Node: 7, Arrived: true}
	fields := Fields(&agent)

	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	if f := byName["MaxSpeed"]; f.Widget != WidgetBar || MaxOption(f.Options) != 20 {
		t.Errorf("MaxSpeed = %+v, want bar with max 20", f)
	}
	if f := byName["Arrived"]; f.Widget != WidgetBool || f.Value != true {
		t.Errorf("Arrived = %+v, want bool true", f)
	}
	if f := byName["Node"]; f.Value != int32(7) {
		t.Errorf("Node = %v, want 7", f.Value)
	}
}

func TestFieldsPairsVec(t *testing.T) {
	fields := Fields(components.Heading{X: 0.6, Y: -0.8})
	if len(fields) != 1 {
		t.Fatalf("len(fields) = %d, want 1", len(fields))
	}
	f := fields[0]
	if f.Name != "XY" || f.Widget != WidgetVec {
		t.Errorf("field = %+v, want XY vec", f)
	}
	if v := f.Value.([2]float32); v != [2]float32{0.6, -0.8} {
		t.Errorf("value = %v, want [0.6 -0.8]", v)
	}
}

func TestFieldsNonStruct(t *testing.T) {
	if got := Fields(42); got != nil {
		t.Errorf("Fields(42) = %v, want nil", got)
	}
}

func TestFloatValue(t *testing.T) {
	tests := []struct {
		in   any
		want float32
		ok   bool
	}{
		{float32(1.5), 1.5, true},
		{2.25, 2.25, true},
		{int32(-4), -4, true},
		{uint8(9), 9, true},
		{"x", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := FloatValue(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FloatValue(%v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveFallsBackToLabel(t *testing.T) {
	f := Field{Name: "Name", Value: "abc", Widget: WidgetBar}
	if got := resolve(f); got != WidgetLabel {
		t.Errorf("resolve() = %v, want label", got)
	}
	if got := fieldHeight(f); got != labelHeight {
		t.Errorf("fieldHeight() = %d, want %d", got, labelHeight)
	}
}
