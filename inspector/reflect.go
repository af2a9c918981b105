package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetVec
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"vec":   WidgetVec,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Field is one exported component field with its drawing hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// ParseTag splits an `inspect:"widget[,key:value...]"` tag, for example
// `inspect:"bar,max:20"` or `inspect:"label,fmt:%.1f"`. Unknown widget names
// fall back to WidgetAuto.
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	name, rest, _ := strings.Cut(tag, ",")
	widget := widgetNames[strings.TrimSpace(name)]

	for _, opt := range strings.Split(rest, ",") {
		if k, v, ok := strings.Cut(strings.TrimSpace(opt), ":"); ok {
			options[k] = v
		}
	}
	return widget, options
}

// Fields lists the inspectable fields of a struct or struct pointer. Two
// consecutive numeric fields tagged "vec" with the same tag are merged into
// one [2]float32 field named after both.
func Fields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("inspect")
		widget, options := ParseTag(tag)

		switch widget {
		case WidgetSkip:
			continue
		case WidgetVec:
			if i+1 < t.NumField() && t.Field(i+1).Tag.Get("inspect") == tag {
				x, okX := FloatValue(v.Field(i).Interface())
				y, okY := FloatValue(v.Field(i + 1).Interface())
				if okX && okY {
					fields = append(fields, Field{
						Name:    sf.Name + t.Field(i+1).Name,
						Value:   [2]float32{x, y},
						Widget:  WidgetVec,
						Options: options,
					})
					i++
					continue
				}
			}
			widget = WidgetLabel
		case WidgetAuto:
			widget = WidgetLabel
			if v.Field(i).Kind() == reflect.Bool {
				widget = WidgetBool
			}
		}

		fields = append(fields, Field{
			Name:    sf.Name,
			Value:   v.Field(i).Interface(),
			Widget:  widget,
			Options: options,
		})
	}
	return fields
}

// FormatValue formats value with fmtStr, or with two decimals for floats
// and %v otherwise when fmtStr is empty.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprint(value)
}

// MaxOption returns the "max" option, 1 when absent or malformed.
func MaxOption(options map[string]string) float32 {
	if s, ok := options["max"]; ok {
		if m, err := strconv.ParseFloat(s, 32); err == nil && m > 0 {
			return float32(m)
		}
	}
	return 1
}

// FloatValue converts any numeric value to float32.
func FloatValue(value any) (float32, bool) {
	v := reflect.ValueOf(value)
	switch {
	case !v.IsValid():
		return 0, false
	case v.CanFloat():
		return float32(v.Float()), true
	case v.CanInt():
		return float32(v.Int()), true
	case v.CanUint():
		return float32(v.Uint()), true
	}
	return 0, false
}
