// Package chartdata turns arbitrary JSON into render-ready widget data.
//
// Normalize and Synthesize compose into a total function: every input yields
// data that satisfies dashboard.ChartData.ValidFor for bar, line and number.
package chartdata

import (
	"strconv"

	"github.com/yungbote/dashgen-backend/internal/domain/dashboard"
	"github.com/yungbote/dashgen-backend/internal/pkg/jsonvalue"
)

const (
	labelDataPoints = "Data Points"
	labelTotalItems = "Total Items"
)

// Normalize maps raw into the canonical shape for declared. Object member
// order as received decides which numeric field wins.
func Normalize(raw jsonvalue.Value, declared dashboard.ChartType) dashboard.ChartData {
	d, _ := Interpret(raw, declared)
	return d
}

// Interpret is Normalize that also reports whether raw was usable. When ok is
// false the returned data came from Synthesize.
func Interpret(raw jsonvalue.Value, declared dashboard.ChartType) (data dashboard.ChartData, ok bool) {
	switch raw.Kind() {
	case jsonvalue.Object:
		data, ok = fromObject(raw, declared)
	case jsonvalue.Array:
		data, ok = fromArray(raw, declared)
	case jsonvalue.Invalid, jsonvalue.Null, jsonvalue.Bool, jsonvalue.Number, jsonvalue.String:
	}
	if !ok {
		return Synthesize(declared), false
	}
	return data, true
}

func fromObject(raw jsonvalue.Value, declared dashboard.ChartType) (dashboard.ChartData, bool) {
	switch declared {
	case dashboard.ChartNumber:
		for _, m := range raw.Members() {
			if m.Value.IsNumber() {
				return dashboard.ScalarData(m.Value.Float(), m.Key), true
			}
		}
		return dashboard.ScalarData(float64(raw.Len()), labelDataPoints), true
	case dashboard.ChartBar, dashboard.ChartLine:
		points := make([]dashboard.ChartPoint, 0, dashboard.MaxPoints)
		for _, m := range raw.Members() {
			if len(points) == dashboard.MaxPoints {
				break
			}
			switch m.Value.Kind() {
			case jsonvalue.Number:
				points = append(points, dashboard.ChartPoint{Name: Truncate(m.Key), Value: m.Value.Float()})
			case jsonvalue.Array:
				points = append(points, dashboard.ChartPoint{Name: Truncate(m.Key), Value: float64(m.Value.Len())})
			}
		}
		if len(points) == 0 {
			return dashboard.ChartData{}, false
		}
		return dashboard.SeriesData(points...), true
	default:
		return dashboard.ChartData{}, false
	}
}

func fromArray(raw jsonvalue.Value, declared dashboard.ChartType) (dashboard.ChartData, bool) {
	items := raw.Items()
	if len(items) == 0 {
		return dashboard.ChartData{}, false
	}
	switch declared {
	case dashboard.ChartNumber:
		return dashboard.ScalarData(float64(len(items)), labelTotalItems), true
	case dashboard.ChartBar, dashboard.ChartLine:
		n := min(len(items), dashboard.MaxPoints)
		points := make([]dashboard.ChartPoint, 0, n)
		for i, item := range items[:n] {
			value := float64(i + 1)
			if f, ok := firstNumber(item); ok {
				value = f
			}
			points = append(points, dashboard.ChartPoint{Name: "Item " + strconv.Itoa(i+1), Value: value})
		}
		return dashboard.SeriesData(points...), true
	default:
		return dashboard.ChartData{}, false
	}
}

// firstNumber returns the first numeric member of an object.
func firstNumber(v jsonvalue.Value) (float64, bool) {
	for _, m := range v.Members() {
		if m.Value.IsNumber() {
			return m.Value.Float(), true
		}
	}
	return 0, false
}

// Truncate keeps the first dashboard.MaxNameRunes runes of name.
func Truncate(name string) string {
	n := 0
	for i := range name {
		if n == dashboard.MaxNameRunes {
			return name[:i]
		}
		n++
	}
	return name
}
