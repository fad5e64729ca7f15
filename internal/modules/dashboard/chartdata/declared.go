package chartdata

import (
	"strconv"
	"strings"

	"github.com/yungbote/dashgen-backend/internal/domain/dashboard"
	"github.com/yungbote/dashgen-backend/internal/pkg/jsonvalue"
)

// FromDeclared accepts data the model embedded in a widget when it already has
// the expected shape: {"value": n, "label": s} for number, and a non-empty list
// of {"name": s, "value": n} for bar and line. Any malformed entry rejects the
// whole payload. Series longer than dashboard.MaxPoints are cut; declared
// names are kept whole.
func FromDeclared(v jsonvalue.Value, t dashboard.ChartType) (dashboard.ChartData, bool) {
	switch t {
	case dashboard.ChartNumber:
		if !v.IsObject() {
			return dashboard.ChartData{}, false
		}
		val, ok := v.Get("value")
		if !ok || !val.IsNumber() {
			return dashboard.ChartData{}, false
		}
		label, _ := v.GetString("label")
		return dashboard.ScalarData(val.Float(), strings.TrimSpace(label)), true
	case dashboard.ChartBar, dashboard.ChartLine:
		if !v.IsArray() || v.Len() == 0 {
			return dashboard.ChartData{}, false
		}
		points := make([]dashboard.ChartPoint, 0, min(v.Len(), dashboard.MaxPoints))
		for _, item := range v.Items() {
			p, ok := declaredPoint(item)
			if !ok {
				return dashboard.ChartData{}, false
			}
			if len(points) < dashboard.MaxPoints {
				points = append(points, p)
			}
		}
		return dashboard.SeriesData(points...), true
	default:
		return dashboard.ChartData{}, false
	}
}

func declaredPoint(item jsonvalue.Value) (dashboard.ChartPoint, bool) {
	if !item.IsObject() {
		return dashboard.ChartPoint{}, false
	}
	val, ok := item.Get("value")
	if !ok || !val.IsNumber() {
		return dashboard.ChartPoint{}, false
	}
	nameVal, ok := item.Get("name")
	if !ok {
		return dashboard.ChartPoint{}, false
	}
	var name string
	switch nameVal.Kind() {
	case jsonvalue.String:
		name = strings.TrimSpace(nameVal.Str())
	case jsonvalue.Number:
		// Years and seasons often arrive as bare numbers.
		name = strconv.FormatFloat(nameVal.Float(), 'f', -1, 64)
	default:
		return dashboard.ChartPoint{}, false
	}
	if name == "" {
		return dashboard.ChartPoint{}, false
	}
	return dashboard.ChartPoint{Name: name, Value: val.Float()}, true
}
