package chartdata

import "github.com/yungbote/dashgen-backend/internal/domain/dashboard"

// Synthesize returns the fixed placeholder data for t. Unknown types get an
// empty series. Callers get a fresh slice each time.
func Synthesize(t dashboard.ChartType) dashboard.ChartData {
	switch t {
	case dashboard.ChartBar:
		return dashboard.SeriesData(
			dashboard.ChartPoint{Name: "Category A", Value: 65},
			dashboard.ChartPoint{Name: "Category B", Value: 78},
			dashboard.ChartPoint{Name: "Category C", Value: 52},
			dashboard.ChartPoint{Name: "Category D", Value: 84},
		)
	case dashboard.ChartLine:
		return dashboard.SeriesData(
			dashboard.ChartPoint{Name: "Jan", Value: 45},
			dashboard.ChartPoint{Name: "Feb", Value: 55},
			dashboard.ChartPoint{Name: "Mar", Value: 72},
			dashboard.ChartPoint{Name: "Apr", Value: 68},
			dashboard.ChartPoint{Name: "May", Value: 85},
			dashboard.ChartPoint{Name: "Jun", Value: 92},
		)
	case dashboard.ChartNumber:
		return dashboard.ScalarData(73, "Current Metric")
	default:
		return dashboard.SeriesData()
	}
}
