package dashboard

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/dashgen-backend/internal/pkg/jsonvalue"
)

type ChartType string

const (
	ChartBar    ChartType = "bar"
	ChartLine   ChartType = "line"
	ChartNumber ChartType = "number"
)

// ParseChartType lowercases and trims s. Unknown names are returned as-is with ok=false.
func ParseChartType(s string) (ChartType, bool) {
	t := ChartType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (t ChartType) Valid() bool {
	switch t {
	case ChartBar, ChartLine, ChartNumber:
		return true
	default:
		return false
	}
}

func (t ChartType) IsSeries() bool { return t == ChartBar || t == ChartLine }

// Provenance labels for widgets that do not carry a source URL.
const (
	SourceAIResearch  = "AI Research"
	SourceCSVAnalysis = "CSV Data Analysis"
	SourceFallback    = "Fallback"
)

// Dashboard-level data_source labels.
const (
	DataSourceAPI      = "External APIs"
	DataSourceResearch = "AI Research"
	DataSourceCSV      = "CSV Data Analysis"
)

var Categories = []string{
	"sports", "sales", "course", "business", "entertainment", "technology",
	"science", "finance", "health", "education", "other", "n/a",
}

// IsKnownCategory reports whether c is one of Categories. Unknown categories are still accepted.
func IsKnownCategory(c string) bool {
	c = strings.ToLower(strings.TrimSpace(c))
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type NumberDatum struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// ChartData is either a series (bar, line) or a scalar (number).
type ChartData struct {
	Series []ChartPoint
	Scalar *NumberDatum
}

func SeriesData(points ...ChartPoint) ChartData {
	if points == nil {
		points = []ChartPoint{}
	}
	return ChartData{Series: points}
}

func ScalarData(value float64, label string) ChartData {
	return ChartData{Scalar: &NumberDatum{Value: value, Label: label}}
}

func (d ChartData) IsScalar() bool { return d.Scalar != nil }

// ValidFor reports whether d satisfies the shape invariant of t:
// 1..MaxPoints points for bar/line, exactly one scalar for number.
func (d ChartData) ValidFor(t ChartType) bool {
	switch t {
	case ChartNumber:
		return d.Scalar != nil && d.Series == nil
	case ChartBar, ChartLine:
		return d.Scalar == nil && len(d.Series) >= 1 && len(d.Series) <= MaxPoints
	default:
		return false
	}
}

func (d ChartData) MarshalJSON() ([]byte, error) {
	if d.Scalar != nil {
		return json.Marshal(d.Scalar)
	}
	if d.Series == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.Series)
}

func (d *ChartData) UnmarshalJSON(b []byte) error {
	v, err := jsonvalue.Parse(b)
	if err != nil {
		return err
	}
	switch v.Kind() {
	case jsonvalue.Object:
		var n NumberDatum
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*d = ChartData{Scalar: &n}
	case jsonvalue.Array:
		var pts []ChartPoint
		if err := json.Unmarshal(b, &pts); err != nil {
			return err
		}
		*d = SeriesData(pts...)
	default:
		return fmt.Errorf("chart data must be an object or array, got %s", v.Kind())
	}
	return nil
}

// MaxPoints bounds every bar/line series.
const MaxPoints = 6

// MaxNameRunes bounds point names derived from object keys.
const MaxNameRunes = 10

// WidgetDeclaration is one widget as declared by the model, before resolution.
type WidgetDeclaration struct {
	Name string
	Type ChartType
	// Source is a JSON endpoint to fetch when Data is unusable.
	Source string
	// SourceURL is a citation; it is reported, never fetched.
	SourceURL string
	Data      jsonvalue.Value
}

// ResolvedWidget is immutable once built.
type ResolvedWidget struct {
	Name   string    `json:"name"`
	Type   ChartType `json:"type"`
	Source string    `json:"source"`
	Data   ChartData `json:"data"`
	// SourceURL is the citation the model gave for declared data.
	SourceURL string `json:"source_url,omitempty"`
	// Fallback marks synthesized placeholder data.
	Fallback bool `json:"fallback"`
}

// Spec is a parsed dashboard specification.
type Spec struct {
	Name     string
	Category string
	Widgets  []WidgetDeclaration
}

type Dashboard struct {
	ID          string           `json:"id"`
	Name        string           `json:"dash_name"`
	Category    string           `json:"category"`
	Widgets     []ResolvedWidget `json:"widgets"`
	GeneratedAt float64          `json:"generated_at"`
	DataSource  string           `json:"data_source"`
	ModelUsed   string           `json:"model_used"`
}

// FallbackCount is the number of widgets carrying synthesized data.
func (d Dashboard) FallbackCount() int {
	n := 0
	for _, w := range d.Widgets {
		if w.Fallback {
			n++
		}
	}
	return n
}

// Widget is the single-widget generation result.
type Widget struct {
	ResolvedWidget
	GeneratedAt float64 `json:"generated_at"`
	DataSource  string  `json:"data_source"`
	ModelUsed   string  `json:"model_used"`
}
