package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	Prompt string
	// CSVPreview is already cut to the caller's preview limit.
	CSVPreview       string
	DashboardContext string
	// WidgetType is "bar", "line", "number" or empty for auto.
	WidgetType string
	Categories string
}
