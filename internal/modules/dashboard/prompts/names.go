package prompts

type PromptName string

const (
	// Widgets declare a source URL; data is fetched afterwards.
	PromptDashboardAPI PromptName = "dashboard_api"
	// Widgets carry researched data inline.
	PromptDashboardResearch PromptName = "dashboard_research"
	PromptDashboardCSV      PromptName = "dashboard_csv"
	PromptSingleWidget      PromptName = "single_widget"
)
