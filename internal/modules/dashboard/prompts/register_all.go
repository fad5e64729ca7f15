package prompts

// RegisterAll registers every dashboard prompt. Build calls it once lazily.
func RegisterAll() {
	RegisterSpec(Spec{
		Name:        PromptDashboardAPI,
		Version:     1,
		Temperature: 0.3,
		MaxTokens:   1000,
		JSON:        true,
		System:      `You are a helpful assistant that responds only in valid JSON format.`,
		User: `
Respond ONLY with valid JSON on a single line, without newlines or formatting.
Analyze the user's prompt and produce a dashboard specification with this structure:

{"dash_name": "A descriptive name for the dashboard", "category": "sports" | "sales" | "course" | "n/a", "widgets": [{"name": "Widget name describing what it shows", "type": "bar" | "line" | "number", "source": "Exact API endpoint URL where this data can be retrieved"}]}

Guidelines:
- Choose 2-4 widgets relevant to the request.
- Give exact, well-known API endpoint URLs that return JSON.
- Make widget names descriptive and specific to the prompt.
- Use "bar" for comparisons, "line" for trends over time, "number" for single metrics.
- Return compact JSON only.

User prompt: {{.Prompt}}`,
		Validators: []Validator{
			RequireNonEmpty("Prompt", func(in Input) string { return in.Prompt }),
		},
	})

	RegisterSpec(Spec{
		Name:        PromptDashboardResearch,
		Version:     1,
		Temperature: 0.2,
		MaxTokens:   2000,
		System:      `You are a data research assistant that provides factual, current information in structured JSON format.`,
		User: `
You are a data analyst that researches a topic and builds a dashboard from real figures.
Respond ONLY with valid JSON on a single line, without newlines or formatting.

Return an object with this structure:

{"dash_name": "Descriptive dashboard name", "category": {{.Categories}}, "widgets": [{"name": "Widget title", "type": "bar" | "line" | "number", "data": DATA, "source_url": "URL where this specific data was found"}]}

DATA by widget type:
- "bar": [{"name": "Category", "value": number}, ...]
- "line": [{"name": "Period", "value": number}, ...]
- "number": {"value": number, "label": "Description"}

Guidelines:
- Use current, factual statistics; every value must be a JSON number, not a string.
- Create 3-4 widgets that best represent the topic, with at most 6 points per chart.
- Use "bar" for comparisons and rankings, "line" for trends over time, "number" for one key metric.
- Keep point names short.
- Cite a credible source_url for each widget.
- For people: career stats, achievements, timelines. For companies: revenue, market share, growth.
- Return compact JSON only.

User topic: {{.Prompt}}`,
		Validators: []Validator{
			RequireNonEmpty("Prompt", func(in Input) string { return in.Prompt }),
		},
	})

	RegisterSpec(Spec{
		Name:        PromptDashboardCSV,
		Version:     1,
		Temperature: 0.2,
		MaxTokens:   2000,
		System:      `You are a data analyst that turns CSV data into dashboards in structured JSON format.`,
		User: `
Respond ONLY with valid JSON on a single line, without newlines or formatting.

CSV data to analyze:
` + "```" + `
{{.CSVPreview}}
` + "```" + `

Return an object with this structure:

{"dash_name": "Descriptive dashboard name", "category": {{.Categories}}, "widgets": [{"name": "Widget title", "type": "bar" | "line" | "number", "data": DATA, "source_url": "Data from CSV analysis"}]}

DATA by widget type:
- "bar": [{"name": "Category", "value": number}, ...]
- "line": [{"name": "Period", "value": number}, ...]
- "number": {"value": number, "label": "Description"}

Guidelines:
- Work out the structure of the CSV before choosing widgets.
- Create 3-4 widgets; every value must come from the CSV and be a JSON number.
- Use "bar" for distributions and rankings, "line" for time-based columns, "number" for totals, averages or counts.
- At most 6 points per chart; keep point names short.
- Return compact JSON only.

Analysis request: {{.Prompt}}`,
		Validators: []Validator{
			RequireNonEmpty("Prompt", func(in Input) string { return in.Prompt }),
			RequireNonEmpty("CSVPreview", func(in Input) string { return in.CSVPreview }),
		},
	})

	RegisterSpec(Spec{
		Name:        PromptSingleWidget,
		Version:     1,
		Temperature: 0.2,
		MaxTokens:   1500,
		System:      `You are a data research assistant that creates single dashboard widgets with factual, current information in structured JSON format.`,
		User: `
Respond ONLY with valid JSON on a single line, without newlines or formatting.
{{if .DashboardContext}}
Dashboard context: {{.DashboardContext}}
{{end}}{{if .CSVPreview}}
CSV data available:
` + "```" + `
{{.CSVPreview}}
` + "```" + `
{{end}}
Create one widget and return an object with this structure:

{"name": "Widget title", "type": {{if .WidgetType}}"{{.WidgetType}}"{{else}}"bar" | "line" | "number"{{end}}, "data": DATA, "source_url": "URL or data source"}

DATA by widget type:
- "bar": [{"name": "Category", "value": number}, ...]
- "line": [{"name": "Period", "value": number}, ...]
- "number": {"value": number, "label": "Description"}

Guidelines:
- Use accurate, current data; every value must be a JSON number.
- If CSV data is provided, use it. Take the dashboard context into account.
- At most 6 points per chart; keep point names short.
- Include a credible source.
- Return compact JSON only.

User request: {{.Prompt}}`,
		Validators: []Validator{
			RequireNonEmpty("Prompt", func(in Input) string { return in.Prompt }),
			RequireOneOf("WidgetType", []string{"bar", "line", "number"}, func(in Input) string { return in.WidgetType }),
		},
	})
}
