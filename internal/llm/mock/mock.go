// Package mock is an offline llm.Engine for development and tests.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/dashgen-backend/internal/llm"
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// GenerateText returns a canned reply chosen by opts.Purpose. Unknown
// purposes echo the last user message.
func (e *Engine) GenerateText(ctx context.Context, model string, messages []llm.Message, opts llm.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	topic := lastUser(messages)

	var out any
	switch opts.Purpose {
	case "dashboard_api", "chat":
		out = map[string]any{
			"dash_name": "Mock dashboard",
			"category":  "n/a",
			"widgets": []map[string]any{
				{"name": "Mock comparison", "type": "bar", "source": ""},
				{"name": "Mock trend", "type": "line", "source": ""},
				{"name": "Mock total", "type": "number", "source": ""},
			},
		}
	case "dashboard_research", "dashboard_csv":
		out = map[string]any{
			"dash_name": "Mock research dashboard",
			"category":  "other",
			"widgets": []map[string]any{
				{"name": "Top values", "type": "bar", "source_url": "mock://research", "data": []map[string]any{
					{"name": "Alpha", "value": 12}, {"name": "Beta", "value": 9}, {"name": "Gamma", "value": 4},
				}},
				{"name": "Yearly trend", "type": "line", "source_url": "mock://research", "data": []map[string]any{
					{"name": "2021", "value": 3}, {"name": "2022", "value": 5}, {"name": "2023", "value": 8},
				}},
				{"name": "Headline", "type": "number", "source_url": "mock://research", "data": map[string]any{
					"value": 42, "label": "Answer",
				}},
			},
		}
	case "single_widget":
		out = map[string]any{
			"name": "Mock widget", "type": "number", "source_url": "mock://research",
			"data": map[string]any{"value": 7, "label": "Mock metric"},
		}
	default:
		if strings.TrimSpace(topic) == "" {
			return "mock: ok", nil
		}
		return fmt.Sprintf("mock: %s", topic), nil
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func lastUser(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, "user") {
			return messages[i].Content
		}
	}
	return ""
}
