package prompts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/dashgen-backend/internal/domain/dashboard"
)

type Template struct {
	Name        PromptName
	Version     int
	Temperature float64
	MaxTokens   int
	JSON        bool
	System      func(Input) (string, error)
	User        func(Input) (string, error)
	Validate    Validator
}

var (
	mu       sync.RWMutex
	registry = map[PromptName]Template{}
	initOnce sync.Once
)

// Register registers a compiled Template, replacing any previous one with the same name.
func Register(t Template) {
	mu.Lock()
	defer mu.Unlock()
	registry[t.Name] = t
}

// Build renders the named prompt for in.
func Build(name PromptName, in Input) (Prompt, error) {
	initOnce.Do(RegisterAll)

	mu.RLock()
	t, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.System == nil || t.User == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing system/user renderers", string(name))
	}
	if strings.TrimSpace(in.Categories) == "" {
		in.Categories = CategoryChoices()
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", string(name), err)
		}
	}
	sys, err := t.System(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s system render: %w", string(name), err)
	}
	user, err := t.User(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s user render: %w", string(name), err)
	}
	return Prompt{
		Name:        string(t.Name),
		Version:     t.Version,
		System:      sys,
		User:        user,
		Temperature: t.Temperature,
		MaxTokens:   t.MaxTokens,
		JSON:        t.JSON,
	}, nil
}

// CategoryChoices renders the research categories as a JSON alternation.
func CategoryChoices() string {
	parts := make([]string, 0, len(dashboard.Categories))
	for _, c := range dashboard.Categories {
		if c == "sales" || c == "course" || c == "n/a" {
			continue
		}
		parts = append(parts, `"`+c+`"`)
	}
	return strings.Join(parts, " | ")
}
