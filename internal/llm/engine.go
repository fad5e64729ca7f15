package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
	// JSON asks for a JSON-only response on engines that support it.
	JSON bool
	// Purpose names the calling flow (a prompt name or "chat"). Engines may
	// use it for logging; the mock engine picks its canned reply with it.
	Purpose string
}

type Engine interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)

func (f EngineFunc) GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error) {
	return f(ctx, model, messages, opts)
}
