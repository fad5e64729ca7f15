package router

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/llm"
	"github.com/yungbote/dashgen-backend/internal/llm/gemini"
	"github.com/yungbote/dashgen-backend/internal/llm/mock"
	"github.com/yungbote/dashgen-backend/internal/llm/oaihttp"
)

var ErrUnknownModel = errors.New("unknown model")

type Route struct {
	PublicModel   string
	UpstreamModel string
	EngineType    string
	Engine        llm.Engine
}

// Router maps public model ids to engines. It is itself an llm.Engine that
// dispatches on the model argument.
type Router struct {
	routes map[string]Route
}

func New(ctx context.Context, cfg *config.Config) (*Router, error) {
	r := &Router{routes: map[string]Route{}}
	for _, m := range cfg.Models {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return nil, fmt.Errorf("model id required")
		}
		if _, exists := r.routes[id]; exists {
			return nil, fmt.Errorf("duplicate model id: %s", id)
		}

		var eng llm.Engine
		typ := strings.ToLower(strings.TrimSpace(m.Engine.Type))
		switch typ {
		case "mock":
			eng = mock.New()
		case "openai_http", "oai_http":
			e, err := oaihttp.New(m.Engine)
			if err != nil {
				return nil, err
			}
			eng = e
		case "gemini":
			e, err := gemini.New(ctx, m.Engine)
			if err != nil {
				return nil, err
			}
			eng = e
		default:
			return nil, fmt.Errorf("unsupported engine type %q for model %q", m.Engine.Type, id)
		}

		upstream := strings.TrimSpace(m.UpstreamModel)
		if upstream == "" {
			upstream = id
		}

		r.routes[id] = Route{
			PublicModel:   id,
			UpstreamModel: upstream,
			EngineType:    typ,
			Engine:        eng,
		}
	}
	return r, nil
}

// NewStatic builds a router from prepared routes, mainly for tests.
func NewStatic(routes ...Route) *Router {
	r := &Router{routes: map[string]Route{}}
	for _, rt := range routes {
		if rt.UpstreamModel == "" {
			rt.UpstreamModel = rt.PublicModel
		}
		r.routes[rt.PublicModel] = rt
	}
	return r
}

func (r *Router) ListModels() []string {
	out := make([]string, 0, len(r.routes))
	for id := range r.routes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Router) RouteForModel(model string) (Route, bool) {
	route, ok := r.routes[strings.TrimSpace(model)]
	return route, ok
}

func (r *Router) GenerateText(ctx context.Context, model string, messages []llm.Message, opts llm.GenerateOptions) (string, error) {
	route, ok := r.RouteForModel(model)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return route.Engine.GenerateText(ctx, route.UpstreamModel, messages, opts)
}
