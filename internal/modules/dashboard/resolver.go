package dashboard

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	domain "github.com/yungbote/dashgen-backend/internal/domain/dashboard"
	"github.com/yungbote/dashgen-backend/internal/modules/dashboard/chartdata"
	"github.com/yungbote/dashgen-backend/internal/observability"
	"github.com/yungbote/dashgen-backend/internal/pkg/jsonvalue"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/dashgen-backend/internal/modules/dashboard"

// SourceFetcher is satisfied by *source.Fetcher.
type SourceFetcher interface {
	Fetch(ctx context.Context, url string) (jsonvalue.Value, error)
}

// Tier records which resolution step produced a widget's data.
type Tier string

const (
	TierDeclared   Tier = "declared"
	TierFetched    Tier = "fetched"
	TierSynthesize Tier = "synthesized"
)

// Resolver fills one widget with chart data. Resolve never fails.
type Resolver struct {
	log     *logger.Logger
	fetcher SourceFetcher
	// declaredLabel is reported as the source of data the model embedded.
	declaredLabel string
}

func NewResolver(log *logger.Logger, fetcher SourceFetcher, declaredLabel string) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		log:           log.With("component", "WidgetResolver"),
		fetcher:       fetcher,
		declaredLabel: declaredLabel,
	}
}

// Resolve tries, in order: the declared data, the declared source, and
// synthesized placeholder data. A panic anywhere degrades to the last step.
func (r *Resolver) Resolve(ctx context.Context, decl domain.WidgetDeclaration) (out domain.ResolvedWidget) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dashboard.resolve_widget")
	defer span.End()
	span.SetAttributes(
		attribute.String("widget.name", decl.Name),
		attribute.String("widget.type", string(decl.Type)),
	)

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("widget resolution panicked", "widget", decl.Name, "panic", rec, "stack", string(debug.Stack()))
			span.SetStatus(codes.Error, fmt.Sprint(rec))
			out = Fallback(decl)
			observability.Current().IncWidgetResolution(string(decl.Type), string(TierSynthesize), true)
		}
		span.SetAttributes(attribute.Bool("widget.fallback", out.Fallback))
	}()

	w, tier := r.resolve(ctx, decl)
	span.SetAttributes(attribute.String("widget.tier", string(tier)))
	observability.Current().IncWidgetResolution(string(decl.Type), string(tier), w.Fallback)
	return w
}

func (r *Resolver) resolve(ctx context.Context, decl domain.WidgetDeclaration) (domain.ResolvedWidget, Tier) {
	if decl.Data.IsPresent() {
		if data, ok := chartdata.FromDeclared(decl.Data, decl.Type); ok {
			return domain.ResolvedWidget{
				Name:      decl.Name,
				Type:      decl.Type,
				Source:    r.declaredSource(decl),
				SourceURL: decl.SourceURL,
				Data:      data,
			}, TierDeclared
		}
		r.log.Debug("declared data rejected", "widget", decl.Name, "type", decl.Type, "kind", decl.Data.Kind().String())
	}

	if decl.Source != "" && r.fetcher != nil {
		raw, err := r.fetcher.Fetch(ctx, decl.Source)
		if err != nil {
			r.log.Warn("source fetch failed, using fallback data", "widget", decl.Name, "source", decl.Source, "error", err)
			return Fallback(decl), TierSynthesize
		}
		data, ok := chartdata.Interpret(raw, decl.Type)
		return domain.ResolvedWidget{
			Name:      decl.Name,
			Type:      decl.Type,
			Source:    decl.Source,
			SourceURL: decl.SourceURL,
			Data:      data,
			Fallback:  !ok,
		}, TierFetched
	}

	return Fallback(decl), TierSynthesize
}

func (r *Resolver) declaredSource(decl domain.WidgetDeclaration) string {
	switch {
	case r.declaredLabel != "":
		return r.declaredLabel
	case decl.Source != "":
		return decl.Source
	case decl.SourceURL != "":
		return decl.SourceURL
	default:
		return domain.SourceAIResearch
	}
}

// Fallback is the synthesized widget for decl.
func Fallback(decl domain.WidgetDeclaration) domain.ResolvedWidget {
	src := decl.Source
	if src == "" {
		src = domain.SourceFallback
	}
	return domain.ResolvedWidget{
		Name:      decl.Name,
		Type:      decl.Type,
		Source:    src,
		SourceURL: decl.SourceURL,
		Data:      chartdata.Synthesize(decl.Type),
		Fallback:  true,
	}
}
