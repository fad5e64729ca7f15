package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	domain "github.com/yungbote/dashgen-backend/internal/domain/dashboard"
	"github.com/yungbote/dashgen-backend/internal/observability"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

const defaultWorkers = 4

// WidgetResolver is satisfied by *Resolver.
type WidgetResolver interface {
	Resolve(ctx context.Context, decl domain.WidgetDeclaration) domain.ResolvedWidget
}

// BuildMeta is copied onto the assembled dashboard.
type BuildMeta struct {
	DataSource string
	ModelUsed  string
}

type Orchestrator struct {
	log      *logger.Logger
	resolver WidgetResolver
	workers  int
	now      func() time.Time
}

func NewOrchestrator(log *logger.Logger, resolver WidgetResolver, workers int) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Orchestrator{
		log:      log.With("component", "DashboardOrchestrator"),
		resolver: resolver,
		workers:  workers,
		now:      time.Now,
	}
}

// Build resolves every declared widget with at most o.workers in flight and
// returns once all of them have finished. The dashboard always holds exactly
// one widget per declaration; widget order follows completion order.
func (o *Orchestrator) Build(ctx context.Context, spec domain.Spec, meta BuildMeta) domain.Dashboard {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dashboard.build")
	defer span.End()
	span.SetAttributes(attribute.Int("dashboard.widgets", len(spec.Widgets)))

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(o.workers)
	widgets := make([]domain.ResolvedWidget, 0, len(spec.Widgets))

	for _, decl := range spec.Widgets {
		g.Go(func() error {
			w := o.resolveOne(ctx, decl)
			mu.Lock()
			widgets = append(widgets, w)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	d := domain.Dashboard{
		ID:          uuid.NewString(),
		Name:        spec.Name,
		Category:    spec.Category,
		Widgets:     widgets,
		GeneratedAt: epochSeconds(o.now()),
		DataSource:  meta.DataSource,
		ModelUsed:   meta.ModelUsed,
	}
	span.SetAttributes(attribute.Int("dashboard.fallback_widgets", d.FallbackCount()))
	observability.Current().IncDashboardBuilt(d.DataSource)
	o.log.Info("dashboard built",
		"dashboard_id", d.ID,
		"widgets", len(d.Widgets),
		"fallback_widgets", d.FallbackCount(),
		"data_source", d.DataSource,
	)
	return d
}

// resolveOne guards against WidgetResolver implementations that do not recover
// their own panics; *Resolver already does.
func (o *Orchestrator) resolveOne(ctx context.Context, decl domain.WidgetDeclaration) (w domain.ResolvedWidget) {
	defer func() {
		if rec := recover(); rec != nil {
			o.log.Error("widget resolver panicked", "widget", decl.Name, "panic", rec)
			w = Fallback(decl)
		}
	}()
	return o.resolver.Resolve(ctx, decl)
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
