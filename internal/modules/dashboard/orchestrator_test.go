package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yungbote/dashgen-backend/internal/clients/source"
	"github.com/yungbote/dashgen-backend/internal/config"
	domain "github.com/yungbote/dashgen-backend/internal/domain/dashboard"
	"github.com/yungbote/dashgen-backend/internal/pkg/jsonvalue"
)

func byName(ws []domain.ResolvedWidget) map[string]domain.ResolvedWidget {
	out := make(map[string]domain.ResolvedWidget, len(ws))
	for _, w := range ws {
		out[w.Name] = w
	}
	return out
}

func TestBuildFaultIsolation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/population", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"population":39000000,"area_km2":423967,"flag_url":"http://x"}`))
	})
	mux.HandleFunc("/players", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3,4,5,6,7,8]`))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fetcher := source.New(nil, config.FetchConfig{Timeout: config.Duration{Duration: 200 * time.Millisecond}})
	orch := NewOrchestrator(nil, NewResolver(nil, fetcher, ""), 4)

	spec := domain.Spec{
		Name:     "California",
		Category: "other",
		Widgets: []domain.WidgetDeclaration{
			{Name: "Size", Type: domain.ChartBar, Source: srv.URL + "/population"},
			{Name: "Players", Type: domain.ChartNumber, Source: srv.URL + "/players"},
			{Name: "Trend", Type: domain.ChartLine, Source: srv.URL + "/slow"},
		},
	}
	d := orch.Build(context.Background(), spec, BuildMeta{DataSource: domain.DataSourceAPI, ModelUsed: "mock-1"})

	require.Len(t, d.Widgets, 3)
	assert.Equal(t, 1, d.FallbackCount())
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, domain.DataSourceAPI, d.DataSource)

	ws := byName(d.Widgets)
	assert.False(t, ws["Size"].Fallback)
	assert.Equal(t, []domain.ChartPoint{{Name: "population", Value: 39000000}, {Name: "area_km2", Value: 423967}}, ws["Size"].Data.Series)

	assert.False(t, ws["Players"].Fallback)
	require.NotNil(t, ws["Players"].Data.Scalar)
	assert.Equal(t, domain.NumberDatum{Value: 8, Label: "Total Items"}, *ws["Players"].Data.Scalar)

	assert.True(t, ws["Trend"].Fallback)
	assert.Len(t, ws["Trend"].Data.Series, 6)
}

func TestBuildPreservesWidgetCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	types := []domain.ChartType{domain.ChartBar, domain.ChartLine, domain.ChartNumber, "pie"}

	for round := 0; round < 20; round++ {
		n := rng.Intn(12)
		fail := map[string]bool{}
		spec := domain.Spec{Name: "d"}
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("w%d", i)
			fail[name] = rng.Intn(2) == 0
			spec.Widgets = append(spec.Widgets, domain.WidgetDeclaration{
				Name:   name,
				Type:   types[rng.Intn(len(types))],
				Source: "https://example.test/" + name,
			})
		}
		f := fetchFunc(func(ctx context.Context, url string) (jsonvalue.Value, error) {
			name := url[len("https://example.test/"):]
			if fail[name] {
				return jsonvalue.Value{}, errors.New("down")
			}
			return jsonvalue.ParseString(`{"a":1,"b":[1,2]}`)
		})

		d := NewOrchestrator(nil, NewResolver(nil, f, ""), 4).Build(context.Background(), spec, BuildMeta{})
		require.Len(t, d.Widgets, n, "round %d", round)
		seen := map[string]int{}
		for _, w := range d.Widgets {
			seen[w.Name]++
			if w.Type.Valid() {
				assert.True(t, w.Data.ValidFor(w.Type), "round %d widget %s", round, w.Name)
			}
		}
		for name := range fail {
			assert.Equal(t, 1, seen[name], "round %d widget %s", round, name)
		}
	}
}

func TestBuildBoundsConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var inFlight, peak int32
	f := fetchFunc(func(ctx context.Context, url string) (jsonvalue.Value, error) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return jsonvalue.ParseString(`[1]`)
	})

	spec := domain.Spec{}
	for i := 0; i < 10; i++ {
		spec.Widgets = append(spec.Widgets, domain.WidgetDeclaration{Name: fmt.Sprint(i), Type: domain.ChartBar, Source: "https://x"})
	}
	d := NewOrchestrator(nil, NewResolver(nil, f, ""), 4).Build(context.Background(), spec, BuildMeta{})

	assert.Len(t, d.Widgets, 10)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))
}

type panicResolver struct{}

func (panicResolver) Resolve(ctx context.Context, decl domain.WidgetDeclaration) domain.ResolvedWidget {
	if decl.Name == "bad" {
		panic("resolver bug")
	}
	return Fallback(decl)
}

func TestBuildSurvivesResolverPanic(t *testing.T) {
	spec := domain.Spec{Widgets: []domain.WidgetDeclaration{
		{Name: "good", Type: domain.ChartBar},
		{Name: "bad", Type: domain.ChartLine},
	}}
	d := NewOrchestrator(nil, panicResolver{}, 2).Build(context.Background(), spec, BuildMeta{})
	require.Len(t, d.Widgets, 2)
	ws := byName(d.Widgets)
	assert.True(t, ws["bad"].Fallback)
	assert.Len(t, ws["bad"].Data.Series, 6)
}

func TestBuildStampsMetadata(t *testing.T) {
	o := NewOrchestrator(nil, NewResolver(nil, nil, ""), 0)
	o.now = func() time.Time { return time.Unix(1700000000, 500000000) }

	d := o.Build(context.Background(), domain.Spec{Name: "n", Category: "sports"}, BuildMeta{DataSource: "AI Research", ModelUsed: "sonar"})
	assert.Equal(t, 1700000000.5, d.GeneratedAt)
	assert.Equal(t, "n", d.Name)
	assert.Equal(t, "sports", d.Category)
	assert.Equal(t, "sonar", d.ModelUsed)
	assert.NotNil(t, d.Widgets)
	assert.Empty(t, d.Widgets)
}
