package http

import (
	"context"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/dashgen-backend/internal/config"
	httpH "github.com/yungbote/dashgen-backend/internal/http/handlers"
	"github.com/yungbote/dashgen-backend/internal/observability"
)

func TestRouterRegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		HealthHandler:    httpH.NewHealthHandler(),
		DashboardHandler: httpH.NewDashboardHandler(nil),
		ChatHandler:      httpH.NewChatHandler(nil),
		Metrics:          observability.NewMetrics(),
	})

	want := map[string]bool{
		"GET /health":                      true,
		"GET /metrics":                     true,
		"GET /api/generate-dashboard":      true,
		"POST /api/generate-dashboard":     true,
		"POST /api/generate-csv-dashboard": true,
		"POST /api/generate-single-widget": true,
		"POST /chat":                       true,
	}
	for _, ri := range r.Routes() {
		delete(want, ri.Method+" "+ri.Path)
	}
	if len(want) != 0 {
		t.Fatalf("missing routes: %v", want)
	}
}

func TestRouterOmitsMetricsWhenDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{HealthHandler: httpH.NewHealthHandler()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestServerShutsDownOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewServer(nil, config.HTTPConfig{ShutdownTimeout: config.Duration{Duration: time.Second}}, RouterConfig{
		HealthHandler: httpH.NewHealthHandler(),
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := nethttp.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
