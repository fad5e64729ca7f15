package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/pkg/jsonvalue"
)

func newFetcher(timeout time.Duration, opts ...Option) *Fetcher {
	return New(nil, config.FetchConfig{Timeout: config.Duration{Duration: timeout}, MaxBodyBytes: 1 << 10}, opts...)
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method=%s", r.Method)
		}
		if r.Header.Get("User-Agent") == "" || r.Header.Get("Accept") != "application/json" {
			t.Errorf("headers=%v", r.Header)
		}
		_, _ = w.Write([]byte(`{"b":1,"a":2}`))
	}))
	defer srv.Close()

	v, err := newFetcher(time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if v.Kind() != jsonvalue.Object || v.Members()[0].Key != "b" {
		t.Fatalf("value=%v", v)
	}
}

func TestFetchFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		reason  FailureReason
	}{
		{
			name:    "non-200",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			reason:  ReasonStatus,
		},
		{
			name: "created is not success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"ok":true}`))
			},
			reason: ReasonStatus,
		},
		{
			name:    "html body",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html></html>`)) },
			reason:  ReasonBody,
		},
		{
			name: "oversized body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				big := make([]byte, 2<<10)
				for i := range big {
					big[i] = ' '
				}
				big[0] = '['
				big[len(big)-1] = ']'
				_, _ = w.Write(big)
			},
			reason: ReasonBody,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			reason: ReasonTimeout,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := newFetcher(100*time.Millisecond).Fetch(context.Background(), srv.URL)
			var ff *FetchFailure
			if !errors.As(err, &ff) {
				t.Fatalf("expected *FetchFailure, got %T %v", err, err)
			}
			if ff.Reason != tc.reason {
				t.Fatalf("reason=%s err=%v", ff.Reason, err)
			}
		})
	}
}

func TestFetchRejectsNonHTTPURL(t *testing.T) {
	_, err := newFetcher(time.Second).Fetch(context.Background(), "Data from CSV analysis")
	var ff *FetchFailure
	if !errors.As(err, &ff) || ff.Reason != ReasonInvalidURL {
		t.Fatalf("err=%v", err)
	}
}

func TestFetchIgnoresCallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`[1,2,3]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v, err := newFetcher(time.Second).Fetch(ctx, srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if v.Len() != 3 {
		t.Fatalf("len=%d", v.Len())
	}
}

type memCache struct {
	mu      sync.Mutex
	m       map[string][]byte
	failGet bool
	failSet bool
}

func (c *memCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	if c.failGet {
		return nil, false, errors.New("cache down")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[url]
	return b, ok, nil
}

func (c *memCache) Set(_ context.Context, url string, body []byte) error {
	if c.failSet {
		return errors.New("cache down")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[url] = append([]byte(nil), body...)
	return nil
}

func TestFetchServesFromCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"n":1}`))
	}))
	defer srv.Close()

	cache := &memCache{m: map[string][]byte{}}
	f := newFetcher(time.Second, WithCache(cache))
	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("upstream hits=%d", got)
	}
}

func TestFetchDegradesWhenCacheFails(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"n":1}`))
	}))
	defer srv.Close()

	f := newFetcher(time.Second, WithCache(&memCache{m: map[string][]byte{}, failGet: true, failSet: true}))
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("upstream hits=%d", got)
	}
}

func TestFetchDoesNotCacheFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cache := &memCache{m: map[string][]byte{}}
	if _, err := newFetcher(time.Second, WithCache(cache)).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected failure")
	}
	if len(cache.m) != 0 {
		t.Fatalf("cache=%v", cache.m)
	}
}
