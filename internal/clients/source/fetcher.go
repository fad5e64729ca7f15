// Package source fetches widget data from arbitrary JSON endpoints.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/pkg/jsonvalue"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 4 << 20
	defaultUserAgent    = "Mozilla/5.0 (compatible; dashgen/1.0)"
)

// FailureReason says why a fetch produced no JSON.
type FailureReason string

const (
	ReasonInvalidURL FailureReason = "invalid_url"
	ReasonNetwork    FailureReason = "network"
	ReasonTimeout    FailureReason = "timeout"
	ReasonStatus     FailureReason = "status"
	ReasonBody       FailureReason = "body"
)

// FetchFailure is the only error type Fetch returns.
type FetchFailure struct {
	URL        string
	Reason     FailureReason
	StatusCode int
	Err        error
}

func (f *FetchFailure) Error() string {
	if f == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("fetch %s: %s", f.URL, f.Reason)
	if f.StatusCode != 0 {
		msg += fmt.Sprintf(" (status=%d)", f.StatusCode)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *FetchFailure) Unwrap() error { return f.Err }

// HTTPStatusCode exposes the upstream status for callers that only see an error.
func (f *FetchFailure) HTTPStatusCode() int { return f.StatusCode }

// Cache stores raw JSON bodies by URL. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Set(ctx context.Context, url string, body []byte) error
}

type Fetcher struct {
	log          *logger.Logger
	httpClient   *http.Client
	cache        Cache
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
}

type Option func(*Fetcher)

func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.httpClient = c
		}
	}
}

func WithCache(c Cache) Option {
	return func(f *Fetcher) { f.cache = c }
}

func New(log *logger.Logger, cfg config.FetchConfig, opts ...Option) *Fetcher {
	if log == nil {
		log = logger.Nop()
	}
	f := &Fetcher{
		log:          log.With("client", "SourceFetcher"),
		httpClient:   &http.Client{},
		timeout:      cfg.Timeout.Duration,
		userAgent:    strings.TrimSpace(cfg.UserAgent),
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	if f.timeout <= 0 {
		f.timeout = defaultTimeout
	}
	if f.userAgent == "" {
		f.userAgent = defaultUserAgent
	}
	if f.maxBodyBytes <= 0 {
		f.maxBodyBytes = defaultMaxBodyBytes
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues one GET against url and returns the parsed body. Success means
// status 200 and a JSON body; anything else is a *FetchFailure.
//
// The request runs on a context detached from ctx's cancellation and bounded
// by the fetcher's own timeout, so abandoning a request does not cut a fetch short.
func (f *Fetcher) Fetch(ctx context.Context, url string) (jsonvalue.Value, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return jsonvalue.Value{}, &FetchFailure{URL: url, Reason: ReasonInvalidURL, Err: errors.New("not an http(s) url")}
	}

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	if body, ok := f.cached(fctx, url); ok {
		if v, err := jsonvalue.Parse(body); err == nil {
			return v, nil
		}
	}

	body, err := f.get(fctx, url)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	v, perr := jsonvalue.Parse(body)
	if perr != nil {
		return jsonvalue.Value{}, &FetchFailure{URL: url, Reason: ReasonBody, StatusCode: http.StatusOK, Err: perr}
	}
	if f.cache != nil {
		if err := f.cache.Set(fctx, url, body); err != nil {
			f.log.Warn("source cache set failed", "url", url, "error", err)
		}
	}
	return v, nil
}

func (f *Fetcher) cached(ctx context.Context, url string) ([]byte, bool) {
	if f.cache == nil {
		return nil, false
	}
	body, ok, err := f.cache.Get(ctx, url)
	if err != nil {
		f.log.Warn("source cache get failed", "url", url, "error", err)
		return nil, false
	}
	return body, ok
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchFailure{URL: url, Reason: ReasonInvalidURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		reason := ReasonNetwork
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			reason = ReasonTimeout
		}
		return nil, &FetchFailure{URL: url, Reason: reason, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &FetchFailure{URL: url, Reason: ReasonStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		reason := ReasonNetwork
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			reason = ReasonTimeout
		}
		return nil, &FetchFailure{URL: url, Reason: reason, StatusCode: resp.StatusCode, Err: err}
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, &FetchFailure{URL: url, Reason: ReasonBody, StatusCode: resp.StatusCode, Err: fmt.Errorf("body exceeds %d bytes", f.maxBodyBytes)}
	}
	return body, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
