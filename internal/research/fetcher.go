package research

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/hyperion/internal/cache"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/util"
	"github.com/ppiankov/hyperion/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = errors.New("disallowed by robots.txt")

const fetchAttempts = 3

// StatusError is a page that answered with a non-2xx status
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// transportError marks failures before any response arrived
type transportError struct{ err error }

func (e *transportError) Error() string { return "fetch: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// FetcherConfig configures page fetching
type FetcherConfig struct {
	Timeout       time.Duration
	UserAgent     string
	MaxBytes      int64
	MaxRedirects  int
	RespectRobots bool
	HTTPProxy     string
	HTTPSProxy    string
	NoProxy       string

	// Pacing between successive requests to one host
	RequestsPerSecond float64
	Burst             int
	Delay             time.Duration
}

// FetcherConfigFromModel derives fetcher settings from the pipeline config
func FetcherConfigFromModel(cfg model.PipelineConfig) FetcherConfig {
	return FetcherConfig{
		Timeout:           cfg.Timeouts.Fetch,
		UserAgent:         cfg.HTTP.UserAgent,
		MaxBytes:          cfg.HTTP.MaxBodyBytes,
		MaxRedirects:      cfg.HTTP.MaxRedirects,
		RespectRobots:     cfg.HTTP.RespectRobots,
		HTTPProxy:         cfg.HTTP.HTTPProxy,
		HTTPSProxy:        cfg.HTTP.HTTPSProxy,
		NoProxy:           cfg.HTTP.NoProxy,
		RequestsPerSecond: cfg.RateLimiting.RequestsPerSecond,
		Burst:             cfg.RateLimiting.Burst,
		Delay:             cfg.RateLimiting.FetchDelay,
	}
}

// Fetcher retrieves search-result pages and source pages
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	timeout    time.Duration
	delay      time.Duration
	backoff    time.Duration
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	pages      cache.Cache
}

// NewFetcher creates a Fetcher. pages may be nil to disable caching.
func NewFetcher(cfg FetcherConfig, pages cache.Cache) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5 * 1024 * 1024
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = 3
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}

	proxy := util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	maxRedirects := cfg.MaxRedirects

	f := &Fetcher{
		httpClient: &http.Client{
			Transport: &http.Transport{Proxy: proxy},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		timeout:   cfg.Timeout,
		delay:     cfg.Delay,
		backoff:   500 * time.Millisecond,
		limiter:   worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		pages:     pages,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout, proxy)
	}
	return f
}

// FetchResult contains the fetched HTML and where it finally came from
type FetchResult struct {
	HTML        string
	FinalURL    string
	StatusCode  int
	ContentType string
	Cached      bool
}

// Fetch performs a single GET bounded by the fetcher timeout, without
// pacing, robots or cache
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:        string(body),
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// FetchWithRetry retries transient failures (5xx, 429, connection errors)
// with a doubling backoff. Other failures are returned immediately.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	wait := f.backoff
	for attempt := 1; ; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil || attempt == fetchAttempts || !retryable(err) {
			return result, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// Get is the polite entry point used for source pages: cache lookup,
// robots.txt check, per-host pacing plus the fixed inter-fetch delay, then
// FetchWithRetry. Successful bodies are cached under the requested URL.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*FetchResult, error) {
	return f.get(ctx, rawURL, true)
}

// SearchPage fetches a search-engine results page. Engines disallow
// crawlers in robots.txt, so only pacing and caching apply.
func (f *Fetcher) SearchPage(ctx context.Context, rawURL string) (*FetchResult, error) {
	return f.get(ctx, rawURL, false)
}

func (f *Fetcher) get(ctx context.Context, rawURL string, checkRobots bool) (*FetchResult, error) {
	key := cache.PageKey(rawURL)
	if f.pages != nil {
		if data, ok := f.pages.Get(key); ok {
			return &FetchResult{HTML: string(data), FinalURL: rawURL, StatusCode: http.StatusOK, Cached: true}, nil
		}
	}

	delay := f.delay
	if checkRobots && f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			return nil, ErrDisallowed
		}
		if crawlDelay > delay {
			delay = crawlDelay
		}
	}
	if err := f.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
		return nil, err
	}

	result, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if f.pages != nil {
		_ = f.pages.Set(key, []byte(result.HTML), 0)
	}
	return result, nil
}

// retryable reports whether err is worth another attempt
func retryable(err error) bool {
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code == http.StatusTooManyRequests || status.Code >= 500
	}
	var transport *transportError
	return errors.As(err, &transport) && !errors.Is(err, context.Canceled)
}
