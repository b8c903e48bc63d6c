package webclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/raysh454/siteaudit/internal/logging"
)

// ProbeOutcome is the result of one best-effort auxiliary request. A failed
// probe is a value, not an error that propagates: checks map it to a
// conservative default instead of aborting the scan.
type ProbeOutcome struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Err        error
}

// OK reports whether the probe reached the server at all.
func (o ProbeOutcome) OK() bool { return o.Err == nil }

// Reachable reports a 2xx answer, the exposure signal used by path probing.
func (o ProbeOutcome) Reachable() bool {
	return o.Err == nil && o.StatusCode >= 200 && o.StatusCode < 300
}

// ProberConfig bounds the probe layer independently of the main fetch.
type ProberConfig struct {
	// Timeout applies per probe request (2-5s range; these are disposable).
	Timeout time.Duration

	// RatePerSecond throttles probe issuance so active probing does not
	// hammer the target or trip its rate limiting.
	RatePerSecond float64

	// Concurrency caps parallel probes in BatchGet.
	Concurrency int
}

func DefaultProberConfig() ProberConfig {
	return ProberConfig{
		Timeout:       3 * time.Second,
		RatePerSecond: 4,
		Concurrency:   5,
	}
}

// Prober issues short-lived, rate-limited auxiliary requests: sensitive-path
// checks, robots/sitemap lookups, form and parameter fuzzing.
type Prober struct {
	wc      WebClient
	cfg     ProberConfig
	limiter *rate.Limiter
	logger  logging.Logger
}

func NewProber(wc WebClient, cfg ProberConfig, logger logging.Logger) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultProberConfig().Timeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultProberConfig().RatePerSecond
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultProberConfig().Concurrency
	}
	return &Prober{
		wc:      wc,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		logger:  logging.OrNop(logger).With(logging.Field{Key: "component", Value: "prober"}),
	}
}

func (p *Prober) do(ctx context.Context, req *Request) ProbeOutcome {
	if err := p.limiter.Wait(ctx); err != nil {
		return ProbeOutcome{URL: req.URL, Err: err}
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	resp, err := p.wc.Do(probeCtx, req)
	if err != nil {
		p.logger.Debug("probe failed",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return ProbeOutcome{URL: req.URL, Err: ClassifyNetError(err)}
	}
	return ProbeOutcome{
		URL:        req.URL,
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}

// Get probes a single URL.
func (p *Prober) Get(ctx context.Context, rawURL string) ProbeOutcome {
	return p.do(ctx, &Request{Method: http.MethodGet, URL: rawURL})
}

// BatchGet fires probes for all URLs concurrently (bounded by Concurrency)
// and waits for every outcome. Outcomes are returned in input order; the
// requests are idempotent GETs, so relative timing does not matter.
func (p *Prober) BatchGet(ctx context.Context, urls []string) []ProbeOutcome {
	outcomes := make([]ProbeOutcome, len(urls))
	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = p.Get(ctx, u)
		}(i, u)
	}

	wg.Wait()
	return outcomes
}

// SubmitForm sends urlencoded values via the given method: GET appends them
// as a query string, anything else posts them as a form body.
func (p *Prober) SubmitForm(ctx context.Context, method, action string, values url.Values) ProbeOutcome {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	if method == http.MethodGet {
		sep := "?"
		if strings.Contains(action, "?") {
			sep = "&"
		}
		return p.do(ctx, &Request{Method: http.MethodGet, URL: action + sep + values.Encode()})
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/x-www-form-urlencoded")
	return p.do(ctx, &Request{
		Method:  method,
		URL:     action,
		Headers: headers,
		Body:    []byte(values.Encode()),
	})
}
