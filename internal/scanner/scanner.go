// Package scanner runs a full audit: resolve the input, fetch the page with
// protocol fallback, fan the check modules out and assemble a single report.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/checks/access"
	"github.com/raysh454/siteaudit/internal/checks/perf"
	"github.com/raysh454/siteaudit/internal/checks/security"
	"github.com/raysh454/siteaudit/internal/checks/seo"
	"github.com/raysh454/siteaudit/internal/htmldoc"
	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/model"
	"github.com/raysh454/siteaudit/internal/target"
	"github.com/raysh454/siteaudit/internal/webclient"
)

// Config collects every knob a single scan needs.
type Config struct {
	FetchTimeout       time.Duration
	ProbeTimeout       time.Duration
	MaxRedirects       int
	MaxForms           int
	AllowActiveProbing bool
	ProbeRate          float64
	UserAgent          string
}

func DefaultConfig() Config {
	wc := webclient.DefaultConfig()
	pc := webclient.DefaultProberConfig()
	sec := security.DefaultConfig()
	return Config{
		FetchTimeout:       wc.Timeout,
		ProbeTimeout:       pc.Timeout,
		MaxRedirects:       wc.MaxRedirects,
		MaxForms:           sec.MaxForms,
		AllowActiveProbing: sec.AllowActiveProbing,
		ProbeRate:          pc.RatePerSecond,
		UserAgent:          wc.UserAgent,
	}
}

// Scanner owns the client stack and check modules for repeated scans.
type Scanner struct {
	cfg      Config
	fetcher  *webclient.FallbackFetcher
	client   webclient.WebClient
	security *security.Battery
	seo      *seo.Battery
	logger   logging.Logger
}

func New(cfg Config, logger logging.Logger) (*Scanner, error) {
	logger = logging.OrNop(logger).With(logging.Field{Key: "component", Value: "scanner"})

	wcCfg := webclient.Config{
		Timeout:      cfg.FetchTimeout,
		MaxRedirects: cfg.MaxRedirects,
		UserAgent:    cfg.UserAgent,
	}
	client, err := webclient.NewNetHTTPClient(wcCfg, logger, nil)
	if err != nil {
		return nil, fmt.Errorf("scanner: building web client: %w", err)
	}

	prober := webclient.NewProber(client, webclient.ProberConfig{
		Timeout:       cfg.ProbeTimeout,
		RatePerSecond: cfg.ProbeRate,
	}, logger)

	secCfg := security.Config{
		AllowActiveProbing: cfg.AllowActiveProbing,
		MaxForms:           cfg.MaxForms,
	}

	return &Scanner{
		cfg:      cfg,
		fetcher:  webclient.NewFallbackFetcher(client, logger),
		client:   client,
		security: security.NewBattery(secCfg, prober, logger),
		seo:      seo.NewBattery(prober, logger),
		logger:   logger,
	}, nil
}

func (s *Scanner) Close() error {
	return s.client.Close()
}

// Scan audits a single target. The raw input is resolved and canonicalized
// first; all auxiliary probes then share the protocol the main fetch
// actually succeeded on.
func (s *Scanner) Scan(ctx context.Context, rawInput string) (model.ScanResult, error) {
	tgt, err := target.Resolve(rawInput)
	if err != nil {
		return model.ScanResult{}, err
	}

	s.logger.Info("scan started",
		logging.Field{Key: "input", Value: rawInput},
		logging.Field{Key: "url", Value: tgt.EffectiveURL})

	resp, err := s.fetcher.Fetch(ctx, tgt)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("fetching %s: %w", tgt.EffectiveURL, err)
	}

	doc, err := htmldoc.Parse(resp.Body)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("parsing %s: %w", tgt.EffectiveURL, err)
	}

	page := checks.NewPage(tgt, resp, doc)

	// The four categories are independent; run them concurrently and only
	// assemble the result once every module has finished.
	var (
		wg          sync.WaitGroup
		secChecks   []model.CheckResult
		perfMetrics []model.Metric
		seoChecks   []model.CheckResult
		accChecks   []model.CheckResult
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		secChecks = s.security.Run(ctx, page)
	}()
	go func() {
		defer wg.Done()
		perfMetrics = perf.Measure(page)
	}()
	go func() {
		defer wg.Done()
		seoChecks = s.seo.Run(ctx, page)
	}()
	go func() {
		defer wg.Done()
		accChecks = access.Run(page)
	}()
	wg.Wait()

	result := model.ScanResult{
		URL:             tgt.EffectiveURL,
		Date:            time.Now(),
		Security:        model.NewCategoryReport(secChecks),
		Performance:     model.NewPerformanceReport(perfMetrics),
		SEO:             model.NewCategoryReport(seoChecks),
		Accessibility:   model.NewCategoryReport(accChecks),
		Recommendations: model.CollectRecommendations(secChecks, seoChecks, accChecks, perfMetrics),
	}

	s.logger.Info("scan finished",
		logging.Field{Key: "url", Value: result.URL},
		logging.Field{Key: "security", Value: result.Security.Score},
		logging.Field{Key: "performance", Value: result.Performance.Score},
		logging.Field{Key: "seo", Value: result.SEO.Score},
		logging.Field{Key: "accessibility", Value: result.Accessibility.Score})

	return result, nil
}
