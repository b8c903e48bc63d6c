package webclient

import (
	"context"
	"net/http"

	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/target"
)

// FallbackFetcher performs the primary page fetch with one protocol-fallback
// retry (https⇄http). Any HTTP status counts as a successful fetch; only
// network-level failures trigger the fallback.
type FallbackFetcher struct {
	wc     WebClient
	logger logging.Logger
}

func NewFallbackFetcher(wc WebClient, logger logging.Logger) *FallbackFetcher {
	return &FallbackFetcher{
		wc:     wc,
		logger: logging.OrNop(logger).With(logging.Field{Key: "component", Value: "fetcher"}),
	}
}

// Fetch GETs t.EffectiveURL, retrying once under the alternate scheme on a
// network failure. On success the working scheme is committed back into t so
// every subsequent auxiliary request targets the proven origin. When both
// attempts fail, the original error is surfaced, not the fallback's.
func (f *FallbackFetcher) Fetch(ctx context.Context, t *target.ScanTarget) (*Response, error) {
	resp, primaryErr := f.wc.Do(ctx, &Request{Method: http.MethodGet, URL: t.EffectiveURL})
	if primaryErr == nil {
		return resp, nil
	}

	alt := t.AlternateURL()
	f.logger.Info("primary fetch failed, trying protocol fallback",
		logging.Field{Key: "url", Value: t.EffectiveURL},
		logging.Field{Key: "fallback_url", Value: alt},
		logging.Field{Key: "error", Value: primaryErr.Error()})

	resp, fallbackErr := f.wc.Do(ctx, &Request{Method: http.MethodGet, URL: alt})
	if fallbackErr != nil {
		return nil, ClassifyNetError(primaryErr)
	}

	if err := t.CommitEffective(alt); err != nil {
		return nil, err
	}
	f.logger.Info("protocol fallback succeeded",
		logging.Field{Key: "effective_url", Value: t.EffectiveURL})
	return resp, nil
}
