package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

// insecureDesign looks for symptoms of error handling and abuse controls
// that were never designed in: stack traces leaking to the client and the
// absence of any rate-limiting signal.
func (b *Battery) insecureDesign(ctx context.Context, page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}

	const verboseCheck = "Design - Verbose Error Disclosure"
	if sig, found := matchAny(catalog.stackTraceRes, page.Body()); found {
		results = append(results, fail(verboseCheck,
			fmt.Sprintf("Response contains what looks like a stack trace or debug output (%q)", sig),
			"Return generic error pages; log stack traces server-side only"))
	} else {
		results = append(results, pass(verboseCheck, "No stack traces or debug output in the response"))
	}

	const rateCheck = "Design - Rate Limiting Signals"
	var seen []string
	for _, h := range catalog.RateLimitHeaders {
		if page.HasHeader(h) {
			seen = append(seen, h)
		}
	}
	if len(seen) > 0 {
		results = append(results, pass(rateCheck,
			fmt.Sprintf("Rate limiting headers present: %s", strings.Join(seen, ", "))))
	} else {
		results = append(results, warn(rateCheck,
			"No rate limiting headers observed; abuse protection may be absent",
			"Apply request rate limits and advertise them via RateLimit headers"))
	}

	return results
}
