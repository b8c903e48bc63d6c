package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

// monitoring looks for evidence that requests are observable at the edge:
// distributed-tracing headers and WAF/CDN fingerprints in the response.
func (b *Battery) monitoring(ctx context.Context, page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}

	const traceCheck = "Monitoring - Request Tracing"
	var traced []string
	for _, h := range catalog.TracingHeaders {
		if page.HasHeader(h) {
			traced = append(traced, h)
		}
	}
	if len(traced) > 0 {
		results = append(results, pass(traceCheck,
			fmt.Sprintf("Request tracing headers present: %s", strings.Join(traced, ", "))))
	} else {
		results = append(results, warn(traceCheck,
			"No request tracing headers observed; incident forensics will be harder",
			"Emit a request identifier header so client reports can be correlated with logs"))
	}

	const edgeCheck = "Monitoring - Edge Protection"
	var edge []string
	for _, fp := range catalog.WAFFingerprints {
		v := page.Header(fp.Header)
		if v == "" {
			continue
		}
		if fp.Contains != "" && !strings.Contains(strings.ToLower(v), strings.ToLower(fp.Contains)) {
			continue
		}
		edge = append(edge, fp.Name)
	}
	if len(edge) > 0 {
		results = append(results, pass(edgeCheck,
			fmt.Sprintf("Traffic fronted by: %s", strings.Join(edge, ", "))))
	} else {
		results = append(results, warn(edgeCheck,
			"No WAF or CDN fingerprint detected; the origin appears directly exposed",
			"Consider fronting the site with a WAF or CDN for filtering and DDoS absorption"))
	}

	return results
}
