package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

// accessControl probes a fixed list of common admin/sensitive paths against
// the resolved origin and scans the main body for directory-index markers.
// Path probes run concurrently; a failed probe means no evidence of exposure
// and is counted as such, never as a scan error.
func (b *Battery) accessControl(ctx context.Context, page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}

	if b.cfg.AllowActiveProbing {
		results = append(results, b.sensitivePaths(ctx, page))
	}

	const listingCheck = "Access Control - Directory Listing"
	if sig, found := matchAny(catalog.directoryListingRes, page.Body()); found {
		results = append(results, fail(listingCheck,
			fmt.Sprintf("Directory index markers found in the response (%q)", strings.TrimSpace(sig)),
			"Disable directory listing in the web server configuration"))
	} else {
		results = append(results, pass(listingCheck, "No directory index markers in the response"))
	}

	return results
}

func (b *Battery) sensitivePaths(ctx context.Context, page *checks.Page) model.CheckResult {
	urls := make([]string, 0, len(catalog.SensitivePaths))
	for _, p := range catalog.SensitivePaths {
		urls = append(urls, page.Target.OriginURL(p))
	}

	outcomes := b.prober.BatchGet(ctx, urls)
	var exposed []string
	for i, o := range outcomes {
		if o.Reachable() {
			exposed = append(exposed, catalog.SensitivePaths[i])
		}
	}

	const pathsCheck = "Access Control - Sensitive Paths"
	switch {
	case len(exposed) == 0:
		return pass(pathsCheck,
			fmt.Sprintf("None of %d common admin/sensitive paths are accessible", len(urls)))
	case len(exposed) <= 2:
		return warn(pathsCheck,
			fmt.Sprintf("%d of %d probed paths respond with 2xx: %s", len(exposed), len(urls), strings.Join(exposed, ", ")),
			"Restrict access to administrative and sensitive paths with authentication or network controls")
	default:
		return fail(pathsCheck,
			fmt.Sprintf("%d of %d probed paths respond with 2xx: %s", len(exposed), len(urls), strings.Join(exposed, ", ")),
			"Lock down exposed administrative and sensitive paths; they should not answer unauthenticated requests")
	}
}
