package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

// dataIntegrity audits whether third-party code is pinned: Subresource
// Integrity coverage on external scripts and script-source restrictions in
// the CSP.
func (b *Battery) dataIntegrity(ctx context.Context, page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}

	var external, pinned int
	for _, script := range page.Doc.Scripts() {
		if script.Src == "" || !isThirdParty(script.Src, page) {
			continue
		}
		external++
		if script.Integrity != "" {
			pinned++
		}
	}

	if external > 0 {
		const sriCheck = "Integrity - Subresource Integrity"
		switch {
		case pinned == external:
			results = append(results, pass(sriCheck,
				fmt.Sprintf("All %d third-party scripts carry integrity attributes", external)))
		case pinned > 0:
			results = append(results, warn(sriCheck,
				fmt.Sprintf("%d of %d third-party scripts carry integrity attributes", pinned, external),
				"Add integrity hashes to every cross-origin script tag"))
		default:
			results = append(results, fail(sriCheck,
				fmt.Sprintf("None of the %d third-party scripts carry integrity attributes", external),
				"Add integrity hashes to every cross-origin script tag"))
		}
	}

	const cspCheck = "Integrity - Script Source Policy"
	csp := page.Header("Content-Security-Policy")
	switch {
	case csp == "":
		results = append(results, warn(cspCheck,
			"No Content-Security-Policy, so script sources are unrestricted",
			"Declare a script-src directive limiting where code can load from"))
	case strings.Contains(csp, "script-src") || strings.Contains(csp, "default-src"):
		results = append(results, pass(cspCheck, "Content-Security-Policy restricts script sources"))
	default:
		results = append(results, warn(cspCheck,
			"Content-Security-Policy present but declares no script-src or default-src",
			"Declare a script-src directive limiting where code can load from"))
	}

	return results
}

// isThirdParty reports a script src pointing off the scanned origin. Relative
// sources are first-party.
func isThirdParty(src string, page *checks.Page) bool {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") && !strings.HasPrefix(src, "//") {
		return false
	}
	resolved, err := page.Target.ResolveRef(src)
	if err != nil {
		return true
	}
	return !strings.HasPrefix(resolved, page.Target.BaseOrigin)
}
