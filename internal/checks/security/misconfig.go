package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

var criticalHeaders = []string{
	"X-Content-Type-Options",
	"X-Frame-Options",
	"Content-Security-Policy",
	"Strict-Transport-Security",
}

var additionalHeaders = []string{
	"X-XSS-Protection",
	"Referrer-Policy",
	"Permissions-Policy",
}

// cspWeaknesses are directives and source expressions that undo most of a
// policy's value.
var cspWeaknesses = []string{"'unsafe-inline'", "'unsafe-eval'", "data:", "*"}

func (b *Battery) misconfiguration(ctx context.Context, page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}

	const serverCheck = "Security Config - Server Disclosure"
	var disclosed []string
	for _, h := range []string{"Server", "X-Powered-By", "X-AspNet-Version", "X-AspNetMvc-Version"} {
		if v := page.Header(h); v != "" {
			disclosed = append(disclosed, fmt.Sprintf("%s: %s", h, v))
		}
	}
	if len(disclosed) > 0 {
		results = append(results, warn(serverCheck,
			fmt.Sprintf("Server software disclosed via headers (%s)", strings.Join(disclosed, "; ")),
			"Strip or genericize Server and X-Powered-By headers"))
	} else {
		results = append(results, pass(serverCheck, "No server software version disclosed in headers"))
	}

	const criticalCheck = "Security Config - Critical Headers"
	var missingCritical []string
	for _, h := range criticalHeaders {
		if !page.HasHeader(h) {
			missingCritical = append(missingCritical, h)
		}
	}
	if len(missingCritical) > 0 {
		results = append(results, fail(criticalCheck,
			fmt.Sprintf("Missing critical security headers: %s", strings.Join(missingCritical, ", ")),
			"Set X-Content-Type-Options, X-Frame-Options, Content-Security-Policy and Strict-Transport-Security on every response"))
	} else {
		results = append(results, pass(criticalCheck, "All critical security headers present"))
	}

	const additionalCheck = "Security Config - Additional Headers"
	var missingAdditional []string
	for _, h := range additionalHeaders {
		if !page.HasHeader(h) {
			missingAdditional = append(missingAdditional, h)
		}
	}
	if len(missingAdditional) > 0 {
		results = append(results, warn(additionalCheck,
			fmt.Sprintf("Recommended headers absent: %s", strings.Join(missingAdditional, ", ")),
			"Add Referrer-Policy and Permissions-Policy for defense in depth"))
	} else {
		results = append(results, pass(additionalCheck, "All recommended hardening headers present"))
	}

	// CSP quality only makes sense when a policy exists; the missing case is
	// already covered by the critical headers check.
	if csp := page.Header("Content-Security-Policy"); csp != "" {
		const cspCheck = "Security Config - CSP Quality"
		var weak []string
		for _, w := range cspWeaknesses {
			if strings.Contains(csp, w) {
				weak = append(weak, w)
			}
		}
		if len(weak) > 0 {
			results = append(results, warn(cspCheck,
				fmt.Sprintf("Content-Security-Policy contains permissive directives: %s", strings.Join(weak, ", ")),
				"Tighten the CSP: avoid unsafe-inline, unsafe-eval and wildcard sources"))
		} else {
			results = append(results, pass(cspCheck, "Content-Security-Policy avoids known-permissive directives"))
		}
	}

	return results
}
