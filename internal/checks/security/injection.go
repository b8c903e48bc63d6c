package security

import (
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/htmldoc"
	"github.com/raysh454/siteaudit/internal/model"
)

// injectionPassive scans the body for database error signatures, checks the
// XSS-mitigation header proxies and applies the CSRF-token heuristic to
// discovered forms. No requests are sent.
func (b *Battery) injectionPassive(page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}

	const sqlCheck = "Injection - SQL Error Disclosure"
	if sig, found := matchAny(catalog.sqlErrorRes, page.Body()); found {
		results = append(results, fail(sqlCheck,
			fmt.Sprintf("Database error signature in the response body (%q)", strings.TrimSpace(sig)),
			"Do not return raw database errors to clients; log them server-side and show a generic error page"))
	} else {
		results = append(results, pass(sqlCheck, "No database error signatures in the response body"))
	}

	const xssCheck = "Injection - XSS Mitigation Headers"
	csp := page.Header("Content-Security-Policy")
	legacy := page.Header("X-XSS-Protection")
	switch {
	case csp != "":
		results = append(results, pass(xssCheck, "Content-Security-Policy is set"))
	case legacy != "":
		results = append(results, warn(xssCheck,
			fmt.Sprintf("Only the legacy X-XSS-Protection header is set (%q)", legacy),
			"Replace X-XSS-Protection with a Content-Security-Policy"))
	default:
		results = append(results, warn(xssCheck,
			"Neither Content-Security-Policy nor X-XSS-Protection is set",
			"Add a Content-Security-Policy to mitigate cross-site scripting"))
	}

	// CSRF heuristic: a hidden input whose name mentions token/csrf. Pages
	// without forms have nothing to protect, so the check is skipped there.
	forms := page.Doc.Forms()
	if len(forms) > 0 {
		const csrfCheck = "Injection - CSRF Tokens"
		protected := 0
		for _, f := range forms {
			if formHasCSRFToken(f.Inputs) {
				protected++
			}
		}
		switch {
		case protected == len(forms):
			results = append(results, pass(csrfCheck,
				fmt.Sprintf("All %d forms carry a CSRF token field", len(forms))))
		case protected > 0:
			results = append(results, warn(csrfCheck,
				fmt.Sprintf("%d of %d forms carry a CSRF token field", protected, len(forms)),
				"Add anti-CSRF tokens to every state-changing form"))
		default:
			results = append(results, fail(csrfCheck,
				fmt.Sprintf("None of the %d forms carry a CSRF token field", len(forms)),
				"Add anti-CSRF tokens to every state-changing form"))
		}
	}

	return results
}

func formHasCSRFToken(inputs []htmldoc.FormInput) bool {
	for _, in := range inputs {
		if in.Type != "hidden" {
			continue
		}
		name := strings.ToLower(in.Name)
		if strings.Contains(name, "token") || strings.Contains(name, "csrf") {
			return true
		}
	}
	return false
}
