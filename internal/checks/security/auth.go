package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/htmldoc"
	"github.com/raysh454/siteaudit/internal/model"
)

var loginKeywords = []string{"login", "log in", "sign in", "signin", "password", "username"}

// authentication audits credential-handling surfaces: whether login forms
// travel over HTTPS, whether password fields opt out of autofill, and whether
// session cookies carry Secure and HttpOnly.
func (b *Battery) authentication(ctx context.Context, page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}

	loginForms := findLoginForms(page.Doc.Forms())

	if len(loginForms) > 0 {
		const transportCheck = "Auth - Login Transport"
		if page.Target.IsHTTPS() {
			results = append(results, pass(transportCheck,
				fmt.Sprintf("%d login form(s) served over HTTPS", len(loginForms))))
		} else {
			results = append(results, fail(transportCheck,
				fmt.Sprintf("%d login form(s) served over plain HTTP; credentials travel in cleartext", len(loginForms)),
				"Serve authentication pages exclusively over HTTPS"))
		}

		const autofillCheck = "Auth - Password Autocomplete"
		var exposed int
		var total int
		for _, form := range loginForms {
			for _, in := range form.Inputs {
				if in.Type != "password" {
					continue
				}
				total++
				ac := strings.ToLower(in.Autocomplete)
				if ac != "off" && ac != "new-password" && ac != "current-password" {
					exposed++
				}
			}
		}
		if total > 0 {
			if exposed > 0 {
				results = append(results, warn(autofillCheck,
					fmt.Sprintf("%d of %d password fields do not restrict autocomplete", exposed, total),
					"Set autocomplete=\"current-password\" or \"new-password\" on password inputs"))
			} else {
				results = append(results, pass(autofillCheck,
					fmt.Sprintf("All %d password fields restrict autocomplete", total)))
			}
		}
	}

	// Cookie flags are auditable whether or not a login form is visible.
	if cookies := page.Response.Headers.Values("Set-Cookie"); len(cookies) > 0 {
		const cookieCheck = "Auth - Cookie Flags"
		var weak []string
		for _, c := range cookies {
			name := cookieName(c)
			lower := strings.ToLower(c)
			var missing []string
			if page.Target.IsHTTPS() && !strings.Contains(lower, "secure") {
				missing = append(missing, "Secure")
			}
			if !strings.Contains(lower, "httponly") {
				missing = append(missing, "HttpOnly")
			}
			if len(missing) > 0 {
				weak = append(weak, fmt.Sprintf("%s missing %s", name, strings.Join(missing, "+")))
			}
		}
		if len(weak) > 0 {
			results = append(results, warn(cookieCheck,
				fmt.Sprintf("Cookies set without hardening flags: %s", strings.Join(weak, "; ")),
				"Set Secure and HttpOnly on session cookies"))
		} else {
			results = append(results, pass(cookieCheck, "All cookies carry Secure and HttpOnly as applicable"))
		}
	}

	return results
}

// findLoginForms filters forms that look like a credential prompt: either a
// password input or login wording in the markup.
func findLoginForms(forms []htmldoc.Form) []htmldoc.Form {
	var out []htmldoc.Form
	for _, form := range forms {
		if isLoginForm(form) {
			out = append(out, form)
		}
	}
	return out
}

func isLoginForm(form htmldoc.Form) bool {
	for _, in := range form.Inputs {
		if in.Type == "password" {
			return true
		}
	}
	markup := strings.ToLower(form.Markup)
	for _, kw := range loginKeywords {
		if strings.Contains(markup, kw) {
			return true
		}
	}
	return false
}

func cookieName(setCookie string) string {
	if i := strings.IndexByte(setCookie, '='); i > 0 {
		return strings.TrimSpace(setCookie[:i])
	}
	return setCookie
}
