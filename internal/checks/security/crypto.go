package security

import (
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

// cryptography inspects transport security: HTTPS in use, HSTS and mixed
// content. Mixed content only applies to pages actually served over TLS.
func (b *Battery) cryptography(page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}

	const httpsCheck = "Crypto - HTTPS"
	if page.Target.IsHTTPS() {
		results = append(results, pass(httpsCheck,
			fmt.Sprintf("Page is served over HTTPS (%s)", page.Target.BaseOrigin)))
	} else {
		results = append(results, fail(httpsCheck,
			fmt.Sprintf("Page is served over plain HTTP (%s)", page.Target.BaseOrigin),
			"Serve the site over HTTPS and redirect HTTP traffic"))
	}

	const hstsCheck = "Crypto - HSTS"
	if v := page.Header("Strict-Transport-Security"); v != "" {
		results = append(results, pass(hstsCheck,
			fmt.Sprintf("Strict-Transport-Security is set (%q)", v)))
	} else {
		results = append(results, warn(hstsCheck,
			"Strict-Transport-Security header is not set",
			"Add 'Strict-Transport-Security: max-age=31536000; includeSubDomains'"))
	}

	// Mixed content cannot occur on an http:// page; skip rather than award
	// a meaningless pass.
	if page.Target.IsHTTPS() {
		const mixedCheck = "Crypto - Mixed Content"
		insecure := insecureResourceURLs(page)
		if len(insecure) == 0 {
			results = append(results, pass(mixedCheck, "No http:// scripts, stylesheets or images on this HTTPS page"))
		} else {
			sample := insecure
			if len(sample) > 3 {
				sample = sample[:3]
			}
			results = append(results, fail(mixedCheck,
				fmt.Sprintf("%d resources are loaded over plain HTTP (e.g. %s)", len(insecure), strings.Join(sample, ", ")),
				"Load every script, stylesheet and image over HTTPS"))
		}
	}

	return results
}

func insecureResourceURLs(page *checks.Page) []string {
	var out []string
	for _, s := range page.Doc.Scripts() {
		if strings.HasPrefix(s.Src, "http://") {
			out = append(out, s.Src)
		}
	}
	for _, href := range page.Doc.StylesheetHrefs() {
		if strings.HasPrefix(href, "http://") {
			out = append(out, href)
		}
	}
	for _, img := range page.Doc.Images() {
		if strings.HasPrefix(img.Src, "http://") {
			out = append(out, img.Src)
		}
	}
	return out
}
