package security

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

// ssrfSurface flags request-forgery attack surface without exploiting it:
// query parameters on the audited URL itself, form fields that accept URLs
// and parameter names commonly wired to server-side fetches.
func (b *Battery) ssrfSurface(ctx context.Context, page *checks.Page) []model.CheckResult {
	var suspects []string

	if u, err := url.Parse(page.Target.EffectiveURL); err == nil {
		keys := make([]string, 0, len(u.Query()))
		for key := range u.Query() {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			lower := strings.ToLower(key)
			for _, p := range catalog.SSRFParams {
				if lower == p || strings.Contains(lower, p) {
					suspects = append(suspects, fmt.Sprintf("query parameter %q matches fetch-parameter naming", key))
					break
				}
			}
		}
	}

	for _, in := range page.Doc.FormFields() {
		if in.Name == "" {
			continue
		}
		lower := strings.ToLower(in.Name)
		if in.Type == "url" {
			suspects = append(suspects, fmt.Sprintf("url-typed input %q", in.Name))
			continue
		}
		for _, p := range catalog.SSRFParams {
			if lower == p || strings.Contains(lower, p) {
				suspects = append(suspects, fmt.Sprintf("input %q matches fetch-parameter naming", in.Name))
				break
			}
		}
	}

	lowerBody := strings.ToLower(page.Body())
	for _, kw := range catalog.WebhookKeywords {
		if strings.Contains(lowerBody, kw) {
			suspects = append(suspects, fmt.Sprintf("page mentions %q", kw))
		}
	}

	const name = "SSRF - Outbound Fetch Surface"
	if len(suspects) > 0 {
		return []model.CheckResult{warn(name,
			fmt.Sprintf("Inputs suggest the server fetches user-supplied URLs: %s", strings.Join(suspects, "; ")),
			"Validate and allow-list any URL the server fetches on a client's behalf")}
	}
	return []model.CheckResult{pass(name, "No server-side fetch surface apparent in the URL, forms or page content")}
}
