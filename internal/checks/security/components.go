package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

// wordpressPaths are origin-relative paths whose presence fingerprints a
// WordPress install.
var wordpressPaths = []string{"/wp-login.php", "/wp-admin/", "/wp-content/", "/xmlrpc.php"}

// outdatedComponents fingerprints well-known JavaScript libraries and CMS
// installs so the report can point at components whose version is exposed.
func (b *Battery) outdatedComponents(ctx context.Context, page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}

	const libCheck = "Components - JS Library Versions"
	var found []string
	for _, script := range page.Doc.Scripts() {
		if script.Src == "" {
			continue
		}
		for _, lib := range catalog.JSLibraries {
			m := lib.re.FindStringSubmatch(script.Src)
			if m == nil {
				continue
			}
			version := "unknown version"
			if len(m) > 1 && m[1] != "" {
				version = m[1]
			}
			found = append(found, fmt.Sprintf("%s %s", lib.Name, version))
		}
	}
	if len(found) > 0 {
		results = append(results, warn(libCheck,
			fmt.Sprintf("Library versions exposed in script URLs: %s", strings.Join(found, ", ")),
			"Keep client-side libraries current and avoid version-revealing filenames"))
	} else {
		results = append(results, pass(libCheck, "No known library versions exposed in script URLs"))
	}

	const cmsCheck = "Components - CMS Fingerprint"
	var cmsEvidence []string
	if gen, ok := page.Doc.MetaName("generator"); ok && gen != "" {
		cmsEvidence = append(cmsEvidence, fmt.Sprintf("generator meta tag %q", gen))
	}
	if b.cfg.AllowActiveProbing {
		urls := make([]string, 0, len(wordpressPaths))
		for _, p := range wordpressPaths {
			urls = append(urls, page.Target.OriginURL(p))
		}
		outcomes := b.prober.BatchGet(ctx, urls)
		for i, out := range outcomes {
			if out.Reachable() {
				cmsEvidence = append(cmsEvidence, fmt.Sprintf("%s is reachable", wordpressPaths[i]))
			}
		}
	}
	if len(cmsEvidence) > 0 {
		results = append(results, warn(cmsCheck,
			fmt.Sprintf("Platform fingerprintable: %s", strings.Join(cmsEvidence, "; ")),
			"Hide generator tags and restrict access to platform admin paths"))
	} else {
		results = append(results, pass(cmsCheck, "No platform fingerprint detected"))
	}

	return results
}
