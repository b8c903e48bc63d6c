package security

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/htmldoc"
	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/model"
)

// injectionActive submits crafted payloads through discovered forms and
// fuzzes common URL parameters, then inspects responses for injection
// signatures that the baseline page did not contain. Probes are throttled by
// the prober's rate limiter and individually time-bounded; a failed probe is
// skipped, never fatal.
func (b *Battery) injectionActive(ctx context.Context, page *checks.Page) []model.CheckResult {
	if !b.cfg.AllowActiveProbing {
		b.logger.Info("active probing disabled, skipping injection probes")
		return nil
	}

	sqlPayload := catalog.Payloads["sql"]
	xssPayload := catalog.Payloads["xss"]
	baseline := page.Body()

	var sqlEvidence, xssEvidence []string

	forms := page.Doc.Forms()
	if len(forms) > b.cfg.MaxForms {
		forms = forms[:b.cfg.MaxForms]
	}

	for i, form := range forms {
		action, err := page.Target.ResolveRef(form.Action)
		if err != nil || action == "" {
			action = page.Target.EffectiveURL
		}

		for _, probe := range []struct {
			payload string
			sql     bool
		}{{sqlPayload, true}, {xssPayload, false}} {
			values := fillForm(form, probe.payload)
			if len(values) == 0 {
				continue
			}

			out := b.prober.SubmitForm(ctx, form.Method, action, values)
			if !out.OK() {
				b.logger.Debug("form probe failed, skipping",
					logging.Field{Key: "action", Value: action},
					logging.Field{Key: "error", Value: out.Err.Error()})
				continue
			}

			body := string(out.Body)
			if probe.sql {
				if sig, found := newSQLSignature(baseline, body); found {
					sqlEvidence = append(sqlEvidence,
						fmt.Sprintf("form #%d (%s %s) provoked %q", i+1, form.Method, action, sig))
				}
			} else if reflectedUnescaped(baseline, body, probe.payload) {
				xssEvidence = append(xssEvidence,
					fmt.Sprintf("form #%d (%s %s) reflects the payload unescaped", i+1, form.Method, action))
			}
		}
	}

	// The same payloads go straight into common query parameters on the
	// page's own URL; no form needed.
	for _, param := range catalog.FuzzParams {
		for _, probe := range []struct {
			payload string
			sql     bool
		}{{sqlPayload, true}, {xssPayload, false}} {
			probeURL := withQueryParam(page.Target.EffectiveURL, param, probe.payload)
			out := b.prober.Get(ctx, probeURL)
			if !out.OK() {
				continue
			}

			body := string(out.Body)
			if probe.sql {
				if sig, found := newSQLSignature(baseline, body); found {
					sqlEvidence = append(sqlEvidence,
						fmt.Sprintf("parameter %q provoked %q", param, sig))
				}
			} else if reflectedUnescaped(baseline, body, probe.payload) {
				xssEvidence = append(xssEvidence,
					fmt.Sprintf("parameter %q reflects the payload unescaped", param))
			}
		}
	}

	probedSurface := fmt.Sprintf("%d forms and %d parameters probed", len(forms), len(catalog.FuzzParams))

	results := []model.CheckResult{}
	const sqlCheck = "Injection - SQL Injection (Active)"
	if len(sqlEvidence) > 0 {
		results = append(results, fail(sqlCheck,
			fmt.Sprintf("SQL error signatures appeared under injected input: %s", strings.Join(sqlEvidence, "; ")),
			"Use parameterized queries; never interpolate request input into SQL"))
	} else {
		results = append(results, pass(sqlCheck,
			fmt.Sprintf("No SQL error signatures appeared under injected input (%s)", probedSurface)))
	}

	const xssCheck = "Injection - Reflected XSS (Active)"
	if len(xssEvidence) > 0 {
		results = append(results, fail(xssCheck,
			fmt.Sprintf("Script payload reflected without escaping: %s", strings.Join(xssEvidence, "; ")),
			"HTML-escape all request input before rendering it into responses"))
	} else {
		results = append(results, pass(xssCheck,
			fmt.Sprintf("Script payload was not reflected unescaped (%s)", probedSurface)))
	}

	return results
}

// fillForm builds a submission where every user-editable field carries the
// payload. Hidden and button-like fields keep their original value so tokens
// and state survive the round trip.
func fillForm(form htmldoc.Form, payload string) url.Values {
	values := url.Values{}
	for _, in := range form.Inputs {
		if in.Name == "" {
			continue
		}
		// Buttons and hidden fields keep their original value; only fields a
		// user could type into receive the payload.
		if !in.Labelable() {
			values.Set(in.Name, in.Value)
			continue
		}
		values.Set(in.Name, payload)
	}
	return values
}

// newSQLSignature reports a SQL error signature that is present in the probe
// response but absent from the baseline. The bodies are diffed so signatures
// that were always on the page (e.g. documentation text) do not count; only
// text the probe introduced is scanned.
func newSQLSignature(baseline, probe string) (string, bool) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(baseline, probe, false)
	// Character-level diffs shred inserted text into fragments no regexp can
	// match; semantic cleanup coalesces them back into readable runs.
	diffs = dmp.DiffCleanupSemantic(diffs)

	var inserted strings.Builder
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffInsert {
			inserted.WriteString(d.Text)
			inserted.WriteString("\n")
		}
	}
	if sig, found := matchAny(catalog.sqlErrorRes, inserted.String()); found {
		return sig, true
	}
	// A signature can still straddle an equal/insert boundary after cleanup.
	// Fall back to the direct definition: matches the probe, not the baseline.
	for _, re := range catalog.sqlErrorRes {
		if m := re.FindString(probe); m != "" && !re.MatchString(baseline) {
			return m, true
		}
	}
	return "", false
}

// reflectedUnescaped reports the payload appearing verbatim in the probe
// response when the baseline did not contain it.
func reflectedUnescaped(baseline, probe, payload string) bool {
	return strings.Contains(probe, payload) && !strings.Contains(baseline, payload)
}

func withQueryParam(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
