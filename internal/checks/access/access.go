// Package access evaluates static accessibility signals of the fetched
// document. It is not a WCAG audit; it flags the structural problems visible
// without rendering.
package access

import (
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

// Run evaluates the accessibility checks in a fixed order.
func Run(page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}
	results = append(results, altTextCheck(page))
	results = append(results, ariaCheck(page))
	results = append(results, landmarkCheck(page))
	if r, ok := labelCheck(page); ok {
		results = append(results, r)
	}
	results = append(results, tabindexCheck(page))
	return results
}

func altTextCheck(page *checks.Page) model.CheckResult {
	const name = "Accessibility - Image Alt Text"
	images := page.Doc.Images()
	if len(images) == 0 {
		return pass(name, "Page has no images")
	}
	var missing []string
	for _, img := range images {
		if !img.HasAlt {
			missing = append(missing, img.Src)
		}
	}
	if len(missing) == 0 {
		return pass(name, fmt.Sprintf("All %d images carry alt text", len(images)))
	}
	sample := missing
	if len(sample) > 3 {
		sample = sample[:3]
	}
	return fail(name,
		fmt.Sprintf("%d of %d images lack alt text (e.g. %s)", len(missing), len(images), strings.Join(sample, ", ")),
		"Give every content image descriptive alt text; decorative images get alt=\"\" explicitly")
}

// ariaCheck compares ARIA usage against the amount of interactive markup. A
// static page with neither passes; an interactive page with no ARIA at all
// warns.
func ariaCheck(page *checks.Page) model.CheckResult {
	const name = "Accessibility - ARIA Usage"
	interactive := page.Doc.InteractiveCount()
	aria := page.Doc.AriaAttributeCount()
	switch {
	case interactive == 0 && aria == 0:
		return pass(name, "Page has no interactive elements requiring ARIA")
	case aria == 0:
		return warn(name,
			fmt.Sprintf("%d interactive elements but no ARIA attributes or roles", interactive),
			"Add ARIA labels and roles where native semantics are insufficient")
	default:
		return pass(name, fmt.Sprintf("%d ARIA attributes across %d interactive elements", aria, interactive))
	}
}

func landmarkCheck(page *checks.Page) model.CheckResult {
	const name = "Accessibility - Landmark Regions"
	if n := page.Doc.LandmarkCount(); n > 0 {
		return pass(name, fmt.Sprintf("Page uses %d landmark elements", n))
	}
	return warn(name, "No landmark elements (main, nav, header, footer) found",
		"Structure the page with semantic landmark elements so screen readers can navigate by region")
}

// labelCheck measures form-label association. Pages without labelable fields
// skip the check entirely.
func labelCheck(page *checks.Page) (model.CheckResult, bool) {
	const name = "Accessibility - Form Labels"
	targets := page.Doc.LabelTargets()

	var total, labelled int
	for _, in := range page.Doc.FormFields() {
		if !in.Labelable() {
			continue
		}
		total++
		if (in.ID != "" && targets[in.ID]) || in.AriaLabel != "" {
			labelled++
		}
	}
	if total == 0 {
		return model.CheckResult{}, false
	}
	if labelled == total {
		return pass(name, fmt.Sprintf("All %d form fields are labelled", total)), true
	}
	return fail(name,
		fmt.Sprintf("%d of %d form fields are labelled", labelled, total),
		"Associate every input with a <label for=...> or an aria-label"), true
}

func tabindexCheck(page *checks.Page) model.CheckResult {
	const name = "Accessibility - Keyboard Navigation"
	if n := page.Doc.NegativeTabindexCount(); n > 0 {
		return warn(name,
			fmt.Sprintf("%d elements use tabindex=\"-1\", removing them from keyboard navigation", n),
			"Avoid negative tabindex on elements users need to reach with the keyboard")
	}
	return pass(name, "No elements removed from keyboard navigation")
}

func pass(name, description string) model.CheckResult {
	return model.CheckResult{Name: name, Status: model.StatusPass, Description: description}
}

func warn(name, description, recommendation string) model.CheckResult {
	return model.CheckResult{Name: name, Status: model.StatusWarning, Description: description, Recommendation: recommendation}
}

func fail(name, description, recommendation string) model.CheckResult {
	return model.CheckResult{Name: name, Status: model.StatusFail, Description: description, Recommendation: recommendation}
}
