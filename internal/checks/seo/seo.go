// Package seo evaluates on-page search signals: head metadata, heading
// structure, social tags and the crawler support files.
package seo

import (
	"context"
	"fmt"
	"strings"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/model"
	"github.com/raysh454/siteaudit/internal/webclient"
)

const (
	titleMinLen = 30
	titleMaxLen = 60

	descriptionMinLen = 120
	descriptionMaxLen = 160
)

var openGraphProperties = []string{"og:title", "og:description", "og:image"}

type Battery struct {
	prober *webclient.Prober
	logger logging.Logger
}

func NewBattery(prober *webclient.Prober, logger logging.Logger) *Battery {
	return &Battery{
		prober: prober,
		logger: logging.OrNop(logger).With(logging.Field{Key: "component", Value: "seo"}),
	}
}

// Run evaluates the page checks first, then the two origin-level crawler
// files. A failed robots/sitemap probe downgrades to a warning; network
// trouble on auxiliary files is not a page defect.
func (b *Battery) Run(ctx context.Context, page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}
	results = append(results, titleCheck(page))
	results = append(results, descriptionCheck(page))
	results = append(results, headingCheck(page))
	results = append(results, keywordsCheck(page))
	results = append(results, openGraphCheck(page))
	results = append(results, canonicalCheck(page))
	results = append(results, imageAltCheck(page))
	results = append(results, b.originFile(ctx, page, "/robots.txt", "SEO - Robots.txt",
		"Add a robots.txt so crawlers know what to index"))
	results = append(results, b.originFile(ctx, page, "/sitemap.xml", "SEO - Sitemap",
		"Publish a sitemap.xml and reference it from robots.txt"))
	return results
}

func titleCheck(page *checks.Page) model.CheckResult {
	const name = "SEO - Title"
	title := strings.TrimSpace(page.Doc.Title())
	switch {
	case title == "":
		return fail(name, "Page has no <title>", "Add a unique, descriptive title of 30-60 characters")
	// Too short is a fail, not a warning: a truncated title ("Home") is as
	// useless to a search result as a missing one. Too long only warns.
	case len(title) < titleMinLen:
		return fail(name,
			fmt.Sprintf("Title is %d characters, shorter than the recommended %d", len(title), titleMinLen),
			"Expand the title toward 30-60 characters")
	case len(title) > titleMaxLen:
		return warn(name,
			fmt.Sprintf("Title is %d characters, longer than the recommended %d", len(title), titleMaxLen),
			"Shorten the title toward 30-60 characters; search results truncate long titles")
	default:
		return pass(name, fmt.Sprintf("Title is %d characters (%q)", len(title), title))
	}
}

func descriptionCheck(page *checks.Page) model.CheckResult {
	const name = "SEO - Meta Description"
	content, _ := page.Doc.MetaName("description")
	desc := strings.TrimSpace(content)
	switch {
	case desc == "":
		return fail(name, "Page has no meta description",
			"Add a meta description of 120-160 characters; search engines use it as the snippet")
	case len(desc) < descriptionMinLen:
		return warn(name,
			fmt.Sprintf("Meta description is %d characters, shorter than the recommended %d", len(desc), descriptionMinLen),
			"Expand the meta description toward 120-160 characters")
	case len(desc) > descriptionMaxLen:
		return warn(name,
			fmt.Sprintf("Meta description is %d characters, longer than the recommended %d", len(desc), descriptionMaxLen),
			"Shorten the meta description toward 120-160 characters")
	default:
		return pass(name, fmt.Sprintf("Meta description is %d characters", len(desc)))
	}
}

func headingCheck(page *checks.Page) model.CheckResult {
	const name = "SEO - H1 Heading"
	switch n := page.Doc.Count("h1"); {
	case n == 0:
		return fail(name, "Page has no <h1> heading", "Add exactly one <h1> stating the page topic")
	case n == 1:
		return pass(name, "Page has exactly one <h1> heading")
	default:
		return warn(name, fmt.Sprintf("Page has %d <h1> headings", n),
			"Keep a single <h1>; demote the others to <h2>")
	}
}

func keywordsCheck(page *checks.Page) model.CheckResult {
	const name = "SEO - Meta Keywords"
	if _, ok := page.Doc.MetaName("keywords"); ok {
		return warn(name, "Page declares a meta keywords tag, which search engines ignore",
			"Remove the meta keywords tag; it only reveals targeting to competitors")
	}
	return pass(name, "No obsolete meta keywords tag")
}

func openGraphCheck(page *checks.Page) model.CheckResult {
	const name = "SEO - Open Graph"
	var present int
	var missing []string
	for _, prop := range openGraphProperties {
		if content, ok := page.Doc.MetaProperty(prop); ok && content != "" {
			present++
		} else {
			missing = append(missing, prop)
		}
	}
	switch present {
	case len(openGraphProperties):
		return pass(name, "og:title, og:description and og:image are all set")
	case 0:
		return fail(name, "No Open Graph tags; shared links render without preview",
			"Add og:title, og:description and og:image")
	default:
		return warn(name, fmt.Sprintf("Open Graph incomplete, missing %s", strings.Join(missing, ", ")),
			"Complete the Open Graph tags so shared links render a full preview")
	}
}

func canonicalCheck(page *checks.Page) model.CheckResult {
	const name = "SEO - Canonical URL"
	if href, ok := page.Doc.LinkRel("canonical"); ok && href != "" {
		return pass(name, fmt.Sprintf("Canonical link present (%s)", href))
	}
	return warn(name, "No canonical link; duplicate URLs may split ranking signals",
		"Add <link rel=\"canonical\"> pointing at the preferred URL")
}

func imageAltCheck(page *checks.Page) model.CheckResult {
	const name = "SEO - Image Alt Text"
	images := page.Doc.Images()
	if len(images) == 0 {
		return pass(name, "Page has no images")
	}
	var withAlt int
	for _, img := range images {
		if img.HasAlt {
			withAlt++
		}
	}
	if withAlt == len(images) {
		return pass(name, fmt.Sprintf("All %d images have alt text", len(images)))
	}
	return warn(name,
		fmt.Sprintf("%d of %d images have alt text", withAlt, len(images)),
		"Add descriptive alt text to every content image")
}

func (b *Battery) originFile(ctx context.Context, page *checks.Page, path, name, recommendation string) model.CheckResult {
	out := b.prober.Get(ctx, page.Target.OriginURL(path))
	if out.Err != nil {
		b.logger.Debug("origin file probe failed",
			logging.Field{Key: "path", Value: path},
			logging.Field{Key: "error", Value: out.Err.Error()})
		return warn(name, fmt.Sprintf("Could not verify %s (%v)", path, out.Err), recommendation)
	}
	if out.Reachable() {
		return pass(name, fmt.Sprintf("%s is present", path))
	}
	return warn(name, fmt.Sprintf("%s responded with status %d", path, out.StatusCode), recommendation)
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
