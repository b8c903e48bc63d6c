// Package checks defines the input shared by all check modules: the resolved
// target, the single main-fetch response and the parsed document. Check
// modules only read from a Page; auxiliary requests go through their own
// prober.
package checks

import (
	"github.com/raysh454/siteaudit/internal/htmldoc"
	"github.com/raysh454/siteaudit/internal/target"
	"github.com/raysh454/siteaudit/internal/webclient"
)

// Page is the immutable view of the fetched page shared by every category.
type Page struct {
	Target   *target.ScanTarget
	Response *webclient.Response
	Doc      *htmldoc.Document

	// body is the response body as a string, decoded once.
	body string
}

// NewPage bundles the fetch artifacts for the check modules.
func NewPage(t *target.ScanTarget, resp *webclient.Response, doc *htmldoc.Document) *Page {
	return &Page{
		Target:   t,
		Response: resp,
		Doc:      doc,
		body:     string(resp.Body),
	}
}

// Body returns the raw response body.
func (p *Page) Body() string { return p.body }

// Header returns the first value of a response header (case-insensitive).
func (p *Page) Header(name string) string {
	return p.Response.Headers.Get(name)
}

// HasHeader reports whether a response header is present and non-empty.
func (p *Page) HasHeader(name string) bool {
	return p.Header(name) != ""
}
