// Package htmldoc parses fetched HTML into a read-only, queryable document.
// The same Document is shared by every check module; nothing here issues
// network requests or mutates state, so concurrent readers need no locking.
package htmldoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document wraps a parsed HTML tree with typed accessors for the attributes
// the check modules care about.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from raw HTML bytes. Same bytes, equivalent tree.
func Parse(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parsing document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Title returns the trimmed contents of the first <title> element.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// MetaName returns the content of <meta name=...>.
func (d *Document) MetaName(name string) (string, bool) {
	sel := d.doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).First()
	if sel.Length() == 0 {
		return "", false
	}
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content), true
}

// MetaProperty returns the content of <meta property=...> (Open Graph style).
func (d *Document) MetaProperty(property string) (string, bool) {
	sel := d.doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First()
	if sel.Length() == 0 {
		return "", false
	}
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content), true
}

// LinkRel returns the href of the first <link rel=...>.
func (d *Document) LinkRel(rel string) (string, bool) {
	sel := d.doc.Find(fmt.Sprintf(`link[rel=%q]`, rel)).First()
	if sel.Length() == 0 {
		return "", false
	}
	href, ok := sel.Attr("href")
	return strings.TrimSpace(href), ok
}

// Count returns the number of elements matching a CSS selector.
func (d *Document) Count(selector string) int {
	return d.doc.Find(selector).Length()
}

// Image is an <img> occurrence.
type Image struct {
	Src    string
	Alt    string
	HasAlt bool
}

func (d *Document) Images() []Image {
	var out []Image
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, hasAlt := s.Attr("alt")
		out = append(out, Image{Src: src, Alt: alt, HasAlt: hasAlt && strings.TrimSpace(alt) != ""})
	})
	return out
}

// Script is a <script> occurrence.
type Script struct {
	Src       string
	Inline    bool
	Integrity string
}

func (d *Document) Scripts() []Script {
	var out []Script
	d.doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		integrity, _ := s.Attr("integrity")
		out = append(out, Script{
			Src:       strings.TrimSpace(src),
			Inline:    strings.TrimSpace(src) == "",
			Integrity: integrity,
		})
	})
	return out
}

// StylesheetHrefs lists link[rel=stylesheet] targets.
func (d *Document) StylesheetHrefs() []string {
	var out []string
	d.doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			out = append(out, strings.TrimSpace(href))
		}
	})
	return out
}

// Form is a discovered <form> with its fields and raw markup. Markup is kept
// for keyword heuristics (login detection) that look at the whole element.
type Form struct {
	Action string
	Method string
	Inputs []FormInput
	Markup string
}

// FormInput covers input, textarea and select elements inside a form.
type FormInput struct {
	Name         string
	ID           string
	Type         string
	Value        string
	Autocomplete string
	AriaLabel    string
	Hidden       bool
}

func (d *Document) Forms() []Form {
	var out []Form
	d.doc.Find("form").Each(func(_ int, formSel *goquery.Selection) {
		action, _ := formSel.Attr("action")
		method, _ := formSel.Attr("method")
		method = strings.ToUpper(strings.TrimSpace(method))
		if method == "" {
			method = "GET"
		}

		form := Form{Action: strings.TrimSpace(action), Method: method}
		if html, err := goquery.OuterHtml(formSel); err == nil {
			form.Markup = html
		}

		formSel.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
			form.Inputs = append(form.Inputs, newFormInput(s))
		})

		out = append(out, form)
	})
	return out
}

// FormFields returns every input/textarea/select in the document, inside a
// form or not, for label-association auditing.
func (d *Document) FormFields() []FormInput {
	var out []FormInput
	d.doc.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		out = append(out, newFormInput(s))
	})
	return out
}

func newFormInput(s *goquery.Selection) FormInput {
	name, _ := s.Attr("name")
	id, _ := s.Attr("id")
	value, _ := s.Attr("value")
	autocomplete, _ := s.Attr("autocomplete")
	ariaLabel, _ := s.Attr("aria-label")

	typ := "text"
	if goquery.NodeName(s) == "input" {
		if t, ok := s.Attr("type"); ok && strings.TrimSpace(t) != "" {
			typ = strings.ToLower(strings.TrimSpace(t))
		}
	} else {
		typ = goquery.NodeName(s)
	}

	return FormInput{
		Name:         strings.TrimSpace(name),
		ID:           strings.TrimSpace(id),
		Type:         typ,
		Value:        value,
		Autocomplete: strings.ToLower(strings.TrimSpace(autocomplete)),
		AriaLabel:    strings.TrimSpace(ariaLabel),
		Hidden:       typ == "hidden",
	}
}

// Labelable reports whether the field presents a prompt a user fills in and
// therefore needs an associated label. Hidden inputs and button-like inputs
// carry their own text or none at all.
func (in FormInput) Labelable() bool {
	switch in.Type {
	case "hidden", "submit", "button", "image", "reset":
		return false
	}
	return true
}

// LabelTargets returns the set of ids referenced by <label for=...>.
func (d *Document) LabelTargets() map[string]bool {
	out := make(map[string]bool)
	d.doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		if f, ok := s.Attr("for"); ok {
			out[strings.TrimSpace(f)] = true
		}
	})
	return out
}

// Landmark elements counted for the semantic-structure check.
var landmarkSelector = "main, nav, header, footer, section, article, aside"

func (d *Document) LandmarkCount() int {
	return d.doc.Find(landmarkSelector).Length()
}

// InteractiveCount counts elements a keyboard/screen-reader user interacts
// with: links, buttons and form fields.
func (d *Document) InteractiveCount() int {
	return d.doc.Find("a[href], button, input, select, textarea").Length()
}

// AriaAttributeCount counts elements carrying any aria-* attribute or an
// explicit role.
func (d *Document) AriaAttributeCount() int {
	count := 0
	d.doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			for _, attr := range node.Attr {
				if strings.HasPrefix(attr.Key, "aria-") || attr.Key == "role" {
					count++
					return
				}
			}
		}
	})
	return count
}

// NegativeTabindexCount counts elements removed from keyboard focus order.
func (d *Document) NegativeTabindexCount() int {
	return d.doc.Find(`[tabindex="-1"]`).Length()
}
