package seo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/htmldoc"
	"github.com/raysh454/siteaudit/internal/model"
	"github.com/raysh454/siteaudit/internal/target"
	"github.com/raysh454/siteaudit/internal/webclient"
)

func parsePage(t *testing.T, html string) *checks.Page {
	t.Helper()
	tgt, err := target.Resolve("https://example.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	doc, err := htmldoc.Parse([]byte(html))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	resp := &webclient.Response{Headers: http.Header{}, Body: []byte(html)}
	return checks.NewPage(tgt, resp, doc)
}

func TestTitleCheck(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		title string
		want  model.Status
	}{
		{"missing fails", "", model.StatusFail},
		{"short fails", "Home", model.StatusFail},
		{"good length passes", "A Practical Guide to Auditing Websites", model.StatusPass},
		{"too long warns", strings.Repeat("word ", 20), model.StatusWarning},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			html := "<html><head><title>" + tc.title + "</title></head><body></body></html>"
			if tc.title == "" {
				html = "<html><head></head><body></body></html>"
			}
			got := titleCheck(parsePage(t, html))
			if got.Status != tc.want {
				t.Errorf("status = %q, want %q (description: %s)", got.Status, tc.want, got.Description)
			}
		})
	}
}

func TestHeadingCheck(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		h1s  int
		want model.Status
	}{
		{"zero fails", 0, model.StatusFail},
		{"one passes", 1, model.StatusPass},
		{"several warn", 3, model.StatusWarning},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			html := "<html><body>" + strings.Repeat("<h1>Heading</h1>", tc.h1s) + "</body></html>"
			got := headingCheck(parsePage(t, html))
			if got.Status != tc.want {
				t.Errorf("status = %q, want %q", got.Status, tc.want)
			}
		})
	}
}

func TestOpenGraphCoverage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		head string
		want model.Status
	}{
		{"all three pass", `<meta property="og:title" content="t"><meta property="og:description" content="d"><meta property="og:image" content="i">`, model.StatusPass},
		{"partial warns", `<meta property="og:title" content="t">`, model.StatusWarning},
		{"none fails", ``, model.StatusFail},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := openGraphCheck(parsePage(t, "<html><head>"+tc.head+"</head><body></body></html>"))
			if got.Status != tc.want {
				t.Errorf("status = %q, want %q", got.Status, tc.want)
			}
		})
	}
}

func TestMetaKeywordsIsAWarning(t *testing.T) {
	t.Parallel()

	got := keywordsCheck(parsePage(t, `<html><head><meta name="keywords" content="a,b"></head><body></body></html>`))
	if got.Status != model.StatusWarning {
		t.Errorf("status = %q, want warning", got.Status)
	}
}

func TestImageAltCoverage(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<img src="/a.png" alt="a">
		<img src="/b.png">
		<img src="/c.png" alt="">
	</body></html>`
	got := imageAltCheck(parsePage(t, html))
	if got.Status != model.StatusWarning {
		t.Errorf("status = %q, want warning", got.Status)
	}
	if !strings.Contains(got.Description, "1 of 3") {
		t.Errorf("description %q should count 1 of 3", got.Description)
	}
}

func TestOriginFiles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprint(w, "User-agent: *\nAllow: /")
		case "/":
			fmt.Fprint(w, "<html><body></body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tgt, err := target.Resolve(srv.URL)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wc, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), nil, srv.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { _ = wc.Close() })

	doc, _ := htmldoc.Parse([]byte("<html></html>"))
	page := checks.NewPage(tgt, &webclient.Response{Headers: http.Header{}, Body: nil}, doc)

	b := NewBattery(webclient.NewProber(wc, webclient.ProberConfig{RatePerSecond: 1000, Concurrency: 4}, nil), nil)

	robots := b.originFile(context.Background(), page, "/robots.txt", "SEO - Robots.txt", "rec")
	if robots.Status != model.StatusPass {
		t.Errorf("robots status = %q, want pass", robots.Status)
	}
	sitemap := b.originFile(context.Background(), page, "/sitemap.xml", "SEO - Sitemap", "rec")
	if sitemap.Status != model.StatusWarning {
		t.Errorf("sitemap status = %q, want warning for a 404", sitemap.Status)
	}
}

func TestRunOrderIsStable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	tgt, err := target.Resolve(srv.URL)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wc, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), nil, srv.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { _ = wc.Close() })

	doc, _ := htmldoc.Parse([]byte("<html><head><title>x</title></head></html>"))
	page := checks.NewPage(tgt, &webclient.Response{Headers: http.Header{}, Body: nil}, doc)
	b := NewBattery(webclient.NewProber(wc, webclient.ProberConfig{RatePerSecond: 1000, Concurrency: 4}, nil), nil)

	first := b.Run(context.Background(), page)
	second := b.Run(context.Background(), page)
	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("position %d: %q vs %q", i, first[i].Name, second[i].Name)
		}
	}
}
