package perf

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/htmldoc"
	"github.com/raysh454/siteaudit/internal/model"
	"github.com/raysh454/siteaudit/internal/target"
	"github.com/raysh454/siteaudit/internal/webclient"
)

// syntheticPage builds a Page directly so the duration can be controlled.
func syntheticPage(t *testing.T, html string, duration time.Duration) *checks.Page {
	t.Helper()

	tgt, err := target.Resolve("https://example.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	doc, err := htmldoc.Parse([]byte(html))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	resp := &webclient.Response{
		Headers:  http.Header{},
		Body:     []byte(html),
		Duration: duration,
	}
	return checks.NewPage(tgt, resp, doc)
}

func TestMeasureBuckets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		duration time.Duration
		want     model.MetricStatus
	}{
		{"fast is good", 500 * time.Millisecond, model.MetricGood},
		{"middling needs improvement", 3 * time.Second, model.MetricNeedsImprovement},
		{"slow is poor", 5 * time.Second, model.MetricPoor},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			page := syntheticPage(t, "<html><body>hi</body></html>", tc.duration)
			metrics := Measure(page)
			if metrics[0].Name != model.MetricLoadTime {
				t.Fatalf("metric[0] = %q, want %q", metrics[0].Name, model.MetricLoadTime)
			}
			if metrics[0].Status != tc.want {
				t.Errorf("load time status = %q, want %q", metrics[0].Status, tc.want)
			}
		})
	}
}

func TestMeasureOrderAndNames(t *testing.T) {
	t.Parallel()

	page := syntheticPage(t, "<html><body>hi</body></html>", time.Second)
	metrics := Measure(page)

	want := []string{model.MetricLoadTime, model.MetricTTFB, model.MetricPageSize, model.MetricResourceCount}
	if len(metrics) != len(want) {
		t.Fatalf("got %d metrics, want %d", len(metrics), len(want))
	}
	for i, name := range want {
		if metrics[i].Name != name {
			t.Errorf("metric[%d] = %q, want %q", i, metrics[i].Name, name)
		}
	}
}

func TestMeasureResourceCount(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<script src="/a.js"></script>
		<link rel="stylesheet" href="/a.css">
	</head><body>
		<img src="/a.png" alt="a">
		<img src="/b.png" alt="b">
	</body></html>`

	page := syntheticPage(t, html, time.Second)
	metrics := Measure(page)

	rc := metrics[3]
	if rc.Value != "4" {
		t.Errorf("resource count = %q, want 4 (1 script + 1 stylesheet + 2 images)", rc.Value)
	}
	if rc.Status != model.MetricGood {
		t.Errorf("resource count status = %q, want good", rc.Status)
	}
}

func TestMeasurePageSize(t *testing.T) {
	t.Parallel()

	big := "<html><body>" + strings.Repeat("x", 600*1024) + "</body></html>"
	page := syntheticPage(t, big, time.Second)
	metrics := Measure(page)

	ps := metrics[2]
	if ps.Status != model.MetricNeedsImprovement {
		t.Errorf("page size status = %q, want needs-improvement for ~600KB", ps.Status)
	}
	if !strings.HasSuffix(ps.Value, "KB") {
		t.Errorf("page size value = %q, want a KB figure", ps.Value)
	}
}

func TestTTFBDerivedFromDuration(t *testing.T) {
	t.Parallel()

	page := syntheticPage(t, "<html></html>", 1000*time.Millisecond)
	metrics := Measure(page)

	if metrics[1].Value != "300ms" {
		t.Errorf("ttfb value = %q, want 300ms for a 1000ms fetch", metrics[1].Value)
	}
}
