// Package perf derives performance metrics from the single main fetch: no
// browser, no resource waterfall, just what the response and the parsed
// document reveal.
package perf

import (
	"fmt"
	"time"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/model"
)

// Cutoffs between the good / needs-improvement / poor buckets.
const (
	loadTimeGood = 2 * time.Second
	loadTimePoor = 4 * time.Second

	ttfbGood = 600 * time.Millisecond
	ttfbPoor = 1200 * time.Millisecond

	pageSizeGood = 500 * 1024
	pageSizePoor = 1024 * 1024

	resourceCountGood = 30
	resourceCountPoor = 60

	// The time to first byte is not measured separately from the full round
	// trip; it is estimated as a fixed share of it.
	ttfbShare = 0.3
)

// Measure derives the four performance metrics in a fixed order: load time,
// time to first byte, page size, resource count.
func Measure(page *checks.Page) []model.Metric {
	loadTime := page.Response.Duration
	ttfb := time.Duration(float64(loadTime) * ttfbShare)
	pageSize := len(page.Response.Body)
	resources := len(page.Doc.Scripts()) + len(page.Doc.StylesheetHrefs()) + len(page.Doc.Images())

	return []model.Metric{
		{
			Name:        model.MetricLoadTime,
			Status:      bucketDuration(loadTime, loadTimeGood, loadTimePoor),
			Value:       fmt.Sprintf("%dms", loadTime.Milliseconds()),
			Description: fmt.Sprintf("Full page fetch took %dms", loadTime.Milliseconds()),
		},
		{
			Name:        model.MetricTTFB,
			Status:      bucketDuration(ttfb, ttfbGood, ttfbPoor),
			Value:       fmt.Sprintf("%dms", ttfb.Milliseconds()),
			Description: fmt.Sprintf("Estimated time to first byte is %dms", ttfb.Milliseconds()),
		},
		{
			Name:        model.MetricPageSize,
			Status:      bucketInt(pageSize, pageSizeGood, pageSizePoor),
			Value:       formatBytes(pageSize),
			Description: fmt.Sprintf("HTML document weighs %s", formatBytes(pageSize)),
		},
		{
			Name:        model.MetricResourceCount,
			Status:      bucketInt(resources, resourceCountGood, resourceCountPoor),
			Value:       fmt.Sprintf("%d", resources),
			Description: fmt.Sprintf("Page references %d scripts, stylesheets and images", resources),
		},
	}
}

func bucketDuration(v, good, poor time.Duration) model.MetricStatus {
	switch {
	case v < good:
		return model.MetricGood
	case v < poor:
		return model.MetricNeedsImprovement
	default:
		return model.MetricPoor
	}
}

func bucketInt(v, good, poor int) model.MetricStatus {
	switch {
	case v < good:
		return model.MetricGood
	case v < poor:
		return model.MetricNeedsImprovement
	default:
		return model.MetricPoor
	}
}

func formatBytes(n int) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
