package model

import "math"

// Score converts a check list into a 0-100 category score. Passes count in
// full, warnings half, fails not at all. An empty list is a vacuous pass and
// scores 100: a page with no forms skips its form checks entirely and must
// not be penalized for that.
func Score(checks []CheckResult) int {
	if len(checks) == 0 {
		return 100
	}
	var pass, warn float64
	for _, c := range checks {
		switch c.Status {
		case StatusPass:
			pass++
		case StatusWarning:
			warn++
		}
	}
	return int(math.Round(100 * (pass + 0.5*warn) / float64(len(checks))))
}

// ScoreMetrics applies the same formula to performance metrics, with "good"
// counting as a pass and "needs-improvement" as a warning.
func ScoreMetrics(metrics []Metric) int {
	checks := make([]CheckResult, 0, len(metrics))
	for _, m := range metrics {
		checks = append(checks, CheckResult{Status: m.checkStatus()})
	}
	return Score(checks)
}

func (m Metric) checkStatus() Status {
	switch m.Status {
	case MetricGood:
		return StatusPass
	case MetricNeedsImprovement:
		return StatusWarning
	default:
		return StatusFail
	}
}

// Issues lists the descriptions of failed checks, preserving execution order.
// Warnings contribute recommendations but are not issues.
func Issues(checks []CheckResult) []string {
	out := []string{}
	for _, c := range checks {
		if c.Status == StatusFail {
			out = append(out, c.Description)
		}
	}
	return out
}

// NewCategoryReport derives Score and Issues from the given checks.
func NewCategoryReport(checks []CheckResult) CategoryReport {
	if checks == nil {
		checks = []CheckResult{}
	}
	return CategoryReport{
		Score:  Score(checks),
		Issues: Issues(checks),
		Checks: checks,
	}
}

// NewPerformanceReport derives Score and Issues from the given metrics; a
// "poor" metric is an issue.
func NewPerformanceReport(metrics []Metric) PerformanceReport {
	if metrics == nil {
		metrics = []Metric{}
	}
	issues := []string{}
	for _, m := range metrics {
		if m.Status == MetricPoor {
			issues = append(issues, m.Description)
		}
	}
	return PerformanceReport{
		Score:   ScoreMetrics(metrics),
		Issues:  issues,
		Metrics: metrics,
	}
}

// CollectRecommendations gathers every non-empty recommendation in
// category-then-check execution order, then appends a canned remediation for
// each "poor" performance metric. Exact duplicate strings are deliberately
// not collapsed; downstream consumers rely on the observed ordering.
func CollectRecommendations(security, seo, accessibility []CheckResult, perf []Metric) []string {
	out := []string{}
	for _, group := range [][]CheckResult{security, seo, accessibility} {
		for _, c := range group {
			if c.Recommendation != "" {
				out = append(out, c.Recommendation)
			}
		}
	}
	for _, m := range perf {
		if m.Status != MetricPoor {
			continue
		}
		if rec := performanceRecommendation(m.Name); rec != "" {
			out = append(out, rec)
		}
	}
	return out
}

// performanceRecommendation maps a metric name to a fixed remediation string.
func performanceRecommendation(name string) string {
	switch name {
	case MetricLoadTime:
		return "Reduce page load time by enabling compression, caching static assets and trimming render-blocking resources"
	case MetricTTFB:
		return "Improve server response time with caching, a CDN or faster backend processing"
	case MetricPageSize:
		return "Reduce page weight by compressing images, minifying assets and removing unused code"
	case MetricResourceCount:
		return "Reduce the number of requested resources by bundling files and lazy-loading below-the-fold content"
	}
	return ""
}

// Metric names used across the performance module and the aggregator.
const (
	MetricLoadTime      = "Load Time"
	MetricTTFB          = "Time to First Byte"
	MetricPageSize      = "Page Size"
	MetricResourceCount = "Resource Count"
)
