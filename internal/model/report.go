package model

import "time"

// Status is the outcome of a single check.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
)

// MetricStatus is the outcome bucket for a performance metric.
type MetricStatus string

const (
	MetricGood             MetricStatus = "good"
	MetricNeedsImprovement MetricStatus = "needs-improvement"
	MetricPoor             MetricStatus = "poor"
)

// CheckResult is one named evaluation against the fetched document or
// response. Descriptions always carry concrete evidence (counts, header
// values). Recommendation is set only when the status indicates a problem.
type CheckResult struct {
	// Name is a stable identifier for the check.
	Name string `json:"name"`

	Status Status `json:"status"`

	// Description is the human-readable finding.
	Description string `json:"description"`

	// Recommendation is empty when Status is StatusPass.
	Recommendation string `json:"recommendation,omitempty"`
}

// Metric is a single derived performance measurement.
type Metric struct {
	Name   string       `json:"name"`
	Status MetricStatus `json:"status"`

	// Value is the display form of the measurement (e.g. "1834 ms").
	Value string `json:"value"`

	Description string `json:"description"`
}

// CategoryReport aggregates one category's checks. Issues holds the
// descriptions of failed checks in execution order; Score is a pure function
// of Checks (see Score()).
type CategoryReport struct {
	Score  int           `json:"score"`
	Issues []string      `json:"issues"`
	Checks []CheckResult `json:"checks"`
}

// PerformanceReport is the metric-shaped counterpart of CategoryReport.
type PerformanceReport struct {
	Score   int      `json:"score"`
	Issues  []string `json:"issues"`
	Metrics []Metric `json:"metrics"`
}

// ScanResult is the complete outcome of one scan. It is constructed exactly
// once, after all check modules have finished; callers never observe a
// partially populated value.
type ScanResult struct {
	// URL is the effective URL that was audited, which may differ from the
	// caller's raw input when protocol fallback corrected the scheme.
	URL string `json:"url"`

	// Date is the scan completion timestamp.
	Date time.Time `json:"date"`

	Security      CategoryReport    `json:"security"`
	Performance   PerformanceReport `json:"performance"`
	SEO           CategoryReport    `json:"seo"`
	Accessibility CategoryReport    `json:"accessibility"`

	// Recommendations is the ordered concatenation of every non-empty
	// recommendation across categories. Exact repeats are preserved.
	Recommendations []string `json:"recommendations"`
}
