package security

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// libraryFingerprint extracts a version number from a well-known JS library
// filename.
type libraryFingerprint struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	re *regexp.Regexp
}

// wafFingerprint identifies a WAF/CDN by a response header, optionally
// requiring a substring of its value.
type wafFingerprint struct {
	Name     string `yaml:"name"`
	Header   string `yaml:"header"`
	Contains string `yaml:"contains"`
}

// checkCatalog is the data half of the battery: paths to probe, signatures to
// match and payloads to send.
type checkCatalog struct {
	SensitivePaths           []string             `yaml:"sensitive_paths"`
	DirectoryListingPatterns []string             `yaml:"directory_listing_patterns"`
	SQLErrorPatterns         []string             `yaml:"sql_error_patterns"`
	StackTracePatterns       []string             `yaml:"stack_trace_patterns"`
	Payloads                 map[string]string    `yaml:"payloads"`
	FuzzParams               []string             `yaml:"fuzz_params"`
	SSRFParams               []string             `yaml:"ssrf_params"`
	WebhookKeywords          []string             `yaml:"webhook_keywords"`
	JSLibraries              []libraryFingerprint `yaml:"js_libraries"`
	TracingHeaders           []string             `yaml:"tracing_headers"`
	RateLimitHeaders         []string             `yaml:"rate_limit_headers"`
	WAFFingerprints          []wafFingerprint     `yaml:"waf_fingerprints"`

	directoryListingRes []*regexp.Regexp
	sqlErrorRes         []*regexp.Regexp
	stackTraceRes       []*regexp.Regexp
}

func loadCatalog(raw []byte) (*checkCatalog, error) {
	var c checkCatalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("security: parsing catalog: %w", err)
	}

	var err error
	if c.directoryListingRes, err = compileAll(c.DirectoryListingPatterns); err != nil {
		return nil, err
	}
	if c.sqlErrorRes, err = compileAll(c.SQLErrorPatterns); err != nil {
		return nil, err
	}
	if c.stackTraceRes, err = compileAll(c.StackTracePatterns); err != nil {
		return nil, err
	}
	for i := range c.JSLibraries {
		re, err := regexp.Compile("(?i)" + c.JSLibraries[i].Pattern)
		if err != nil {
			return nil, fmt.Errorf("security: compiling library pattern %q: %w", c.JSLibraries[i].Pattern, err)
		}
		c.JSLibraries[i].re = re
	}
	return &c, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("security: compiling pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// The embedded catalog is compile-time data; failing to parse it is a
// programming error, so it loads once at init.
var catalog = func() *checkCatalog {
	c, err := loadCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}()

// matchAny returns the text of the first pattern match, if any.
func matchAny(res []*regexp.Regexp, text string) (string, bool) {
	for _, re := range res {
		if m := re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}
