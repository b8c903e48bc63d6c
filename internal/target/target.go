package target

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// ErrInvalidInput is returned when the raw input cannot be turned into an
// absolute URL even after protocol normalization.
var ErrInvalidInput = errors.New("target: input is not a valid absolute URL")

// ScanTarget is the resolved identity of the audit subject. It is created
// once per scan and mutated only by the fetch step, which commits whichever
// scheme actually worked; after that it is read-only.
type ScanTarget struct {
	// RawInput is the string exactly as the caller supplied it.
	RawInput string `json:"raw_input"`

	// EffectiveURL is always a syntactically valid absolute URL.
	EffectiveURL string `json:"effective_url"`

	// BaseOrigin is scheme://host, derived from EffectiveURL.
	BaseOrigin string `json:"base_origin"`
}

// Resolve normalizes raw input into a ScanTarget. Surrounding whitespace and
// trailing slashes are stripped; an explicit http/https scheme is used
// verbatim, otherwise https is the optimistic first guess and the fallback
// client is responsible for correcting it.
func Resolve(input string) (*ScanTarget, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidInput)
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidInput, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidInput, input)
	}

	normalize(u)

	t := &ScanTarget{
		RawInput:     input,
		EffectiveURL: u.String(),
	}
	t.BaseOrigin = origin(u)
	return t, nil
}

// normalize lowercases scheme/host, converts IDN hosts to punycode and drops
// default ports, the same canonical form used for every derived request.
func normalize(u *url.URL) {
	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""
	// Trailing slashes are dropped here, after the scheme and host have been
	// validated; trimming the raw input would eat the slashes of a bare
	// "https://" and smuggle the scheme remnant through as a host.
	u.Path = strings.TrimRight(u.Path, "/")

	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}

	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = host + ":" + port
	} else {
		u.Host = host
	}
}

func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// AlternateURL returns the same URL under the opposite scheme (https⇄http).
func (t *ScanTarget) AlternateURL() string {
	if strings.HasPrefix(t.EffectiveURL, "https://") {
		return "http://" + strings.TrimPrefix(t.EffectiveURL, "https://")
	}
	return "https://" + strings.TrimPrefix(t.EffectiveURL, "http://")
}

// CommitEffective locks in the URL that was proven reachable. Only the fetch
// step calls this.
func (t *ScanTarget) CommitEffective(effective string) error {
	u, err := url.Parse(effective)
	if err != nil {
		return fmt.Errorf("target: committing effective url: %w", err)
	}
	t.EffectiveURL = effective
	t.BaseOrigin = origin(u)
	return nil
}

// IsHTTPS reports whether the effective URL is served over TLS.
func (t *ScanTarget) IsHTTPS() bool {
	return strings.HasPrefix(t.EffectiveURL, "https://")
}

// OriginURL resolves a path like /robots.txt against the base origin.
func (t *ScanTarget) OriginURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return t.BaseOrigin + path
}

// ResolveRef resolves a possibly relative reference (e.g. a form action)
// against the effective URL.
func (t *ScanTarget) ResolveRef(ref string) (string, error) {
	base, err := url.Parse(t.EffectiveURL)
	if err != nil {
		return "", fmt.Errorf("target: parsing effective url: %w", err)
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("target: parsing reference %q: %w", ref, err)
	}
	return base.ResolveReference(r).String(), nil
}
