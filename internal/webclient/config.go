package webclient

import "time"

// Config controls the construction of a WebClient backend.
type Config struct {
	// Timeout bounds a single request, body read included.
	Timeout time.Duration

	// MaxRedirects caps redirect chains to avoid loops.
	MaxRedirects int

	// UserAgent identifies this tool in outbound requests. It is a
	// descriptive string, not a browser-spoofing one.
	UserAgent string
}

// DefaultConfig returns the defaults used for the primary page fetch.
func DefaultConfig() Config {
	return Config{
		Timeout:      10 * time.Second,
		MaxRedirects: 5,
		UserAgent:    "siteaudit/0.1 (+https://github.com/raysh454/siteaudit)",
	}
}
