package webclient

import (
	"context"
	"net/http"
	"time"
)

// WebClient is the outbound HTTP capability shared by the fetcher and every
// auxiliary probe. Alternative transports can be plugged in without touching
// callers.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	Status     string
	FetchedAt  time.Time

	// Duration is the wall-clock time of the round trip, body read included.
	Duration time.Duration
}
