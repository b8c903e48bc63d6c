package webclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/target"
)

// fakeClient maps URL prefixes to canned responses or errors.
type fakeClient struct {
	responses map[string]*Response
	errs      map[string]error
	calls     []string
}

func (f *fakeClient) Do(_ context.Context, req *Request) (*Response, error) {
	f.calls = append(f.calls, req.URL)
	for prefix, err := range f.errs {
		if strings.HasPrefix(req.URL, prefix) {
			return nil, err
		}
	}
	for prefix, resp := range f.responses {
		if strings.HasPrefix(req.URL, prefix) {
			return resp, nil
		}
	}
	return nil, errors.New("no route")
}

func (f *fakeClient) Close() error { return nil }

func TestFallbackFetcher_HTTPSFailsHTTPSucceeds(t *testing.T) {
	t.Parallel()

	wc := &fakeClient{
		errs:      map[string]error{"https://": errors.New("dial tcp: connection refused")},
		responses: map[string]*Response{"http://": {StatusCode: 200, Body: []byte("ok")}},
	}
	f := NewFallbackFetcher(wc, logging.NewNop())

	tg, err := target.Resolve("example.com/page")
	if err != nil {
		t.Fatal(err)
	}

	resp, err := f.Fetch(context.Background(), tg)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(tg.EffectiveURL, "http://") {
		t.Errorf("effective URL not downgraded: %q", tg.EffectiveURL)
	}
	if tg.BaseOrigin != "http://example.com" {
		t.Errorf("BaseOrigin = %q", tg.BaseOrigin)
	}
}

func TestFallbackFetcher_BothFail_SurfacesOriginalError(t *testing.T) {
	t.Parallel()

	primary := errors.New("primary failure: no such host on https")
	wc := &fakeClient{
		errs: map[string]error{
			"https://": primary,
			"http://":  errors.New("secondary failure"),
		},
	}
	f := NewFallbackFetcher(wc, logging.NewNop())

	tg, _ := target.Resolve("example.com")
	_, err := f.Fetch(context.Background(), tg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "primary failure") {
		t.Errorf("error %q does not carry the original failure", err)
	}
	if strings.Contains(err.Error(), "secondary failure") {
		t.Errorf("error %q leaked the fallback failure", err)
	}
	if tg.EffectiveURL != "https://example.com" {
		t.Errorf("target mutated despite total failure: %q", tg.EffectiveURL)
	}
}

func TestFallbackFetcher_NonSuccessStatusIsNotAFailure(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not here"))
	}))
	defer ts.Close()

	nhc, err := NewNetHTTPClient(DefaultConfig(), logging.NewNop(), ts.Client())
	if err != nil {
		t.Fatal(err)
	}
	defer nhc.Close()

	f := NewFallbackFetcher(nhc, logging.NewNop())
	tg, _ := target.Resolve(ts.URL)

	resp, err := f.Fetch(context.Background(), tg)
	if err != nil {
		t.Fatalf("a 404 must be a valid fetch result, got error: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", resp.StatusCode)
	}
	if tg.EffectiveURL != ts.URL {
		t.Errorf("effective URL changed on primary success: %q", tg.EffectiveURL)
	}
}

func TestClassifyNetError_Taxonomy(t *testing.T) {
	t.Parallel()

	// DNS failure through a real transport.
	nhc, _ := NewNetHTTPClient(DefaultConfig(), logging.NewNop(), nil)
	defer nhc.Close()
	_, err := nhc.Get(context.Background(), "http://host.invalid./")
	if err == nil {
		t.Skip("resolver unexpectedly answered for .invalid")
	}
	if classified := ClassifyNetError(err); !errors.Is(classified, ErrHostNotFound) {
		t.Errorf("ClassifyNetError(%v) = %v, want ErrHostNotFound", err, classified)
	}

	if classified := ClassifyNetError(context.DeadlineExceeded); !errors.Is(classified, ErrTimeout) {
		t.Errorf("deadline not classified as timeout: %v", classified)
	}

	plain := errors.New("something else")
	if classified := ClassifyNetError(plain); classified != plain {
		t.Errorf("non-network error mutated: %v", classified)
	}
}
