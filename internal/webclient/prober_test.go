package webclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raysh454/siteaudit/internal/logging"
)

func testProber(t *testing.T, ts *httptest.Server) *Prober {
	t.Helper()
	nhc, err := NewNetHTTPClient(DefaultConfig(), logging.NewNop(), ts.Client())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = nhc.Close() })
	return NewProber(nhc, ProberConfig{Timeout: 2 * time.Second, RatePerSecond: 1000, Concurrency: 4}, logging.NewNop())
}

func TestProber_Get_Reachable(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/open":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	p := testProber(t, ts)

	open := p.Get(context.Background(), ts.URL+"/open")
	if !open.OK() || !open.Reachable() {
		t.Errorf("open path: OK=%v Reachable=%v err=%v", open.OK(), open.Reachable(), open.Err)
	}

	closed := p.Get(context.Background(), ts.URL+"/missing")
	if !closed.OK() {
		t.Errorf("404 must still be OK (server answered): %v", closed.Err)
	}
	if closed.Reachable() {
		t.Error("404 must not count as exposure")
	}
}

func TestProber_Get_FailureIsAValue(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // refuse everything from here on

	nhc, _ := NewNetHTTPClient(DefaultConfig(), logging.NewNop(), nil)
	defer nhc.Close()
	p := NewProber(nhc, DefaultProberConfig(), logging.NewNop())

	out := p.Get(context.Background(), ts.URL)
	if out.OK() {
		t.Fatal("probe against closed server reported success")
	}
	if out.Reachable() {
		t.Error("failed probe must not be reachable")
	}
}

func TestProber_BatchGet_PreservesOrder(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/b" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	p := testProber(t, ts)
	urls := []string{ts.URL + "/a", ts.URL + "/b", ts.URL + "/c"}
	outcomes := p.BatchGet(context.Background(), urls)

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
	for i, u := range urls {
		if outcomes[i].URL != u {
			t.Errorf("outcome %d is %q, want %q", i, outcomes[i].URL, u)
		}
	}
	if outcomes[0].StatusCode != 200 || outcomes[1].StatusCode != 403 || outcomes[2].StatusCode != 200 {
		t.Errorf("unexpected statuses: %d %d %d",
			outcomes[0].StatusCode, outcomes[1].StatusCode, outcomes[2].StatusCode)
	}
	if hits.Load() != 3 {
		t.Errorf("server saw %d requests, want 3", hits.Load())
	}
}

func TestProber_SubmitForm(t *testing.T) {
	t.Parallel()

	var gotMethod, gotQuery, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			gotBody = r.PostForm.Encode()
		}
	}))
	defer ts.Close()

	p := testProber(t, ts)
	values := url.Values{"q": {"needle"}}

	out := p.SubmitForm(context.Background(), "get", ts.URL+"/search", values)
	if !out.OK() {
		t.Fatalf("GET submit: %v", out.Err)
	}
	if gotMethod != http.MethodGet || gotQuery != "q=needle" {
		t.Errorf("GET submit saw method=%q query=%q", gotMethod, gotQuery)
	}

	out = p.SubmitForm(context.Background(), "POST", ts.URL+"/search", values)
	if !out.OK() {
		t.Fatalf("POST submit: %v", out.Err)
	}
	if gotMethod != http.MethodPost || gotBody != "q=needle" {
		t.Errorf("POST submit saw method=%q body=%q", gotMethod, gotBody)
	}
}
