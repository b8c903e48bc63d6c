package server_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/raysh454/siteaudit/internal/scanner"
)

func TestScanOverWebsocket(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	api := httptest.NewServer(s)
	t.Cleanup(api.Close)
	site := newTargetSite(t)

	started := startScan(t, api, site.URL)

	wsURL := "ws" + strings.TrimPrefix(api.URL, "http") + "/ws/scans/" + started.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	// First frame is a snapshot of the job itself.
	var job scanner.Job
	if err := conn.ReadJSON(&job); err != nil {
		t.Fatalf("reading job frame: %v", err)
	}
	if job.ID != started.ID {
		t.Fatalf("job frame id = %q, want %q", job.ID, started.ID)
	}

	// Then lifecycle events until the connection closes; the last decodable
	// frames are the done event and the final result.
	var sawDone bool
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var ev scanner.JobEvent
		if json.Unmarshal(raw, &ev) == nil && ev.Status == scanner.JobDone {
			sawDone = true
		}
	}
	if !sawDone {
		t.Error("never saw a done event on the websocket")
	}
}

func TestWebsocketUnknownJobRejected(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	api := httptest.NewServer(s)
	t.Cleanup(api.Close)

	wsURL := "ws" + strings.TrimPrefix(api.URL, "http") + "/ws/scans/no-such-id"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("handshake succeeded for an unknown job")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Errorf("handshake response = %v, want 404", resp)
	}
}
