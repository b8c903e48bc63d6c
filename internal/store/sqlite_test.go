package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/raysh454/siteaudit/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(Config{Path: filepath.Join(t.TempDir(), "audit.db")}, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(url string, when time.Time) model.ScanResult {
	return model.ScanResult{
		URL:  url,
		Date: when,
		Security: model.NewCategoryReport([]model.CheckResult{
			{Name: "Crypto - HTTPS", Status: model.StatusPass, Description: "ok"},
			{Name: "Crypto - HSTS", Status: model.StatusFail, Description: "missing", Recommendation: "add it"},
		}),
		Performance:     model.NewPerformanceReport([]model.Metric{{Name: model.MetricLoadTime, Status: model.MetricGood, Value: "100ms", Description: "fast"}}),
		SEO:             model.NewCategoryReport(nil),
		Accessibility:   model.NewCategoryReport(nil),
		Recommendations: []string{"add it"},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	when := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	want := sampleResult("https://example.com", when)
	if err := s.Put(ctx, "scan-1", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, err := s.Get(ctx, "scan-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.ID != "scan-1" {
		t.Errorf("ID = %q, want scan-1", entry.ID)
	}
	if entry.Result.URL != want.URL {
		t.Errorf("URL = %q, want %q", entry.Result.URL, want.URL)
	}
	if entry.Result.Security.Score != 50 {
		t.Errorf("security score = %d, want 50", entry.Result.Security.Score)
	}
	if len(entry.Result.Security.Checks) != 2 {
		t.Errorf("got %d security checks, want 2", len(entry.Result.Security.Checks))
	}
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPutOverwritesSameID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleResult("https://a.example", time.Now().UTC())
	second := sampleResult("https://b.example", time.Now().UTC())
	if err := s.Put(ctx, "scan-1", first); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "scan-1", second); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	entry, err := s.Get(ctx, "scan-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Result.URL != "https://b.example" {
		t.Errorf("URL = %q, want the overwritten value", entry.Result.URL)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d rows after overwrite, want 1", len(list))
	}
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.Put(ctx, id, sampleResult("https://example.com/"+id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"new", "mid", "old"}
	if len(list) != len(want) {
		t.Fatalf("got %d rows, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("list[%d] = %q, want %q", i, list[i].ID, id)
		}
	}
	if list[0].Security != 50 {
		t.Errorf("summary security score = %d, want 50", list[0].Security)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "scan-1", sampleResult("https://example.com", time.Now().UTC())); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "scan-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "scan-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "scan-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}
