// ABOUTME: Tests for the Oura API client against a stub HTTP server.
// ABOUTME: Pagination, auth headers, sync windows, and dry-run behavior.
package oura

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/driver/internal/config"
	"github.com/harperreed/driver/internal/ingest"
	"github.com/harperreed/driver/internal/storage"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.OuraConfig{
		APIBase:        server.URL,
		APIToken:       "test-token",
		TimeoutSeconds: 5,
	}, nil)
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client
}

var (
	syncStart = time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)
	syncEnd   = time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
)

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(config.OuraConfig{}, nil); err != ErrTokenRequired {
		t.Errorf("err = %v, want ErrTokenRequired", err)
	}
}

func TestFetchWindow(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.URL.Query().Get("start_date"); got != "2026-02-13" {
			t.Errorf("start_date = %q", got)
		}
		if got := r.URL.Query().Get("end_date"); got != "2026-02-14" {
			t.Errorf("end_date = %q", got)
		}
		switch r.URL.Path {
		case "/v2/usercollection/sleep":
			w.Write([]byte(`{"data": [{"day": "2026-02-14", "total_sleep_duration": 28800, "score": 77}]}`))
		case "/v2/usercollection/daily_readiness":
			w.Write([]byte(`{"data": [{"day": "2026-02-14", "score": 82}]}`))
		case "/v2/usercollection/daily_activity":
			w.Write([]byte(`{"data": [{"day": "2026-02-14", "steps": 11200, "active_calories": 610}]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	payload, err := client.FetchWindow(context.Background(), syncStart, syncEnd)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(payload.Sleep) != 1 || payload.Sleep[0].Day != "2026-02-14" {
		t.Errorf("sleep = %+v", payload.Sleep)
	}
	if len(payload.Readiness) != 1 || payload.Readiness[0].Score == nil || *payload.Readiness[0].Score != 82 {
		t.Errorf("readiness = %+v", payload.Readiness)
	}
	if len(payload.Activity) != 1 || payload.Activity[0].Steps == nil || *payload.Activity[0].Steps != 11200 {
		t.Errorf("activity = %+v", payload.Activity)
	}
}

func TestFetchWindowPaginates(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/usercollection/sleep" {
			w.Write([]byte(`{"data": []}`))
			return
		}
		if r.URL.Query().Get("next_token") == "" {
			w.Write([]byte(`{"data": [{"day": "2026-02-13"}], "next_token": "page2"}`))
			return
		}
		w.Write([]byte(`{"data": [{"day": "2026-02-14"}]}`))
	})

	payload, err := client.FetchWindow(context.Background(), syncStart, syncEnd)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(payload.Sleep) != 2 {
		t.Fatalf("sleep entries = %d, want 2 across pages", len(payload.Sleep))
	}
	if payload.Sleep[0].Day != "2026-02-13" || payload.Sleep[1].Day != "2026-02-14" {
		t.Errorf("pages out of order: %+v", payload.Sleep)
	}
}

func TestFetchWindowErrorStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	})

	if _, err := client.FetchWindow(context.Background(), syncStart, syncEnd); err == nil {
		t.Error("expected an error for a 401 response")
	}
}

func TestSyncDryRun(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v2/usercollection/sleep" {
			w.Write([]byte(`{"data": [{"day": "2026-02-14", "total_sleep_duration": 28800}]}`))
			return
		}
		w.Write([]byte(`{"data": []}`))
	})

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	rec := ingest.NewReconciler(db, nil)

	result, err := client.Sync(context.Background(), rec, syncStart, syncEnd, true)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.Status != ingest.StatusDryRun {
		t.Errorf("status = %q, want dry_run", result.Status)
	}
	if result.Processed["sleep"] != 1 {
		t.Errorf("sleep = %d, want 1", result.Processed["sleep"])
	}

	if _, err := db.SleepRecordForDate(syncEnd); err == nil {
		t.Error("dry run must not write records")
	}
}

func TestSyncWrites(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v2/usercollection/sleep" {
			w.Write([]byte(`{"data": [{"day": "2026-02-14", "total_sleep_duration": 27000, "score": 71}]}`))
			return
		}
		w.Write([]byte(`{"data": []}`))
	})

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	rec := ingest.NewReconciler(db, nil)

	result, err := client.Sync(context.Background(), rec, syncStart, syncEnd, false)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.Status != ingest.StatusOK {
		t.Errorf("status = %q, want ok", result.Status)
	}

	record, err := db.SleepRecordForDate(syncEnd)
	if err != nil {
		t.Fatalf("record not stored: %v", err)
	}
	if record.DurationMin == nil || *record.DurationMin != 450 {
		t.Errorf("duration = %v, want 450", record.DurationMin)
	}
}

func TestDefaultWindow(t *testing.T) {
	start, end := DefaultWindow(3)
	if days := int(end.Sub(start).Hours()/24) + 1; days != 3 {
		t.Errorf("window = %d days, want 3", days)
	}

	start, end = DefaultWindow(0)
	if !start.Equal(end) {
		t.Errorf("clamped window should be a single day, got %v to %v", start, end)
	}
}
