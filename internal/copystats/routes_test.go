package copystats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func setupRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := setupTestStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r, store
}

func TestHTTPCounts(t *testing.T) {
	r, store := setupRouter(t)
	ctx := context.Background()

	for _, ev := range []Event{
		{Locale: "zh", Route: "/a", Sample: "a.js", Success: true},
		{Locale: "zh", Route: "/a", Sample: "a.js", Success: true},
		{Locale: "en", Route: "/b", Sample: "b.js", Success: false},
	} {
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/copies", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		Counts []Count `json:"counts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Counts) != 2 {
		t.Fatalf("counts = %d, want 2", len(body.Counts))
	}
	if body.Counts[0].Key != "a.js" || body.Counts[0].Copies != 2 {
		t.Errorf("first count = %+v", body.Counts[0])
	}
	if body.Counts[1].Failures != 1 {
		t.Errorf("second count = %+v", body.Counts[1])
	}
}

func TestHTTPEventsFilter(t *testing.T) {
	r, store := setupRouter(t)
	ctx := context.Background()

	for _, ev := range []Event{
		{Locale: "zh", Route: "/a", Sample: "a.js", Success: true},
		{Locale: "en", Route: "/b", Sample: "b.js", Source: SourceCLI, Success: true},
	} {
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/copies/events?source=cli", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		Events []Event `json:"events"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Events) != 1 || body.Events[0].Sample != "b.js" {
		t.Errorf("events = %+v", body.Events)
	}
}

func TestHTTPCountsEmpty(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/copies", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Body.String(); got != "{\"counts\":[]}\n" {
		t.Errorf("body = %q", got)
	}
}
