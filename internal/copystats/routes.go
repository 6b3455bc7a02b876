package copystats

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts copy statistics endpoints under /api/copies.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/copies", func(r chi.Router) {
		r.Get("/", handleCounts(store))
		r.Get("/events", handleEvents(store))
	})
}

func filterFromRequest(r *http.Request) QueryFilter {
	q := r.URL.Query()

	filter := QueryFilter{
		Locale: q.Get("locale"),
		Route:  q.Get("route"),
		Sample: q.Get("sample"),
	}
	if v := q.Get("source"); v != "" {
		filter.Source = Source(v)
	}
	if v := q.Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Since = &t
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	return filter
}

func handleCounts(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := store.BySample(r.Context(), filterFromRequest(r))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if counts == nil {
			counts = []Count{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"counts": counts})
	}
}

func handleEvents(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := filterFromRequest(r)
		if filter.Limit == 0 {
			filter.Limit = 100
		}
		events, err := store.Query(r.Context(), filter)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if events == nil {
			events = []Event{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": events})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
