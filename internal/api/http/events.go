package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	syncx "github.com/mind-engage/mindengage-comments/internal/sync"
)

// EventLister reads the audit log.
type EventLister interface {
	ListSession(ctx context.Context, sessionID string) ([]syncx.Event, error)
}

type eventView struct {
	Seq       int64     `json:"seq"`
	Type      string    `json:"type"`
	Key       string    `json:"key"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /api/sessions/{id}/events?limit=&offset=
func ListEventsHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)
		if limit <= 0 || limit > 1000 {
			limit = 100
		}
		if offset < 0 {
			offset = 0
		}
		list, err := events.ListSession(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "list events: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if offset > len(list) {
			offset = len(list)
		}
		list = list[offset:]
		if len(list) > limit {
			list = list[:limit]
		}
		out := make([]eventView, len(list))
		for i, e := range list {
			out[i] = eventView{
				Seq:       e.Seq,
				Type:      e.Type,
				Key:       e.Key,
				Data:      e.DataJSON,
				CreatedAt: time.Unix(e.CreatedAt, 0).UTC(),
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
