package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-comments/internal/export"
	"github.com/mind-engage/mindengage-comments/internal/report"
	"github.com/mind-engage/mindengage-comments/internal/session"
)

type sessionView struct {
	ID      string          `json:"id"`
	Count   int             `json:"count"`
	Entries []session.Entry `json:"entries"`
	Lines   []string        `json:"lines"`
}

func viewOf(s session.Session) sessionView {
	entries := s.Entries
	if entries == nil {
		entries = []session.Entry{}
	}
	return sessionView{ID: s.ID, Count: s.Len(), Entries: entries, Lines: s.Lines()}
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (report.StudentRecord, error) {
	var rec report.StudentRecord
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	err := dec.Decode(&rec)
	return rec, err
}

// POST /api/comments  stateless generation
func PreviewHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := decodeRecord(w, r)
		if err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		res, err := svc.Preview(r.Context(), rec)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /api/sessions
func CreateSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := session.New()
		if err := store.Put(r.Context(), s); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(s))
	}
}

// GET /api/sessions/{id}
func GetSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

// DELETE /api/sessions/{id}
func DeleteSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/sessions/{id}/comments
func AddCommentHandler(svc *report.Service, store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		rec, err := decodeRecord(w, r)
		if err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		next, res, err := svc.Submit(r.Context(), s, rec)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := store.Put(r.Context(), next); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			report.Result
			Index int `json:"index"`
		}{res, next.Len() - 1})
	}
}

// GET /api/sessions/{id}/export?format=docx|txt
func ExportSessionHandler(svc *report.Service, store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		f, err := export.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		serveDocument(w, r, svc, s, f)
	}
}

func serveDocument(w http.ResponseWriter, r *http.Request, svc *report.Service, s session.Session, f export.Format) {
	doc, err := svc.Export(r.Context(), s, f)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(doc.FileName, `"`, "")+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	_, _ = w.Write(doc.Data)
}
