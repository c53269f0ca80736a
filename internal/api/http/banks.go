package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/report"
)

// BankWriter stores uploaded banks.
type BankWriter interface {
	PutBank(ctx context.Context, b bank.SentenceBank) error
	DeleteBank(ctx context.Context, g bank.GradeLevel) error
}

type bankSummary struct {
	Grade    string `json:"grade"`
	Key      string `json:"key"`
	Bands    []int  `json:"bands"`
	Complete bool   `json:"complete"`
	Missing  int    `json:"missing"`
}

type bankView struct {
	Grade     string                                      `json:"grade"`
	Openers   []string                                    `json:"openers"`
	Closers   []string                                    `json:"closers"`
	Fragments map[bank.Category]map[bank.ScoreBand]string `json:"fragments"`
}

// GET /api/banks
func ListBanksHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := make([]bankSummary, 0, len(bank.Grades()))
		for _, g := range bank.Grades() {
			s := bankSummary{Grade: g.String(), Key: g.Key(), Bands: bandInts()}
			b, err := svc.Bank(r.Context(), g)
			if err != nil && statusFor(err) != http.StatusNotFound {
				writeErr(w, err)
				return
			}
			if err == nil {
				s.Missing = len(b.Missing())
				s.Complete = s.Missing == 0
			}
			out = append(out, s)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /api/banks/{grade}[?format=yaml]
func GetBankHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := bank.ParseGradeLevel(chi.URLParam(r, "grade"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := svc.Bank(r.Context(), g)
		if err != nil {
			writeErr(w, err)
			return
		}
		if strings.EqualFold(r.URL.Query().Get("format"), "yaml") {
			w.Header().Set("Content-Type", "application/yaml")
			_ = bank.Encode(w, b)
			return
		}
		writeJSON(w, http.StatusOK, bankView{
			Grade:     b.Grade.String(),
			Openers:   b.Openers,
			Closers:   b.Closers,
			Fragments: b.Fragments,
		})
	}
}

// PUT /api/banks/{grade}  body: YAML bank document
func PutBankHandler(store BankWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := bank.ParseGradeLevel(chi.URLParam(r, "grade"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := bank.Decode(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if b.Grade != g {
			http.Error(w, "bank grade "+b.Grade.String()+" does not match "+g.String(), http.StatusBadRequest)
			return
		}
		if err := store.PutBank(r.Context(), b); err != nil {
			http.Error(w, "store bank: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, bankSummary{
			Grade:    g.String(),
			Key:      g.Key(),
			Bands:    bandInts(),
			Missing:  len(b.Missing()),
			Complete: b.Complete(),
		})
	}
}

// DELETE /api/banks/{grade}  stored bank is dropped; lookups fall back to the built-in one
func DeleteBankHandler(store BankWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := bank.ParseGradeLevel(chi.URLParam(r, "grade"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.DeleteBank(r.Context(), g); err != nil {
			http.Error(w, "delete bank: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
