package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/report"
	"github.com/mind-engage/mindengage-comments/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case report.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, bank.ErrBankNotFound), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func bandInts() []int {
	out := make([]int, len(bank.Bands))
	for i, b := range bank.Bands {
		out[i] = int(b)
	}
	return out
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
