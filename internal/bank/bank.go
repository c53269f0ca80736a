package bank

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownBand  = errors.New("score band not in sentence bank")
	ErrBankNotFound = errors.New("sentence bank not found")
)

// LookupError reports a (grade, category, band) combination with no fragment.
type LookupError struct {
	Grade    GradeLevel
	Category Category
	Band     ScoreBand
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: no %s fragment for band %d", e.Grade, e.Category, int(e.Band))
}

func (e *LookupError) Unwrap() error { return ErrUnknownBand }

// SentenceBank is the static fragment table for one grade level.
// Treat it as read-only once built; sources hand out shared values.
type SentenceBank struct {
	Grade     GradeLevel
	Fragments map[Category]map[ScoreBand]string
	Openers   []string
	Closers   []string
}

// Fragment returns the canned fragment for cat at band. A missing band is
// an error, never a default.
func (b SentenceBank) Fragment(cat Category, band ScoreBand) (string, error) {
	if s, ok := b.Fragments[cat][band]; ok {
		return s, nil
	}
	return "", &LookupError{Grade: b.Grade, Category: cat, Band: band}
}

// Validate checks the structural rules every bank must satisfy before it is
// served: known grade, non-empty opener and closer lists, enumerated bands only.
// A missing band is allowed here; it surfaces as a LookupError on use.
func (b SentenceBank) Validate() error {
	var errs []error
	if !b.Grade.Valid() {
		errs = append(errs, fmt.Errorf("unknown grade level %d", int(b.Grade)))
	}
	if len(nonBlank(b.Openers)) == 0 {
		errs = append(errs, errors.New("no opening phrases"))
	}
	if len(nonBlank(b.Closers)) == 0 {
		errs = append(errs, errors.New("no closing phrases"))
	}
	for cat, table := range b.Fragments {
		if !cat.Valid() {
			errs = append(errs, fmt.Errorf("unknown category %q", cat))
			continue
		}
		for band, text := range table {
			if !band.Valid() {
				errs = append(errs, fmt.Errorf("%s: band %d is not enumerated", cat, int(band)))
			}
			if strings.TrimSpace(text) == "" {
				errs = append(errs, fmt.Errorf("%s: band %d has an empty fragment", cat, int(band)))
			}
		}
	}
	return errors.Join(errs...)
}

// Missing lists every (category, band) pair the bank cannot serve.
func (b SentenceBank) Missing() []LookupError {
	var out []LookupError
	for _, cat := range Categories() {
		for _, band := range Bands {
			if _, ok := b.Fragments[cat][band]; !ok {
				out = append(out, LookupError{Grade: b.Grade, Category: cat, Band: band})
			}
		}
	}
	return out
}

// Complete is true when every category covers every enumerated band.
func (b SentenceBank) Complete() bool { return len(b.Missing()) == 0 }

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
