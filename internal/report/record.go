package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/comment"
)

var (
	ErrNameRequired  = errors.New("student name is required")
	ErrInvalidRecord = errors.New("invalid student record")
)

// StudentRecord is what the form collects for one student.
type StudentRecord struct {
	Name          string          `json:"name" yaml:"name"`
	Gender        string          `json:"gender" yaml:"gender"`
	Grade         bank.GradeLevel `json:"grade" yaml:"grade"`
	Attitude      bank.ScoreBand  `json:"attitude" yaml:"attitude"`
	Reading       bank.ScoreBand  `json:"reading" yaml:"reading"`
	Writing       bank.ScoreBand  `json:"writing" yaml:"writing"`
	ReadingTarget bank.ScoreBand  `json:"reading_target" yaml:"reading_target"`
	WritingTarget bank.ScoreBand  `json:"writing_target" yaml:"writing_target"`
	Addendum      string          `json:"addendum,omitempty" yaml:"addendum,omitempty"`
}

func (r StudentRecord) validate() error {
	if !r.Grade.Valid() {
		return fmt.Errorf("%w: grade level %d", ErrInvalidRecord, int(r.Grade))
	}
	return nil
}

func (r StudentRecord) request() comment.Request {
	return comment.Request{
		Name:          oneLine(r.Name),
		Pronouns:      comment.ResolvePronouns(r.Gender),
		Attitude:      r.Attitude,
		Reading:       r.Reading,
		Writing:       r.Writing,
		ReadingTarget: r.ReadingTarget,
		WritingTarget: r.WritingTarget,
		Addendum:      oneLine(r.Addendum),
	}
}

// oneLine collapses runs of whitespace, newlines included, to single spaces
// so every entry stays one line in the exported report.
func oneLine(s string) string { return strings.Join(strings.Fields(s), " ") }

// IsInputError reports whether err was caused by the caller's selections
// rather than by storage or configuration.
func IsInputError(err error) bool {
	return errors.Is(err, bank.ErrUnknownBand) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrInvalidRecord)
}
