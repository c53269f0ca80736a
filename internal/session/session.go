package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-comments/internal/bank"
)

// Entry is one generated comment kept in a session.
type Entry struct {
	Name      string          `json:"name"`
	Grade     bank.GradeLevel `json:"grade"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"created_at"`
}

// Line is the export form "<name>: <comment>".
func (e Entry) Line() string { return fmt.Sprintf("%s: %s", e.Name, e.Comment) }

// Session accumulates comments in submission order. It is a value: Append
// returns a new Session and leaves the receiver untouched, so callers thread
// it through each interaction instead of sharing mutable state.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []Entry   `json:"entries"`
}

func New() Session {
	return Session{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
}

func (s Session) Append(e Entry) Session {
	next := make([]Entry, len(s.Entries), len(s.Entries)+1)
	copy(next, s.Entries)
	s.Entries = append(next, e)
	return s
}

func (s Session) Len() int { return len(s.Entries) }

// Lines returns every entry as "<name>: <comment>", oldest first.
func (s Session) Lines() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Line()
	}
	return out
}
