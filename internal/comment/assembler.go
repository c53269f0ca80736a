package comment

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/mind-engage/mindengage-comments/internal/bank"
)

var ErrNoPhrases = errors.New("sentence bank has no opening or closing phrases")

// Chooser returns an index in [0, n). n is always > 0.
type Chooser func(n int) int

// Request carries one student's selections into the assembler.
type Request struct {
	Name          string
	Pronouns      Pronouns
	Attitude      bank.ScoreBand
	Reading       bank.ScoreBand
	Writing       bank.ScoreBand
	ReadingTarget bank.ScoreBand
	WritingTarget bank.ScoreBand
	Addendum      string // optional attitude next steps
}

// Assembler options

type Option func(*config)

type config struct {
	choose Chooser
	target int
}

func WithChooser(c Chooser) Option { return func(cfg *config) { cfg.choose = c } }
func WithTarget(n int) Option      { return func(cfg *config) { cfg.target = n } }

// Assembler builds comments from a bank. It holds no mutable state and is
// safe for concurrent use as long as the chooser is.
type Assembler struct {
	choose Chooser
	target int
}

func New(opts ...Option) *Assembler {
	cfg := &config{
		choose: rand.IntN,
		target: DefaultTarget,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.choose == nil {
		cfg.choose = rand.IntN
	}
	return &Assembler{choose: cfg.choose, target: cfg.target}
}

func (a *Assembler) Target() int { return a.target }

// Assemble produces the comment for req from b, truncated to the target.
func (a *Assembler) Assemble(b bank.SentenceBank, req Request) (string, error) {
	if len(b.Openers) == 0 || len(b.Closers) == 0 {
		return "", fmt.Errorf("%s: %w", b.Grade, ErrNoPhrases)
	}

	bands := [...]bank.ScoreBand{req.Attitude, req.Reading, req.Writing, req.ReadingTarget, req.WritingTarget}
	frag := make(map[bank.Category]string, len(bands))
	for i, cat := range bank.Categories() {
		s, err := b.Fragment(cat, bands[i])
		if err != nil {
			return "", err
		}
		frag[cat] = s
	}

	p := req.Pronouns.Subject
	opening := b.Openers[a.pick(len(b.Openers))]

	attitude := fmt.Sprintf("%s %s %s.", opening, req.Name, frag[bank.Attitude])
	if add := strings.TrimSpace(req.Addendum); add != "" {
		attitude += " " + LowercaseFirst(add)
	}

	parts := []string{
		attitude,
		fmt.Sprintf("In reading, %s %s.", p, frag[bank.Reading]),
		fmt.Sprintf("In writing, %s %s.", p, frag[bank.Writing]),
		fmt.Sprintf("For the next term, %s should %s.", p, LowercaseFirst(frag[bank.ReadingTarget])),
		fmt.Sprintf("Additionally, %s should %s.", p, LowercaseFirst(frag[bank.WritingTarget])),
		b.Closers[a.pick(len(b.Closers))],
	}
	return Truncate(strings.Join(parts, " "), a.target), nil
}

// pick guards against choosers that stray outside [0, n).
func (a *Assembler) pick(n int) int {
	i := a.choose(n)
	if i < 0 || i >= n {
		i = ((i % n) + n) % n
	}
	return i
}

// SeededChooser gives a reproducible sequence. Not safe for concurrent use.
func SeededChooser(seed uint64) Chooser {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.IntN
}
