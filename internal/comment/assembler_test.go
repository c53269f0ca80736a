package comment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/comment"
)

func fixedBank() bank.SentenceBank {
	return bank.SentenceBank{
		Grade:   bank.Year7,
		Openers: []string{"This term,"},
		Closers: []string{"Well done."},
		Fragments: map[bank.Category]map[bank.ScoreBand]string{
			bank.Attitude:      {90: "works hard"},
			bank.Reading:       {90: "reads widely"},
			bank.Writing:       {90: "writes clearly"},
			bank.ReadingTarget: {90: "Read more poetry"},
			bank.WritingTarget: {90: "Plan each essay"},
		},
	}
}

func allNinety(name, gender string) comment.Request {
	return comment.Request{
		Name:          name,
		Pronouns:      comment.ResolvePronouns(gender),
		Attitude:      90,
		Reading:       90,
		Writing:       90,
		ReadingTarget: 90,
		WritingTarget: 90,
	}
}

func first(int) int { return 0 }

func TestAssembleEndToEnd(t *testing.T) {
	a := comment.New(comment.WithChooser(first))

	got, err := a.Assemble(fixedBank(), allNinety("Alex", "male"))
	require.NoError(t, err)

	want := strings.Join([]string{
		"This term, Alex works hard.",
		"In reading, he reads widely.",
		"In writing, he writes clearly.",
		"For the next term, he should read more poetry.",
		"Additionally, he should plan each essay.",
		"Well done.",
	}, " ")
	assert.Equal(t, want, got)
	assert.Equal(t, comment.DefaultTarget, a.Target())
}

func TestAssembleAddendum(t *testing.T) {
	a := comment.New(comment.WithChooser(first))
	req := allNinety("Sam", "female")
	req.Addendum = "  Needs to bring books to class."

	got, err := a.Assemble(fixedBank(), req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "This term, Sam works hard. needs to bring books to class. In reading, she reads widely."), got)
}

func TestAssembleBlankAddendumIgnored(t *testing.T) {
	a := comment.New(comment.WithChooser(first))
	req := allNinety("Sam", "female")
	req.Addendum = "   "

	got, err := a.Assemble(fixedBank(), req)
	require.NoError(t, err)
	assert.Contains(t, got, "works hard. In reading, she")
}

func TestAssembleEmptyNameProceeds(t *testing.T) {
	a := comment.New(comment.WithChooser(first))
	got, err := a.Assemble(fixedBank(), allNinety("", "other"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "This term,  works hard. In reading, they reads widely."), got)
}

func TestAssembleUnknownBand(t *testing.T) {
	a := comment.New()
	req := allNinety("Alex", "male")
	req.Writing = 85

	_, err := a.Assemble(fixedBank(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, bank.ErrUnknownBand)
	assert.Contains(t, err.Error(), "writing")
}

func TestAssembleNoPhrases(t *testing.T) {
	b := fixedBank()
	b.Closers = nil
	_, err := comment.New().Assemble(b, allNinety("Alex", "male"))
	assert.ErrorIs(t, err, comment.ErrNoPhrases)
}

func TestAssembleChooserSelectsPhrases(t *testing.T) {
	b := fixedBank()
	b.Openers = []string{"This term,", "Over the term,", "Lately,"}
	b.Closers = []string{"Well done.", "Great work."}

	last := func(n int) int { return n - 1 }
	got, err := comment.New(comment.WithChooser(last)).Assemble(b, allNinety("Alex", "male"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "Lately, Alex"))
	assert.True(t, strings.HasSuffix(got, "Great work."))

	wild := func(n int) int { return n + 1 }
	got, err = comment.New(comment.WithChooser(wild)).Assemble(b, allNinety("Alex", "male"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "Over the term, Alex"))
	assert.True(t, strings.HasSuffix(got, "Great work."))
}

func TestAssembleTruncates(t *testing.T) {
	a := comment.New(comment.WithChooser(first), comment.WithTarget(60))
	got, err := a.Assemble(fixedBank(), allNinety("Alex", "male"))
	require.NoError(t, err)
	assert.Equal(t, "This term, Alex works hard. In reading, he reads widely.", got)
}

func TestAssembleEveryBuiltinBand(t *testing.T) {
	reg, err := bank.Builtin()
	require.NoError(t, err)
	a := comment.New()

	for _, g := range bank.Grades() {
		b, err := reg.Bank(context.Background(), g)
		require.NoError(t, err)
		for _, band := range bank.Bands {
			req := comment.Request{
				Name:          "Jordan",
				Pronouns:      comment.ResolvePronouns("female"),
				Attitude:      band,
				Reading:       band,
				Writing:       band,
				ReadingTarget: band,
				WritingTarget: band,
				Addendum:      "Should ask for help when unsure.",
			}
			got, err := a.Assemble(b, req)
			require.NoError(t, err, "%s band %d", g, band)
			assert.NotEmpty(t, got)
			assert.LessOrEqual(t, comment.Length(got), comment.DefaultTarget)
			assert.Equal(t, got, comment.Truncate(got, comment.DefaultTarget))
		}
	}
}

func TestSeededChooserIsReproducible(t *testing.T) {
	c1, c2 := comment.SeededChooser(42), comment.SeededChooser(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, c1(7), c2(7))
	}
}
