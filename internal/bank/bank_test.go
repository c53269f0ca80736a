package bank_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-comments/internal/bank"
)

func TestParseGradeLevel(t *testing.T) {
	for _, in := range []string{"Year 7", "year7", "YEAR_7", " 7 "} {
		g, err := bank.ParseGradeLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, bank.Year7, g, in)
	}
	g, err := bank.ParseGradeLevel("Year 8")
	require.NoError(t, err)
	assert.Equal(t, "Year 8", g.String())
	assert.Equal(t, "year8", g.Key())

	_, err = bank.ParseGradeLevel("Year 12")
	assert.Error(t, err)
}

func TestParseScoreBand(t *testing.T) {
	b, err := bank.ParseScoreBand("85")
	require.NoError(t, err)
	assert.Equal(t, bank.ScoreBand(85), b)

	_, err = bank.ParseScoreBand("50")
	assert.Error(t, err)
	_, err = bank.ParseScoreBand("ninety")
	assert.Error(t, err)
}

func TestBuiltinBanksAreComplete(t *testing.T) {
	reg, err := bank.Builtin()
	require.NoError(t, err)

	for _, g := range bank.Grades() {
		t.Run(g.String(), func(t *testing.T) {
			b, err := reg.Bank(context.Background(), g)
			require.NoError(t, err)
			assert.Equal(t, g, b.Grade)
			assert.NoError(t, b.Validate())
			assert.Empty(t, b.Missing())
			assert.True(t, b.Complete())
		})
	}
}

func TestFragmentMissingBandIsLookupError(t *testing.T) {
	b := bank.SentenceBank{
		Grade:     bank.Year7,
		Fragments: map[bank.Category]map[bank.ScoreBand]string{bank.Reading: {90: "reads well"}},
	}

	got, err := b.Fragment(bank.Reading, 90)
	require.NoError(t, err)
	assert.Equal(t, "reads well", got)

	_, err = b.Fragment(bank.Reading, 85)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bank.ErrUnknownBand))

	var le *bank.LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, bank.Reading, le.Category)
	assert.Equal(t, bank.ScoreBand(85), le.Band)
	assert.Contains(t, err.Error(), "Year 7")
}

func TestValidate(t *testing.T) {
	t.Run("empty phrase lists", func(t *testing.T) {
		err := bank.SentenceBank{Grade: bank.Year8}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening")
		assert.Contains(t, err.Error(), "closing")
	})

	t.Run("band outside the enumeration", func(t *testing.T) {
		b := bank.SentenceBank{
			Grade:     bank.Year8,
			Openers:   []string{"This term,"},
			Closers:   []string{"Well done."},
			Fragments: map[bank.Category]map[bank.ScoreBand]string{bank.Attitude: {50: "tries"}},
		}
		err := b.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "band 50")
	})
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := bank.DecodeBytes([]byte("grade: Year 7\nopeners: [a]\nclosers: [b]\nspelling: {90: x}\n"))
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	reg, err := bank.Builtin()
	require.NoError(t, err)
	want := reg[bank.Year8]

	var buf bytes.Buffer
	require.NoError(t, bank.Encode(&buf, want))
	got, err := bank.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadDirAndChain(t *testing.T) {
	dir := t.TempDir()
	doc := `grade: Year 7
openers: ["Custom opener,"]
closers: ["Custom closer."]
attitude: {90: "works hard"}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "year7.yaml"), []byte(doc), 0o644))

	reg, err := bank.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, reg, 1)

	builtin, err := bank.Builtin()
	require.NoError(t, err)

	src := bank.Chain{reg, builtin}
	ctx := context.Background()

	y7, err := src.Bank(ctx, bank.Year7)
	require.NoError(t, err)
	assert.Equal(t, []string{"Custom opener,"}, y7.Openers)

	y8, err := src.Bank(ctx, bank.Year8)
	require.NoError(t, err)
	assert.Equal(t, builtin[bank.Year8].Openers, y8.Openers)

	_, err = bank.Chain{reg}.Bank(ctx, bank.Year8)
	assert.ErrorIs(t, err, bank.ErrBankNotFound)
}

func TestLoadDirRejectsMismatchedGrade(t *testing.T) {
	dir := t.TempDir()
	doc := "grade: Year 8\nopeners: [a]\nclosers: [b]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "year7.yaml"), []byte(doc), 0o644))

	_, err := bank.LoadDir(dir)
	assert.Error(t, err)
}
