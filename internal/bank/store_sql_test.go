package bank_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/db"
)

func TestSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "banks.db") + "?_pragma=busy_timeout(5000)"
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	store := bank.NewSQLStore(dbh)

	_, err = store.Bank(ctx, bank.Year7)
	require.ErrorIs(t, err, bank.ErrBankNotFound)

	reg, err := bank.Builtin()
	require.NoError(t, err)
	want := reg[bank.Year7]
	require.NoError(t, store.PutBank(ctx, want))

	got, err := store.Bank(ctx, bank.Year7)
	require.NoError(t, err)
	assert.Equal(t, want.Openers, got.Openers)
	assert.Equal(t, want.Closers, got.Closers)
	assert.Equal(t, want.Fragments, got.Fragments)

	// replacing drops rows that are no longer present
	smaller := bank.SentenceBank{
		Grade:     bank.Year7,
		Openers:   []string{"Only opener,"},
		Closers:   []string{"Only closer."},
		Fragments: map[bank.Category]map[bank.ScoreBand]string{bank.Attitude: {90: "shines"}},
	}
	require.NoError(t, store.PutBank(ctx, smaller))
	got, err = store.Bank(ctx, bank.Year7)
	require.NoError(t, err)
	assert.Equal(t, smaller.Fragments, got.Fragments)
	assert.Equal(t, []string{"Only opener,"}, got.Openers)

	_, err = got.Fragment(bank.Reading, 90)
	assert.ErrorIs(t, err, bank.ErrUnknownBand)

	require.NoError(t, store.DeleteBank(ctx, bank.Year7))
	_, err = bank.Chain{store}.Bank(ctx, bank.Year7)
	assert.ErrorIs(t, err, bank.ErrBankNotFound)
}

func TestSQLStoreRejectsInvalidBank(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "b.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	err = bank.NewSQLStore(dbh).PutBank(ctx, bank.SentenceBank{Grade: bank.Year8})
	assert.Error(t, err)
}
