package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/db"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	bankDir, target, seed, verbose = "", 0, 0, false
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func generateArgs(extra ...string) []string {
	args := []string{"generate", "--grade", "Year 7", "--name", "Alex", "--gender", "male",
		"--attitude", "90", "--reading", "85", "--writing", "80",
		"--reading-target", "75", "--writing-target", "70"}
	return append(args, extra...)
}

func TestGenerateSeeded(t *testing.T) {
	a, err := execute(t, "", generateArgs("--seed", "42")...)
	require.NoError(t, err)
	b, err := execute(t, "", generateArgs("--seed", "42")...)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Contains(t, a, "Alex")
	assert.Contains(t, a, "Character count (including spaces):")
	assert.Contains(t, a, "/ 499")
}

func TestGenerateTarget(t *testing.T) {
	out, err := execute(t, "", generateArgs("--seed", "1", "--target", "120")...)
	require.NoError(t, err)
	assert.Contains(t, out, "/ 120")
	comment := strings.SplitN(out, "\n", 2)[0]
	assert.LessOrEqual(t, len([]rune(comment)), 120)
}

func TestGenerateUnknownBand(t *testing.T) {
	_, err := execute(t, "", generateArgs("--attitude", "50")...)
	assert.ErrorIs(t, err, bank.ErrUnknownBand)
}

const students = `- name: Alex
  gender: male
  grade: Year 7
  attitude: 90
  reading: 85
  writing: 80
  reading_target: 75
  writing_target: 70
- name: Sam
  gender: female
  grade: year8
  attitude: 60
  reading: 55
  writing: 40
  reading_target: 0
  writing_target: 65
  addendum: Sam should read more widely outside class.
`

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "students.yaml")
	require.NoError(t, os.WriteFile(in, []byte(students), 0o644))

	txt := filepath.Join(dir, "report.txt")
	out, err := execute(t, "", "batch", "--input", in, "--output", txt, "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 comments")

	data, err := os.ReadFile(txt)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Alex: "))
	assert.True(t, strings.HasPrefix(lines[1], "Sam: "))

	docx := filepath.Join(dir, "report.docx")
	_, err = execute(t, "", "batch", "--input", in, "--output", docx)
	require.NoError(t, err)
	data, err = os.ReadFile(docx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))

	_, err = execute(t, "", "batch", "--input", in, "--output", filepath.Join(dir, "report.pdf"))
	assert.Error(t, err)
}

func TestBatchStopsOnMissingName(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "students.yaml")
	require.NoError(t, os.WriteFile(in, []byte(strings.Replace(students, "name: Sam", "name: ''", 1)), 0o644))

	_, err := execute(t, "", "batch", "--input", in, "--output", filepath.Join(dir, "r.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "student 2")
}

func TestBanksListAndShow(t *testing.T) {
	out, err := execute(t, "", "banks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "year7")
	assert.Contains(t, out, "year8")

	out, err = execute(t, "", "banks", "show", "--grade", "8")
	require.NoError(t, err)
	b, err := bank.DecodeBytes([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, bank.Year8, b.Grade)
}

func TestBanksCheck(t *testing.T) {
	out, err := execute(t, "", "banks", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Year 7: ok")

	reg, err := bank.Builtin()
	require.NoError(t, err)
	partial := reg[bank.Year7]
	partial.Fragments = map[bank.Category]map[bank.ScoreBand]string{
		bank.Attitude: partial.Fragments[bank.Attitude],
	}
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "year7.yaml"))
	require.NoError(t, err)
	require.NoError(t, bank.Encode(f, partial))
	require.NoError(t, f.Close())

	out, err = execute(t, "", "banks", "check", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "Year 7: missing reading band 90")
	assert.Contains(t, out, "Year 8: ok")
}

func TestBanksImport(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "comments.db") + "?_pragma=busy_timeout(5000)"
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", dsn)

	yamlDoc, err := execute(t, "", "banks", "show", "--grade", "Year 8")
	require.NoError(t, err)
	file := filepath.Join(dir, "year8.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yamlDoc), 0o644))

	out, err := execute(t, "", "banks", "import", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported Year 8")

	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	defer dbh.Close()
	got, err := bank.NewSQLStore(dbh).Bank(context.Background(), bank.Year8)
	require.NoError(t, err)
	assert.True(t, got.Complete())
}

func TestHashPassword(t *testing.T) {
	out, err := execute(t, "", "hash-password", "s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("s3cret")))

	out, err = execute(t, "from-stdin\n", "hash-password")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("from-stdin")))

	_, err = execute(t, "", "hash-password")
	assert.Error(t, err)
}
