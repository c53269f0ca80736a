package bank

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// Source supplies the bank for a grade level. Implementations must return an
// error matching ErrBankNotFound when they hold nothing for the grade.
type Source interface {
	Bank(ctx context.Context, g GradeLevel) (SentenceBank, error)
}

// Registry is the grade level -> bank lookup table.
type Registry map[GradeLevel]SentenceBank

func (r Registry) Bank(_ context.Context, g GradeLevel) (SentenceBank, error) {
	b, ok := r[g]
	if !ok {
		return SentenceBank{}, fmt.Errorf("%s: %w", g, ErrBankNotFound)
	}
	return b, nil
}

var (
	builtinOnce sync.Once
	builtin     Registry
	builtinErr  error
)

// Builtin returns the banks shipped with the binary.
func Builtin() (Registry, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = loadFS(builtinFS, "data")
	})
	return builtin, builtinErr
}

// LoadDir reads <dir>/<grade-key>.yaml for every supported grade. Grades
// without a file are absent from the result.
func LoadDir(dir string) (Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, dir string) (Registry, error) {
	reg := Registry{}
	for _, g := range Grades() {
		name := path.Join(dir, g.Key()+".yaml")
		f, err := fsys.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		b, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if b.Grade != g {
			return nil, fmt.Errorf("%s: file declares %s", name, b.Grade)
		}
		reg[g] = b
	}
	return reg, nil
}

// Chain asks each source in turn and returns the first bank found.
type Chain []Source

func (c Chain) Bank(ctx context.Context, g GradeLevel) (SentenceBank, error) {
	for _, s := range c {
		b, err := s.Bank(ctx, g)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrBankNotFound) {
			return SentenceBank{}, err
		}
	}
	return SentenceBank{}, fmt.Errorf("%s: %w", g, ErrBankNotFound)
}
