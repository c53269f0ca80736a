package bank

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// bankFile is the on-disk YAML layout of one grade's bank.
type bankFile struct {
	Grade         string         `yaml:"grade"`
	Openers       []string       `yaml:"openers"`
	Closers       []string       `yaml:"closers"`
	Attitude      map[int]string `yaml:"attitude"`
	Reading       map[int]string `yaml:"reading"`
	Writing       map[int]string `yaml:"writing"`
	ReadingTarget map[int]string `yaml:"reading_target"`
	WritingTarget map[int]string `yaml:"writing_target"`
}

func (f *bankFile) tables() map[Category]*map[int]string {
	return map[Category]*map[int]string{
		Attitude:      &f.Attitude,
		Reading:       &f.Reading,
		Writing:       &f.Writing,
		ReadingTarget: &f.ReadingTarget,
		WritingTarget: &f.WritingTarget,
	}
}

// Decode reads one YAML bank and validates it.
func Decode(r io.Reader) (SentenceBank, error) {
	var f bankFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return SentenceBank{}, fmt.Errorf("decode bank: %w", err)
	}
	g, err := ParseGradeLevel(f.Grade)
	if err != nil {
		return SentenceBank{}, err
	}
	b := SentenceBank{
		Grade:     g,
		Openers:   f.Openers,
		Closers:   f.Closers,
		Fragments: make(map[Category]map[ScoreBand]string, len(Categories())),
	}
	for cat, tbl := range f.tables() {
		m := make(map[ScoreBand]string, len(*tbl))
		for k, v := range *tbl {
			m[ScoreBand(k)] = v
		}
		b.Fragments[cat] = m
	}
	if err := b.Validate(); err != nil {
		return SentenceBank{}, fmt.Errorf("%s bank: %w", g, err)
	}
	return b, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(p []byte) (SentenceBank, error) { return Decode(bytes.NewReader(p)) }

// Encode writes b in the layout Decode accepts.
func Encode(w io.Writer, b SentenceBank) error {
	f := bankFile{Grade: b.Grade.String(), Openers: b.Openers, Closers: b.Closers}
	for cat, tbl := range f.tables() {
		m := make(map[int]string, len(b.Fragments[cat]))
		for band, text := range b.Fragments[cat] {
			m[int(band)] = text
		}
		*tbl = m
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}
