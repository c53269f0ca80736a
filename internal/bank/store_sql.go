package bank

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	phraseOpener = "opener"
	phraseCloser = "closer"
)

// SQLStore keeps uploaded banks in bank_fragments / bank_phrases.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// PutBank replaces everything stored for b.Grade in one transaction.
func (s *SQLStore) PutBank(ctx context.Context, b SentenceBank) error {
	if err := b.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	grade := b.Grade.Key()
	if _, err := tx.ExecContext(ctx, `DELETE FROM bank_fragments WHERE grade=$1`, grade); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bank_phrases WHERE grade=$1`, grade); err != nil {
		return err
	}

	now := time.Now().Unix()
	for cat, tbl := range b.Fragments {
		for band, text := range tbl {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO bank_fragments (grade,category,band,text,updated_at) VALUES ($1,$2,$3,$4,$5)`,
				grade, string(cat), int(band), text, now); err != nil {
				return fmt.Errorf("insert %s/%d: %w", cat, int(band), err)
			}
		}
	}
	for kind, list := range map[string][]string{phraseOpener: b.Openers, phraseCloser: b.Closers} {
		for i, text := range list {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO bank_phrases (grade,kind,position,text) VALUES ($1,$2,$3,$4)`,
				grade, kind, i, text); err != nil {
				return fmt.Errorf("insert %s %d: %w", kind, i, err)
			}
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Bank(ctx context.Context, g GradeLevel) (SentenceBank, error) {
	b := SentenceBank{Grade: g, Fragments: map[Category]map[ScoreBand]string{}}
	if err := s.loadFragments(ctx, &b); err != nil {
		return SentenceBank{}, err
	}
	if err := s.loadPhrases(ctx, &b); err != nil {
		return SentenceBank{}, err
	}
	if len(b.Fragments) == 0 && len(b.Openers) == 0 && len(b.Closers) == 0 {
		return SentenceBank{}, fmt.Errorf("%s: %w", g, ErrBankNotFound)
	}
	return b, nil
}

func (s *SQLStore) loadFragments(ctx context.Context, b *SentenceBank) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category,band,text FROM bank_fragments WHERE grade=$1`, b.Grade.Key())
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cat  string
			band int
			text string
		)
		if err := rows.Scan(&cat, &band, &text); err != nil {
			return err
		}
		c := Category(cat)
		if b.Fragments[c] == nil {
			b.Fragments[c] = map[ScoreBand]string{}
		}
		b.Fragments[c][ScoreBand(band)] = text
	}
	return rows.Err()
}

func (s *SQLStore) loadPhrases(ctx context.Context, b *SentenceBank) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind,text FROM bank_phrases WHERE grade=$1 ORDER BY kind, position`, b.Grade.Key())
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var kind, text string
		if err := rows.Scan(&kind, &text); err != nil {
			return err
		}
		switch kind {
		case phraseOpener:
			b.Openers = append(b.Openers, text)
		case phraseCloser:
			b.Closers = append(b.Closers, text)
		}
	}
	return rows.Err()
}

// DeleteBank drops a stored grade so lookups fall through to the next source.
func (s *SQLStore) DeleteBank(ctx context.Context, g GradeLevel) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bank_fragments WHERE grade=$1`, g.Key()); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM bank_phrases WHERE grade=$1`, g.Key())
	return err
}
