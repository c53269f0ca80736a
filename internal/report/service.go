package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/comment"
	"github.com/mind-engage/mindengage-comments/internal/export"
	"github.com/mind-engage/mindengage-comments/internal/session"
	"github.com/mind-engage/mindengage-comments/internal/storage"
	syncx "github.com/mind-engage/mindengage-comments/internal/sync"
)

// Result is one generated comment plus the numbers the form displays.
type Result struct {
	Comment string `json:"comment"`
	Length  int    `json:"length"`
	Target  int    `json:"target"`
}

type Option func(*Service)

func WithEvents(r syncx.Recorder) Option       { return func(s *Service) { s.events = r } }
func WithBlobStore(b storage.BlobStore) Option { return func(s *Service) { s.blobs = b } }
func WithLogger(l *zap.Logger) Option          { return func(s *Service) { s.log = l } }

// WithTitle sets the document title written into exported reports.
func WithTitle(t string) Option { return func(s *Service) { s.title = t } }

type Service struct {
	banks  bank.Source
	asm    *comment.Assembler
	events syncx.Recorder
	blobs  storage.BlobStore
	log    *zap.Logger
	title  string
}

func NewService(banks bank.Source, asm *comment.Assembler, opts ...Option) *Service {
	s := &Service{
		banks:  banks,
		asm:    asm,
		events: syncx.Discard{},
		log:    zap.NewNop(),
		title:  "English Report Comments",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Bank exposes the configured source to read-only callers (listing, UI).
func (s *Service) Bank(ctx context.Context, g bank.GradeLevel) (bank.SentenceBank, error) {
	return s.banks.Bank(ctx, g)
}

func (s *Service) Target() int { return s.asm.Target() }

// Preview generates a comment without touching any session.
func (s *Service) Preview(ctx context.Context, rec StudentRecord) (Result, error) {
	return s.generate(ctx, "", rec)
}

// Submit generates a comment and returns sess with it appended.
func (s *Service) Submit(ctx context.Context, sess session.Session, rec StudentRecord) (session.Session, Result, error) {
	if rec.request().Name == "" {
		return sess, Result{}, ErrNameRequired
	}
	res, err := s.generate(ctx, sess.ID, rec)
	if err != nil {
		return sess, Result{}, err
	}
	next := sess.Append(session.Entry{
		Name:      rec.request().Name,
		Grade:     rec.Grade,
		Comment:   res.Comment,
		CreatedAt: time.Now().UTC(),
	})
	return next, res, nil
}

func (s *Service) generate(ctx context.Context, sessionID string, rec StudentRecord) (Result, error) {
	if err := rec.validate(); err != nil {
		return Result{}, err
	}
	b, err := s.banks.Bank(ctx, rec.Grade)
	if err != nil {
		return Result{}, fmt.Errorf("load bank: %w", err)
	}
	text, err := s.asm.Assemble(b, rec.request())
	if err != nil {
		s.log.Debug("comment assembly failed", zap.Stringer("grade", rec.Grade), zap.Error(err))
		return Result{}, err
	}
	res := Result{Comment: text, Length: comment.Length(text), Target: s.asm.Target()}

	s.log.Info("comment generated",
		zap.String("session", sessionID),
		zap.Stringer("grade", rec.Grade),
		zap.Int("length", res.Length))
	s.record(ctx, sessionID, syncx.TypeCommentGenerated, map[string]any{
		"grade":          rec.Grade.String(),
		"attitude":       int(rec.Attitude),
		"reading":        int(rec.Reading),
		"writing":        int(rec.Writing),
		"reading_target": int(rec.ReadingTarget),
		"writing_target": int(rec.WritingTarget),
		"length":         res.Length,
	})
	return res, nil
}

// Export serializes every entry of sess as one paragraph each, in order.
// When a blob store is configured the document is also kept there.
func (s *Service) Export(ctx context.Context, sess session.Session, f export.Format) (export.Document, error) {
	doc, err := export.Build(f, s.title, sess.Lines())
	if err != nil {
		return export.Document{}, err
	}
	if s.blobs != nil && sess.ID != "" {
		key, err := s.blobs.Put(storage.ReportKey(sess.ID, doc.FileName), bytes.NewReader(doc.Data))
		if err != nil {
			return export.Document{}, fmt.Errorf("store report: %w", err)
		}
		s.log.Info("report stored", zap.String("session", sess.ID), zap.String("key", key))
	}
	s.record(ctx, sess.ID, syncx.TypeReportExported, map[string]any{
		"format":     string(doc.Format),
		"paragraphs": doc.Paragraphs,
		"bytes":      len(doc.Data),
	})
	return doc, nil
}

// record never fails the caller; the event log is best effort.
func (s *Service) record(ctx context.Context, sessionID, typ string, data any) {
	if err := s.events.Record(ctx, sessionID, typ, data); err != nil {
		s.log.Warn("event log append failed", zap.String("type", typ), zap.Error(err))
	}
}
