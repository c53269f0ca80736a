package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeCommentGenerated = "CommentGenerated"
	TypeReportExported   = "ReportExported"
)

type Event struct {
	Seq       int64
	SessionID string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

// Recorder is the write side used by the report service.
type Recorder interface {
	Record(ctx context.Context, sessionID, typ string, data any) error
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.Key == "" {
		e.Key = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (session_id, typ, event_key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SessionID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

func (r *EventRepo) Record(ctx context.Context, sessionID, typ string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{SessionID: sessionID, Type: typ, DataJSON: string(buf)})
}

// ListSession returns a session's events oldest first.
func (r *EventRepo) ListSession(ctx context.Context, sessionID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, session_id, typ, event_key, data, created_at
		 FROM event_log WHERE session_id=$1 ORDER BY seq`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SessionID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Discard drops every event.
type Discard struct{}

func (Discard) Record(context.Context, string, string, any) error { return nil }
